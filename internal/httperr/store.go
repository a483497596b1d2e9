package httperr

import "errors"

// ErrNotFound is returned by repositories when an update or delete
// targets a row that does not exist.
var ErrNotFound = errors.New("record not found")

// StoreError is the generic error returned by the data access layer.
// Error() exposes only Message; the cause stays reachable through Unwrap.
type StoreError struct {
	Op      string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	return e.Message
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op, message string, err error) error {
	return &StoreError{Op: op, Message: message, Err: err}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
