package repository

import (
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/RomanCsn/workshop-DFS/internal/httperr"
)

// fail logs the cause of a failed store call and hides it behind the
// generic message returned to callers.
func fail(log zerolog.Logger, op, message string, err error) error {
	log.Error().
		Err(err).
		Str("op", op).
		Bool("fk_violation", httperr.IsForeignKeyViolation(err)).
		Msg("store operation failed")
	return httperr.NewStoreError(op, message, err)
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
