package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	MsgInvalidQuery  = "Invalid query parameters"
	MsgInvalidData   = "Invalid data"
	MsgInvalidID     = "Invalid or missing ID"
	MsgInternal      = "Internal server error"
	MsgUnauthorized  = "Unauthorized"
	MsgForbidden     = "Forbidden"
	MsgTooManyTries  = "Too many requests"
	MsgNoStorage     = "Storage not configured"
	MsgNoPayments    = "Payments not configured"
	MsgInvalidPeriod = "startDate must precede endDate"
)

type HTTPError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// FormErrors mirrors a flattened validation result: errors that belong to
// the whole payload and errors keyed by field.
type FormErrors struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func Write(c *gin.Context, status int, message string, details any) {
	c.JSON(status, HTTPError{
		Error:   message,
		Details: details,
	})
}

func BadRequest(c *gin.Context, message string, details any) {
	Write(c, http.StatusBadRequest, message, details)
}

func NotFound(c *gin.Context, message string) {
	Write(c, http.StatusNotFound, message, nil)
}

func Internal(c *gin.Context, message string) {
	if message == "" {
		message = MsgInternal
	}
	Write(c, http.StatusInternalServerError, message, nil)
}

func Unauthorized(c *gin.Context, message string) {
	Write(c, http.StatusUnauthorized, message, nil)
}

func Forbidden(c *gin.Context, message string) {
	Write(c, http.StatusForbidden, message, nil)
}

func Unavailable(c *gin.Context, message string) {
	Write(c, http.StatusServiceUnavailable, message, nil)
}

// Fields answers 400 with {success:false, errors:{formErrors, fieldErrors}}.
func Fields(c *gin.Context, fields map[string][]string) {
	if fields == nil {
		fields = map[string][]string{}
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"errors": FormErrors{
			FormErrors:  []string{},
			FieldErrors: fields,
		},
	})
}

// FromError maps an error returned by the data layer onto the envelope.
func FromError(c *gin.Context, err error, notFound string) {
	switch {
	case IsNotFound(err):
		NotFound(c, notFound)
	case IsForeignKeyViolation(err):
		BadRequest(c, MsgInvalidData, gin.H{"reference": []string{ForeignKeyDetail(err)}})
	default:
		var be BusinessError
		if errors.As(err, &be) {
			BadRequest(c, be.Error(), gin.H{"code": be.Code})
			return
		}
		Internal(c, err.Error())
	}
}
