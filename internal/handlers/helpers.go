package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RomanCsn/workshop-DFS/internal/auth"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/validators"
)

func queryOf(c *gin.Context) *validators.Query {
	return validators.NewQuery(c.Query)
}

// bindBody decodes the JSON body and answers 400 "Invalid data" on failure.
func bindBody(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.BadRequest(c, httperr.MsgInvalidData, validators.Details(err))
		return false
	}
	return true
}

// idParam reads the mandatory ?id= of DELETE routes.
func idParam(c *gin.Context) (string, bool) {
	id := c.Query("id")
	if !validators.IsUUID(id) {
		details := validators.FieldErrors{}
		details.Add("id", "id must be a valid UUID")
		httperr.BadRequest(c, httperr.MsgInvalidID, details)
		return "", false
	}
	return id, true
}

// actorID is the user behind the request, empty for anonymous calls.
func actorID(c *gin.Context) string {
	session, err := auth.CurrentSession(c)
	if err != nil {
		return ""
	}
	return session.UserID
}

func respondError(c *gin.Context, log zerolog.Logger, op string, err error, notFound string) {
	log.Error().Err(err).Str("op", op).Msg("request failed")
	httperr.FromError(c, err, notFound)
}
