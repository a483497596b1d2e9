package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RomanCsn/workshop-DFS/internal/auth"
	"github.com/RomanCsn/workshop-DFS/internal/httpresp"
)

type MeHandler struct {
	log zerolog.Logger
}

func NewMeHandler(log zerolog.Logger) *MeHandler {
	return &MeHandler{log: log.With().Str("handler", "me").Logger()}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	u, err := auth.CurrentUser(c)
	if err != nil {
		authError(c, h.log, "me", err)
		return
	}

	httpresp.OK(c, u)
}
