package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/httpresp"
	"github.com/RomanCsn/workshop-DFS/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewAuditLogsHandler(db *gorm.DB, log zerolog.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, log: log.With().Str("handler", "audit_logs").Logger()}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	q := queryOf(c)
	take, skip := q.Pagination(50, 200)
	action := q.String("action")
	entity := q.String("entity")
	userID := q.UUID("userId")
	from := q.Date("from")
	to := q.Date("to")

	if !q.Valid() {
		httperr.BadRequest(c, httperr.MsgInvalidQuery, q.Errors)
		return
	}

	// --------------------------------------------------
	// Query base
	// --------------------------------------------------

	tx := h.db.
		WithContext(c.Request.Context()).
		Model(&models.AuditLog{})

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	if action != "" {
		tx = tx.Where("action = ?", action)
	}

	if entity != "" {
		tx = tx.Where("entity = ?", entity)
	}

	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}

	if from != nil {
		tx = tx.Where("created_at >= ?", *from)
	}

	if to != nil {
		tx = tx.Where("created_at < ?", to.Add(24*time.Hour))
	}

	// --------------------------------------------------
	// Total
	// --------------------------------------------------

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		h.log.Error().Err(err).Msg("count audit logs failed")
		httperr.Internal(c, "Failed to count the audit logs.")
		return
	}

	// --------------------------------------------------
	// Listing
	// --------------------------------------------------

	var logs []models.AuditLog
	if err := tx.
		Order("created_at DESC").
		Limit(take).
		Offset(skip).
		Find(&logs).Error; err != nil {

		h.log.Error().Err(err).Msg("list audit logs failed")
		httperr.Internal(c, "Failed to list the audit logs.")
		return
	}

	httpresp.Page(c, logs, total, take, skip)
}
