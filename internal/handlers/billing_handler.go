package handlers

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RomanCsn/workshop-DFS/internal/audit"
	"github.com/RomanCsn/workshop-DFS/internal/domain/billing"
	"github.com/RomanCsn/workshop-DFS/internal/dto"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/httpresp"
	"github.com/RomanCsn/workshop-DFS/internal/metrics"
	"github.com/RomanCsn/workshop-DFS/internal/models"
	"github.com/RomanCsn/workshop-DFS/internal/payment"
	"github.com/RomanCsn/workshop-DFS/internal/validators"
)

const msgBillingNotFound = "Billing not found"

// Payments is the part of the payment gateway the billing routes use.
type Payments interface {
	Checkout(ctx context.Context, b *models.Billing) (*payment.Checkout, error)
	Resolve(ctx context.Context, paymentID string) (*payment.Resolution, error)
}

// ======================================================
// HANDLER
// ======================================================

type BillingHandler struct {
	repo     billing.Repository
	payments Payments
	audit    *audit.Dispatcher
	log      zerolog.Logger
}

// NewBillingHandler accepts a nil payments gateway; checkout then answers 503.
func NewBillingHandler(
	repo billing.Repository,
	payments Payments,
	audit *audit.Dispatcher,
	log zerolog.Logger,
) *BillingHandler {
	return &BillingHandler{
		repo:     repo,
		payments: payments,
		audit:    audit,
		log:      log.With().Str("handler", "billing").Logger(),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBillingRequest struct {
	Date      *validators.Date `json:"date" binding:"required"`
	Situation string           `json:"situation" binding:"omitempty,oneof=PAYED UNPAYED"`
}

type UpdateBillingRequest struct {
	ID        string           `json:"id" binding:"required,uuid"`
	Date      *validators.Date `json:"date"`
	Situation *string          `json:"situation" binding:"omitempty,oneof=PAYED UNPAYED"`
}

type CheckoutRequest struct {
	ID string `json:"id" binding:"required,uuid"`
}

// ======================================================
// GET /api/billing
// ======================================================

func (h *BillingHandler) List(c *gin.Context) {
	q := queryOf(c)
	take, skip := q.Pagination(validators.DefaultTake, validators.MaxTake)
	includeServices := q.Bool("includeServices")
	start := q.Date("startDate")
	end := q.Date("endDate")
	id := q.UUID("id")
	userID := q.String("userId")

	if !q.Valid() {
		httperr.BadRequest(c, httperr.MsgInvalidQuery, q.Errors)
		return
	}

	ctx := c.Request.Context()

	if id != "" {
		if includeServices {
			b, err := h.repo.GetBillingWithServices(ctx, id)
			if err != nil {
				respondError(c, h.log, "get_billing_with_services", err, msgBillingNotFound)
				return
			}
			if b == nil {
				httperr.NotFound(c, msgBillingNotFound)
				return
			}
			httpresp.OK(c, dto.BillingDetail(b))
			return
		}

		b, err := h.repo.GetBillingByID(ctx, id)
		if err != nil {
			respondError(c, h.log, "get_billing", err, msgBillingNotFound)
			return
		}
		if b == nil {
			httperr.NotFound(c, msgBillingNotFound)
			return
		}
		httpresp.OK(c, b)
		return
	}

	var (
		billings []models.Billing
		err      error
	)

	switch {
	case userID != "":
		billings, err = h.repo.GetBillingsByUserID(ctx, userID, take, skip)
	case start != nil && end != nil:
		if start.After(*end) {
			httperr.BadRequest(c, httperr.MsgInvalidPeriod, nil)
			return
		}
		billings, err = h.repo.GetBillingsByDateRange(ctx, *start, *end, take, skip)
	default:
		billings, err = h.repo.GetAllBillings(ctx, take, skip)
	}

	if err != nil {
		respondError(c, h.log, "list_billings", err, msgBillingNotFound)
		return
	}
	if billings == nil {
		billings = []models.Billing{}
	}

	httpresp.OK(c, billings)
}

// ======================================================
// GET /api/billing/count
// ======================================================

func (h *BillingHandler) Count(c *gin.Context) {
	count, err := h.repo.GetBillingCount(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "count_billings", err, msgBillingNotFound)
		return
	}
	httpresp.OK(c, count)
}

// ======================================================
// POST /api/billing
// ======================================================

func (h *BillingHandler) Create(c *gin.Context) {
	var req CreateBillingRequest
	if !bindBody(c, &req) {
		return
	}

	situation := req.Situation
	if situation == "" {
		situation = string(billing.SituationUnpayed)
	}

	created, err := h.repo.CreateBilling(c.Request.Context(), &models.Billing{
		Date:      req.Date.Time,
		Situation: situation,
	})
	if err != nil {
		respondError(c, h.log, "create_billing", err, msgBillingNotFound)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(actorID(c)),
		Action:   "billing_created",
		Entity:   "billing",
		EntityID: audit.Ref(created.ID),
	})

	httpresp.Created(c, created)
}

// ======================================================
// PUT /api/billing
// ======================================================

func (h *BillingHandler) Update(c *gin.Context) {
	var req UpdateBillingRequest
	if !bindBody(c, &req) {
		return
	}

	var patch billing.Patch
	if req.Date != nil {
		d := req.Date.Time
		patch.Date = &d
	}
	if req.Situation != nil {
		s := billing.Situation(*req.Situation)
		patch.Situation = &s
	}

	updated, err := h.repo.UpdateBilling(c.Request.Context(), req.ID, patch)
	if err != nil {
		respondError(c, h.log, "update_billing", err, msgBillingNotFound)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(actorID(c)),
		Action:   "billing_updated",
		Entity:   "billing",
		EntityID: audit.Ref(updated.ID),
	})

	httpresp.OK(c, updated)
}

// ======================================================
// DELETE /api/billing?id=
// ======================================================

func (h *BillingHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	deleted, err := h.repo.DeleteBilling(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "delete_billing", err, msgBillingNotFound)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(actorID(c)),
		Action:   "billing_deleted",
		Entity:   "billing",
		EntityID: audit.Ref(id),
	})

	httpresp.WithMessage(c, deleted, "Billing deleted successfully")
}

// ======================================================
// POST /api/billing/checkout
// ======================================================

func (h *BillingHandler) Checkout(c *gin.Context) {
	if h.payments == nil {
		httperr.Unavailable(c, httperr.MsgNoPayments)
		return
	}

	var req CheckoutRequest
	if !bindBody(c, &req) {
		return
	}

	b, err := h.repo.GetBillingWithServices(c.Request.Context(), req.ID)
	if err != nil {
		respondError(c, h.log, "checkout_billing", err, msgBillingNotFound)
		return
	}
	if b == nil {
		httperr.NotFound(c, msgBillingNotFound)
		return
	}

	checkout, err := h.payments.Checkout(c.Request.Context(), b)
	switch {
	case errors.Is(err, payment.ErrAlreadyPaid), errors.Is(err, payment.ErrNothingToPay):
		httperr.BadRequest(c, err.Error(), nil)
		return
	case errors.Is(err, payment.ErrDisabled):
		httperr.Unavailable(c, httperr.MsgNoPayments)
		return
	case err != nil:
		respondError(c, h.log, "checkout_billing", err, msgBillingNotFound)
		return
	}

	httpresp.OK(c, checkout)
}

// ======================================================
// POST /api/billing/webhook
// ======================================================

type paymentNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Webhook receives Mercado Pago notifications. Anything that is not an
// approved payment for a known billing is acknowledged and ignored.
func (h *BillingHandler) Webhook(c *gin.Context) {
	if h.payments == nil {
		httperr.Unavailable(c, httperr.MsgNoPayments)
		return
	}

	var n paymentNotification
	if err := c.ShouldBindJSON(&n); err != nil && !errors.Is(err, io.EOF) {
		h.log.Debug().Err(err).Msg("webhook body not decoded, reading query parameters")
	}
	if n.Type == "" {
		n.Type = c.Query("type")
	}
	if n.Data.ID == "" {
		n.Data.ID = c.Query("data.id")
	}

	if n.Type != "payment" || n.Data.ID == "" {
		httpresp.OK(c, gin.H{"handled": false})
		return
	}

	ctx := c.Request.Context()

	res, err := h.payments.Resolve(ctx, n.Data.ID)
	if errors.Is(err, payment.ErrInvalidPayment) {
		httperr.BadRequest(c, err.Error(), nil)
		return
	}
	if err != nil {
		respondError(c, h.log, "resolve_payment", err, msgBillingNotFound)
		return
	}

	if !res.Approved || !validators.IsUUID(res.BillingID) {
		h.log.Info().
			Int("payment_id", res.PaymentID).
			Str("status", res.Status).
			Msg("payment notification ignored")
		httpresp.OK(c, gin.H{"handled": false})
		return
	}

	payed := billing.SituationPayed
	updated, err := h.repo.UpdateBilling(ctx, res.BillingID, billing.Patch{Situation: &payed})
	if err != nil {
		respondError(c, h.log, "mark_billing_payed", err, msgBillingNotFound)
		return
	}

	metrics.BillingPaid()
	h.audit.Dispatch(audit.Event{
		Action:   "billing_paid",
		Entity:   "billing",
		EntityID: audit.Ref(updated.ID),
		Metadata: map[string]any{"paymentId": res.PaymentID},
	})

	httpresp.OK(c, gin.H{"handled": true, "billing": updated})
}
