package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RomanCsn/workshop-DFS/internal/audit"
	"github.com/RomanCsn/workshop-DFS/internal/domain/performed"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/httpresp"
	"github.com/RomanCsn/workshop-DFS/internal/models"
	"github.com/RomanCsn/workshop-DFS/internal/validators"
)

const msgServiceNotFound = "Service not found"

type ServiceHandler struct {
	repo  performed.Repository
	audit *audit.Dispatcher
	log   zerolog.Logger
}

func NewServiceHandler(
	repo performed.Repository,
	audit *audit.Dispatcher,
	log zerolog.Logger,
) *ServiceHandler {
	return &ServiceHandler{
		repo:  repo,
		audit: audit,
		log:   log.With().Str("handler", "services").Logger(),
	}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	ServiceType string   `json:"serviceType" binding:"omitempty,oneof=CARE LESSON"`
	BillingID   string   `json:"billingId" binding:"omitempty,uuid"`
	UserID      string   `json:"userId" binding:"required,uuid"`
	ServiceID   string   `json:"serviceId" binding:"required,uuid"`
	Amount      *float64 `json:"amount" binding:"omitempty,gte=0"`
}

type UpdateServiceRequest struct {
	ID          string   `json:"id" binding:"required,uuid"`
	ServiceType *string  `json:"serviceType" binding:"omitempty,oneof=CARE LESSON"`
	BillingID   *string  `json:"billingId" binding:"omitempty,uuid"`
	UserID      *string  `json:"userId" binding:"omitempty,uuid"`
	ServiceID   *string  `json:"serviceId" binding:"omitempty,uuid"`
	Amount      *float64 `json:"amount" binding:"omitempty,gte=0"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	q := queryOf(c)
	take, skip := q.Pagination(validators.DefaultTake, validators.MaxTake)
	id := q.UUID("id")

	if !q.Valid() {
		httperr.BadRequest(c, httperr.MsgInvalidQuery, q.Errors)
		return
	}

	ctx := c.Request.Context()

	if id != "" {
		s, err := h.repo.GetPerformedServiceByID(ctx, id)
		if err != nil {
			respondError(c, h.log, "get_service", err, msgServiceNotFound)
			return
		}
		if s == nil {
			httperr.NotFound(c, msgServiceNotFound)
			return
		}
		httpresp.OK(c, s)
		return
	}

	services, err := h.repo.GetAllPerformedServices(ctx, take, skip)
	if err != nil {
		respondError(c, h.log, "list_services", err, msgServiceNotFound)
		return
	}
	if services == nil {
		services = []models.PerformedService{}
	}

	httpresp.OK(c, services)
}

// Create opens a new billing for the service when billingId is absent.
func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if !bindBody(c, &req) {
		return
	}

	serviceType := req.ServiceType
	if serviceType == "" {
		serviceType = string(performed.DefaultType())
	}

	s := &models.PerformedService{
		BillingID:   req.BillingID,
		UserID:      req.UserID,
		ServiceID:   req.ServiceID,
		ServiceType: serviceType,
	}
	if req.Amount != nil {
		s.Amount = *req.Amount
	}

	var (
		created *models.PerformedService
		err     error
	)
	if req.BillingID == "" {
		created, err = h.repo.CreatePerformedServiceWithBilling(c.Request.Context(), s)
	} else {
		created, err = h.repo.CreatePerformedService(c.Request.Context(), s)
	}
	if err != nil {
		respondError(c, h.log, "create_service", err, msgServiceNotFound)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(actorID(c)),
		Action:   "service_created",
		Entity:   "performed_service",
		EntityID: audit.Ref(created.ID),
		Metadata: map[string]any{"billingId": created.BillingID, "amount": created.Amount},
	})

	httpresp.Created(c, created)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	var req UpdateServiceRequest
	if !bindBody(c, &req) {
		return
	}

	patch := performed.Patch{
		BillingID: req.BillingID,
		UserID:    req.UserID,
		ServiceID: req.ServiceID,
		Amount:    req.Amount,
	}
	if req.ServiceType != nil {
		t := performed.ServiceType(*req.ServiceType)
		patch.ServiceType = &t
	}

	updated, err := h.repo.UpdatePerformedService(c.Request.Context(), req.ID, patch)
	if err != nil {
		respondError(c, h.log, "update_service", err, msgServiceNotFound)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(actorID(c)),
		Action:   "service_updated",
		Entity:   "performed_service",
		EntityID: audit.Ref(updated.ID),
	})

	httpresp.OK(c, updated)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	deleted, err := h.repo.DeletePerformedService(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "delete_service", err, msgServiceNotFound)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(actorID(c)),
		Action:   "service_deleted",
		Entity:   "performed_service",
		EntityID: audit.Ref(id),
	})

	httpresp.WithMessage(c, deleted, "Service deleted successfully")
}
