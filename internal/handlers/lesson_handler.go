package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RomanCsn/workshop-DFS/internal/audit"
	"github.com/RomanCsn/workshop-DFS/internal/domain/lesson"
	"github.com/RomanCsn/workshop-DFS/internal/domain/performed"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/httpresp"
	"github.com/RomanCsn/workshop-DFS/internal/models"
	uclesson "github.com/RomanCsn/workshop-DFS/internal/usecase/lesson"
	"github.com/RomanCsn/workshop-DFS/internal/validators"
)

const msgLessonNotFound = "Lesson not found"

// ======================================================
// HANDLER
// ======================================================

type LessonHandler struct {
	repo  lesson.Repository
	book  *uclesson.BookLesson
	audit *audit.Dispatcher
	log   zerolog.Logger
}

func NewLessonHandler(
	repo lesson.Repository,
	book *uclesson.BookLesson,
	audit *audit.Dispatcher,
	log zerolog.Logger,
) *LessonHandler {
	return &LessonHandler{
		repo:  repo,
		book:  book,
		audit: audit,
		log:   log.With().Str("handler", "lessons").Logger(),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateLessonRequest struct {
	Date       *validators.Date `json:"date" binding:"required"`
	Desc       string           `json:"desc" binding:"required,min=1,max=1000"`
	Status     string           `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS FINISHED"`
	MonitorID  string           `json:"monitorId" binding:"required,uuid"`
	CustomerID string           `json:"customerId" binding:"required,uuid"`
	HorseID    string           `json:"horseId" binding:"required,uuid"`
}

type UpdateLessonRequest struct {
	ID         string           `json:"id" binding:"required,uuid"`
	Date       *validators.Date `json:"date"`
	Desc       *string          `json:"desc" binding:"omitempty,min=1,max=1000"`
	Status     *string          `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS FINISHED"`
	MonitorID  *string          `json:"monitorId" binding:"omitempty,uuid"`
	CustomerID *string          `json:"customerId" binding:"omitempty,uuid"`
	HorseID    *string          `json:"horseId" binding:"omitempty,uuid"`
}

type UpdateLessonStatusRequest struct {
	ID     string `json:"id" binding:"required,uuid"`
	Status string `json:"status" binding:"required,oneof=PENDING IN_PROGRESS FINISHED"`
}

type BookLessonRequest struct {
	CreateLessonRequest
	BillingID   string  `json:"billingId" binding:"omitempty,uuid"`
	Amount      float64 `json:"amount" binding:"gte=0"`
	ServiceType string  `json:"serviceType" binding:"omitempty,oneof=LESSON CARE"`
}

// ======================================================
// GET /api/lessons
// ======================================================

// List applies the first filter present, in the order id, customerId,
// monitorId, status, startDate+endDate.
func (h *LessonHandler) List(c *gin.Context) {
	q := queryOf(c)
	take, skip := q.Pagination(validators.DefaultTake, validators.MaxTake)
	status := q.Enum("status", lessonStatusNames()...)
	start := q.Date("startDate")
	end := q.Date("endDate")
	customerID := q.UUID("customerId")
	monitorID := q.UUID("monitorId")
	id := q.UUID("id")

	if !q.Valid() {
		httperr.BadRequest(c, httperr.MsgInvalidQuery, q.Errors)
		return
	}

	ctx := c.Request.Context()

	if id != "" {
		l, err := h.repo.GetLessonByID(ctx, id)
		if err != nil {
			respondError(c, h.log, "get_lesson", err, msgLessonNotFound)
			return
		}
		if l == nil {
			httperr.NotFound(c, msgLessonNotFound)
			return
		}
		httpresp.OK(c, l)
		return
	}

	var (
		lessons []models.Lesson
		err     error
	)

	switch {
	case customerID != "":
		lessons, err = h.repo.GetLessonsByCustomerID(ctx, customerID, take, skip)
	case monitorID != "":
		lessons, err = h.repo.GetLessonsByMonitorID(ctx, monitorID, take, skip)
	case status != "":
		lessons, err = h.repo.GetLessonsByStatus(ctx, lesson.Status(status), take, skip)
	case start != nil && end != nil:
		if start.After(*end) {
			httperr.BadRequest(c, httperr.MsgInvalidPeriod, nil)
			return
		}
		lessons, err = h.repo.GetLessonsByDateRange(ctx, *start, *end, take, skip)
	default:
		lessons, err = h.repo.GetAllLessons(ctx, take, skip)
	}

	if err != nil {
		respondError(c, h.log, "list_lessons", err, msgLessonNotFound)
		return
	}
	if lessons == nil {
		lessons = []models.Lesson{}
	}

	httpresp.OK(c, lessons)
}

func lessonStatusNames() []string {
	names := make([]string, 0, len(lesson.Statuses))
	for _, s := range lesson.Statuses {
		names = append(names, string(s))
	}
	return names
}

// ======================================================
// POST /api/lessons
// ======================================================

func (h *LessonHandler) Create(c *gin.Context) {
	var req CreateLessonRequest
	if !bindBody(c, &req) {
		return
	}

	status := req.Status
	if status == "" {
		status = string(lesson.InitialStatus())
	}

	created, err := h.repo.CreateLesson(c.Request.Context(), &models.Lesson{
		Date:       req.Date.Time,
		Desc:       req.Desc,
		Status:     status,
		CustomerID: req.CustomerID,
		MonitorID:  req.MonitorID,
		HorseID:    req.HorseID,
	})
	if err != nil {
		respondError(c, h.log, "create_lesson", err, msgLessonNotFound)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(actorID(c)),
		Action:   "lesson_created",
		Entity:   "lesson",
		EntityID: audit.Ref(created.ID),
	})

	httpresp.Created(c, created)
}

// ======================================================
// POST /api/lessons/book
// ======================================================

// Book creates the lesson with its billing line in one transaction.
func (h *LessonHandler) Book(c *gin.Context) {
	var req BookLessonRequest
	if !bindBody(c, &req) {
		return
	}

	out, err := h.book.Execute(c.Request.Context(), uclesson.BookLessonInput{
		ActorID:     actorID(c),
		Date:        req.Date.Time,
		Desc:        req.Desc,
		Status:      lesson.Status(req.Status),
		CustomerID:  req.CustomerID,
		MonitorID:   req.MonitorID,
		HorseID:     req.HorseID,
		BillingID:   req.BillingID,
		Amount:      req.Amount,
		ServiceType: performed.ServiceType(req.ServiceType),
	})
	if err != nil {
		respondError(c, h.log, "book_lesson", err, msgLessonNotFound)
		return
	}

	c.JSON(http.StatusCreated, httpresp.Envelope{Success: true, Data: out})
}

// ======================================================
// PUT /api/lessons
// ======================================================

func (h *LessonHandler) Update(c *gin.Context) {
	var req UpdateLessonRequest
	if !bindBody(c, &req) {
		return
	}

	patch := lesson.Patch{
		Desc:       req.Desc,
		CustomerID: req.CustomerID,
		MonitorID:  req.MonitorID,
		HorseID:    req.HorseID,
	}
	if req.Date != nil {
		d := req.Date.Time
		patch.Date = &d
	}
	if req.Status != nil {
		s := lesson.Status(*req.Status)
		patch.Status = &s
	}

	updated, err := h.repo.UpdateLesson(c.Request.Context(), req.ID, patch)
	if err != nil {
		respondError(c, h.log, "update_lesson", err, msgLessonNotFound)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(actorID(c)),
		Action:   "lesson_updated",
		Entity:   "lesson",
		EntityID: audit.Ref(updated.ID),
	})

	httpresp.OK(c, updated)
}

// ======================================================
// PATCH /api/lessons
// ======================================================

func (h *LessonHandler) UpdateStatus(c *gin.Context) {
	var req UpdateLessonStatusRequest
	if !bindBody(c, &req) {
		return
	}

	status := lesson.Status(req.Status)
	updated, err := h.repo.UpdateLessonStatus(c.Request.Context(), req.ID, status)
	if err != nil {
		respondError(c, h.log, "update_lesson_status", err, msgLessonNotFound)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(actorID(c)),
		Action:   "lesson_status_changed",
		Entity:   "lesson",
		EntityID: audit.Ref(req.ID),
		Metadata: map[string]any{"status": status, "at": time.Now().UTC()},
	})

	httpresp.WithMessage(c, updated, fmt.Sprintf("Lesson status updated to %s", status))
}

// ======================================================
// DELETE /api/lessons?id=
// ======================================================

func (h *LessonHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	deleted, err := h.repo.DeleteLesson(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "delete_lesson", err, msgLessonNotFound)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(actorID(c)),
		Action:   "lesson_deleted",
		Entity:   "lesson",
		EntityID: audit.Ref(id),
	})

	httpresp.WithMessage(c, deleted, "Lesson deleted successfully")
}
