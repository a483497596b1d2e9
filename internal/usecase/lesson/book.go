package lesson

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/RomanCsn/workshop-DFS/internal/audit"
	"github.com/RomanCsn/workshop-DFS/internal/domain/billing"
	domain "github.com/RomanCsn/workshop-DFS/internal/domain/lesson"
	"github.com/RomanCsn/workshop-DFS/internal/domain/performed"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/metrics"
	"github.com/RomanCsn/workshop-DFS/internal/models"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type BookLessonInput struct {
	ActorID string

	Date       time.Time
	Desc       string
	Status     domain.Status
	CustomerID string
	MonitorID  string
	HorseID    string

	BillingID   string
	Amount      float64
	ServiceType performed.ServiceType
}

type BookLessonOutput struct {
	Lesson  *models.Lesson           `json:"lesson"`
	Billing *models.Billing          `json:"billing"`
	Service *models.PerformedService `json:"service"`
}

// ======================================================
// STORE
// ======================================================

// Booker runs the three writes of a booking in one transaction.
type Booker interface {
	Book(
		ctx context.Context,
		l *models.Lesson,
		b *models.Billing,
		s *models.PerformedService,
		existingBillingID string,
	) error
}

// GormBooker implements Booker on a gorm transaction.
type GormBooker struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewGormBooker(db *gorm.DB, log zerolog.Logger) *GormBooker {
	return &GormBooker{db: db, log: log.With().Str("component", "booking").Logger()}
}

func (g *GormBooker) Book(
	ctx context.Context,
	l *models.Lesson,
	b *models.Billing,
	s *models.PerformedService,
	existingBillingID string,
) error {

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(l).Error; err != nil {
			return err
		}

		if existingBillingID != "" {
			if err := tx.Where("id = ?", existingBillingID).First(b).Error; err != nil {
				return err
			}
		} else if err := tx.Create(b).Error; err != nil {
			return err
		}

		s.BillingID = b.ID
		s.ServiceID = l.ID
		return tx.Create(s).Error
	})

	switch {
	case err == nil:
		return nil
	case existingBillingID != "" && httperr.IsNotFound(translateNotFound(err)):
		return httperr.ErrBusiness("billing_not_found", "Billing not found")
	default:
		g.log.Error().Err(err).Msg("book lesson failed")
		return httperr.NewStoreError("bookLesson", "Failed to book the lesson.", err)
	}
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound
	}
	return err
}

// ======================================================
// USE CASE
// ======================================================

type BookLesson struct {
	booker Booker
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewBookLesson(
	booker Booker,
	audit *audit.Dispatcher,
) *BookLesson {
	return &BookLesson{
		booker: booker,
		audit:  audit,
		now:    time.Now,
	}
}

// Execute creates the lesson, its billing (unless one is given) and the
// performed service linking them, all or nothing.
func (uc *BookLesson) Execute(
	ctx context.Context,
	in BookLessonInput,
) (*BookLessonOutput, error) {

	status := in.Status
	if status == "" {
		status = domain.InitialStatus()
	}
	if !status.Valid() {
		return nil, httperr.ErrBusiness("invalid_status", "Invalid lesson status")
	}

	serviceType := in.ServiceType
	if serviceType == "" {
		serviceType = performed.DefaultType()
	}
	if !serviceType.Valid() {
		return nil, httperr.ErrBusiness("invalid_service_type", "Invalid service type")
	}

	if in.Amount < 0 {
		return nil, httperr.ErrBusiness("invalid_amount", "Amount must be positive")
	}

	l := &models.Lesson{
		Date:       in.Date,
		Desc:       in.Desc,
		Status:     string(status),
		CustomerID: in.CustomerID,
		MonitorID:  in.MonitorID,
		HorseID:    in.HorseID,
	}
	b := &models.Billing{
		Date:      uc.now().UTC(),
		Situation: string(billing.SituationUnpayed),
	}
	s := &models.PerformedService{
		UserID:      in.CustomerID,
		Amount:      in.Amount,
		ServiceType: string(serviceType),
	}

	if err := uc.booker.Book(ctx, l, b, s, in.BillingID); err != nil {
		return nil, err
	}

	metrics.LessonBooked()

	uc.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(in.ActorID),
		Action:   "lesson_booked",
		Entity:   "lesson",
		EntityID: audit.Ref(l.ID),
		Metadata: map[string]any{
			"billingId": b.ID,
			"serviceId": s.ID,
			"amount":    s.Amount,
		},
	})

	return &BookLessonOutput{Lesson: l, Billing: b, Service: s}, nil
}
