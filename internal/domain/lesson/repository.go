package lesson

import (
	"context"
	"time"

	"github.com/RomanCsn/workshop-DFS/internal/models"
)

// Patch lists the lesson fields a PUT may change. Nil means untouched.
type Patch struct {
	Date       *time.Time
	Desc       *string
	Status     *Status
	CustomerID *string
	MonitorID  *string
	HorseID    *string
}

func (p Patch) Empty() bool {
	return p.Date == nil && p.Desc == nil && p.Status == nil &&
		p.CustomerID == nil && p.MonitorID == nil && p.HorseID == nil
}

type Repository interface {
	// -------- CRUD --------
	CreateLesson(
		ctx context.Context,
		l *models.Lesson,
	) (*models.Lesson, error)

	GetAllLessons(
		ctx context.Context,
		take int,
		skip int,
	) ([]models.Lesson, error)

	// GetLessonByID returns (nil, nil) when the lesson does not exist.
	GetLessonByID(
		ctx context.Context,
		id string,
	) (*models.Lesson, error)

	UpdateLesson(
		ctx context.Context,
		id string,
		patch Patch,
	) (*models.Lesson, error)

	// DeleteLesson removes the performed services of the lesson and the
	// lesson itself in one transaction.
	DeleteLesson(
		ctx context.Context,
		id string,
	) (*models.Lesson, error)

	// -------- Filters --------
	GetLessonsByStatus(
		ctx context.Context,
		status Status,
		take int,
		skip int,
	) ([]models.Lesson, error)

	GetLessonsByDateRange(
		ctx context.Context,
		start time.Time,
		end time.Time,
		take int,
		skip int,
	) ([]models.Lesson, error)

	GetLessonsByCustomerID(
		ctx context.Context,
		customerID string,
		take int,
		skip int,
	) ([]models.Lesson, error)

	GetLessonsByMonitorID(
		ctx context.Context,
		monitorID string,
		take int,
		skip int,
	) ([]models.Lesson, error)

	// -------- State --------
	UpdateLessonStatus(
		ctx context.Context,
		id string,
		status Status,
	) (*models.Lesson, error)
}
