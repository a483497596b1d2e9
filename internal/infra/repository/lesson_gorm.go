package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	domain "github.com/RomanCsn/workshop-DFS/internal/domain/lesson"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type LessonGormRepository struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewLessonGormRepository(db *gorm.DB, log zerolog.Logger) *LessonGormRepository {
	return &LessonGormRepository{
		db:  db,
		log: log.With().Str("repository", "lesson").Logger(),
	}
}

// withRelations preloads customer, monitor and horse.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer").
		Preload("Monitor").
		Preload("Horse")
}

func (r *LessonGormRepository) list(
	ctx context.Context,
	op string,
	message string,
	take int,
	skip int,
	scope func(*gorm.DB) *gorm.DB,
) ([]models.Lesson, error) {

	var lessons []models.Lesson
	if err := r.db.WithContext(ctx).
		Scopes(withRelations, scope).
		Order("date DESC").
		Limit(take).
		Offset(skip).
		Find(&lessons).Error; err != nil {
		return nil, fail(r.log, op, message, err)
	}
	return lessons, nil
}

func (r *LessonGormRepository) reload(ctx context.Context, id string) (*models.Lesson, error) {
	var l models.Lesson
	if err := r.db.WithContext(ctx).
		Scopes(withRelations).
		Where("id = ?", id).
		First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// --------------------------------------------------
// CRUD
// --------------------------------------------------

func (r *LessonGormRepository) CreateLesson(
	ctx context.Context,
	l *models.Lesson,
) (*models.Lesson, error) {

	if l.Status == "" {
		l.Status = string(domain.InitialStatus())
	}
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return nil, fail(r.log, "createLesson", "Failed to create the lesson.", err)
	}
	return l, nil
}

func (r *LessonGormRepository) GetAllLessons(
	ctx context.Context,
	take int,
	skip int,
) ([]models.Lesson, error) {
	return r.list(ctx, "getAllLessons", "Failed to retrieve the list of lessons.", take, skip,
		func(db *gorm.DB) *gorm.DB { return db })
}

func (r *LessonGormRepository) GetLessonByID(
	ctx context.Context,
	id string,
) (*models.Lesson, error) {

	l, err := r.reload(ctx, id)
	if isRecordNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(r.log, "getLessonById", "Error retrieving the lesson by id.", err)
	}
	return l, nil
}

func (r *LessonGormRepository) UpdateLesson(
	ctx context.Context,
	id string,
	patch domain.Patch,
) (*models.Lesson, error) {

	updates := map[string]any{}
	if patch.Date != nil {
		updates["date"] = *patch.Date
	}
	if patch.Desc != nil {
		updates["desc"] = *patch.Desc
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}
	if patch.CustomerID != nil {
		updates["customer_id"] = *patch.CustomerID
	}
	if patch.MonitorID != nil {
		updates["monitor_id"] = *patch.MonitorID
	}
	if patch.HorseID != nil {
		updates["horse_id"] = *patch.HorseID
	}

	return r.update(ctx, "updateLesson", "Failed to update the lesson.", id, updates)
}

func (r *LessonGormRepository) update(
	ctx context.Context,
	op string,
	message string,
	id string,
	updates map[string]any,
) (*models.Lesson, error) {

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&models.Lesson{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, fail(r.log, op, message, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, httperr.ErrNotFound
		}
	}

	l, err := r.reload(ctx, id)
	if isRecordNotFound(err) {
		return nil, httperr.ErrNotFound
	}
	if err != nil {
		return nil, fail(r.log, op, message, err)
	}
	return l, nil
}

func (r *LessonGormRepository) DeleteLesson(
	ctx context.Context,
	id string,
) (*models.Lesson, error) {

	var l models.Lesson
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(withRelations).Where("id = ?", id).First(&l).Error; err != nil {
			return err
		}
		if err := tx.Where("service_id = ?", id).Delete(&models.PerformedService{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Lesson{}).Error
	})
	if isRecordNotFound(err) {
		return nil, httperr.ErrNotFound
	}
	if err != nil {
		return nil, fail(r.log, "deleteLesson", "Failed to delete the lesson.", err)
	}
	return &l, nil
}

// --------------------------------------------------
// Filters
// --------------------------------------------------

func (r *LessonGormRepository) GetLessonsByStatus(
	ctx context.Context,
	status domain.Status,
	take int,
	skip int,
) ([]models.Lesson, error) {
	return r.list(ctx, "getLessonsByStatus", "Failed to retrieve lessons by status.", take, skip,
		func(db *gorm.DB) *gorm.DB { return db.Where("status = ?", string(status)) })
}

func (r *LessonGormRepository) GetLessonsByDateRange(
	ctx context.Context,
	start time.Time,
	end time.Time,
	take int,
	skip int,
) ([]models.Lesson, error) {
	return r.list(ctx, "getLessonsByDateRange", "Failed to retrieve lessons by date range.", take, skip,
		func(db *gorm.DB) *gorm.DB { return db.Where("date >= ? AND date <= ?", start, end) })
}

func (r *LessonGormRepository) GetLessonsByCustomerID(
	ctx context.Context,
	customerID string,
	take int,
	skip int,
) ([]models.Lesson, error) {
	return r.list(ctx, "getLessonsByCustomerId", "Failed to retrieve lessons by customer.", take, skip,
		func(db *gorm.DB) *gorm.DB { return db.Where("customer_id = ?", customerID) })
}

func (r *LessonGormRepository) GetLessonsByMonitorID(
	ctx context.Context,
	monitorID string,
	take int,
	skip int,
) ([]models.Lesson, error) {
	return r.list(ctx, "getLessonsByMonitorId", "Failed to retrieve lessons by monitor.", take, skip,
		func(db *gorm.DB) *gorm.DB { return db.Where("monitor_id = ?", monitorID) })
}

// --------------------------------------------------
// State
// --------------------------------------------------

func (r *LessonGormRepository) UpdateLessonStatus(
	ctx context.Context,
	id string,
	status domain.Status,
) (*models.Lesson, error) {
	return r.update(ctx, "updateLessonStatus", "Failed to update the lesson status.", id,
		map[string]any{"status": string(status)})
}

// Compile-time check
var _ domain.Repository = (*LessonGormRepository)(nil)
