package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/RomanCsn/workshop-DFS/internal/domain/billing"
	domain "github.com/RomanCsn/workshop-DFS/internal/domain/performed"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type PerformedServiceGormRepository struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewPerformedServiceGormRepository(db *gorm.DB, log zerolog.Logger) *PerformedServiceGormRepository {
	return &PerformedServiceGormRepository{
		db:  db,
		log: log.With().Str("repository", "performed_service").Logger(),
	}
}

func (r *PerformedServiceGormRepository) CreatePerformedService(
	ctx context.Context,
	s *models.PerformedService,
) (*models.PerformedService, error) {

	if s.ServiceType == "" {
		s.ServiceType = string(domain.DefaultType())
	}
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, fail(r.log, "createPerformedService", "Failed to create the service.", err)
	}
	return s, nil
}

func (r *PerformedServiceGormRepository) CreatePerformedServiceWithBilling(
	ctx context.Context,
	s *models.PerformedService,
) (*models.PerformedService, error) {

	if s.ServiceType == "" {
		s.ServiceType = string(domain.DefaultType())
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b := models.Billing{
			Date:      time.Now().UTC(),
			Situation: string(billing.SituationUnpayed),
		}
		if err := tx.Create(&b).Error; err != nil {
			return err
		}
		s.BillingID = b.ID
		return tx.Create(s).Error
	})
	if err != nil {
		return nil, fail(r.log, "createPerformedServiceWithBilling", "Failed to create the service.", err)
	}
	return s, nil
}

func (r *PerformedServiceGormRepository) GetAllPerformedServices(
	ctx context.Context,
	take int,
	skip int,
) ([]models.PerformedService, error) {

	var services []models.PerformedService
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(take).
		Offset(skip).
		Find(&services).Error; err != nil {
		return nil, fail(r.log, "getAllPerformedServices", "Failed to retrieve the list of services.", err)
	}
	return services, nil
}

func (r *PerformedServiceGormRepository) GetPerformedServiceByID(
	ctx context.Context,
	id string,
) (*models.PerformedService, error) {

	var s models.PerformedService
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if isRecordNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(r.log, "getPerformedServiceById", "Error retrieving the service by id.", err)
	}
	return &s, nil
}

func (r *PerformedServiceGormRepository) UpdatePerformedService(
	ctx context.Context,
	id string,
	patch domain.Patch,
) (*models.PerformedService, error) {

	updates := map[string]any{}
	if patch.ServiceType != nil {
		updates["service_type"] = string(*patch.ServiceType)
	}
	if patch.BillingID != nil {
		updates["billing_id"] = *patch.BillingID
	}
	if patch.UserID != nil {
		updates["user_id"] = *patch.UserID
	}
	if patch.ServiceID != nil {
		updates["service_id"] = *patch.ServiceID
	}
	if patch.Amount != nil {
		updates["amount"] = *patch.Amount
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&models.PerformedService{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, fail(r.log, "updatePerformedService", "Failed to update the service.", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, httperr.ErrNotFound
		}
	}

	var s models.PerformedService
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if isRecordNotFound(err) {
		return nil, httperr.ErrNotFound
	}
	if err != nil {
		return nil, fail(r.log, "updatePerformedService", "Failed to update the service.", err)
	}
	return &s, nil
}

func (r *PerformedServiceGormRepository) DeletePerformedService(
	ctx context.Context,
	id string,
) (*models.PerformedService, error) {

	var s models.PerformedService
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&s).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.PerformedService{}).Error
	})
	if isRecordNotFound(err) {
		return nil, httperr.ErrNotFound
	}
	if err != nil {
		return nil, fail(r.log, "deletePerformedService", "Failed to delete the service.", err)
	}
	return &s, nil
}

// Compile-time check
var _ domain.Repository = (*PerformedServiceGormRepository)(nil)
