package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	domain "github.com/RomanCsn/workshop-DFS/internal/domain/billing"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type BillingGormRepository struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewBillingGormRepository(db *gorm.DB, log zerolog.Logger) *BillingGormRepository {
	return &BillingGormRepository{
		db:  db,
		log: log.With().Str("repository", "billing").Logger(),
	}
}

// --------------------------------------------------
// Create / Read
// --------------------------------------------------

func (r *BillingGormRepository) CreateBilling(
	ctx context.Context,
	b *models.Billing,
) (*models.Billing, error) {

	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, fail(r.log, "createBilling", "Failed to create the billing.", err)
	}
	return b, nil
}

func (r *BillingGormRepository) GetAllBillings(
	ctx context.Context,
	take int,
	skip int,
) ([]models.Billing, error) {

	var billings []models.Billing
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Order("date DESC").
		Order("id").
		Limit(take).
		Offset(skip).
		Find(&billings).Error; err != nil {
		return nil, fail(r.log, "getAllBillings", "Failed to retrieve the list of billings.", err)
	}
	return billings, nil
}

func (r *BillingGormRepository) GetBillingByID(
	ctx context.Context,
	id string,
) (*models.Billing, error) {

	var b models.Billing
	err := r.db.WithContext(ctx).
		Preload("Services").
		Where("id = ?", id).
		First(&b).Error
	if isRecordNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(r.log, "getBillingById", "Error retrieving the billing by id.", err)
	}
	return &b, nil
}

func (r *BillingGormRepository) GetBillingWithServices(
	ctx context.Context,
	id string,
) (*models.Billing, error) {

	var b models.Billing
	err := r.db.WithContext(ctx).
		Preload("Services.User").
		Preload("Services.Lesson").
		Where("id = ?", id).
		First(&b).Error
	if isRecordNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(r.log, "getBillingWithServices", "Error retrieving the billing with services.", err)
	}
	return &b, nil
}

// --------------------------------------------------
// Update / Delete
// --------------------------------------------------

func (r *BillingGormRepository) UpdateBilling(
	ctx context.Context,
	id string,
	patch domain.Patch,
) (*models.Billing, error) {

	updates := map[string]any{}
	if patch.Date != nil {
		updates["date"] = *patch.Date
	}
	if patch.Situation != nil {
		updates["situation"] = string(*patch.Situation)
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&models.Billing{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, fail(r.log, "updateBilling", "Failed to update the billing.", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, httperr.ErrNotFound
		}
	}

	var b models.Billing
	err := r.db.WithContext(ctx).
		Preload("Services").
		Where("id = ?", id).
		First(&b).Error
	if isRecordNotFound(err) {
		return nil, httperr.ErrNotFound
	}
	if err != nil {
		return nil, fail(r.log, "updateBilling", "Failed to update the billing.", err)
	}
	return &b, nil
}

// DeleteBilling removes the billing and its performed services.
func (r *BillingGormRepository) DeleteBilling(
	ctx context.Context,
	id string,
) (*models.Billing, error) {

	var b models.Billing
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Services").Where("id = ?", id).First(&b).Error; err != nil {
			return err
		}
		if err := tx.Where("billing_id = ?", id).Delete(&models.PerformedService{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Billing{}).Error
	})
	if isRecordNotFound(err) {
		return nil, httperr.ErrNotFound
	}
	if err != nil {
		return nil, fail(r.log, "deleteBilling", "Failed to delete the billing.", err)
	}
	return &b, nil
}

// --------------------------------------------------
// Filters
// --------------------------------------------------

// Billing lists sort by date then id so offset pages stay stable when
// several billings share a date.

func (r *BillingGormRepository) GetBillingsByDateRange(
	ctx context.Context,
	start time.Time,
	end time.Time,
	take int,
	skip int,
) ([]models.Billing, error) {

	var billings []models.Billing
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Where("date >= ? AND date <= ?", start, end).
		Order("date DESC").
		Order("id").
		Limit(take).
		Offset(skip).
		Find(&billings).Error; err != nil {
		return nil, fail(r.log, "getBillingsByDateRange", "Failed to retrieve billings by date range.", err)
	}
	return billings, nil
}

func (r *BillingGormRepository) GetBillingsByUserID(
	ctx context.Context,
	userID string,
	take int,
	skip int,
) ([]models.Billing, error) {

	db := r.db.WithContext(ctx)
	owned := db.Model(&models.PerformedService{}).
		Select("billing_id").
		Where("user_id = ?", userID)

	var billings []models.Billing
	if err := db.
		Preload("Services", "user_id = ?", userID).
		Where("id IN (?)", owned).
		Order("date DESC").
		Order("id").
		Limit(take).
		Offset(skip).
		Find(&billings).Error; err != nil {
		return nil, fail(r.log, "getBillingsByUserId", "Failed to retrieve billings by user.", err)
	}
	return billings, nil
}

func (r *BillingGormRepository) GetBillingCount(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Billing{}).
		Count(&count).Error; err != nil {
		return 0, fail(r.log, "getBillingCount", "Failed to get billing count.", err)
	}
	return count, nil
}

// Compile-time check
var _ domain.Repository = (*BillingGormRepository)(nil)
