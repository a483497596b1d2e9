package repository

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	domain "github.com/RomanCsn/workshop-DFS/internal/domain/horse"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type HorseGormRepository struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewHorseGormRepository(db *gorm.DB, log zerolog.Logger) *HorseGormRepository {
	return &HorseGormRepository{
		db:  db,
		log: log.With().Str("repository", "horse").Logger(),
	}
}

func (r *HorseGormRepository) ListHorsesByOwner(
	ctx context.Context,
	ownerID string,
) ([]models.Horse, error) {

	var horses []models.Horse
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&horses).Error; err != nil {
		return nil, fail(r.log, "listHorsesByOwner", "Failed to retrieve the list of horses.", err)
	}
	return horses, nil
}

func (r *HorseGormRepository) GetHorseByID(
	ctx context.Context,
	id string,
) (*models.Horse, error) {

	var h models.Horse
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error
	if isRecordNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(r.log, "getHorseById", "Error retrieving the horse by id.", err)
	}
	return &h, nil
}

func (r *HorseGormRepository) CreateHorse(
	ctx context.Context,
	h *models.Horse,
) (*models.Horse, error) {

	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return nil, fail(r.log, "createHorse", "Failed to create the horse.", err)
	}
	return h, nil
}

func (r *HorseGormRepository) UpdateHorse(
	ctx context.Context,
	id string,
	patch domain.Patch,
) (*models.Horse, error) {

	updates := map[string]any{}
	if patch.OwnerID != nil {
		updates["owner_id"] = *patch.OwnerID
	}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Color != nil {
		updates["color"] = *patch.Color
	}
	if patch.Discipline != nil {
		updates["discipline"] = *patch.Discipline
	}
	if patch.AgeYears != nil {
		updates["age_years"] = *patch.AgeYears
	}
	if patch.HeightCm != nil {
		updates["height_cm"] = *patch.HeightCm
	}
	if patch.WeightKg != nil {
		updates["weight_kg"] = *patch.WeightKg
	}

	return r.apply(ctx, "updateHorse", "Failed to update the horse.", id, updates)
}

func (r *HorseGormRepository) SetHorsePhoto(
	ctx context.Context,
	id string,
	photoKey string,
) (*models.Horse, error) {
	return r.apply(ctx, "setHorsePhoto", "Failed to update the horse photo.", id,
		map[string]any{"photo_key": photoKey})
}

func (r *HorseGormRepository) apply(
	ctx context.Context,
	op string,
	message string,
	id string,
	updates map[string]any,
) (*models.Horse, error) {

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&models.Horse{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return nil, fail(r.log, op, message, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, httperr.ErrNotFound
		}
	}

	var h models.Horse
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error
	if isRecordNotFound(err) {
		return nil, httperr.ErrNotFound
	}
	if err != nil {
		return nil, fail(r.log, op, message, err)
	}
	return &h, nil
}

func (r *HorseGormRepository) DeleteHorse(
	ctx context.Context,
	id string,
) (*models.Horse, error) {

	var h models.Horse
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&h).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Horse{}).Error
	})
	if isRecordNotFound(err) {
		return nil, httperr.ErrNotFound
	}
	if err != nil {
		return nil, fail(r.log, "deleteHorse", "Failed to delete the horse.", err)
	}
	return &h, nil
}

// Compile-time check
var _ domain.Repository = (*HorseGormRepository)(nil)
