package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	domain "github.com/RomanCsn/workshop-DFS/internal/domain/user"
	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type UserGormRepository struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewUserGormRepository(db *gorm.DB, log zerolog.Logger) *UserGormRepository {
	return &UserGormRepository{
		db:  db,
		log: log.With().Str("repository", "user").Logger(),
	}
}

func (r *UserGormRepository) ListUsersByRole(
	ctx context.Context,
	role domain.Role,
	take int,
	skip int,
) ([]models.UserSummary, error) {

	var users []models.UserSummary
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id", "first_name", "last_name", "email", "role").
		Where("role = ?", string(role)).
		Order("first_name ASC").
		Order("last_name ASC").
		Limit(take).
		Offset(skip).
		Find(&users).Error; err != nil {
		return nil, fail(r.log, "listUsersByRole", "Failed to retrieve the list of users.", err)
	}
	return users, nil
}

func (r *UserGormRepository) CountCustomers(
	ctx context.Context,
	since *time.Time,
) (int64, error) {

	roles := make([]string, 0, len(domain.CustomerRoles))
	for _, role := range domain.CustomerRoles {
		roles = append(roles, string(role))
	}

	q := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role IN ?", roles)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fail(r.log, "countCustomers", "Failed to count customers.", err)
	}
	return count, nil
}

func (r *UserGormRepository) GetUserByID(
	ctx context.Context,
	id string,
) (*models.User, error) {

	var u models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if isRecordNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(r.log, "getUserById", "Error retrieving the user by id.", err)
	}
	return &u, nil
}

// Compile-time check
var _ domain.Repository = (*UserGormRepository)(nil)
