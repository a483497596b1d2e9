package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/RomanCsn/workshop-DFS/internal/auth"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type AuthGormRepository struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewAuthGormRepository(db *gorm.DB, log zerolog.Logger) *AuthGormRepository {
	return &AuthGormRepository{
		db:  db,
		log: log.With().Str("repository", "auth").Logger(),
	}
}

// --------------------------------------------------
// Users / accounts
// --------------------------------------------------

func (r *AuthGormRepository) CreateUserWithAccount(
	ctx context.Context,
	u *models.User,
	account *models.Account,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		account.UserID = u.ID
		account.AccountID = u.ID
		return tx.Create(account).Error
	})
	if httperr.IsUniqueViolation(err) {
		return auth.ErrUserExists
	}
	if err != nil {
		return fail(r.log, "createUser", "Failed to create the user.", err)
	}
	return nil
}

func (r *AuthGormRepository) GetUserByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var u models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if isRecordNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(r.log, "getUserByEmail", "Error retrieving the user by email.", err)
	}
	return &u, nil
}

func (r *AuthGormRepository) GetUserByID(
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

func (r *AuthGormRepository) GetCredentialAccount(
	ctx context.Context,
	userID string,
) (*models.Account, error) {

	var a models.Account
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider_id = ?", userID, models.ProviderCredential).
		First(&a).Error
	if isRecordNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(r.log, "getCredentialAccount", "Error retrieving the account.", err)
	}
	return &a, nil
}

func (r *AuthGormRepository) UpdateAccountPassword(
	ctx context.Context,
	userID string,
	passwordHash string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("user_id = ? AND provider_id = ?", userID, models.ProviderCredential).
		Update("password", passwordHash)
	if res.Error != nil {
		return fail(r.log, "updateAccountPassword", "Failed to update the password.", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound
	}
	return nil
}

func (r *AuthGormRepository) MarkEmailVerified(
	ctx context.Context,
	email string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Update("email_verified", true)
	if res.Error != nil {
		return fail(r.log, "markEmailVerified", "Failed to verify the email.", res.Error)
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Sessions
// --------------------------------------------------

func (r *AuthGormRepository) CreateSession(
	ctx context.Context,
	session *models.Session,
) error {

	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fail(r.log, "createSession", "Failed to create the session.", err)
	}
	return nil
}

func (r *AuthGormRepository) GetSessionByToken(
	ctx context.Context,
	tokenHash string,
) (*models.Session, error) {

	var s models.Session
	err := r.db.WithContext(ctx).Where("token = ?", tokenHash).First(&s).Error
	if isRecordNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(r.log, "getSessionByToken", "Error retrieving the session.", err)
	}
	return &s, nil
}

func (r *AuthGormRepository) GetSessionByID(
	ctx context.Context,
	id string,
) (*models.Session, error) {

	var s models.Session
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if isRecordNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(r.log, "getSessionById", "Error retrieving the session.", err)
	}
	return &s, nil
}

func (r *AuthGormRepository) ListUserSessions(
	ctx context.Context,
	userID string,
) ([]models.Session, error) {

	var sessions []models.Session
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, fail(r.log, "listUserSessions", "Failed to retrieve the list of sessions.", err)
	}
	return sessions, nil
}

func (r *AuthGormRepository) DeleteSession(
	ctx context.Context,
	id string,
) error {

	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Session{}).Error; err != nil {
		return fail(r.log, "deleteSession", "Failed to delete the session.", err)
	}
	return nil
}

func (r *AuthGormRepository) DeleteExpiredSessions(
	ctx context.Context,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.Session{})
	if res.Error != nil {
		return 0, fail(r.log, "deleteExpiredSessions", "Failed to purge sessions.", res.Error)
	}
	return res.RowsAffected, nil
}

// --------------------------------------------------
// Verifications
// --------------------------------------------------

func (r *AuthGormRepository) CreateVerification(
	ctx context.Context,
	v *models.Verification,
) error {

	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fail(r.log, "createVerification", "Failed to create the verification.", err)
	}
	return nil
}

func (r *AuthGormRepository) ConsumeVerification(
	ctx context.Context,
	identifier string,
	value string,
) (*models.Verification, error) {

	var v models.Verification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("identifier = ? AND value = ?", identifier, value).
			First(&v).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", v.ID).Delete(&models.Verification{}).Error
	})
	if isRecordNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fail(r.log, "consumeVerification", "Failed to consume the verification.", err)
	}
	return &v, nil
}

func (r *AuthGormRepository) DeleteExpiredVerifications(
	ctx context.Context,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.Verification{})
	if res.Error != nil {
		return 0, fail(r.log, "deleteExpiredVerifications", "Failed to purge verifications.", res.Error)
	}
	return res.RowsAffected, nil
}

// Compile-time check
var _ auth.Store = (*AuthGormRepository)(nil)
