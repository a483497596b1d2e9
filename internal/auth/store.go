package auth

import (
	"context"
	"time"

	"github.com/RomanCsn/workshop-DFS/internal/models"
)

// Store persists users, credential accounts, sessions and verifications.
// Lookups return (nil, nil) when nothing matches.
type Store interface {
	// -------- Users / accounts --------
	CreateUserWithAccount(
		ctx context.Context,
		user *models.User,
		account *models.Account,
	) error

	GetUserByEmail(
		ctx context.Context,
		email string,
	) (*models.User, error)

	GetUserByID(
		ctx context.Context,
		id string,
	) (*models.User, error)

	GetCredentialAccount(
		ctx context.Context,
		userID string,
	) (*models.Account, error)

	UpdateAccountPassword(
		ctx context.Context,
		userID string,
		passwordHash string,
	) error

	MarkEmailVerified(
		ctx context.Context,
		email string,
	) error

	// -------- Sessions --------
	CreateSession(
		ctx context.Context,
		session *models.Session,
	) error

	GetSessionByToken(
		ctx context.Context,
		tokenHash string,
	) (*models.Session, error)

	GetSessionByID(
		ctx context.Context,
		id string,
	) (*models.Session, error)

	ListUserSessions(
		ctx context.Context,
		userID string,
	) ([]models.Session, error)

	DeleteSession(
		ctx context.Context,
		id string,
	) error

	DeleteExpiredSessions(
		ctx context.Context,
		now time.Time,
	) (int64, error)

	// -------- Verifications --------
	CreateVerification(
		ctx context.Context,
		v *models.Verification,
	) error

	// ConsumeVerification deletes and returns the matching record.
	ConsumeVerification(
		ctx context.Context,
		identifier string,
		value string,
	) (*models.Verification, error)

	DeleteExpiredVerifications(
		ctx context.Context,
		now time.Time,
	) (int64, error)
}
