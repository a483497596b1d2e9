package cache

import (
	"context"
	"errors"

	"github.com/RomanCsn/workshop-DFS/internal/models"
)

var ErrMiss = errors.New("session not found in cache")

// SessionCache stores sessions keyed by token hash.
type SessionCache interface {
	Get(ctx context.Context, tokenHash string) (*models.Session, error)
	Set(ctx context.Context, tokenHash string, session *models.Session) error
	Delete(ctx context.Context, tokenHash string) error
}
