package billing

import (
	"context"
	"time"

	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type Patch struct {
	Date      *time.Time
	Situation *Situation
}

type Repository interface {
	CreateBilling(
		ctx context.Context,
		b *models.Billing,
	) (*models.Billing, error)

	GetAllBillings(
		ctx context.Context,
		take int,
		skip int,
	) ([]models.Billing, error)

	// GetBillingByID returns (nil, nil) when the billing does not exist.
	GetBillingByID(
		ctx context.Context,
		id string,
	) (*models.Billing, error)

	// GetBillingWithServices loads services with their user and lesson
	// summaries. Returns (nil, nil) when absent.
	GetBillingWithServices(
		ctx context.Context,
		id string,
	) (*models.Billing, error)

	UpdateBilling(
		ctx context.Context,
		id string,
		patch Patch,
	) (*models.Billing, error)

	DeleteBilling(
		ctx context.Context,
		id string,
	) (*models.Billing, error)

	// GetBillingsByDateRange bounds are inclusive.
	GetBillingsByDateRange(
		ctx context.Context,
		start time.Time,
		end time.Time,
		take int,
		skip int,
	) ([]models.Billing, error)

	GetBillingsByUserID(
		ctx context.Context,
		userID string,
		take int,
		skip int,
	) ([]models.Billing, error)

	GetBillingCount(ctx context.Context) (int64, error)
}
