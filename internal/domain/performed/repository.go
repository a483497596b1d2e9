package performed

import (
	"context"

	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type Patch struct {
	ServiceType *ServiceType
	BillingID   *string
	UserID      *string
	ServiceID   *string
	Amount      *float64
}

type Repository interface {
	CreatePerformedService(
		ctx context.Context,
		s *models.PerformedService,
	) (*models.PerformedService, error)

	// CreatePerformedServiceWithBilling opens a new UNPAYED billing dated
	// now and attaches the service to it, atomically.
	CreatePerformedServiceWithBilling(
		ctx context.Context,
		s *models.PerformedService,
	) (*models.PerformedService, error)

	GetAllPerformedServices(
		ctx context.Context,
		take int,
		skip int,
	) ([]models.PerformedService, error)

	GetPerformedServiceByID(
		ctx context.Context,
		id string,
	) (*models.PerformedService, error)

	UpdatePerformedService(
		ctx context.Context,
		id string,
		patch Patch,
	) (*models.PerformedService, error)

	DeletePerformedService(
		ctx context.Context,
		id string,
	) (*models.PerformedService, error)
}
