package horse

import (
	"context"

	"github.com/RomanCsn/workshop-DFS/internal/models"
)

// Validation bounds for the optional numeric attributes.
const (
	MaxAgeYears = 60
	MaxHeightCm = 250
	MaxWeightKg = 2000
)

type Patch struct {
	OwnerID     *string
	Name        *string
	Description *string
	Color       *string
	Discipline  *string
	AgeYears    *int
	HeightCm    *int
	WeightKg    *int
}

type Repository interface {
	ListHorsesByOwner(
		ctx context.Context,
		ownerID string,
	) ([]models.Horse, error)

	GetHorseByID(
		ctx context.Context,
		id string,
	) (*models.Horse, error)

	CreateHorse(
		ctx context.Context,
		h *models.Horse,
	) (*models.Horse, error)

	UpdateHorse(
		ctx context.Context,
		id string,
		patch Patch,
	) (*models.Horse, error)

	DeleteHorse(
		ctx context.Context,
		id string,
	) (*models.Horse, error)

	SetHorsePhoto(
		ctx context.Context,
		id string,
		photoKey string,
	) (*models.Horse, error)
}
