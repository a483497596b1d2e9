package user

import (
	"context"
	"time"

	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type Role string

const (
	RoleOwner     Role = "OWNER"
	RoleCustomer  Role = "CUSTOMER"
	RoleMonitor   Role = "MONITOR"
	RoleAdmin     Role = "ADMIN"
	RoleCaregiver Role = "CAREGIVER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleCustomer, RoleMonitor, RoleAdmin, RoleCaregiver:
		return true
	}
	return false
}

// SelfAssignable reports whether a role may be chosen at sign-up.
func (r Role) SelfAssignable() bool {
	return r.Valid() && r != RoleAdmin
}

// CustomerRoles are counted by the customer growth statistics.
var CustomerRoles = []Role{RoleOwner, RoleCustomer}

type Stats struct {
	TotalCustomers          int64 `json:"totalCustomers"`
	LastSixMonthsCustomers  int64 `json:"lastSixMonthsCustomers"`
	PercentageLastSixMonths int64 `json:"percentageLastSixMonths"`
}

// NewStats rounds the share of recent customers to the nearest percent.
func NewStats(total, recent int64) Stats {
	s := Stats{TotalCustomers: total, LastSixMonthsCustomers: recent}
	if total > 0 {
		s.PercentageLastSixMonths = (recent*100 + total/2) / total
	}
	return s
}

type Repository interface {
	ListUsersByRole(
		ctx context.Context,
		role Role,
		take int,
		skip int,
	) ([]models.UserSummary, error)

	// CountCustomers counts OWNER and CUSTOMER users, created at or after
	// since when it is set.
	CountCustomers(
		ctx context.Context,
		since *time.Time,
	) (int64, error)

	GetUserByID(
		ctx context.Context,
		id string,
	) (*models.User, error)
}
