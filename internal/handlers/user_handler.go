package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RomanCsn/workshop-DFS/internal/domain/user"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/httpresp"
	"github.com/RomanCsn/workshop-DFS/internal/models"
	"github.com/RomanCsn/workshop-DFS/internal/timezone"
)

// Listing bounds of GET /api/user?role=.
const (
	defaultUserTake = 50
	maxUserTake     = 200
)

type UserHandler struct {
	repo user.Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewUserHandler(repo user.Repository, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		repo: repo,
		log:  log.With().Str("handler", "users").Logger(),
		now:  time.Now,
	}
}

// List returns the users of one role, or the customer growth statistics
// when no role is given.
func (h *UserHandler) List(c *gin.Context) {
	if c.Query("role") == "" {
		h.stats(c)
		return
	}

	q := queryOf(c)
	roles := make([]string, 0, 5)
	for _, r := range []user.Role{user.RoleOwner, user.RoleCustomer, user.RoleAdmin, user.RoleMonitor, user.RoleCaregiver} {
		roles = append(roles, string(r))
	}
	role := q.Enum("role", roles...)
	take, skip := q.Pagination(defaultUserTake, maxUserTake)

	if !q.Valid() {
		httperr.BadRequest(c, httperr.MsgInvalidQuery, q.Errors)
		return
	}

	users, err := h.repo.ListUsersByRole(c.Request.Context(), user.Role(role), take, skip)
	if err != nil {
		respondError(c, h.log, "list_users", err, "User not found")
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}

	httpresp.OK(c, users)
}

func (h *UserHandler) stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.repo.CountCustomers(ctx, nil)
	if err != nil {
		respondError(c, h.log, "count_customers", err, "User not found")
		return
	}

	since := timezone.MonthsAgo(h.now(), 6)
	recent, err := h.repo.CountCustomers(ctx, &since)
	if err != nil {
		respondError(c, h.log, "count_recent_customers", err, "User not found")
		return
	}

	httpresp.OK(c, user.NewStats(total, recent))
}
