package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RomanCsn/workshop-DFS/internal/models"
)

func serviceRouter(repo *fakeServices) *gin.Engine {
	h := NewServiceHandler(repo, nil, zerolog.Nop())

	r := gin.New()
	r.GET("/api/services", h.List)
	r.POST("/api/services", h.Create)
	r.PUT("/api/services", h.Update)
	r.DELETE("/api/services", h.Delete)
	return r
}

func TestServicesRejectNegativeTake(t *testing.T) {
	repo := newFakeServices()
	w, env := do(t, serviceRouter(repo), http.MethodGet, "/api/services?take=-5", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid query parameters", env.Error)
	assert.Empty(t, repo.calls)
}

func TestServicesListPagination(t *testing.T) {
	repo := newFakeServices()
	w, _ := do(t, serviceRouter(repo), http.MethodGet, "/api/services?take=1000&skip=3", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1000, repo.lastTake)
	assert.Equal(t, 3, repo.lastSkip)
}

func TestServicesCreateOpensBillingWhenMissing(t *testing.T) {
	repo := newFakeServices()
	r := serviceRouter(repo)

	w, env := do(t, r, http.MethodPost, "/api/services", map[string]any{
		"userId":    uuidA,
		"serviceId": uuidB,
		"amount":    20,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"CreatePerformedServiceWithBilling"}, repo.calls)

	var created models.PerformedService
	require.NoError(t, jsonUnmarshal(env.Data, &created))
	assert.Equal(t, "LESSON", created.ServiceType)
	assert.Equal(t, uuidD, created.BillingID)

	repo.calls = nil
	w, _ = do(t, r, http.MethodPost, "/api/services", map[string]any{
		"billingId":   uuidD,
		"userId":      uuidA,
		"serviceId":   uuidB,
		"serviceType": "CARE",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"CreatePerformedService"}, repo.calls)
}

func TestServicesCreateValidation(t *testing.T) {
	repo := newFakeServices()
	r := serviceRouter(repo)

	for _, body := range []map[string]any{
		{"userId": uuidA, "serviceId": uuidB, "serviceType": "GROOMING"},
		{"userId": uuidA, "serviceId": uuidB, "amount": -3},
		{"userId": "nope", "serviceId": uuidB},
		{"serviceId": uuidB},
	} {
		w, env := do(t, r, http.MethodPost, "/api/services", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Invalid data", env.Error, body)
	}
	assert.Empty(t, repo.calls)
}

func TestServicesUpdateAndDelete(t *testing.T) {
	repo := newFakeServices()
	repo.rows[uuidC] = &models.PerformedService{ID: uuidC, Amount: 10}
	r := serviceRouter(repo)

	w, env := do(t, r, http.MethodPut, "/api/services", map[string]any{"id": uuidC, "amount": 12.5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"amount":12.5`)

	w, env = do(t, r, http.MethodDelete, "/api/services?id="+uuidC, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Service deleted successfully", env.Message)

	w, env = do(t, r, http.MethodPut, "/api/services", map[string]any{"id": uuidC, "amount": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Service not found", env.Error)
}
