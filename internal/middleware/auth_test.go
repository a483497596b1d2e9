package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/RomanCsn/workshop-DFS/internal/auth"
	"github.com/RomanCsn/workshop-DFS/internal/domain/user"
	"github.com/RomanCsn/workshop-DFS/internal/models"
)

func seeded(u *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u != nil {
			auth.SetCurrent(c, &models.Session{ID: "s1", UserID: u.ID}, u)
		}
		c.Next()
	}
}

func serve(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w
}

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", RequireSession(), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := serve(r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Missing session token")

	r = gin.New()
	r.Use(seeded(&models.User{ID: "u1", Role: "CUSTOMER"}))
	r.GET("/x", RequireSession(), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, serve(r).Code)
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		user *models.User
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"customer", &models.User{ID: "u1", Role: "CUSTOMER"}, http.StatusForbidden},
		{"owner", &models.User{ID: "u2", Role: "OWNER"}, http.StatusOK},
		{"admin", &models.User{ID: "u3", Role: "ADMIN"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(seeded(tt.user))
			r.GET("/x", RequireRoles(user.RoleAdmin, user.RoleOwner), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			assert.Equal(t, tt.want, serve(r).Code)
		})
	}
}
