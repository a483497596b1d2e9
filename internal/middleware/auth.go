package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/RomanCsn/workshop-DFS/internal/auth"
	"github.com/RomanCsn/workshop-DFS/internal/domain/user"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
)

// RequireSession rejects requests without a live session.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := auth.CurrentSession(c); err != nil {
			abortUnauthorized(c, err)
			return
		}
		c.Next()
	}
}

// RequireRoles lets through users holding one of roles.
func RequireRoles(roles ...user.Role) gin.HandlerFunc {
	roleSet := make(map[user.Role]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		u, err := auth.CurrentUser(c)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		if _, ok := roleSet[user.Role(u.Role)]; !ok {
			httperr.Forbidden(c, httperr.MsgForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	message := httperr.MsgUnauthorized
	switch {
	case errors.Is(err, auth.ErrSessionExpired):
		message = "Session expired"
	case errors.Is(err, auth.ErrMissingToken):
		message = "Missing session token"
	}

	var se *httperr.StoreError
	if errors.As(err, &se) {
		httperr.Internal(c, se.Error())
		c.Abort()
		return
	}

	httperr.Unauthorized(c, message)
	c.Abort()
}
