package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RomanCsn/workshop-DFS/internal/models"
)

const (
	ctxAccessor   = "auth.accessor"
	ctxSession    = "auth.session"
	ctxSessionErr = "auth.session_err"
	ctxUser       = "auth.user"
	ctxUserErr    = "auth.user_err"
)

// UserLookup resolves the user owning a session.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Accessor resolves the caller's session from the request.
type Accessor struct {
	sessions   *SessionManager
	users      UserLookup
	cookieName string
}

func NewAccessor(sessions *SessionManager, users UserLookup, cookieName string) *Accessor {
	return &Accessor{
		sessions:   sessions,
		users:      users,
		cookieName: cookieName,
	}
}

// Attach makes the accessor available to CurrentSession and CurrentUser.
func (a *Accessor) Attach() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxAccessor, a)
		c.Next()
	}
}

func (a *Accessor) CookieName() string {
	return a.cookieName
}

// TokenFromRequest reads a bearer token, falling back to the session cookie.
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

// CurrentSession verifies the request token once and memoizes the outcome
// in the gin context.
func CurrentSession(c *gin.Context) (*models.Session, error) {
	if v, ok := c.Get(ctxSession); ok {
		return v.(*models.Session), nil
	}
	if v, ok := c.Get(ctxSessionErr); ok {
		return nil, v.(error)
	}

	a, ok := c.Get(ctxAccessor)
	if !ok {
		return nil, ErrMissingToken
	}
	accessor := a.(*Accessor)

	token := TokenFromRequest(c, accessor.cookieName)
	if token == "" {
		c.Set(ctxSessionErr, ErrMissingToken)
		return nil, ErrMissingToken
	}

	session, err := accessor.sessions.Verify(c.Request.Context(), token)
	if err != nil {
		c.Set(ctxSessionErr, err)
		return nil, err
	}

	c.Set(ctxSession, session)
	return session, nil
}

// CurrentUser derives the user from CurrentSession, memoized the same way.
func CurrentUser(c *gin.Context) (*models.User, error) {
	if v, ok := c.Get(ctxUser); ok {
		return v.(*models.User), nil
	}
	if v, ok := c.Get(ctxUserErr); ok {
		return nil, v.(error)
	}

	session, err := CurrentSession(c)
	if err != nil {
		return nil, err
	}

	accessor := c.MustGet(ctxAccessor).(*Accessor)
	u, err := accessor.users.GetUserByID(c.Request.Context(), session.UserID)
	if err == nil && u == nil {
		err = ErrSessionNotFound
	}
	if err != nil {
		c.Set(ctxUserErr, err)
		return nil, err
	}

	c.Set(ctxUser, u)
	return u, nil
}

// SetCurrent seeds the memoized values, for callers that already
// authenticated the request.
func SetCurrent(c *gin.Context, session *models.Session, u *models.User) {
	if session != nil {
		c.Set(ctxSession, session)
	}
	if u != nil {
		c.Set(ctxUser, u)
	}
}
