package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RomanCsn/workshop-DFS/internal/audit"
	"github.com/RomanCsn/workshop-DFS/internal/auth"
	"github.com/RomanCsn/workshop-DFS/internal/config"
	"github.com/RomanCsn/workshop-DFS/internal/httperr"
	"github.com/RomanCsn/workshop-DFS/internal/httpresp"
	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type AuthHandler struct {
	svc    *auth.Service
	cookie config.AuthConfig
	audit  *audit.Dispatcher
	log    zerolog.Logger
}

func NewAuthHandler(
	svc *auth.Service,
	cfg config.AuthConfig,
	audit *audit.Dispatcher,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		cookie: cfg,
		audit:  audit,
		log:    log.With().Str("handler", "auth").Logger(),
	}
}

// --------- Requests ---------

type SignUpRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Name      string `json:"name" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      string `json:"role" binding:"omitempty,oneof=OWNER CUSTOMER MONITOR ADMIN CAREGIVER"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword     string `json:"currentPassword" binding:"required"`
	NewPassword         string `json:"newPassword" binding:"required,min=8"`
	RevokeOtherSessions bool   `json:"revokeOtherSessions"`
}

type RevokeSessionRequest struct {
	ID string `json:"id" binding:"required"`
}

type SendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// --------- Responses ---------

type sessionPayload struct {
	Session *models.Session `json:"session"`
	User    *models.User    `json:"user"`
	Token   string          `json:"token,omitempty"`
}

// --------- Handlers ---------

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if !bindBody(c, &req) {
		return
	}

	res, err := h.svc.SignUp(c.Request.Context(), auth.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      req.Role,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		h.fail(c, "sign_up", err)
		return
	}

	h.setCookie(c, res.Token, res.Session.ExpiresAt)
	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(res.User.ID),
		Action:   "user_signed_up",
		Entity:   "user",
		EntityID: audit.Ref(res.User.ID),
	})

	httpresp.Created(c, sessionPayload{Session: res.Session, User: res.User, Token: res.Token})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if !bindBody(c, &req) {
		return
	}

	res, err := h.svc.SignIn(c.Request.Context(), auth.SignInInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		h.fail(c, "sign_in", err)
		return
	}

	h.setCookie(c, res.Token, res.Session.ExpiresAt)
	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(res.User.ID),
		Action:   "user_signed_in",
		Entity:   "session",
		EntityID: audit.Ref(res.Session.ID),
		Metadata: map[string]any{"ip": res.Session.IPAddress},
	})

	httpresp.OK(c, sessionPayload{Session: res.Session, User: res.User, Token: res.Token})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	token := auth.TokenFromRequest(c, h.cookie.CookieName)
	if token != "" {
		if err := h.svc.Sessions().Destroy(c.Request.Context(), token); err != nil &&
			!isSessionError(err) {
			h.fail(c, "sign_out", err)
			return
		}
	}

	h.clearCookie(c)
	httpresp.OK(c, gin.H{"success": true})
}

// GetSession answers data:null for anonymous callers.
func (h *AuthHandler) GetSession(c *gin.Context) {
	session, err := auth.CurrentSession(c)
	if err != nil {
		if isSessionError(err) {
			httpresp.OK(c, nil)
			return
		}
		h.fail(c, "get_session", err)
		return
	}

	u, err := auth.CurrentUser(c)
	if err != nil {
		h.fail(c, "get_session", err)
		return
	}

	httpresp.OK(c, sessionPayload{Session: session, User: u})
}

func (h *AuthHandler) ListSessions(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	sessions, err := h.svc.Sessions().List(c.Request.Context(), session.UserID)
	if err != nil {
		h.fail(c, "list_sessions", err)
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	httpresp.OK(c, sessions)
}

func (h *AuthHandler) RevokeSession(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	var req RevokeSessionRequest
	if !bindBody(c, &req) {
		return
	}

	if err := h.svc.Sessions().DestroyByID(c.Request.Context(), session.UserID, req.ID); err != nil {
		h.fail(c, "revoke_session", err)
		return
	}

	if req.ID == session.ID {
		h.clearCookie(c)
	}
	httpresp.OK(c, gin.H{"status": true})
}

func (h *AuthHandler) RevokeOtherSessions(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	n, err := h.svc.Sessions().DestroyOthers(c.Request.Context(), session.UserID, session.ID)
	if err != nil {
		h.fail(c, "revoke_other_sessions", err)
		return
	}

	httpresp.OK(c, gin.H{"status": true, "revoked": n})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	session, ok := h.requireSession(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !bindBody(c, &req) {
		return
	}

	revoked, err := h.svc.ChangePassword(c.Request.Context(), session, auth.ChangePasswordInput{
		CurrentPassword:     req.CurrentPassword,
		NewPassword:         req.NewPassword,
		RevokeOtherSessions: req.RevokeOtherSessions,
	})
	if err != nil {
		h.fail(c, "change_password", err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ref(session.UserID),
		Action:   "password_changed",
		Entity:   "user",
		EntityID: audit.Ref(session.UserID),
		Metadata: map[string]any{"revokedSessions": revoked},
	})

	httpresp.OK(c, gin.H{"status": true, "revoked": revoked})
}

func (h *AuthHandler) SendVerificationEmail(c *gin.Context) {
	var req SendVerificationRequest
	if !bindBody(c, &req) {
		return
	}

	if _, _, err := h.svc.IssueVerification(c.Request.Context(), req.Email); err != nil {
		h.fail(c, "send_verification", err)
		return
	}

	httpresp.OK(c, gin.H{"status": true})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	err := h.svc.VerifyEmail(c.Request.Context(), c.Query("email"), c.Query("token"))
	if err != nil {
		h.fail(c, "verify_email", err)
		return
	}

	httpresp.OK(c, gin.H{"status": true})
}

// --------- Helpers ---------

func (h *AuthHandler) requireSession(c *gin.Context) (*models.Session, bool) {
	session, err := auth.CurrentSession(c)
	if err != nil {
		h.fail(c, "session", err)
		return nil, false
	}
	return session, true
}

func (h *AuthHandler) setCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, token, maxAge, "/", "", h.cookie.CookieSecure, true)
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.CookieSecure, true)
}

func isSessionError(err error) bool {
	return errors.Is(err, auth.ErrMissingToken) ||
		errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrSessionNotFound) ||
		errors.Is(err, auth.ErrSessionExpired)
}

func (h *AuthHandler) fail(c *gin.Context, op string, err error) {
	authError(c, h.log, op, err)
}

func authError(c *gin.Context, log zerolog.Logger, op string, err error) {
	switch {
	case isSessionError(err):
		httperr.Unauthorized(c, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		httperr.Unauthorized(c, err.Error())
	case errors.Is(err, auth.ErrUserExists):
		httperr.Write(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, auth.ErrInvalidEmailDomain),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordTooLong),
		errors.Is(err, auth.ErrInvalidVerification):
		httperr.BadRequest(c, err.Error(), nil)
	default:
		respondError(c, log, op, err, "Session not found")
	}
}
