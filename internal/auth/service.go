package auth

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/RomanCsn/workshop-DFS/internal/config"
	"github.com/RomanCsn/workshop-DFS/internal/domain/user"
	"github.com/RomanCsn/workshop-DFS/internal/models"
	"github.com/RomanCsn/workshop-DFS/internal/validators"
)

type SignUpInput struct {
	Email     string
	Password  string
	Name      string
	FirstName string
	LastName  string
	Phone     string
	Role      string
	IPAddress string
	UserAgent string
}

type SignInInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

type ChangePasswordInput struct {
	CurrentPassword     string
	NewPassword         string
	RevokeOtherSessions bool
}

type Result struct {
	User    *models.User
	Session *models.Session
	Token   string
}

// Service implements email/password credentials on top of the store.
type Service struct {
	store    Store
	sessions *SessionManager
	cfg      config.AuthConfig
	log      zerolog.Logger
	now      func() time.Time

	checkPassword    func(hash, password string) bool
	emailDomainCheck func(context.Context, string) bool
}

func NewService(
	store Store,
	sessions *SessionManager,
	cfg config.AuthConfig,
	log zerolog.Logger,
) *Service {
	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = 8
	}

	return &Service{
		store:            store,
		sessions:         sessions,
		cfg:              cfg,
		log:              log.With().Str("component", "auth").Logger(),
		now:              time.Now,
		checkPassword:    CheckPassword,
		emailDomainCheck: validators.IsEmailDomainValid,
	}
}

func (s *Service) Sessions() *SessionManager {
	return s.sessions
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the user, its credential account and a first session.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*Result, error) {
	email := normalizeEmail(in.Email)

	role := user.RoleCustomer
	if in.Role != "" {
		role = user.Role(strings.ToUpper(in.Role))
		if !role.SelfAssignable() {
			return nil, ErrInvalidRole
		}
	}

	if err := validatePassword(in.Password, s.cfg.MinPasswordLength); err != nil {
		return nil, err
	}

	if s.cfg.CheckEmailDomain && !s.emailDomainCheck(ctx, email) {
		return nil, ErrInvalidEmailDomain
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = strings.TrimSpace(in.FirstName + " " + in.LastName)
	}

	u := &models.User{
		Name:      name,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Role:      string(role),
	}
	account := &models.Account{
		ProviderID: models.ProviderCredential,
		Password:   hash,
	}

	if err := s.store.CreateUserWithAccount(ctx, u, account); err != nil {
		return nil, err
	}

	if _, _, err := s.IssueVerification(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("user_id", u.ID).Msg("verification not issued")
	}

	created, err := s.sessions.Create(ctx, u.ID, in.IPAddress, in.UserAgent)
	if err != nil {
		return nil, err
	}

	return &Result{User: u, Session: created.Session, Token: created.Token}, nil
}

func (s *Service) SignIn(ctx context.Context, in SignInInput) (*Result, error) {
	email := normalizeEmail(in.Email)

	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.checkPassword(dummyHash(), in.Password)
		return nil, ErrInvalidCredentials
	}

	account, err := s.store.GetCredentialAccount(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		s.checkPassword(dummyHash(), in.Password)
		return nil, ErrInvalidCredentials
	}
	if !s.checkPassword(account.Password, in.Password) {
		return nil, ErrInvalidCredentials
	}

	created, err := s.sessions.Create(ctx, u.ID, in.IPAddress, in.UserAgent)
	if err != nil {
		return nil, err
	}

	return &Result{User: u, Session: created.Session, Token: created.Token}, nil
}

// ChangePassword checks the current password, stores the new hash and
// optionally revokes every other session of the user.
func (s *Service) ChangePassword(
	ctx context.Context,
	session *models.Session,
	in ChangePasswordInput,
) (int, error) {

	if err := validatePassword(in.NewPassword, s.cfg.MinPasswordLength); err != nil {
		return 0, err
	}

	account, err := s.store.GetCredentialAccount(ctx, session.UserID)
	if err != nil {
		return 0, err
	}
	if account == nil || !s.checkPassword(account.Password, in.CurrentPassword) {
		return 0, ErrInvalidCredentials
	}

	hash, err := HashPassword(in.NewPassword)
	if err != nil {
		return 0, err
	}
	if err := s.store.UpdateAccountPassword(ctx, session.UserID, hash); err != nil {
		return 0, err
	}

	if !in.RevokeOtherSessions {
		return 0, nil
	}
	return s.sessions.DestroyOthers(ctx, session.UserID, session.ID)
}

// IssueVerification stores a one-time token for the email address.
// Delivery is left to the caller; the token is only logged at debug level.
func (s *Service) IssueVerification(ctx context.Context, email string) (*models.Verification, string, error) {
	value, err := randomToken(32)
	if err != nil {
		return nil, "", err
	}

	ttl := s.cfg.VerificationTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	v := &models.Verification{
		Identifier: normalizeEmail(email),
		Value:      HashToken(value),
		ExpiresAt:  s.now().UTC().Add(ttl),
	}
	if err := s.store.CreateVerification(ctx, v); err != nil {
		return nil, "", err
	}

	s.log.Debug().
		Str("identifier", v.Identifier).
		Str("token", value).
		Msg("verification issued")

	return v, value, nil
}

func (s *Service) VerifyEmail(ctx context.Context, email, token string) error {
	identifier := normalizeEmail(email)
	if identifier == "" || token == "" {
		return ErrInvalidVerification
	}

	v, err := s.store.ConsumeVerification(ctx, identifier, HashToken(token))
	if err != nil {
		return err
	}
	if v == nil || !s.now().Before(v.ExpiresAt) {
		return ErrInvalidVerification
	}

	return s.store.MarkEmailVerified(ctx, identifier)
}

func (s *Service) PurgeExpiredVerifications(ctx context.Context) (int64, error) {
	return s.store.DeleteExpiredVerifications(ctx, s.now())
}
