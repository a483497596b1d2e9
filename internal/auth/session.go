package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RomanCsn/workshop-DFS/internal/cache"
	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type CreateSessionResult struct {
	Session *models.Session
	Token   string
}

type SessionManager struct {
	store  Store
	cache  cache.SessionCache // optional
	signer *Signer
	ttl    time.Duration
	log    zerolog.Logger
	now    func() time.Time
}

func NewSessionManager(
	store Store,
	sessionCache cache.SessionCache,
	signer *Signer,
	ttl time.Duration,
	log zerolog.Logger,
) *SessionManager {
	return &SessionManager{
		store:  store,
		cache:  sessionCache,
		signer: signer,
		ttl:    ttl,
		log:    log.With().Str("component", "sessions").Logger(),
		now:    time.Now,
	}
}

func (m *SessionManager) Create(
	ctx context.Context,
	userID string,
	ip string,
	userAgent string,
) (*CreateSessionResult, error) {

	now := m.now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(m.ttl),
		IPAddress: ip,
		UserAgent: userAgent,
	}

	token, err := m.signer.Sign(userID, session.ID, now, session.ExpiresAt)
	if err != nil {
		return nil, err
	}
	session.Token = HashToken(token)

	if err := m.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	m.cacheSet(ctx, session)

	return &CreateSessionResult{Session: session, Token: token}, nil
}

// Verify resolves a token to a live session.
func (m *SessionManager) Verify(ctx context.Context, token string) (*models.Session, error) {
	claims, err := m.signer.Parse(token)
	if err != nil {
		return nil, err
	}

	tokenHash := HashToken(token)

	session, err := m.lookup(ctx, tokenHash)
	if err != nil {
		return nil, err
	}

	if session.ID != claims.SessionID || session.UserID != claims.Subject || !hashesEqual(session.Token, tokenHash) {
		return nil, ErrInvalidToken
	}
	if session.Expired(m.now()) {
		m.cacheDelete(ctx, tokenHash)
		return nil, ErrSessionExpired
	}

	return session, nil
}

func (m *SessionManager) lookup(ctx context.Context, tokenHash string) (*models.Session, error) {
	if m.cache != nil {
		session, err := m.cache.Get(ctx, tokenHash)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			m.log.Warn().Err(err).Msg("session cache read failed")
		}
	}

	session, err := m.store.GetSessionByToken(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	m.cacheSet(ctx, session)
	return session, nil
}

// Destroy revokes the session carrying token.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingToken
	}

	tokenHash := HashToken(token)
	session, err := m.store.GetSessionByToken(ctx, tokenHash)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}

	return m.remove(ctx, session)
}

// DestroyByID revokes one of the user's sessions by id.
func (m *SessionManager) DestroyByID(ctx context.Context, userID, sessionID string) error {
	session, err := m.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil || session.UserID != userID {
		return ErrSessionNotFound
	}

	return m.remove(ctx, session)
}

// DestroyOthers revokes every session of the user except keepID and
// returns how many were removed.
func (m *SessionManager) DestroyOthers(ctx context.Context, userID, keepID string) (int, error) {
	sessions, err := m.store.ListUserSessions(ctx, userID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := range sessions {
		if sessions[i].ID == keepID {
			continue
		}
		if err := m.remove(ctx, &sessions[i]); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (m *SessionManager) List(ctx context.Context, userID string) ([]models.Session, error) {
	sessions, err := m.store.ListUserSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := m.now()
	active := sessions[:0]
	for _, s := range sessions {
		if !s.Expired(now) {
			active = append(active, s)
		}
	}
	return active, nil
}

// PurgeExpired deletes expired sessions. Cached copies expire on their own.
func (m *SessionManager) PurgeExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpiredSessions(ctx, m.now())
}

func (m *SessionManager) remove(ctx context.Context, session *models.Session) error {
	if err := m.store.DeleteSession(ctx, session.ID); err != nil {
		return err
	}
	m.cacheDelete(ctx, session.Token)
	return nil
}

func (m *SessionManager) cacheSet(ctx context.Context, session *models.Session) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Set(ctx, session.Token, session); err != nil {
		m.log.Warn().Err(err).Msg("session cache write failed")
	}
}

func (m *SessionManager) cacheDelete(ctx context.Context, tokenHash string) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Delete(ctx, tokenHash); err != nil {
		m.log.Warn().Err(err).Msg("session cache delete failed")
	}
}
