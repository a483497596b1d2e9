package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RomanCsn/workshop-DFS/internal/models"
)

type memStore struct {
	mu            sync.Mutex
	users         map[string]*models.User
	accounts      map[string]*models.Account
	sessions      map[string]*models.Session
	verifications []*models.Verification
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*models.User{},
		accounts: map[string]*models.Account{},
		sessions: map[string]*models.Session{},
	}
}

var _ Store = (*memStore)(nil)

func (s *memStore) CreateUserWithAccount(_ context.Context, u *models.User, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = uuid.NewString()
	a.ID = uuid.NewString()
	a.UserID = u.ID
	a.AccountID = u.ID
	s.users[u.ID] = u
	s.accounts[u.ID] = a
	return nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id], nil
}

func (s *memStore) GetCredentialAccount(_ context.Context, userID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[userID], nil
}

func (s *memStore) UpdateAccountPassword(_ context.Context, userID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[userID].Password = hash
	return nil
}

func (s *memStore) MarkEmailVerified(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			u.EmailVerified = true
		}
	}
	return nil
}

func (s *memStore) CreateSession(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.ID] = &cp
	return nil
}

func (s *memStore) GetSessionByToken(_ context.Context, tokenHash string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		if session.Token == tokenHash {
			cp := *session
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) GetSessionByID(_ context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *session
	return &cp, nil
}

func (s *memStore) ListUserSessions(_ context.Context, userID string) ([]models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Session
	for _, session := range s.sessions {
		if session.UserID == userID {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (s *memStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *memStore) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

func (s *memStore) CreateVerification(_ context.Context, v *models.Verification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = uuid.NewString()
	s.verifications = append(s.verifications, v)
	return nil
}

func (s *memStore) ConsumeVerification(_ context.Context, identifier, value string) (*models.Verification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.verifications {
		if v.Identifier == identifier && v.Value == value {
			s.verifications = append(s.verifications[:i], s.verifications[i+1:]...)
			return v, nil
		}
	}
	return nil, nil
}

func (s *memStore) DeleteExpiredVerifications(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.verifications[:0]
	var n int64
	for _, v := range s.verifications {
		if now.Before(v.ExpiresAt) {
			kept = append(kept, v)
			continue
		}
		n++
	}
	s.verifications = kept
	return n, nil
}

func (s *memStore) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
