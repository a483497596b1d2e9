package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-test-secret-test-secret!"

func TestNewSignerRejectsShortSecret(t *testing.T) {
	_, err := NewSigner("short")
	assert.ErrorIs(t, err, ErrSecretTooShort)
}

func TestSignerRoundTrip(t *testing.T) {
	signer, err := NewSigner(testSecret)
	require.NoError(t, err)

	now := time.Now()
	token, err := signer.Sign("user-1", "session-1", now, now.Add(time.Hour))
	require.NoError(t, err)

	claims, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestSignerParseErrors(t *testing.T) {
	signer, err := NewSigner(testSecret)
	require.NoError(t, err)
	other, err := NewSigner("another-secret-another-secret-12345")
	require.NoError(t, err)

	now := time.Now()

	expired, err := signer.Sign("user-1", "session-1", now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)
	foreign, err := other.Sign("user-1", "session-1", now, now.Add(time.Hour))
	require.NoError(t, err)
	noSession, err := signer.Sign("user-1", "", now, now.Add(time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"expired", expired, ErrSessionExpired},
		{"wrong secret", foreign, ErrInvalidToken},
		{"missing session id", noSession, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := signer.Parse(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHashToken(t *testing.T) {
	h := HashToken("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("abc"))
	assert.NotEqual(t, h, HashToken("abd"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))

	_, err = HashPassword(string(make([]byte, 73)))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	assert.ErrorIs(t, validatePassword("short", 8), ErrPasswordTooShort)
	assert.NoError(t, validatePassword("long enough", 8))
}
