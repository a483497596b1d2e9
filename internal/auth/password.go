package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores input past 72 bytes.
const maxPasswordLength = 72

func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordLength {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func validatePassword(password string, minLength int) error {
	if len(password) < minLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// dummyHash is compared against when no account matches, so unknown and
// known emails cost the same bcrypt work.
var dummyHash = sync.OnceValue(func() string {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("stable-no-such-account"), bcrypt.DefaultCost)
	return string(hashed)
})
