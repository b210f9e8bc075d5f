package auth

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Password limits are in bytes; bcrypt ignores everything past 72 of them.
const (
	MinPasswordLength = 6
	maxPasswordLength = 72
)

var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password exceeds maximum length of %d bytes", maxPasswordLength)
)

// bcryptCost clamps a configured cost into the range bcrypt accepts.
// Zero selects bcrypt.DefaultCost.
func bcryptCost(cost int) int {
	switch {
	case cost == 0:
		return bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		return bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		return bcrypt.MaxCost
	}
	return cost
}

// HashPassword checks the length limits and returns a bcrypt hash.
func HashPassword(password string, cost int) (string, error) {
	switch n := len(password); {
	case n < MinPasswordLength:
		return "", ErrPasswordTooShort
	case n > maxPasswordLength:
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost(cost))
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword returns ErrInvalidPassword when password does not match.
// Any other error means the stored hash is unusable.
func CheckPassword(password, hash string) error {
	if len(password) > maxPasswordLength {
		return ErrInvalidPassword
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidPassword
	}
	return err
}

// timingGuard burns one bcrypt comparison for logins with an unknown email,
// so they take as long to reject as a wrong password.
type timingGuard struct {
	cost int
	once sync.Once
	hash []byte
}

func (g *timingGuard) compare(password string) {
	g.once.Do(func() {
		g.hash, _ = bcrypt.GenerateFromPassword([]byte("unknown-account"), bcryptCost(g.cost))
	})
	if len(password) > maxPasswordLength {
		password = password[:maxPasswordLength]
	}
	_ = bcrypt.CompareHashAndPassword(g.hash, []byte(password))
}
