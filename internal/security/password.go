package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPassword covers every verification failure, including a
// malformed stored hash, so callers cannot tell which check failed.
var ErrInvalidPassword = errors.New("invalid password")

func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}
