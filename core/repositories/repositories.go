// Package repositories holds the error values shared by every repository and
// store. Stores map driver errors onto these so bridges can translate them
// without knowing the backend.
package repositories

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("record not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicate    = errors.New("duplicate record")
	ErrPersistence  = errors.New("persistence failure")
)

// Persistence wraps err as ErrPersistence unless it already carries one of
// the classified errors above.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrPersistence):
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// RequireUser fails with ErrUnauthorized for an empty user id.
func RequireUser(userID string) error {
	if userID == "" {
		return ErrUnauthorized
	}
	return nil
}
