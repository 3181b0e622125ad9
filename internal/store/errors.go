// Package store holds the gorm backed repositories: users, locations and
// transactions. Every method takes the caller's context.
package store

import (
	"errors"
	"fmt"

	"finance_tracker/internal/domain"

	"gorm.io/gorm"
)

var (
	// ErrUnknownLocation is returned when a transaction references a location name that does not exist.
	ErrUnknownLocation = errors.New("store: unknown location")
	// ErrLocationInUse is returned when deleting a location that transactions still reference.
	ErrLocationInUse = errors.New("store: location in use")
)

// mapError converts gorm errors into domain kinds. Anything else passes through.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	default:
		return err
	}
}
