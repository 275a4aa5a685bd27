package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidAction      = errors.New("invalid action")
	ErrNoStagesConfigured = errors.New("no stages configured for role")
	ErrStageNotInRole     = errors.New("current stage not found in role stages")
	ErrApplicationClosed  = errors.New("application is already closed")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
)

// NotFoundError reports a missing entity by kind and identifier.
func NotFoundError(entity string, id uint) error {
	return fmt.Errorf("%s with ID %d: %w", entity, id, ErrNotFound)
}

func ConflictError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

func ValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}
