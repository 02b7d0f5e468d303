package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation   = errors.New("validation")   // 400
	ErrUnauthorized = errors.New("unauthorized") // 401
	ErrForbidden    = errors.New("forbidden")    // 403
	ErrNotFound     = errors.New("not found")    // 404
	ErrConflict     = errors.New("conflict")     // 409
	ErrUpstream     = errors.New("upstream")     // 502
)

var (
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrConflict)
	ErrAlreadyClaimed    = fmt.Errorf("%w: order already claimed", ErrConflict)
	ErrNotAvailable      = fmt.Errorf("%w: order not available", ErrConflict)
	ErrInvalidCode       = fmt.Errorf("%w: invalid confirmation code", ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: invalid status transition", ErrConflict)
	ErrImportRunning     = fmt.Errorf("%w: an import is already running", ErrConflict)
)

// notFound turns gorm's missing-row error into ErrNotFound and passes
// anything else through.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
