package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation marks pre-execution rejections. Nothing was mutated and
	// the reason string is safe to show verbatim.
	ErrValidation = errors.New("transaction rejected")

	// Domain errors: logically impossible requests caught after validation
	// passed. The in-flight transaction rolls back.
	ErrAlreadyReleased         = errors.New("contract already released")
	ErrNoRemainingYears        = errors.New("no remaining years to amortize into")
	ErrInvalidContractShape    = errors.New("invalid contract shape")
	ErrTagSlotOccupied         = errors.New("team already holds this tag for the season")
	ErrDesignationLimitReached = errors.New("june 1 designation limit reached")
)

// ValidationError is the typed rejection returned by pre-execution checks.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a pre-execution rejection, as
// opposed to a domain or storage failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
