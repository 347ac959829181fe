package services

import (
	"errors"
	"fmt"

	"contract-claims-api/models"
)

var (
	ErrOwnerNotFound     = errors.New("owner not found")
	ErrClaimNotFound     = errors.New("claim not found")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrForbidden         = errors.New("access denied")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrStatusConflict    = errors.New("claim status was changed by another reviewer")
)

// ValidationError identifies the offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// TransitionError explains a rejected status change. It matches ErrInvalidTransition.
type TransitionError struct {
	From      models.ClaimStatus
	To        models.ClaimStatus
	ValidNext []models.ClaimStatus
	Reason    error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %v", e.Reason)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

func (e *TransitionError) Unwrap() error { return e.Reason }
