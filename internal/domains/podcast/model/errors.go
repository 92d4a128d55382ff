package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodePodcastNotFound = "POD001"
	ErrCodeEpisodeNotFound = "POD002"
	ErrCodeValidation      = "POD003"
	ErrCodeUnauthorized    = "POD004"
	ErrCodeForbidden       = "POD005"
	ErrCodeInvalidState    = "POD006"
	ErrCodeStorage         = "POD007"
	ErrCodeTransaction     = "POD008"
	ErrCodeInternal        = "POD009"
)

// Error kinds. Every PodcastError wraps exactly one of these.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage error")
	ErrTransaction  = errors.New("transaction error")
	ErrInternal     = errors.New("internal error")
)

// PodcastError custom error type
type PodcastError struct {
	Code    string
	Message string
	Err     error // kind
	Cause   error // underlying error, may be nil
}

func (e *PodcastError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *PodcastError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// Error constructors
func NewPodcastNotFoundError() *PodcastError {
	return &PodcastError{
		Code:    ErrCodePodcastNotFound,
		Message: "Podcast not found",
		Err:     ErrNotFound,
	}
}

func NewEpisodeNotFoundError() *PodcastError {
	return &PodcastError{
		Code:    ErrCodeEpisodeNotFound,
		Message: "Episode not found",
		Err:     ErrNotFound,
	}
}

func NewValidationError(message string, cause error) *PodcastError {
	return &PodcastError{
		Code:    ErrCodeValidation,
		Message: message,
		Err:     ErrValidation,
		Cause:   cause,
	}
}

func NewUnauthorizedError() *PodcastError {
	return &PodcastError{
		Code:    ErrCodeUnauthorized,
		Message: "Authentication required",
		Err:     ErrUnauthorized,
	}
}

func NewForbiddenError(message string) *PodcastError {
	return &PodcastError{
		Code:    ErrCodeForbidden,
		Message: message,
		Err:     ErrForbidden,
	}
}

func NewInvalidStateError(current Status) *PodcastError {
	return &PodcastError{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf("Podcast is already %s", current),
		Err:     ErrConflict,
	}
}

func NewStorageError(message string, cause error) *PodcastError {
	return &PodcastError{
		Code:    ErrCodeStorage,
		Message: message,
		Err:     ErrStorage,
		Cause:   cause,
	}
}

func NewTransactionError(cause error) *PodcastError {
	return &PodcastError{
		Code:    ErrCodeTransaction,
		Message: "Database transaction failed",
		Err:     ErrTransaction,
		Cause:   cause,
	}
}

func NewInternalError(message string, cause error) *PodcastError {
	return &PodcastError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     ErrInternal,
		Cause:   cause,
	}
}
