package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// Roster rule engine errors.
	ErrInvalidTime         = New("INVALID_TIME", http.StatusBadRequest, "time must be HH:MM or HH:MM:SS")
	ErrEndBeforeStart      = New("END_BEFORE_START", http.StatusBadRequest, "end time must be after start time")
	ErrRangeInverted       = New("RANGE_INVERTED", http.StatusBadRequest, "effective until must not precede effective from")
	ErrInstructorNotFound  = New("INSTRUCTOR_NOT_FOUND", http.StatusUnprocessableEntity, "instructor not found in this organisation")
	ErrRosterConflict      = New("ROSTER_CONFLICT", http.StatusConflict, "the requested window overlaps an existing roster rule")
	ErrConflictCheckFailed = New("CONFLICT_CHECK_FAILED", http.StatusInternalServerError, "could not verify roster conflicts")
	ErrExactKeyConflict    = New("EXACT_KEY_CONFLICT", http.StatusConflict, "an identical roster rule already exists")
	ErrPersistenceFailed   = New("PERSISTENCE_FAILED", http.StatusInternalServerError, "failed to persist roster changes")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
