package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Caller errors
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"

	// Application errors
	ErrorTypeInternal ErrorType = "INTERNAL"

	// Remote service errors
	ErrorTypeNetwork  ErrorType = "NETWORK"
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// Sentinel errors shared by the view and orchestration layers.
// Compare with errors.Is; the match is on Code, so decorated copies still match.
var (
	// ErrAbsent reports a missing required argument (zero identifier, nil event, nil posts).
	ErrAbsent = &AppError{
		Type:       ErrorTypeValidation,
		Code:       "ABSENT",
		Message:    "required argument is missing",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrNoMatch reports a lookup by identifier that found nothing.
	ErrNoMatch = &AppError{
		Type:       ErrorTypeNotFound,
		Code:       "NO_MATCH",
		Message:    "no element matches the identifier",
		HTTPStatus: http.StatusNotFound,
	}

	// ErrBusy reports an interaction rejected because a refresh is in flight.
	ErrBusy = &AppError{
		Type:       ErrorTypeConflict,
		Code:       "BUSY",
		Message:    "selection control is disabled while a refresh is in flight",
		HTTPStatus: http.StatusConflict,
	}
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError carrying the same non-empty code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e == t {
		return true
	}
	return e.Code != "" && e.Code == t.Code
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Absent returns a copy of ErrAbsent naming the missing argument.
func Absent(argument string) *AppError {
	return &AppError{
		Type:       ErrAbsent.Type,
		Code:       ErrAbsent.Code,
		Message:    fmt.Sprintf("%s is required", argument),
		HTTPStatus: ErrAbsent.HTTPStatus,
	}
}

// NoMatch returns a copy of ErrNoMatch naming what was looked up.
func NoMatch(what string, id int) *AppError {
	return &AppError{
		Type:       ErrNoMatch.Type,
		Code:       ErrNoMatch.Code,
		Message:    fmt.Sprintf("no %s for id %d", what, id),
		Details:    map[string]interface{}{"id": id},
		HTTPStatus: ErrNoMatch.HTTPStatus,
	}
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// NewNetworkError creates a network error
func NewNetworkError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		Cause:      err,
		HTTPStatus: http.StatusBadGateway,
		StackTrace: captureStackTrace(),
	}
}

// NewExternalError creates an external service error
func NewExternalError(service string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Message:    fmt.Sprintf("external service '%s' error", service),
		Cause:      err,
		HTTPStatus: http.StatusBadGateway,
		StackTrace: captureStackTrace(),
	}
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsAbsent checks if an error is a missing-argument error
func IsAbsent(err error) bool {
	return errors.Is(err, ErrAbsent)
}

// IsNoMatch checks if an error is a no-match lookup error
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}

// IsBusy checks if an error is an in-flight rejection
func IsBusy(err error) bool {
	return errors.Is(err, ErrBusy)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if appErr := GetAppError(err); appErr != nil {
		wrapped := *appErr
		wrapped.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return &wrapped
	}

	return NewInternalError(message).WithCause(err)
}
