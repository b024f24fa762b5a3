package simpleblog

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds reported by the platform. These allow callers to use
// errors.Is() on a *PlatformError; the facade itself does not branch on them
// except for ErrUnauthorized in AuthService.GetUser.
var (
	// ErrBadRequest indicates the platform rejected the input (HTTP 400).
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized indicates missing or invalid credentials (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates insufficient permissions (HTTP 403).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the resource does not exist (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a resource with the same id already exists (HTTP 409).
	ErrConflict = errors.New("conflict")

	// ErrRateLimited indicates the platform throttled the request (HTTP 429).
	ErrRateLimited = errors.New("rate limited")

	// ErrPlatform is any other failure reported by the platform.
	ErrPlatform = errors.New("platform error")
)

// ErrNoSession is returned by AuthService.GetUser when there is no
// authenticated user. It wraps ErrUnauthorized.
var ErrNoSession = fmt.Errorf("no active session: %w", ErrUnauthorized)

// PlatformError is a failure reported by the backend platform.
type PlatformError struct {
	Op         string
	StatusCode int
	Type       string
	Message    string
	Err        error
}

func (e *PlatformError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("platform operation %s failed (%d %s): %s", e.Op, e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("platform operation %s failed (%d): %s", e.Op, e.StatusCode, e.Message)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// NewPlatformError builds a PlatformError whose kind follows the HTTP status.
func NewPlatformError(op string, statusCode int, errType, message string) *PlatformError {
	return &PlatformError{
		Op:         op,
		StatusCode: statusCode,
		Type:       errType,
		Message:    message,
		Err:        KindForStatus(statusCode),
	}
}

// KindForStatus maps an HTTP status code to one of the error kinds above.
func KindForStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrPlatform
	}
}

// StatusForError returns the HTTP status carried by err, or fallback.
func StatusForError(err error, fallback int) int {
	var pe *PlatformError
	if errors.As(err, &pe) && pe.StatusCode != 0 {
		return pe.StatusCode
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	return fallback
}

// AuthError wraps a failure of an AuthService operation.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth operation %s failed: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
