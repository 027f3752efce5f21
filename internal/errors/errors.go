// Package errors provides the error taxonomy for the ask CLI.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrAuthFailed  = errors.New("authentication failed")
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrBadConfig   = errors.New("invalid configuration")
	ErrNetwork     = errors.New("network failure")
)

// ConfigError represents an unusable configuration: malformed file,
// unknown model name, or missing API key. Startup-fatal.
type ConfigError struct {
	Message string
	Path    string
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config error (%s): %s", e.Path, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// Is allows comparison with the ErrBadConfig sentinel
func (e *ConfigError) Is(target error) bool {
	if target == ErrBadConfig {
		return true
	}
	_, ok := target.(*ConfigError)
	return ok
}

// NewConfigError creates a new ConfigError
func NewConfigError(path, message string) *ConfigError {
	return &ConfigError{Path: path, Message: message}
}

// NetworkError represents a connection or timeout failure before any
// HTTP status was received
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error contacting %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is allows comparison with the ErrNetwork sentinel
func (e *NetworkError) Is(target error) bool {
	if target == ErrNetwork {
		return true
	}
	_, ok := target.(*NetworkError)
	return ok
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(endpoint string, err error) *NetworkError {
	return &NetworkError{Endpoint: endpoint, Err: err}
}

// AuthError represents an unauthorized or forbidden API response
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed: check your API key"
	}
	return fmt.Sprintf("authentication failed [%d]: %s", e.StatusCode, e.Message)
}

// Is allows comparison with the ErrAuthFailed sentinel
func (e *AuthError) Is(target error) bool {
	if target == ErrAuthFailed {
		return true
	}
	_, ok := target.(*AuthError)
	return ok
}

// NewAuthError creates a new AuthError
func NewAuthError(statusCode int, message string) *AuthError {
	return &AuthError{StatusCode: statusCode, Message: message}
}

// RateLimitError represents a throttled request (HTTP 429)
type RateLimitError struct {
	StatusCode int
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message == "" {
		return "rate limit exceeded, try again later"
	}
	return fmt.Sprintf("rate limit exceeded [%d]: %s", e.StatusCode, e.Message)
}

// Is allows comparison with the ErrRateLimited sentinel
func (e *RateLimitError) Is(target error) bool {
	if target == ErrRateLimited {
		return true
	}
	_, ok := target.(*RateLimitError)
	return ok
}

// NewRateLimitError creates a new RateLimitError
func NewRateLimitError(statusCode int, message string) *RateLimitError {
	return &RateLimitError{StatusCode: statusCode, Message: message}
}

// APIError represents any other non-2xx API response, carrying the
// upstream status and message
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// FromStatus maps a non-2xx HTTP status to the matching typed error.
func FromStatus(statusCode int, endpoint, message string) error {
	switch statusCode {
	case 401, 403:
		return NewAuthError(statusCode, message)
	case 429:
		return NewRateLimitError(statusCode, message)
	default:
		return NewAPIError(statusCode, endpoint, message)
	}
}

// IsConfigError reports whether err is a ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsAuthError reports whether err is an AuthError
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsRateLimitError reports whether err is a RateLimitError
func IsRateLimitError(err error) bool {
	var re *RateLimitError
	return errors.As(err, &re)
}

// IsNetworkError reports whether err is a NetworkError
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// GetHTTPStatus extracts the HTTP status from a typed error, or 0
func GetHTTPStatus(err error) int {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	var re *RateLimitError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	var pe *APIError
	if errors.As(err, &pe) {
		return pe.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint from a typed error, or ""
func GetEndpoint(err error) string {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Endpoint
	}
	var pe *APIError
	if errors.As(err, &pe) {
		return pe.Endpoint
	}
	return ""
}
