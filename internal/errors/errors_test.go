package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("/home/u/.ai.json", "default_model 'foo' not found in models")

	if !errors.Is(err, ErrBadConfig) {
		t.Error("ConfigError should match ErrBadConfig sentinel")
	}
	if !IsConfigError(err) {
		t.Error("IsConfigError should return true")
	}
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}
}

func TestConfigError_NoPath(t *testing.T) {
	err := NewConfigError("", "max_history must be >= 0")
	want := "config error: max_history must be >= 0"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := NewNetworkError("https://api.openai.com/v1/chat/completions", cause)

	if !errors.Is(err, ErrNetwork) {
		t.Error("NetworkError should match ErrNetwork sentinel")
	}
	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}
	if GetEndpoint(err) != "https://api.openai.com/v1/chat/completions" {
		t.Errorf("GetEndpoint() = %q", GetEndpoint(err))
	}
}

func TestAuthError(t *testing.T) {
	err := NewAuthError(401, "invalid api key")

	if !errors.Is(err, ErrAuthFailed) {
		t.Error("AuthError should match ErrAuthFailed sentinel")
	}
	if !IsAuthError(err) {
		t.Error("IsAuthError should return true")
	}
	if IsRateLimitError(err) {
		t.Error("IsRateLimitError should return false for AuthError")
	}
	if GetHTTPStatus(err) != 401 {
		t.Errorf("GetHTTPStatus() = %d, want 401", GetHTTPStatus(err))
	}
}

func TestAuthError_DefaultMessage(t *testing.T) {
	err := NewAuthError(0, "")
	if err.Error() != "authentication failed: check your API key" {
		t.Errorf("unexpected default message: %q", err.Error())
	}
}

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError(429, "quota exhausted")

	if !errors.Is(err, ErrRateLimited) {
		t.Error("RateLimitError should match ErrRateLimited sentinel")
	}
	if !IsRateLimitError(err) {
		t.Error("IsRateLimitError should return true")
	}
	if GetHTTPStatus(err) != 429 {
		t.Errorf("GetHTTPStatus() = %d, want 429", GetHTTPStatus(err))
	}
}

func TestAPIError(t *testing.T) {
	err := NewAPIError(500, "https://api.deepseek.com/v1/chat/completions", "internal error")

	if GetHTTPStatus(err) != 500 {
		t.Errorf("GetHTTPStatus() = %d, want 500", GetHTTPStatus(err))
	}
	if GetEndpoint(err) == "" {
		t.Error("GetEndpoint() should not be empty")
	}
	if IsAuthError(err) || IsRateLimitError(err) || IsNetworkError(err) {
		t.Error("APIError should not match other predicates")
	}
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
		name   string
	}{
		{401, IsAuthError, "401 -> AuthError"},
		{403, IsAuthError, "403 -> AuthError"},
		{429, IsRateLimitError, "429 -> RateLimitError"},
		{500, func(err error) bool {
			var pe *APIError
			return errors.As(err, &pe)
		}, "500 -> APIError"},
		{404, func(err error) bool {
			var pe *APIError
			return errors.As(err, &pe)
		}, "404 -> APIError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatus(tt.status, "https://example.com", "boom")
			if !tt.check(err) {
				t.Errorf("FromStatus(%d) produced wrong type: %T", tt.status, err)
			}
			if GetHTTPStatus(err) != tt.status {
				t.Errorf("GetHTTPStatus() = %d, want %d", GetHTTPStatus(err), tt.status)
			}
		})
	}
}

func TestWrappedErrors(t *testing.T) {
	inner := NewAuthError(403, "forbidden")
	wrapped := fmt.Errorf("ask failed: %w", inner)

	if !IsAuthError(wrapped) {
		t.Error("IsAuthError should see through fmt.Errorf wrapping")
	}
	if GetHTTPStatus(wrapped) != 403 {
		t.Errorf("GetHTTPStatus() = %d, want 403", GetHTTPStatus(wrapped))
	}
}
