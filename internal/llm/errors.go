package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrRateLimit is returned for HTTP 429.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrUnauthorized means the vendor rejected the API key. Never retried.
type ErrUnauthorized struct {
	Err error
}

func (e *ErrUnauthorized) Error() string {
	return fmt.Sprintf("API key rejected: %v", e.Err)
}

func (e *ErrUnauthorized) Unwrap() error { return e.Err }

// ErrInvalidResponse means the output did not match the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid oracle response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers transport failures and 5xx responses.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oracle unavailable: %v", e.Err)
	}
	return "oracle unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means the reply was truncated at MaxTokens.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "oracle response truncated: max tokens exceeded"
}

// IsUnauthorized reports whether err stems from a rejected API key.
func IsUnauthorized(err error) bool {
	var u *ErrUnauthorized
	return errors.As(err, &u)
}

// classifyStatus maps a vendor HTTP status onto the typed errors above.
// A zero status means the request never got a response.
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &ErrUnauthorized{Err: err}
	case status == http.StatusBadRequest && mentionsAPIKey(err):
		// Gemini answers malformed keys with 400 API_KEY_INVALID.
		return &ErrUnauthorized{Err: err}
	default:
		return &ErrProviderUnavailable{Err: err}
	}
}

func mentionsAPIKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "api key") || strings.Contains(msg, "api_key")
}
