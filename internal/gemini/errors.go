// Package gemini is the LLM gateway: a raw-HTTP Gemini client, the
// provider error taxonomy, and API-key validation across a prioritized
// model list.
package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a gateway failure for callers that need to branch on
// cause (abort vs. try the next model vs. surface to the user).
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindAuth         Kind = "auth"
	KindPermission   Kind = "permission"
	KindRateLimit    Kind = "rate_limit"
	KindNotFound     Kind = "not_found"
	KindProvider     Kind = "provider"
	KindParse        Kind = "parse"
)

// Sentinel errors for the common pre-flight failures.
var (
	ErrEmptyKey      = errors.New("api key is empty")
	ErrBadKeyFormat  = errors.New("api key format is invalid")
	ErrNoUsableModel = errors.New("no usable model found")
)

// APIError is a classified provider failure. Status is the HTTP status
// code when the failure came off the wire, zero otherwise.
type APIError struct {
	Kind    Kind
	Status  int
	Model   string
	Message string
}

func (e *APIError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("gemini %s (%s): %s", e.Kind, e.Model, e.Message)
	}
	return fmt.Sprintf("gemini %s: %s", e.Kind, e.Message)
}

// IsRateLimit reports whether err is a rate-limit/quota failure.
func IsRateLimit(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == KindRateLimit
}

// IsAuth reports whether err is an authentication or permission failure,
// i.e. one that no amount of retrying or model switching will fix.
func IsAuth(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && (ae.Kind == KindAuth || ae.Kind == KindPermission)
}

// classify maps an HTTP status and provider error body to an APIError.
// Body markers take precedence over the bare status code because the
// provider reports quota exhaustion under more than one status.
func classify(status int, body, model string) *APIError {
	msg := strings.TrimSpace(body)

	switch {
	case status == http.StatusTooManyRequests,
		strings.Contains(body, "quota"),
		strings.Contains(body, "RESOURCE_EXHAUSTED"):
		return &APIError{Kind: KindRateLimit, Status: status, Model: model, Message: msg}
	case status == http.StatusUnauthorized,
		strings.Contains(body, "API_KEY_INVALID"),
		strings.Contains(body, "API key not valid"):
		return &APIError{Kind: KindAuth, Status: status, Model: model, Message: msg}
	case status == http.StatusForbidden,
		strings.Contains(body, "PERMISSION_DENIED"):
		return &APIError{Kind: KindPermission, Status: status, Model: model, Message: msg}
	case status == http.StatusNotFound,
		strings.Contains(body, "is not found"):
		return &APIError{Kind: KindNotFound, Status: status, Model: model, Message: msg}
	default:
		return &APIError{Kind: KindProvider, Status: status, Model: model, Message: msg}
	}
}
