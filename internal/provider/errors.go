package provider

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrContentBlocked = errors.New("content blocked by safety filters")
	ErrEmptyResponse  = errors.New("empty response")
)

// ErrorCode classifies a provider failure.
type ErrorCode string

const (
	ErrorCodeContentBlocked ErrorCode = "content_blocked"
	ErrorCodeContextLength  ErrorCode = "context_length_exceeded"
	ErrorCodeRateLimit      ErrorCode = "rate_limit"
	ErrorCodeAuth           ErrorCode = "authentication_failed"
	ErrorCodeInvalidRequest ErrorCode = "invalid_request"
	ErrorCodeUnavailable    ErrorCode = "service_unavailable"
	ErrorCodeNetwork        ErrorCode = "network_error"
)

// ProviderError is an oracle failure classified by Code. RetryAfter is set
// when the service said how long to back off.
type ProviderError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Retryable  bool
	RetryAfter *time.Duration
}

func (e *ProviderError) Error() string {
	if e.Underlying == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Underlying)
}

func (e *ProviderError) Unwrap() error { return e.Underlying }

// CodeOf returns the code of the first ProviderError in err's chain, or ""
// when there is none.
func CodeOf(err error) ErrorCode {
	var perr *ProviderError
	if !errors.As(err, &perr) {
		return ""
	}
	return perr.Code
}

// IsRateLimited reports whether err is a rate limit that outlasted the
// transport's retry budget.
func IsRateLimited(err error) bool {
	return CodeOf(err) == ErrorCodeRateLimit
}
