package api

import "fmt"

// NotFoundError indicates the upstream found no player for the requested
// identity. User-correctable; surfaced verbatim.
type NotFoundError struct {
	Username string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("player %q not found", e.Username)
}

// RateLimitedError indicates upstream throttling (HTTP 429). It is
// propagated, never retried automatically; the caller should suggest
// retrying later.
type RateLimitedError struct{}

func (e *RateLimitedError) Error() string {
	return "api rate limit exceeded, retry later"
}

// MalformedResponseError indicates the upstream payload violated the
// expected shape.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed upstream response: " + e.Reason
}

// UpstreamError is any other non-success upstream response. The upstream
// "cause" message is passed through when available.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream error %d: %s", e.StatusCode, e.Message)
	}
	return "upstream error: " + e.Message
}

// IsRetryable reports whether the error should trigger a retry. Rate
// limiting is deliberately excluded: a 429 aborts the request.
func (e *UpstreamError) IsRetryable() bool {
	return e.StatusCode >= 500
}
