package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"
)

// doRequest performs a single GET against the given path.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.apiKey != "" {
		if query == nil {
			query = url.Values{}
		}
		query.Set("key", c.apiKey)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitedError{}
	}
	if resp.StatusCode >= 400 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	return body, nil
}

// doWithRetry performs a request, retrying retryable upstream faults with
// jittered exponential backoff. Rate limiting (429) is never retried.
func (c *Client) doWithRetry(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", jitter,
				"path", path,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		body, err := c.doRequest(ctx, path, cloneValues(query))
		if err == nil {
			return body, nil
		}

		lastErr = err

		upErr, ok := err.(*UpstreamError)
		if !ok || !upErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// get performs a GET request with retries and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	body, err := c.doWithRetry(ctx, path, query)
	if err != nil {
		c.count(path, resultLabel(err))
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		c.count(path, "malformed")
		return &MalformedResponseError{Reason: err.Error()}
	}

	c.count(path, "ok")
	return nil
}

func (c *Client) count(endpoint, result string) {
	if c.observe != nil {
		c.observe(endpoint, result)
	}
}

// resultLabel maps a request error onto a stable metrics label.
func resultLabel(err error) string {
	var rateErr *RateLimitedError
	var upErr *UpstreamError
	switch {
	case errors.As(err, &rateErr):
		return "rate_limited"
	case errors.As(err, &upErr):
		return "upstream_error"
	default:
		return "error"
	}
}

// cloneValues copies query values so retries do not share mutable state.
func cloneValues(query url.Values) url.Values {
	if query == nil {
		return nil
	}
	out := make(url.Values, len(query))
	for k, vs := range query {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
