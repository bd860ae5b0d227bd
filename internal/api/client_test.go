package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com", "test-key")

		if c.baseURL != "https://api.example.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://api.example.com")
		}
		if c.apiKey != "test-key" {
			t.Errorf("apiKey = %q, want %q", c.apiKey, "test-key")
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with options", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		customClient := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://api.example.com", "key",
			WithTimeout(15*time.Second),
			WithRetries(5, 500*time.Millisecond),
			WithLogger(logger),
			WithHTTPClient(customClient),
		)
		if c.httpClient != customClient {
			t.Error("custom HTTP client not set")
		}
		if c.maxRetries != 5 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 5)
		}
		if c.retryBackoff != 500*time.Millisecond {
			t.Errorf("retryBackoff = %v, want %v", c.retryBackoff, 500*time.Millisecond)
		}
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
	})
}

// TestErrorTaxonomy tests the error types and retryability rules.
func TestErrorTaxonomy(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		err := &NotFoundError{Username: "steve"}
		if err.Error() != `player "steve" not found` {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("upstream retryable only for 5xx", func(t *testing.T) {
		tests := []struct {
			code int
			want bool
		}{
			{500, true},
			{502, true},
			{503, true},
			{400, false},
			{403, false},
			{404, false},
		}
		for _, tt := range tests {
			err := &UpstreamError{StatusCode: tt.code}
			if got := err.IsRetryable(); got != tt.want {
				t.Errorf("IsRetryable(%d) = %v, want %v", tt.code, got, tt.want)
			}
		}
	})

	t.Run("upstream message without status", func(t *testing.T) {
		err := &UpstreamError{Message: "Key throttle"}
		if err.Error() != "upstream error: Key throttle" {
			t.Errorf("Error() = %q", err.Error())
		}
	})
}

// TestRateLimitNotRetried verifies that a 429 aborts immediately instead
// of burning retry attempts against a throttled upstream.
func TestRateLimitNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", WithRetries(3, time.Millisecond))
	_, err := c.PlayerByName(context.Background(), "steve")

	var rle *RateLimitedError
	if !errors.As(err, &rle) {
		t.Fatalf("err = %v, want RateLimitedError", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("upstream called %d times, want 1", n)
	}
}

// TestServerErrorRetried verifies jittered retries on 5xx.
func TestServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"success":true,"player":{"uuid":"abc123","displayname":"Steve"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", WithRetries(3, time.Millisecond))
	p, err := c.PlayerByName(context.Background(), "steve")
	if err != nil {
		t.Fatalf("PlayerByName() error = %v", err)
	}
	if p.UUID != "abc123" {
		t.Errorf("UUID = %q, want %q", p.UUID, "abc123")
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("upstream called %d times, want 3", n)
	}
}

// TestObserver verifies the per-request metrics callback.
func TestObserver(t *testing.T) {
	t.Run("success labeled ok", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"player":{"uuid":"abc","displayname":"Steve"}}`))
		}))
		defer srv.Close()

		var endpoint, result string
		c := NewClient(srv.URL, "k", WithObserver(func(e, r string) {
			endpoint, result = e, r
		}))
		if _, err := c.PlayerByName(context.Background(), "steve"); err != nil {
			t.Fatalf("PlayerByName() error = %v", err)
		}
		if endpoint != "/player" {
			t.Errorf("endpoint = %q, want %q", endpoint, "/player")
		}
		if result != "ok" {
			t.Errorf("result = %q, want %q", result, "ok")
		}
	})

	t.Run("rate limit labeled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		var result string
		c := NewClient(srv.URL, "k", WithObserver(func(e, r string) {
			result = r
		}))
		if _, err := c.PlayerByName(context.Background(), "steve"); err == nil {
			t.Fatal("PlayerByName() error = nil, want rate limit error")
		}
		if result != "rate_limited" {
			t.Errorf("result = %q, want %q", result, "rate_limited")
		}
	})
}

// TestAPIKeyAttached verifies the key query parameter is sent.
func TestAPIKeyAttached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "secret" {
			t.Errorf("key = %q, want %q", got, "secret")
		}
		if got := r.URL.Query().Get("name"); got != "alex" {
			t.Errorf("name = %q, want %q", got, "alex")
		}
		w.Write([]byte(`{"success":true,"player":{"uuid":"def","displayname":"Alex"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	if _, err := c.PlayerByName(context.Background(), "alex"); err != nil {
		t.Fatalf("PlayerByName() error = %v", err)
	}
}
