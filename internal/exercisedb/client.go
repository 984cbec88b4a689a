package exercisedb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fittrack/internal/metrics"
)

const (
	// DefaultHost is the RapidAPI host serving ExerciseDB
	DefaultHost = "exercisedb.p.rapidapi.com"

	maxRetries   = 3
	initialDelay = 1 * time.Second
	maxDelay     = 30 * time.Second
	cooldown     = 1 * time.Minute
)

var (
	// ErrNotConfigured is returned when the client has no API key
	ErrNotConfigured = errors.New("exercisedb: no API key configured")

	// ErrCircuitOpen is returned while requests are suspended after the quota ran out
	ErrCircuitOpen = errors.New("exercisedb: quota exhausted, requests suspended")
)

// Client is an ExerciseDB API client
type Client struct {
	httpClient   *http.Client
	baseURL      string
	host         string
	apiKey       string
	logger       *slog.Logger
	rateLimiter  *RateLimiter
	breaker      *circuitBreaker
	initialDelay time.Duration
	maxDelay     time.Duration
}

// NewClient creates a new ExerciseDB client. An empty host means DefaultHost.
func NewClient(apiKey, host string, logger *slog.Logger) *Client {
	if host == "" {
		host = DefaultHost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      "https://" + host,
		host:         host,
		apiKey:       apiKey,
		logger:       logger,
		rateLimiter:  NewRateLimiter(),
		breaker:      newCircuitBreaker(cooldown),
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
	}
}

// SetBaseURL points the client at another server, such as a mirror or a
// local stub
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

// Configured reports whether the client has credentials
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// doRequest performs a GET with retries and returns the response body
func (c *Client) doRequest(ctx context.Context, operation, path string) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if !c.breaker.allow() {
		return nil, ErrCircuitOpen
	}
	succeeded := false
	defer func() {
		if !succeeded {
			c.breaker.failure()
		}
	}()

	var lastErr error
	delay := c.initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Info("retrying request", "attempt", attempt, "delay_ms", delay.Milliseconds())
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = min(delay*2, c.maxDelay)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("X-RapidAPI-Key", c.apiKey)
		req.Header.Set("X-RapidAPI-Host", c.host)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			lastErr = err
			metrics.ExerciseDBRequestsTotal.WithLabelValues(operation, "error").Inc()
			c.logger.Error("request failed", "path", path, "error", err, "attempt", attempt)
			continue
		}

		status := strconv.Itoa(resp.StatusCode)
		metrics.ExerciseDBRequestsTotal.WithLabelValues(operation, status).Inc()
		metrics.ExerciseDBRequestDuration.WithLabelValues(operation, status).Observe(duration.Seconds())

		c.parseRateLimitHeaders(resp.Header)

		c.logger.Info("exercisedb_api_request", "path", path, "status", resp.StatusCode, "duration_ms", duration.Milliseconds())

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to read response: %w", err)
			}
			succeeded = true
			c.breaker.success()
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			if c.rateLimiter.Exhausted() {
				c.breaker.open()
				c.logger.Warn("exercisedb quota exhausted, suspending requests", "cooldown", cooldown)
				return nil, ErrCircuitOpen
			}
			if retryAfter := parseRetryAfter(resp.Header); retryAfter > 0 {
				delay = retryAfter
			}
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		case resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("server error (%d)", resp.StatusCode)
			continue
		case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
			resp.Body.Close()
			return nil, fmt.Errorf("unauthorized (%d) - check the API key", resp.StatusCode)
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return nil, fmt.Errorf("not found (404)")
		default:
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// parseRateLimitHeaders updates the rate limiter from RapidAPI quota headers
func (c *Client) parseRateLimitHeaders(headers http.Header) {
	limitHeader := headers.Get("X-RateLimit-Requests-Limit")
	remainingHeader := headers.Get("X-RateLimit-Requests-Remaining")
	if limitHeader == "" || remainingHeader == "" {
		return
	}

	limit, err := strconv.Atoi(limitHeader)
	if err != nil {
		return
	}
	remaining, err := strconv.Atoi(remainingHeader)
	if err != nil {
		return
	}

	c.rateLimiter.Update(limit, remaining)
	metrics.ExerciseDBRateLimitRemaining.Set(float64(remaining))

	c.logger.Debug("rate_limit", "limit", limit, "remaining", remaining)
}

// parseRetryAfter extracts retry delay from Retry-After header
func parseRetryAfter(headers http.Header) time.Duration {
	retryAfter := headers.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	seconds, err := strconv.Atoi(retryAfter)
	if err != nil {
		return 0
	}

	return time.Duration(seconds) * time.Second
}

// RateLimitStatus returns the current quota status
func (c *Client) RateLimitStatus() RateLimitStatus {
	return c.rateLimiter.Status()
}
