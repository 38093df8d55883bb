package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// transport sends JSON requests with retry on network errors and 5xx.
// 429 is never retried here: a rate limit is surfaced to the caller at once.
type transport struct {
	httpClient       *http.Client
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
}

func newTransport(c RuntimeConfig) transport {
	return transport{
		httpClient:       &http.Client{Timeout: c.HTTPTimeout},
		retryMaxAttempts: c.RetryMax,
		retryBaseDelay:   c.BaseDelay,
		retryMaxDelay:    c.MaxDelay,
	}
}

// errorDecoder fills provider specific fields of apiErr from an error body
type errorDecoder func(apiErr *APIError, raw map[string]any)

func (t *transport) do(ctx context.Context, build func(context.Context) (*http.Request, error), decodeErr errorDecoder, out any) (string, error) {
	maxAttempts := t.retryMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	backoff := t.retryBaseDelay
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		req, err := build(ctx)
		if err != nil {
			return "", fmt.Errorf("build request: %w", err)
		}

		resp, err := t.httpClient.Do(req)
		if err != nil {
			lastErr = &UnreachableError{Host: req.URL.Host, Err: err}
			if isRetryableNetErr(err) && attempt < maxAttempts {
				if err := t.wait(ctx, backoff); err != nil {
					return "", err
				}
				backoff *= 2
				continue
			}
			return "", lastErr
		}

		requestID, retry, err := handleResponse(resp, decodeErr, out)
		if err == nil {
			return requestID, nil
		}
		lastErr = err
		if !retry || attempt == maxAttempts {
			break
		}
		if err := t.wait(ctx, withJitter(backoff)); err != nil {
			return "", err
		}
		backoff *= 2
	}
	return "", lastErr
}

// handleResponse decodes a success body into out, or classifies the failure.
// retry is true for provider side (5xx) failures.
func handleResponse(resp *http.Response, decodeErr errorDecoder, out any) (string, bool, error) {
	defer resp.Body.Close()
	requestID := extractRequestID(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		var raw map[string]any
		_ = json.Unmarshal(body, &raw)
		apiErr := &APIError{StatusCode: resp.StatusCode, Raw: raw, RequestID: requestID}
		if decodeErr != nil && raw != nil {
			decodeErr(apiErr, raw)
		}
		if apiErr.Message == "" && len(body) > 0 && raw == nil {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		retry := resp.StatusCode >= 500 && resp.StatusCode <= 599
		return requestID, retry, classifyAPIError(apiErr, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return requestID, false, fmt.Errorf("decode response: %w", err)
	}
	return requestID, false, nil
}

func (t *transport) wait(ctx context.Context, d time.Duration) error {
	if t.retryMaxDelay > 0 && d > t.retryMaxDelay {
		d = t.retryMaxDelay
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func withJitter(d time.Duration) time.Duration {
	if d <= 1 {
		return d
	}
	half := int64(d / 2)
	return time.Duration(half + rand.Int63n(half+1))
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func extractRequestID(resp *http.Response) string {
	for _, h := range []string{"X-Request-Id", "X-Goog-Request-Id", "Cf-Ray"} {
		if v := resp.Header.Get(h); v != "" {
			return v
		}
	}
	return ""
}

// parseRetryAfterSeconds tries to interpret Retry-After header value as seconds or HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}

// classifyAPIError maps generic APIError to typed errors.
func classifyAPIError(apiErr *APIError, resp *http.Response) error {
	sc := apiErr.StatusCode
	msg := apiErr.Message
	code := apiErr.Code

	if sc == http.StatusUnauthorized || sc == http.StatusForbidden {
		return &AuthError{APIError: apiErr}
	}
	if sc == http.StatusTooManyRequests {
		var ra time.Duration
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := parseRetryAfterSeconds(v); err == nil && secs > 0 {
				ra = time.Duration(secs) * time.Second
			}
		}
		return &RateLimitError{APIError: apiErr, RetryAfter: ra}
	}
	if strings.EqualFold(code, "quota_exceeded") || strings.EqualFold(code, "RESOURCE_EXHAUSTED") ||
		containsAnyFold(msg, "quota", "billing", "limit exceeded") {
		return &QuotaExceededError{APIError: apiErr}
	}
	if sc == http.StatusNotFound {
		if code == "model_not_found" || strings.EqualFold(code, "NOT_FOUND") || containsAllFold(msg, "model", "not", "found") {
			return &ModelNotFoundError{APIError: apiErr}
		}
		return apiErr
	}
	if sc == http.StatusBadRequest {
		return &BadRequestError{APIError: apiErr}
	}
	if sc >= 500 && sc <= 599 {
		return &ServerError{APIError: apiErr}
	}
	return apiErr
}

func containsAllFold(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(strings.ToLower(s), strings.ToLower(sub)) {
			return false
		}
	}
	return true
}

func containsAnyFold(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(strings.ToLower(s), strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
