package leetcode

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBackoff = 500 * time.Millisecond
	maxBackoff     = 10 * time.Second
)

// StatusError is a non-2xx response from the GraphQL endpoint
type StatusError struct {
	StatusCode int
	Body       string
	retryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("leetcode returned HTTP %d: %s", e.StatusCode, e.Body)
}

// HTTPStatusCode returns the response status
func (e *StatusError) HTTPStatusCode() int {
	return e.StatusCode
}

func isRetryableStatus(code int) bool {
	if code == http.StatusRequestTimeout || code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// isRetryable reports whether a failed attempt is worth repeating.
// Cancellation of the caller's context never is.
func isRetryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return isRetryableStatus(statusErr.StatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		// per-attempt timeout
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// retryAfter parses a Retry-After header in seconds, capped at max
func retryAfter(resp *http.Response, max time.Duration) time.Duration {
	ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if ra == "" {
		return 0
	}
	secs, err := strconv.Atoi(ra)
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > max {
		d = max
	}
	return d
}

// backoff returns the wait before retry attempt (0-based) with ±20% jitter
func backoff(base time.Duration, attempt int, err error) time.Duration {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.retryAfter > 0 {
		return statusErr.retryAfter
	}

	wait := base << attempt
	if wait > maxBackoff || wait <= 0 {
		wait = maxBackoff
	}
	delta := float64(wait) * 0.2
	return time.Duration(float64(wait) - delta + rand.Float64()*2*delta)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
