// Package retry provides bounded-attempt exponential backoff for provider
// fetches. Sources apply it per logical fetch unit: a single page for
// paginated providers, the whole collection call for the rest.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/entryladder/entryladder/internal/model"
)

// Policy controls how many attempts a fetch unit gets and how long the
// first backoff lasts. The delay doubles after every failed attempt.
type Policy struct {
	MaxAttempts    int           // total attempts, including the first (default 3)
	InitialBackoff time.Duration // delay before the second attempt
}

// DefaultPolicy mirrors the externally-configurable defaults.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, InitialBackoff: time.Second}
}

// Do runs fn up to p.MaxAttempts times, waiting
// InitialBackoff * 2^(attempt-1) after the attempt-th failure. Only
// transient failures are retried: HTTP 429, 5xx, and non-HTTP errors such
// as network faults. Other 4xx abort immediately, as does context
// cancellation, during a backoff wait too. A 429 carrying a Retry-After
// hint waits that long instead of the computed backoff. On exhaustion the
// last error is returned.
func Do[T any](ctx context.Context, p Policy, logger *slog.Logger, target string, fn func() (T, error)) (T, error) {
	var zero T
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		out, err := fn()
		if err == nil {
			return out, nil
		}
		if !isRetryable(err) {
			return zero, err
		}
		lastErr = err
		if attempt == p.MaxAttempts {
			break
		}

		delay := backoffDelay(p.InitialBackoff, attempt, err)
		logger.Warn("retrying after transient error",
			"target", target,
			"attempt", attempt,
			"max_attempts", p.MaxAttempts,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return zero, lastErr
}

// isRetryable reports whether the error represents a transient failure
// worth retrying.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 429 {
			return true
		}
		if httpErr.StatusCode >= 500 {
			return true
		}
		// Other 4xx will not get better on their own.
		return false
	}

	// Non-HTTP errors (network, DNS, decode) are retryable.
	return true
}

// backoffDelay returns initial * 2^(attempt-1). A Retry-After duration on
// the error takes precedence.
func backoffDelay(initial time.Duration, attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := initial
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}
