package utils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Backoff returns how long to wait before retry number attempt (1-based)
type Backoff func(attempt int) time.Duration

// QuadraticBackoff waits attempt² seconds
func QuadraticBackoff(attempt int) time.Duration {
	return time.Duration(attempt*attempt) * time.Second
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// RetryWithBackoff runs fn up to maxRetries times, sleeping per backoff between
// attempts. A Permanent error or a cancelled context stops it early.
func RetryWithBackoff(ctx context.Context, maxRetries int, backoff Backoff, fn func() error, logger *Logger) error {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if backoff == nil {
		backoff = QuadraticBackoff
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoff(attempt)
			logger.Warn("Retrying (attempt %d/%d) after %v...", attempt+1, maxRetries, wait)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry aborted: %w", ctx.Err())
			case <-timer.C:
			}
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if maxRetries > 1 {
			logger.Error("Attempt %d failed: %v", attempt+1, err)
		}
		if ctx.Err() != nil {
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}
	}
	if maxRetries == 1 {
		return lastErr
	}
	return fmt.Errorf("all %d attempts failed, last error: %w", maxRetries, lastErr)
}
