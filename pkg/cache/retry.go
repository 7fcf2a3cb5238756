package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork is returned for failures talking to a remote cache backend.
var ErrNetwork = errors.New("network error")

// retryAttempts is how often a remote operation is tried in total.
const retryAttempts = 3

// retryDelay is the wait after the first failed attempt; it doubles after
// every further failure. Tests shorten it.
var retryDelay = 100 * time.Millisecond

// transient marks an error as worth retrying.
type transient struct{ err error }

func (t *transient) Error() string { return t.err.Error() }
func (t *transient) Unwrap() error { return t.err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &transient{err: err}
}

// IsRetryable reports whether err, or anything it wraps, was marked with
// Retryable.
func IsRetryable(err error) bool {
	var t *transient
	return errors.As(err, &t)
}

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// Retryable, or retryAttempts calls have failed. The last error is returned.
// Canceling ctx stops the wait between attempts.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
