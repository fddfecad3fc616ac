// Package retry provides the sleep-and-recheck loops shared by activities
// that wait on an external condition or retry a transient failure.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is returned when the wall-clock timeout elapses first.
	ErrTimeout = errors.New("timed out")
	// ErrAttemptsExhausted is returned when MaxAttempts checks all failed.
	ErrAttemptsExhausted = errors.New("attempts exhausted")
)

// Options bound a retry loop. Zero MaxAttempts and zero Timeout mean unbounded.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var perm *permanentError
	return errors.As(err, &perm)
}

// Until calls check every Interval until it returns true. A check error
// marked Permanent stops the loop; other check errors count as a failed
// attempt. The timeout is measured from the first check.
func Until(ctx context.Context, opts Options, check func(ctx context.Context) (bool, error)) error {
	start := time.Now()
	var lastErr error

	for attempt := 1; ; attempt++ {
		done, err := check(ctx)
		if err != nil {
			if IsPermanent(err) {
				return err
			}
			lastErr = err
		} else if done {
			return nil
		}

		if opts.MaxAttempts > 0 && attempt >= opts.MaxAttempts {
			return wrapLast(fmt.Errorf("%w after %d attempts", ErrAttemptsExhausted, attempt), lastErr)
		}

		wait := opts.Interval
		if opts.Timeout > 0 {
			remaining := opts.Timeout - time.Since(start)
			if remaining <= 0 {
				return wrapLast(fmt.Errorf("%w after %s", ErrTimeout, opts.Timeout), lastErr)
			}
			wait = min(wait, remaining)
		}

		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Do runs op until it succeeds, returns a Permanent error, or the options
// are exhausted. The last operation error is wrapped in the result.
func Do(ctx context.Context, opts Options, op func(ctx context.Context) error) error {
	return Until(ctx, opts, func(ctx context.Context) (bool, error) {
		if err := op(ctx); err != nil {
			return false, err
		}
		return true, nil
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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

func wrapLast(err, last error) error {
	if last == nil {
		return err
	}
	return fmt.Errorf("%w: %w", err, last)
}
