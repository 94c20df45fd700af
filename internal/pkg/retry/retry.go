// Package retry runs an operation under an explicit retry policy: a maximum
// number of attempts, a backoff schedule and a predicate deciding which
// errors are transient.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrRetriesExhausted is wrapped by ExhaustedError. It is fatal: callers must
// report the failure upward and must not retry again.
var ErrRetriesExhausted = errors.New("retries exhausted")

// ExhaustedError carries the last transient error and the number of attempts made.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrRetriesExhausted, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrRetriesExhausted, e.Err}
}

// Policy describes how an operation is retried.
//
// Waits between attempts start at InitialInterval and are multiplied by
// Multiplier after each failure, capped at MaxInterval when it is set.
// A Multiplier of 1 gives a fixed backoff. A nil Retryable treats every
// error as transient.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration
	Retryable       func(error) bool
	// OnRetry, when set, is called before each wait with the failed attempt number.
	OnRetry func(err error, attempt int, wait time.Duration)
}

// Exponential returns a policy whose waits double after each attempt.
func Exponential(maxAttempts int, initial time.Duration, retryable func(error) bool) Policy {
	return Policy{
		MaxAttempts:     maxAttempts,
		InitialInterval: initial,
		Multiplier:      2,
		Retryable:       retryable,
	}
}

// Fixed returns a policy that waits the same interval between attempts.
func Fixed(maxAttempts int, interval time.Duration, retryable func(error) bool) Policy {
	return Policy{
		MaxAttempts:     maxAttempts,
		InitialInterval: interval,
		Multiplier:      1,
		Retryable:       retryable,
	}
}

// WithOnRetry returns a copy of p that reports retries to fn.
func (p Policy) WithOnRetry(fn func(err error, attempt int, wait time.Duration)) Policy {
	p.OnRetry = fn
	return p
}

// Do runs op until it succeeds, returns a non-retryable error, ctx is done or
// MaxAttempts is reached. In the last case the result is an *ExhaustedError.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempts := 0
	operation := func() error {
		attempts++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !p.retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		if p.OnRetry != nil {
			p.OnRetry(err, attempts, wait)
		}
	}

	err := backoff.RetryNotify(operation, p.schedule(ctx, maxAttempts), notify)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	if p.retryable(err) && attempts >= maxAttempts {
		return &ExhaustedError{Attempts: attempts, Err: err}
	}
	return err
}

func (p Policy) retryable(err error) bool {
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err)
}

func (p Policy) schedule(ctx context.Context, maxAttempts int) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.RandomizationFactor = 0
	b.Multiplier = p.Multiplier
	if b.Multiplier < 1 {
		b.Multiplier = 1
	}
	b.MaxInterval = p.MaxInterval
	if b.MaxInterval <= 0 {
		b.MaxInterval = time.Duration(1<<62 - 1)
	}
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxAttempts-1)), ctx)
}
