// Package retry wraps single outbound calls with bounded retries,
// exponential backoff and jitter.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultMaxAttempts is the total number of attempts, including the first one.
	DefaultMaxAttempts = 3
	// DefaultBase is the exponential base of the backoff, in seconds.
	DefaultBase = 2.0
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Classifier reports whether a failed attempt may be retried.
type Classifier func(error) bool

// FailureHook observes every failed attempt. attempt is 0-based.
type FailureHook func(operation string, attempt int, err error)

// Executor runs an operation up to MaxAttempts times.
// The zero value is not usable, build one with New.
type Executor struct {
	maxAttempts int
	base        float64
	sleep       SleepFunc
	jitter      func() float64
	retryIf     Classifier
	onFailure   FailureHook
}

type Option func(*Executor)

func WithMaxAttempts(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

func WithBase(base float64) Option {
	return func(e *Executor) {
		if base > 0 {
			e.base = base
		}
	}
}

// WithSleep replaces the timer based wait. Tests use it to record delays.
func WithSleep(fn SleepFunc) Option {
	return func(e *Executor) {
		if fn != nil {
			e.sleep = fn
		}
	}
}

// WithJitter replaces the uniform [0,1) jitter source.
func WithJitter(fn func() float64) Option {
	return func(e *Executor) {
		if fn != nil {
			e.jitter = fn
		}
	}
}

// WithRetryIf stops retrying as soon as the classifier returns false.
func WithRetryIf(fn Classifier) Option {
	return func(e *Executor) {
		e.retryIf = fn
	}
}

func WithFailureHook(fn FailureHook) Option {
	return func(e *Executor) {
		e.onFailure = fn
	}
}

// New tạo executor với default 3 attempts, base 2
func New(opts ...Option) *Executor {
	e := &Executor{
		maxAttempts: DefaultMaxAttempts,
		base:        DefaultBase,
		sleep:       sleepContext,
		jitter:      rand.Float64,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxAttempts returns the configured attempt budget.
func (e *Executor) MaxAttempts() int {
	return e.maxAttempts
}

// Backoff returns base^attempt + jitter seconds.
// With jitter in [0,1) the result lies in [base^attempt, base^attempt+1).
func Backoff(base float64, attempt int, jitter float64) time.Duration {
	seconds := math.Pow(base, float64(attempt)) + jitter
	return time.Duration(seconds * float64(time.Second))
}

// RetryableStatus reports whether an HTTP status code is worth another attempt:
// request timeout, rate limit and server errors.
func RetryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500
}

// Do executes op until it succeeds or the attempt budget is spent.
//
// The terminal failure is returned as-is: substituting a fallback value is the
// caller's job. If ctx is cancelled while waiting between attempts, the last
// operation error is returned joined with ctx.Err().
func Do[T any](ctx context.Context, e *Executor, operation string, op func(context.Context) (T, error)) (T, error) {
	if e == nil {
		e = New()
	}

	var zero T
	var lastErr error

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if e.onFailure != nil {
			e.onFailure(operation, attempt, err)
		}

		if e.retryIf != nil && !e.retryIf(err) {
			log.Warn().
				Str("operation", operation).
				Int("attempt", attempt+1).
				Err(err).
				Msg("Non-retryable failure")
			return zero, err
		}

		if attempt == e.maxAttempts-1 {
			log.Warn().
				Str("operation", operation).
				Int("attempt", attempt+1).
				Int("max_attempts", e.maxAttempts).
				Err(err).
				Msg("Attempts exhausted")
			break
		}

		delay := Backoff(e.base, attempt, e.jitter())
		log.Warn().
			Str("operation", operation).
			Int("attempt", attempt+1).
			Int("max_attempts", e.maxAttempts).
			Err(err).
			Dur("delay", delay).
			Msg("Attempt failed, retrying")

		if sleepErr := e.sleep(ctx, delay); sleepErr != nil {
			return zero, errors.Join(lastErr, sleepErr)
		}
	}

	return zero, lastErr
}

// sleepContext chỉ block goroutine hiện tại, return ngay khi ctx bị cancel
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
