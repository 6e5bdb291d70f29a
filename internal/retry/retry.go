// Package retry runs fallible operations under an explicit backoff policy.
package retry

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Policy describes a bounded exponential backoff schedule.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
}

// DefaultPolicy matches the oracle client's schedule: five attempts with
// 1s, 2s, 4s, 8s, 16s between them.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		Multiplier:  2,
	}
}

// Delay returns the wait before attempt number attempt (1-based), which is
// zero for the first attempt.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	delay := float64(p.BaseDelay)
	for i := 2; i < attempt; i++ {
		delay *= p.Multiplier
	}
	return time.Duration(delay)
}

// Sleeper waits for a duration, honoring context cancellation. Tests inject a
// fake to assert the schedule without real waiting.
type Sleeper func(ctx context.Context, d time.Duration) error

func defaultSleeper(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ExhaustedError reports that every attempt failed, wrapping the last error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d attempts failed: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Do runs op under the policy, sleeping between failed attempts, and returns
// the first success. Every error is treated as retryable; on exhaustion the
// last error is returned wrapped in an ExhaustedError.
func Do[T any](ctx context.Context, policy Policy, sleep Sleeper, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if sleep == nil {
		sleep = defaultSleeper
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if delay := policy.Delay(attempt); delay > 0 {
			if err := sleep(ctx, delay); err != nil {
				return zero, err
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		log.Printf("⚠️  Attempt %d/%d failed: %v", attempt, policy.MaxAttempts, err)
	}

	return zero, &ExhaustedError{Attempts: policy.MaxAttempts, Last: lastErr}
}
