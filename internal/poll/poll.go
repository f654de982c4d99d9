// Package poll implements the bounded retry policy shared by the access gate
// and the payment reconciliation flow. Both wait for an eventually-consistent
// remote fact (a just-paid subscription becoming visible) within a fixed
// budget, so the policy lives here once instead of as ad hoc timers.
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrBudgetExhausted is returned when every attempt ran without success.
var ErrBudgetExhausted = errors.New("poll: retry budget exhausted")

// Policy bounds one polling run.
type Policy struct {
	MaxAttempts int
	Interval    time.Duration

	// Sleep is swapped in tests; nil means a context-aware real sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Until runs fn up to MaxAttempts times, sleeping Interval between attempts,
// until fn reports done. Errors from fn are retried the same as a not-done
// result; the caller cannot distinguish "not yet" from "failed" remotely, so
// neither does the policy. Context cancellation aborts immediately: no further
// attempt is scheduled and ctx.Err() is returned, which lets callers avoid any
// state mutation once the owning request has been torn down.
func Until(ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (done bool, err error)) error {
	if p.MaxAttempts <= 0 {
		return ErrBudgetExhausted
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := fn(ctx, attempt)
		if err == nil && done {
			return nil
		}
		if attempt == p.MaxAttempts {
			break
		}
		if err := sleep(ctx, p.Interval); err != nil {
			return err
		}
	}
	return ErrBudgetExhausted
}
