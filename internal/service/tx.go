package service

import (
	"context"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/retry"
	"gorm.io/gorm"
)

// RetryPolicy bounds how often a transaction that lost an optimistic-lock
// race is replayed before ErrConcurrencyConflict reaches the caller.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	Clock    clock.Clock
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: 5,
		Delay:    20 * time.Millisecond,
		Clock:    clock.WallClock,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.Delay <= 0 {
		p.Delay = time.Millisecond
	}
	if p.Clock == nil {
		p.Clock = clock.WallClock
	}
	return p
}

// runTx runs fn in a database transaction, replaying it from the start on
// ErrConcurrencyConflict. Errors returned by fn roll the transaction back.
func runTx(ctx context.Context, db *gorm.DB, policy RetryPolicy, fn func(tx *gorm.DB) error) error {
	policy = policy.normalized()

	var lastErr error
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			lastErr = classify(db.WithContext(ctx).Transaction(fn))
			return lastErr
		},
		IsFatalError: func(err error) bool {
			return !errors.Is(err, ErrConcurrencyConflict)
		},
		NotifyFunc: func(err error, attempt int) {
			if errors.Is(err, ErrConcurrencyConflict) {
				logger.Debugf("transaction attempt %d lost a race: %v", attempt, err)
			}
		},
		Attempts:    policy.Attempts,
		Delay:       policy.Delay,
		BackoffFunc: retry.DoubleDelay,
		Clock:       policy.Clock,
		Stop:        ctx.Done(),
	})
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Annotate(ctxErr, "transaction cancelled")
	}
	if retry.IsAttemptsExceeded(err) {
		logger.Warningf("giving up after %d conflicting attempts", policy.Attempts)
		return errors.Annotatef(lastErr, "after %d attempts", policy.Attempts)
	}
	return lastErr
}
