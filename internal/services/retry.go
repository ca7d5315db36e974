package services

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/radar/internal/shared"
)

const (
	// DefaultRetryBudget is the number of delayed retries per operation.
	DefaultRetryBudget = 3
	// DefaultInitialBackoff is the delay before the first retry; it doubles
	// on every subsequent attempt.
	DefaultInitialBackoff = 500 * time.Millisecond
)

// RetryPolicy wraps catalog read operations with bounded exponential backoff
// and credential-refresh handling.
//
// An expired-token failure triggers an immediate token refresh and retry
// without consuming the budget or waiting. Every other failure burns one
// retry from the budget and doubles the backoff delay. An unexpected
// response shape is never retried.
type RetryPolicy struct {
	provider       TokenProvider
	budget         int
	initialBackoff time.Duration
	logger         *log.Logger

	// sleep is replaceable for deterministic tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy creates a RetryPolicy. A budget or backoff of zero falls
// back to the defaults.
func NewRetryPolicy(provider TokenProvider, budget int, initialBackoff time.Duration, logger *log.Logger) *RetryPolicy {
	if budget <= 0 {
		budget = DefaultRetryBudget
	}
	if initialBackoff <= 0 {
		initialBackoff = DefaultInitialBackoff
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &RetryPolicy{
		provider:       provider,
		budget:         budget,
		initialBackoff: initialBackoff,
		logger:         logger,
		sleep:          sleepContext,
	}
}

// Do executes op until it succeeds, the retry budget is exhausted, or a
// non-retryable failure occurs. The last operation error is returned
// unwrapped so callers can inspect it with [errors.Is].
func (p *RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	retries := 0
	backoff := p.initialBackoff

	for {
		err := op(ctx)
		if err == nil {
			return nil
		}

		if errors.Is(err, shared.ErrTokenExpired) {
			p.logger.Info("access token expired, refreshing...")
			if _, refreshErr := p.provider.Refresh(ctx); refreshErr != nil {
				return refreshErr
			}
			continue
		}

		if errors.Is(err, shared.ErrInvalidResponse) {
			return err
		}

		if retries >= p.budget {
			return err
		}
		retries++

		p.logger.Infof("request failed, retrying in %v (%d of %d): %v", backoff, retries, p.budget, err)
		if sleepErr := p.sleep(ctx, backoff); sleepErr != nil {
			return sleepErr
		}
		backoff *= 2
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
