package infra

import (
	"context"
	"log/slog"
	"time"

	"github.com/Guizzs26/go-sync-baserow/internal/models"
	"github.com/Guizzs26/go-sync-baserow/pkg/metrics"
	"github.com/eapache/go-resiliency/retrier"
)

// RetryPolicy is a bounded linear backoff: retry n waits n*Wait
type RetryPolicy struct {
	MaxCount int
	Wait     time.Duration
}

// DefaultRetryPolicy matches the service defaults: 3 retries, 10s increments
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxCount: 3, Wait: 10 * time.Second}
}

// Backoff returns the wait before each retry.
// Attempt 1: Wait, Attempt 2: 2*Wait, Attempt 3: 3*Wait
func (p RetryPolicy) Backoff() []time.Duration {
	if p.MaxCount <= 0 {
		return nil
	}
	out := make([]time.Duration, p.MaxCount)
	for i := range out {
		out[i] = time.Duration(i+1) * p.Wait
	}
	return out
}

// transientClassifier retries only transient service failures
type transientClassifier struct{}

func (transientClassifier) Classify(err error) retrier.Action {
	switch {
	case err == nil:
		return retrier.Succeed
	case models.IsTransient(err):
		return retrier.Retry
	default:
		return retrier.Fail
	}
}

// LinearRetrier wraps remote calls in the retry policy
type LinearRetrier struct {
	policy RetryPolicy
	logger *slog.Logger
}

func NewLinearRetrier(policy RetryPolicy, logger *slog.Logger) *LinearRetrier {
	return &LinearRetrier{policy: policy, logger: logger}
}

// Policy returns the configured policy
func (r *LinearRetrier) Policy() RetryPolicy {
	return r.policy
}

// Do runs fn, retrying transient failures. After the last retry the final
// error is returned unchanged; any other error returns immediately.
func (r *LinearRetrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	backoff := r.policy.Backoff()
	attempt := 0

	rt := retrier.New(backoff, transientClassifier{})
	return rt.RunCtx(ctx, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil || !models.IsTransient(err) {
			return err
		}

		if attempt <= len(backoff) {
			metrics.Retries.WithLabelValues(op).Inc()
			r.logger.Warn("Transient Baserow failure, retrying",
				"operation", op,
				"attempt", attempt,
				"backoff", backoff[attempt-1],
				"error", err,
			)
		} else {
			r.logger.Error("Retries exhausted", "operation", op, "attempts", attempt, "error", err)
		}
		return err
	})
}
