package infra

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Guizzs26/go-sync-baserow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRetryPolicyBackoffIsLinear(t *testing.T) {
	p := RetryPolicy{MaxCount: 3, Wait: 10 * time.Second}
	assert.Equal(t, []time.Duration{10 * time.Second, 20 * time.Second, 30 * time.Second}, p.Backoff())

	assert.Empty(t, RetryPolicy{MaxCount: 0, Wait: time.Second}.Backoff())
	assert.Equal(t, DefaultRetryPolicy(), p)
}

func TestLinearRetrierSucceedsAfterTransient(t *testing.T) {
	r := NewLinearRetrier(RetryPolicy{MaxCount: 3, Wait: time.Millisecond}, quietLogger())

	calls := 0
	err := r.Do(context.Background(), "lookup", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &models.TransientServiceError{Op: "lookup", Err: errors.New("connection reset")}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestLinearRetrierWaitsLinearly(t *testing.T) {
	wait := 20 * time.Millisecond
	r := NewLinearRetrier(RetryPolicy{MaxCount: 2, Wait: wait}, quietLogger())

	var stamps []time.Time
	_ = r.Do(context.Background(), "create", func(ctx context.Context) error {
		stamps = append(stamps, time.Now())
		return &models.TransientServiceError{Op: "create", StatusCode: 502, Err: errors.New("bad gateway")}
	})

	require.Len(t, stamps, 3)
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), wait)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 2*wait)
}

func TestLinearRetrierReturnsLastError(t *testing.T) {
	r := NewLinearRetrier(RetryPolicy{MaxCount: 2, Wait: time.Millisecond}, quietLogger())

	calls := 0
	var last error
	err := r.Do(context.Background(), "update", func(ctx context.Context) error {
		calls++
		last = &models.TransientServiceError{Op: "update", StatusCode: 500 + calls, Err: errors.New("boom")}
		return last
	})

	assert.Equal(t, 3, calls)
	assert.Same(t, last, err)
}

func TestLinearRetrierFailsFastOnPermanentError(t *testing.T) {
	r := NewLinearRetrier(RetryPolicy{MaxCount: 3, Wait: time.Millisecond}, quietLogger())

	permanent := &models.ServiceError{Op: "create", StatusCode: 400}
	calls := 0
	err := r.Do(context.Background(), "create", func(ctx context.Context) error {
		calls++
		return permanent
	})

	assert.Equal(t, 1, calls)
	assert.Same(t, permanent, err)
}

func TestLinearRetrierNoRetries(t *testing.T) {
	r := NewLinearRetrier(RetryPolicy{MaxCount: 0}, quietLogger())

	calls := 0
	err := r.Do(context.Background(), "lookup", func(ctx context.Context) error {
		calls++
		return &models.TransientServiceError{Op: "lookup", Err: errors.New("timeout")}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
