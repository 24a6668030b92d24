package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "manospy_gateway/pkg/errors"
)

func TestRepeatStopsWhenDone(t *testing.T) {
	poller := NewPoller(testLogger())

	ticks := 0
	err := poller.Repeat(context.Background(), time.Millisecond, 0, func(ctx context.Context) (bool, error) {
		ticks++
		return ticks >= 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, ticks)
}

// Un tick fallido se traga y el bucle sigue en el siguiente
func TestRepeatSwallowsTransientErrors(t *testing.T) {
	poller := NewPoller(testLogger())

	ticks := 0
	err := poller.Repeat(context.Background(), time.Millisecond, 0, func(ctx context.Context) (bool, error) {
		ticks++
		if ticks < 3 {
			return false, errors.New("connection refused")
		}
		return true, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, ticks)
}

func TestRepeatGivesUpAfterMaxAttempts(t *testing.T) {
	poller := NewPoller(testLogger())

	ticks := 0
	err := poller.Repeat(context.Background(), time.Millisecond, 5, func(ctx context.Context) (bool, error) {
		ticks++
		return false, nil
	})

	assert.ErrorIs(t, err, apperrors.ErrPollGaveUp)
	assert.Equal(t, 5, ticks)
}

func TestRepeatHonorsContextCancellation(t *testing.T) {
	poller := NewPoller(testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := poller.Repeat(ctx, 5*time.Millisecond, 0, func(ctx context.Context) (bool, error) {
		return false, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestOnceWaitsForDelay(t *testing.T) {
	poller := NewPoller(testLogger())

	start := time.Now()
	ran := false
	err := poller.Once(context.Background(), 30*time.Millisecond, func(ctx context.Context) (bool, error) {
		ran = true
		return true, nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestOnceCancelledBeforeDelay(t *testing.T) {
	poller := NewPoller(testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := poller.Once(ctx, time.Minute, func(ctx context.Context) (bool, error) {
		ran = true
		return true, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}
