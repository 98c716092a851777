package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottledHalvesRate(t *testing.T) {
	l := New(8, 1, 16)

	l.Throttled()
	assert.Equal(t, 4.0, l.Limit())

	l.Throttled()
	assert.Equal(t, 2.0, l.Limit())
}

func TestThrottledNeverDropsBelowMin(t *testing.T) {
	l := New(2, 1, 16)

	for i := 0; i < 5; i++ {
		l.Throttled()
	}
	assert.Equal(t, 1.0, l.Limit())
}

func TestSuccessRaisesRateUpToMax(t *testing.T) {
	l := New(14, 1, 16)

	l.Success()
	assert.Equal(t, 15.0, l.Limit())

	l.Success()
	l.Success()
	assert.Equal(t, 16.0, l.Limit(), "the rate is capped at max")
}

func TestSuccessHeldDownDuringCooldown(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := New(8, 1, 16).WithClock(func() time.Time { return now })

	l.Throttled()
	require.Equal(t, 4.0, l.Limit())

	l.Success()
	assert.Equal(t, 4.0, l.Limit(), "a fresh throttle pins the rate")

	now = now.Add(cooldown + time.Second)
	l.Success()
	assert.Equal(t, 5.0, l.Limit(), "the rate recovers after the cooldown")
}

func TestWaitHonorsCancelledContext(t *testing.T) {
	l := New(1, 1, 1)

	// Drain the single burst slot.
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, l.Wait(ctx))
}
