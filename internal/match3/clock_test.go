package match3

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepClockAdvance(t *testing.T) {
	ctx := context.Background()
	clock := NewStepClock()
	var steps []string

	started := clock.Go(func() {
		steps = append(steps, "a")
		_ = clock.Wait(ctx, 100*time.Millisecond)
		steps = append(steps, "b")
		_ = clock.Wait(ctx, 50*time.Millisecond)
		steps = append(steps, "c")
	})
	require.True(t, started)
	assert.Equal(t, []string{"a"}, steps)
	assert.True(t, clock.Busy())
	assert.False(t, clock.Go(func() {}), "one function at a time")

	clock.Advance(60 * time.Millisecond)
	assert.Equal(t, []string{"a"}, steps)

	clock.Advance(40 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, steps)

	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, steps)
	assert.False(t, clock.Busy())
	assert.Equal(t, 150*time.Millisecond, clock.Now())
}

func TestStepClockReleasesSeveralWaitsPerAdvance(t *testing.T) {
	ctx := context.Background()
	clock := NewStepClock()
	n := 0
	clock.Go(func() {
		for range 5 {
			_ = clock.Wait(ctx, 10*time.Millisecond)
			n++
		}
	})

	clock.Advance(35 * time.Millisecond)
	assert.Equal(t, 3, n)
	clock.Flush()
	assert.Equal(t, 5, n)
	assert.False(t, clock.Busy())
}

func TestStepClockFinishesWithoutWaiting(t *testing.T) {
	clock := NewStepClock()
	ran := false
	clock.Go(func() { ran = true })
	assert.True(t, ran)
	assert.False(t, clock.Busy())
}

func TestStepClockCancelledWaitDoesNotPark(t *testing.T) {
	clock := NewStepClock()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var err error
	clock.Go(func() { err = clock.Wait(ctx, time.Second) })
	assert.False(t, clock.Busy())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecordingClock(t *testing.T) {
	c := &RecordingClock{}
	require.NoError(t, c.Wait(context.Background(), time.Second))
	require.NoError(t, c.Wait(context.Background(), 2*time.Second))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, c.Waits())
	assert.Equal(t, 3*time.Second, c.Total())
}

func TestRealClockHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, RealClock{}.Wait(ctx, time.Hour), context.Canceled)
	assert.NoError(t, RealClock{}.Wait(context.Background(), time.Millisecond))
}
