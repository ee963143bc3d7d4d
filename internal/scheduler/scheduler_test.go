package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC)

func waitTick(t *testing.T, ticks <-chan time.Time) time.Time {
	t.Helper()
	select {
	case at := <-ticks:
		return at
	case <-time.After(2 * time.Second):
		t.Fatal("tick not delivered")
		return time.Time{}
	}
}

func TestRunTicksOnSchedule(t *testing.T) {
	clock := clockwork.NewFakeClockAt(start)
	s, err := New(Options{Interval: 3 * time.Second, Clock: clock}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks := make(chan time.Time, 4)
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(_ context.Context, at time.Time) error {
			ticks <- at
			return nil
		})
	}()

	for i := 1; i <= 3; i++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(3 * time.Second)
		assert.Equal(t, start.Add(time.Duration(i)*3*time.Second), waitTick(t, ticks))
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Empty(t, ticks)
}

func TestRunImmediateAndErrorsDoNotStop(t *testing.T) {
	clock := clockwork.NewFakeClockAt(start)
	s, err := New(Options{Interval: 3 * time.Second, Immediate: true, Clock: clock}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks := make(chan time.Time, 4)
	go func() {
		_ = s.Run(ctx, func(_ context.Context, at time.Time) error {
			ticks <- at
			return errors.New("boom")
		})
	}()

	assert.Equal(t, start, waitTick(t, ticks))

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(3 * time.Second)
	assert.Equal(t, start.Add(3*time.Second), waitTick(t, ticks))
}

func TestRunStopsDuringStartupDelay(t *testing.T) {
	clock := clockwork.NewFakeClockAt(start)
	s, err := New(Options{Interval: time.Second, StartupDelay: time.Minute, Clock: clock}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err = s.Run(ctx, func(context.Context, time.Time) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestNewSchedules(t *testing.T) {
	s, err := New(Options{Spec: "@every 5s"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, start.Add(5*time.Second), s.Next(start))

	s, err = New(Options{Spec: "*/10 * * * * *"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, start.Add(10*time.Second), s.Next(start))

	s, err = New(Options{Interval: 250 * time.Millisecond}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, start.Add(250*time.Millisecond), s.Next(start))

	for _, d := range []time.Duration{1500 * time.Millisecond, 2500 * time.Millisecond, 3 * time.Second} {
		s, err = New(Options{Interval: d}, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, d, s.Next(start).Sub(start), "interval %s", d)

		offset := start.Add(700 * time.Millisecond)
		assert.Equal(t, d, s.Next(offset).Sub(offset), "interval %s from unaligned now", d)
	}

	_, err = New(Options{Spec: "not a cron"}, zerolog.Nop())
	assert.Error(t, err)

	_, err = New(Options{}, zerolog.Nop())
	assert.Error(t, err)
}
