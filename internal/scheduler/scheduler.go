package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// TickFunc is invoked on every scheduled fire time.
type TickFunc func(ctx context.Context, at time.Time) error

// Options tune scheduler behaviour.
type Options struct {
	// Interval is used when Spec is empty. It is kept exactly, sub-second
	// parts included.
	Interval time.Duration
	// Spec is a cron expression with optional seconds, or a descriptor such
	// as "@every 3s".
	Spec         string
	StartupDelay time.Duration
	// Immediate fires one tick before waiting for the first schedule slot.
	Immediate bool
	Clock     clockwork.Clock
}

// Scheduler drives a periodic tick until its context is cancelled.
type Scheduler struct {
	opts     Options
	schedule cron.Schedule
	clock    clockwork.Clock
	logger   zerolog.Logger
}

var specParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New constructs a Scheduler instance.
func New(opts Options, logger zerolog.Logger) (*Scheduler, error) {
	schedule, err := buildSchedule(opts)
	if err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		opts:     opts,
		schedule: schedule,
		clock:    clock,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}, nil
}

func buildSchedule(opts Options) (cron.Schedule, error) {
	if opts.Spec != "" {
		s, err := specParser.Parse(opts.Spec)
		if err != nil {
			return nil, fmt.Errorf("parse schedule %q: %w", opts.Spec, err)
		}
		return s, nil
	}
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("scheduler interval must be positive")
	}
	return fixedDelay(opts.Interval), nil
}

// fixedDelay fires every d after the previous fire. cron.Every truncates to
// whole seconds, so intervals do not go through it.
type fixedDelay time.Duration

func (d fixedDelay) Next(t time.Time) time.Time { return t.Add(time.Duration(d)) }

// Next reports the fire time following t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Run blocks, invoking tick at each scheduled time until ctx is cancelled.
// It always returns ctx.Err().
func (s *Scheduler) Run(ctx context.Context, tick TickFunc) error {
	if s.opts.StartupDelay > 0 {
		if err := s.sleep(ctx, s.opts.StartupDelay); err != nil {
			return err
		}
	}

	if s.opts.Immediate {
		s.fire(ctx, tick, s.clock.Now())
	}

	next := s.schedule.Next(s.clock.Now())
	for {
		delay := next.Sub(s.clock.Now())
		if delay < 0 {
			next = s.schedule.Next(s.clock.Now())
			delay = next.Sub(s.clock.Now())
		}

		s.logger.Debug().Time("next_tick", next).Msg("waiting for next tick")
		if err := s.sleep(ctx, delay); err != nil {
			return err
		}

		s.fire(ctx, tick, next)
		next = s.schedule.Next(next)
	}
}

func (s *Scheduler) fire(ctx context.Context, tick TickFunc, at time.Time) {
	if ctx.Err() != nil {
		return
	}
	if err := tick(ctx, at); err != nil {
		s.logger.Error().Err(err).Time("at", at).Msg("tick execution failed")
	}
}

func (s *Scheduler) sleep(ctx context.Context, d time.Duration) error {
	timer := s.clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}
