package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"quyca-monitor/internal/alerting"
	"quyca-monitor/internal/chart"
	"quyca-monitor/internal/observability"
	"quyca-monitor/internal/risk"
	"quyca-monitor/internal/scheduler"
	"quyca-monitor/internal/settings"
	"quyca-monitor/internal/simulator"
	"quyca-monitor/internal/storage"
)

// Verification actions written to the alert history.
const (
	ActionFireDetected = "Foto tomada - Incendio detectado"
	ActionNoFire       = "Foto tomada - Sin incendio detectado"
)

// Snapshot is the complete dashboard state after one tick. It is replaced
// as a whole and never modified once published.
type Snapshot struct {
	Tick        uint64            `json:"tick"`
	Temperature float64           `json:"temperature"`
	ReadingTier risk.Tier         `json:"readingTier"`
	Series      simulator.Series  `json:"series"`
	Points      []chart.Point     `json:"points"`
	Trend       chart.Trend       `json:"trend"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Regenerated bool              `json:"regenerated"`
	Settings    settings.Settings `json:"-"`
}

// ReadingStore keeps the per-tick reading log.
type ReadingStore interface {
	AppendReading(ctx context.Context, sample storage.ReadingSample) error
	CountReadings(ctx context.Context) (int, error)
}

// Deps are the collaborators of the service. Nil fields are optional,
// except Scheduler which Run requires.
type Deps struct {
	Clock     clockwork.Clock
	Source    simulator.Source
	Scheduler *scheduler.Scheduler
	Notifier  alerting.Notifier
	Readings  ReadingStore
	Metrics   *observability.Metrics
}

// Service owns the current snapshot and refreshes it on every tick.
type Service struct {
	settings  settings.Settings
	clock     clockwork.Clock
	gen       *simulator.Generator
	scheduler *scheduler.Scheduler
	notifier  alerting.Notifier
	readings  ReadingStore
	metrics   *observability.Metrics
	logger    zerolog.Logger

	tickMu sync.Mutex // serialises Tick and generator access

	mu   sync.RWMutex
	snap Snapshot

	subMu sync.RWMutex
	subs  map[chan Snapshot]struct{}
}

// New constructs the monitoring service and draws the initial series.
func New(s settings.Settings, deps Deps, logger zerolog.Logger) *Service {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	src := deps.Source
	if src == nil {
		src = NewSource(s.Seed, clock)
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}

	svc := &Service{
		settings:  s,
		clock:     clock,
		gen:       simulator.New(clock, src, s),
		scheduler: deps.Scheduler,
		notifier:  deps.Notifier,
		readings:  deps.Readings,
		metrics:   metrics,
		logger:    logger.With().Str("component", "service").Logger(),
		subs:      make(map[chan Snapshot]struct{}),
	}

	series := svc.gen.Series()
	svc.snap = svc.build(0, s.InitialTemperature, series, clock.Now(), false)
	svc.metrics.Temperature.Set(s.InitialTemperature)
	svc.metrics.ReadingTier.Set(float64(svc.snap.ReadingTier))
	return svc
}

// NewSource seeds a math/rand source. A zero seed uses the clock.
func NewSource(seed int64, clock clockwork.Clock) *rand.Rand {
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Settings returns the settings the service was built with.
func (s *Service) Settings() settings.Settings {
	return s.settings
}

// Run begins the refresh loop and blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	s.logger.Info().
		Dur("interval", s.settings.Interval).
		Float64("regenerate_probability", s.settings.RegenerateProbability).
		Msg("monitor started")
	err := s.scheduler.Run(ctx, s.Tick)
	s.logger.Info().Msg("monitor stopped")
	return err
}

// Snapshot returns the latest published state.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Tick 执行一次刷新：新读数、可能重新生成序列、分级并发布。
func (s *Service) Tick(ctx context.Context, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.tickMu.Lock()
	prev := s.Snapshot()

	temp := s.gen.Reading()
	series := prev.Series
	regenerated := s.gen.ShouldRegenerate(s.settings.RegenerateProbability)
	if regenerated {
		fresh := s.gen.Series()
		if err := fresh.Check(); err != nil {
			// keep the previous chart rather than publish a malformed one
			s.logger.Error().Err(err).Msg("regenerated series rejected")
			regenerated = false
		} else {
			series = fresh
		}
	}
	next := s.build(prev.Tick+1, temp, series, s.clock.Now(), regenerated)

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()
	s.publish(next)
	s.tickMu.Unlock()

	s.metrics.Ticks.Inc()
	s.metrics.Temperature.Set(next.Temperature)
	s.metrics.ReadingTier.Set(float64(next.ReadingTier))
	if regenerated {
		s.metrics.Regenerations.Inc()
	}

	s.logger.Debug().
		Uint64("tick", next.Tick).
		Time("at", at).
		Float64("temperature", next.Temperature).
		Str("tier", next.ReadingTier.String()).
		Bool("regenerated", regenerated).
		Msg("snapshot updated")

	var errs []error
	if s.readings != nil {
		if err := s.readings.AppendReading(ctx, storage.ReadingSample{
			Tick:        next.Tick,
			At:          next.UpdatedAt,
			Temperature: next.Temperature,
			Tier:        next.ReadingTier,
			Regenerated: regenerated,
		}); err != nil {
			errs = append(errs, fmt.Errorf("append reading: %w", err))
		} else if n, err := s.readings.CountReadings(ctx); err == nil {
			s.metrics.ReadingsRetained.Set(float64(n))
		}
	}

	if next.ReadingTier > prev.ReadingTier {
		if err := s.raise(ctx, prev, next); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		s.metrics.TickErrors.Inc()
		return err
	}
	return nil
}

func (s *Service) raise(ctx context.Context, prev, next Snapshot) error {
	s.metrics.Alerts.WithLabelValues(next.ReadingTier.String(), alerting.SourceMonitor).Inc()
	if s.notifier == nil {
		return nil
	}
	note := alerting.Notification{
		At:          next.UpdatedAt,
		Temperature: next.Temperature,
		Previous:    prev.ReadingTier,
		Tier:        next.ReadingTier,
		Table:       s.settings.ReadingRisk.Name,
		Action:      alerting.DefaultAction(next.ReadingTier),
		Source:      alerting.SourceMonitor,
	}
	if err := s.notifier.Notify(ctx, note); err != nil {
		return fmt.Errorf("dispatch alert: %w", err)
	}
	return nil
}

// RecordVerification stores the operator's photo verdict against the
// current reading. A confirmed fire is always recorded as Crítico.
func (s *Service) RecordVerification(ctx context.Context, hasFire bool) (alerting.Notification, error) {
	snap := s.Snapshot()
	note := alerting.Notification{
		At:          s.clock.Now(),
		Temperature: snap.Temperature,
		Previous:    snap.ReadingTier,
		Tier:        snap.ReadingTier,
		Table:       s.settings.ReadingRisk.Name,
		Action:      ActionNoFire,
		Source:      alerting.SourceVerification,
	}
	verdict := "no"
	if hasFire {
		note.Tier = risk.Critico
		note.Action = ActionFireDetected
		verdict = "yes"
	}
	s.metrics.Verifications.WithLabelValues(verdict).Inc()
	s.metrics.Alerts.WithLabelValues(note.Tier.String(), alerting.SourceVerification).Inc()

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, note); err != nil {
			return note, fmt.Errorf("record verification: %w", err)
		}
	}
	return note, nil
}

func (s *Service) build(tick uint64, temp float64, series simulator.Series, at time.Time, regenerated bool) Snapshot {
	points := chart.Points(series, s.settings.ChartRisk)
	return Snapshot{
		Tick:        tick,
		Temperature: temp,
		ReadingTier: s.settings.ReadingRisk.Classify(temp),
		Series:      series,
		Points:      points,
		Trend:       chart.Summarize(points),
		UpdatedAt:   at,
		Regenerated: regenerated,
		Settings:    s.settings,
	}
}
