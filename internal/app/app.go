package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"quyca-monitor/internal/alerting"
	"quyca-monitor/internal/config"
	"quyca-monitor/internal/dashboard"
	"quyca-monitor/internal/fixtures"
	"quyca-monitor/internal/observability"
	"quyca-monitor/internal/scheduler"
	"quyca-monitor/internal/server"
	"quyca-monitor/internal/service"
	"quyca-monitor/internal/settings"
	"quyca-monitor/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Out    io.Writer
	Clock  clockwork.Clock
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Logger: logger.With().Str("component", "app").Logger(),
		Out:    os.Stdout,
		Clock:  clockwork.NewRealClock(),
	}
}

// monitor bundles the running service with what the surfaces read.
type monitor struct {
	settings settings.Settings
	service  *service.Service
	store    *storage.MemoryStore
	fixtures *fixtures.Bundle
	metrics  *observability.Metrics
}

func (a *App) loadFixtures() (*fixtures.Bundle, error) {
	return fixtures.Load(a.Config.Settings().Loc())
}

func (a *App) openStore(ctx context.Context, bundle *fixtures.Bundle) (*storage.MemoryStore, error) {
	store := storage.NewMemoryStore(a.Config.Alerts.Capacity)
	if !a.Config.Alerts.Seed {
		return store, nil
	}
	for _, fx := range bundle.Alerts {
		if _, err := store.InsertAlert(ctx, storage.AlertRecord{
			At:          fx.At,
			Temperature: fx.Temperature,
			Tier:        fx.Tier,
			Action:      fx.Action,
			Source:      alerting.SourceFixture,
		}); err != nil {
			return nil, fmt.Errorf("seed alert %d: %w", fx.ID, err)
		}
	}
	return store, nil
}

func (a *App) newNotifier(store *storage.MemoryStore) alerting.Notifier {
	return alerting.Fanout{
		alerting.NewLogNotifier(a.Logger),
		alerting.NewStoreNotifier(store),
	}
}

func (a *App) newMonitor(ctx context.Context, metrics *observability.Metrics) (*monitor, error) {
	st := a.Config.Settings()

	bundle, err := a.loadFixtures()
	if err != nil {
		return nil, err
	}
	store, err := a.openStore(ctx, bundle)
	if err != nil {
		return nil, err
	}

	sched, err := scheduler.New(scheduler.Options{
		Interval: st.Interval,
		Spec:     st.Schedule,
		Clock:    a.Clock,
	}, a.Logger)
	if err != nil {
		return nil, err
	}

	svc := service.New(st, service.Deps{
		Clock:     a.Clock,
		Scheduler: sched,
		Notifier:  a.newNotifier(store),
		Readings:  store,
		Metrics:   metrics,
	}, a.Logger)

	return &monitor{settings: st, service: svc, store: store, fixtures: bundle, metrics: metrics}, nil
}

func (a *App) newServer(m *monitor) *server.Server {
	return server.New(server.Options{
		Addr:            a.Config.Server.Addr,
		ShutdownTimeout: a.Config.Server.ShutdownTimeout,
		Monitor:         m.service,
		Alerts:          m.store,
		Fixtures:        m.fixtures,
		Metrics:         m.metrics,
	}, a.Logger)
}

// Run executes the headless monitoring service with its HTTP surface.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m, err := a.newMonitor(ctx, observability.NewMetrics())
	if err != nil {
		return err
	}
	defer m.store.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.service.Run(gctx) })
	if a.Config.Server.Enabled {
		srv := a.newServer(m)
		g.Go(func() error { return srv.Run(gctx) })
	} else {
		a.Logger.Warn().Msg("server.enabled is false; running without HTTP surface")
	}

	a.Logger.Info().Msg("starting monitoring service")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("monitoring service stopped")
	return nil
}

// Dashboard runs the terminal view. Quitting it cancels the refresh loop.
func (a *App) Dashboard(ctx context.Context, opts DashboardOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m, err := a.newMonitor(ctx, observability.NewMetrics())
	if err != nil {
		return err
	}
	defer m.store.Close()

	snapshots, unsubscribe := m.service.Subscribe(1)
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.service.Run(gctx) })
	if opts.Serve || a.Config.Server.Enabled {
		srv := a.newServer(m)
		g.Go(func() error { return srv.Run(gctx) })
	}

	model := dashboard.New(dashboard.Options{
		Context:   gctx,
		Monitor:   m.service,
		Snapshots: snapshots,
		Alerts:    m.store,
		Fixtures:  m.fixtures,
		Clock:     a.Clock,
	})
	uiErr := dashboard.Run(gctx, model)
	cancel()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return uiErr
}

// DashboardOptions configure the terminal view.
type DashboardOptions struct {
	Serve bool
}

// ExportOptions hold parameters for exporting a generated series.
type ExportOptions struct {
	PNGPath string
	CSVPath string
	Seed    int64
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Seed int64
}

// SimulateOptions configure a headless run over a fake clock.
type SimulateOptions struct {
	Ticks int
	Seed  int64
}
