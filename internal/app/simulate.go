package app

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/jonboulle/clockwork"

	"quyca-monitor/internal/alerting"
	"quyca-monitor/internal/observability"
	"quyca-monitor/internal/service"
	"quyca-monitor/internal/storage"
)

// Simulate 在假时钟上连续执行若干次刷新并打印结果，不启动定时器。
func (a *App) Simulate(ctx context.Context, opts SimulateOptions) error {
	if opts.Ticks <= 0 {
		return errors.New("ticks must be greater than zero")
	}
	st := a.Config.Settings()
	seed := opts.Seed
	if seed == 0 {
		seed = st.Seed
	}

	clock := clockwork.NewFakeClockAt(a.Clock.Now())
	store := storage.NewMemoryStore(max(a.Config.Alerts.Capacity, opts.Ticks))
	defer store.Close()

	svc := service.New(st, service.Deps{
		Clock:    clock,
		Source:   service.NewSource(seed, a.Clock),
		Notifier: alerting.NewStoreNotifier(store),
		Readings: store,
		Metrics:  observability.NewMetricsForTesting(),
	}, a.Logger)

	for i := 0; i < opts.Ticks; i++ {
		clock.Advance(st.Interval)
		if err := svc.Tick(ctx, clock.Now()); err != nil {
			return err
		}
	}

	readings, err := store.ListRecentReadings(ctx, opts.Ticks)
	if err != nil {
		return err
	}
	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Tick\tHora\t°C\tNivel\tSerie")
	for _, r := range readings {
		regen := ""
		if r.Regenerated {
			regen = "regenerada"
		}
		fmt.Fprintf(writer, "%d\t%s\t%.1f\t%s\t%s\n", r.Tick, r.At.In(st.Loc()).Format("15:04:05"), r.Temperature, r.Tier, regen)
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	alerts, err := store.ListRecentAlerts(ctx, 0)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.Out, "\n%d alertas por escalamiento de nivel\n", len(alerts))
	return err
}
