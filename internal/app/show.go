package app

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"quyca-monitor/internal/chart"
	"quyca-monitor/internal/fixtures"
)

// Show prints a generated series with its chart mean and tier.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	st := a.Config.Settings()
	series := a.generateSeries(opts.Seed)

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Hora\tApertura\tMáx\tMín\tCierre\tSube\tMedia\tNivel")
	for _, s := range series {
		mean := chart.Mean(s)
		rising := ""
		if s.IsRising {
			rising = "▲"
		}
		fmt.Fprintf(writer, "%s\t%.1f\t%.1f\t%.1f\t%.1f\t%s\t%.0f\t%s\n",
			s.Time, s.Open, s.High, s.Low, s.Close, rising, mean, st.ChartRisk.Classify(mean))
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	tr := chart.Summarize(chart.Points(series, st.ChartRisk))
	direction := "bajando"
	if tr.Rising {
		direction = "subiendo"
	}
	_, err := fmt.Fprintf(a.Out, "\nTemperatura %s: %g°C -> %g°C (cambio %g°C)\n", direction, tr.Previous, tr.Current, tr.Change)
	return err
}

// Classify prints the tier of each temperature under both tables.
func (a *App) Classify(temps []float64) error {
	st := a.Config.Settings()
	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "°C\tLectura (%g/%g)\tGráfica (%g/%g)\n",
		st.ReadingRisk.Risk, st.ReadingRisk.Critical, st.ChartRisk.Risk, st.ChartRisk.Critical)
	for _, t := range temps {
		fmt.Fprintf(writer, "%g\t%s\t%s\n", t, st.ReadingRisk.Classify(t), st.ChartRisk.Classify(t))
	}
	return writer.Flush()
}

// Alerts prints the seeded alert history, newest first.
func (a *App) Alerts(ctx context.Context, limit int) error {
	bundle, err := a.loadFixtures()
	if err != nil {
		return err
	}
	store, err := a.openStore(ctx, bundle)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.ListRecentAlerts(ctx, limit)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(a.Out, "no alerts found")
		return err
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Fecha\t°C\tNivel\tAcción")
	for _, r := range rows {
		fmt.Fprintf(writer, "%s\t%.1f\t%s\t%s\n", r.At.Format(fixtures.DatetimeLayout), r.Temperature, r.Tier, sanitizeInline(r.Action))
	}
	return writer.Flush()
}

// Manual prints the safety manual.
func (a *App) Manual() error {
	bundle, err := a.loadFixtures()
	if err != nil {
		return err
	}
	for i, sec := range bundle.Manual {
		if i > 0 {
			fmt.Fprintln(a.Out)
		}
		fmt.Fprintln(a.Out, strings.ToUpper(sec.Title))
		for _, it := range sec.Items {
			fmt.Fprintf(a.Out, "  • %s\n", it)
		}
	}
	return nil
}

// Contacts prints the emergency numbers.
func (a *App) Contacts() error {
	bundle, err := a.loadFixtures()
	if err != nil {
		return err
	}
	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	for _, c := range bundle.Contacts {
		fmt.Fprintf(writer, "%s\t%s\t%s\n", c.Name, c.Number, c.Description)
	}
	return writer.Flush()
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
