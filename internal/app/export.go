package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"quyca-monitor/internal/chart"
	"quyca-monitor/internal/service"
	"quyca-monitor/internal/simulator"
)

// Export renders a freshly generated series as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" {
		opts.CSVPath = a.Config.Export.CSVPath
	}
	if opts.PNGPath == "" {
		opts.PNGPath = a.Config.Export.PNGPath
	}
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	series := a.generateSeries(opts.Seed)
	st := a.Config.Settings()
	a.Logger.Info().Int("samples", len(series)).Msg("exporting series")

	if opts.CSVPath != "" {
		if err := writeFile(opts.CSVPath, func(f *os.File) error {
			return chart.WriteCSV(f, series, st.ChartRisk)
		}); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.CSVPath).Msg("csv written")
	}

	if opts.PNGPath != "" {
		points := chart.Points(series, st.ChartRisk)
		if err := writeFile(opts.PNGPath, func(f *os.File) error {
			return chart.RenderPNG(f, points, chart.PNGOptions{
				Width:  a.Config.Chart.Width,
				Height: a.Config.Chart.Height,
				Domain: st.ChartDomain,
				Table:  st.ChartRisk,
			})
		}); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.PNGPath).Msg("png written")
	}

	return nil
}

// generateSeries draws one series. A zero seed falls back to the configured
// seed, and then to the clock.
func (a *App) generateSeries(seed int64) simulator.Series {
	st := a.Config.Settings()
	if seed == 0 {
		seed = st.Seed
	}
	gen := simulator.New(a.Clock, service.NewSource(seed, a.Clock), st)
	return gen.Series()
}

func writeFile(path string, write func(*os.File) error) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
