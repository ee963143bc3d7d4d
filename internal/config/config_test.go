package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "quyca", cfg.App.Name)
	assert.Equal(t, 3*time.Second, cfg.Simulation.Interval)
	assert.Equal(t, 0.1, cfg.Simulation.RegenerateProbability)
	assert.Equal(t, 28.5, cfg.Simulation.InitialTemperature)
	assert.Equal(t, 24, cfg.Simulation.SeriesHours)
	assert.Equal(t, 35.0, cfg.Risk.Reading.Risk)
	assert.Equal(t, 45.0, cfg.Risk.Reading.Critical)
	assert.Equal(t, 45.0, cfg.Risk.Chart.Risk)
	assert.Equal(t, 100.0, cfg.Risk.Chart.Critical)
	assert.Equal(t, 15.0, cfg.Chart.YMin)
	assert.Equal(t, 120.0, cfg.Chart.YMax)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, 100, cfg.Alerts.Capacity)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("QUYCA_SIMULATION_INTERVAL", "30s")
	t.Setenv("QUYCA_RISK_READING_RISK", "40")
	t.Setenv("QUYCA_SIMULATION_TIMEZONE", "UTC")

	cfg, err := Load("")
	require.NoError(t, err)

	s := cfg.Settings()
	assert.Equal(t, 30*time.Second, s.Interval)
	assert.Equal(t, 40.0, s.ReadingRisk.Risk)
	assert.Equal(t, "reading", s.ReadingRisk.Name)
	assert.Equal(t, time.UTC, s.Location)
}

func TestLoad_ExportPathsFromEnv(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Export.PNGPath)
	assert.Empty(t, cfg.Export.CSVPath)

	t.Setenv("QUYCA_EXPORT_PNG", "out/chart.png")
	t.Setenv("QUYCA_EXPORT_CSV", "out/series.csv")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "out/chart.png", cfg.Export.PNGPath)
	assert.Equal(t, "out/series.csv", cfg.Export.CSVPath)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quyca.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
simulation:
  interval: 10s
  regenerate_probability: 0.5
  seed: 99
risk:
  chart:
    risk: 50
    critical: 90
server:
  enabled: true
  addr: ":9191"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	s := cfg.Settings()
	assert.Equal(t, 10*time.Second, s.Interval)
	assert.Equal(t, 0.5, s.RegenerateProbability)
	assert.Equal(t, int64(99), s.Seed)
	assert.Equal(t, 50.0, s.ChartRisk.Risk)
	assert.Equal(t, 90.0, s.ChartRisk.Critical)
	assert.Equal(t, 35.0, s.ReadingRisk.Risk, "untouched table keeps defaults")
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, ":9191", cfg.Server.Addr)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("QUYCA_ALERTS_CAPACITY=7\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("QUYCA_ALERTS_CAPACITY") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Alerts.Capacity)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"interval":    {"QUYCA_SIMULATION_INTERVAL": "0s"},
		"probability": {"QUYCA_SIMULATION_REGENERATE_PROBABILITY": "1.5"},
		"thresholds":  {"QUYCA_RISK_READING_RISK": "50"},
		"domain":      {"QUYCA_CHART_Y_MIN": "200"},
		"timezone":    {"QUYCA_SIMULATION_TIMEZONE": "Mars/Olympus"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
