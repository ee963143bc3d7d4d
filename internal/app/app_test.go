package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quyca-monitor/internal/config"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Setenv("QUYCA_SIMULATION_TIMEZONE", "UTC")
	t.Setenv("QUYCA_SIMULATION_SEED", "42")

	cfg, err := config.Load("")
	require.NoError(t, err)

	var out bytes.Buffer
	a := NewApp(cfg, zerolog.Nop())
	a.Out = &out
	a.Clock = clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 15, 42, 0, 0, time.UTC))
	return a, &out
}

func TestShowPrintsSeries(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, a.Show(context.Background(), ShowOptions{}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "Hora"))
	assert.True(t, strings.HasPrefix(lines[1], "16:42"))
	assert.True(t, strings.HasPrefix(lines[24], "15:42"))
	assert.Contains(t, out.String(), "Temperatura")
}

func TestShowIsDeterministicForSeed(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, a.Show(context.Background(), ShowOptions{Seed: 7}))
	first := out.String()

	out.Reset()
	require.NoError(t, a.Show(context.Background(), ShowOptions{Seed: 7}))
	assert.Equal(t, first, out.String())
}

func TestExportWritesFiles(t *testing.T) {
	a, _ := newTestApp(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out", "series.csv")
	pngPath := filepath.Join(dir, "out", "series.png")

	require.NoError(t, a.Export(context.Background(), ExportOptions{CSVPath: csvPath, PNGPath: pngPath}))

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 25)

	png, err := os.ReadFile(pngPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestExportNeedsATarget(t *testing.T) {
	a, _ := newTestApp(t)
	require.Error(t, a.Export(context.Background(), ExportOptions{}))
}

func TestClassifyBothTables(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, a.Classify([]float64{34.9, 45, 100}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Regexp(t, `^34\.9\s+Normal\s+Normal$`, lines[1])
	assert.Regexp(t, `^45\s+Crítico\s+Riesgo$`, lines[2])
	assert.Regexp(t, `^100\s+Crítico\s+Crítico$`, lines[3])
}

func TestAlertsListsSeededHistory(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, a.Alerts(context.Background(), 2))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "2024-01-15 14:30")
	assert.Contains(t, lines[1], "Foto tomada - Sin incendio detectado")
	assert.Contains(t, lines[2], "2024-01-15 12:15")
}

func TestAlertsWithoutSeed(t *testing.T) {
	a, out := newTestApp(t)
	a.Config.Alerts.Seed = false
	require.NoError(t, a.Alerts(context.Background(), 10))
	assert.Equal(t, "no alerts found\n", out.String())
}

func TestManualAndContacts(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, a.Manual())
	assert.Contains(t, out.String(), "EN CASO DE INCENDIO")
	assert.Contains(t, out.String(), "  • No use ascensores, use las escaleras")

	out.Reset()
	require.NoError(t, a.Contacts())
	assert.Contains(t, out.String(), "Bomberos")
	assert.Contains(t, out.String(), "+57-1-234-5678")
}

func TestSimulate(t *testing.T) {
	a, out := newTestApp(t)
	require.NoError(t, a.Simulate(context.Background(), SimulateOptions{Ticks: 5}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "Tick"))
	assert.True(t, strings.HasPrefix(lines[1], "1 "))
	assert.True(t, strings.HasPrefix(lines[5], "5 "))
	assert.Contains(t, out.String(), "alertas por escalamiento")

	require.Error(t, a.Simulate(context.Background(), SimulateOptions{}))
}
