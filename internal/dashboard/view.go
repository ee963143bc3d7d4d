package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"quyca-monitor/internal/chart"
	"quyca-monitor/internal/fixtures"
	"quyca-monitor/internal/service"
)

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("52")
	colorTitleFg  = lipgloss.Color("214")
	colorBorder   = lipgloss.Color("130")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorCrit     = lipgloss.Color("196")
	colorOk       = lipgloss.Color("78")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Iniciando..."
	}

	lines := m.lines()
	visible := m.visibleLines()
	scroll := min(m.scroll, max(len(lines)-visible, 0))
	end := min(scroll+visible, len(lines))
	return strings.Join(lines[scroll:end], "\n")
}

func (m Model) visibleLines() int {
	return max(m.height, 5)
}

// maxScroll is how far down the content can move before its last line
// reaches the bottom of the window.
func (m Model) maxScroll() int {
	if m.width == 0 {
		return 0
	}
	return max(len(m.lines())-m.visibleLines(), 0)
}

func (m Model) lines() []string {
	contentWidth := m.width - 2
	if contentWidth < 60 {
		contentWidth = 60
	}

	var sections []string
	sections = append(sections, m.renderTitleBar(contentWidth))

	if m.err != nil {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Width(contentWidth).
			Padding(0, 1).
			Render(fmt.Sprintf(" ERROR: %v", m.err)))
	}

	if m.panel != panelNone {
		sections = append(sections, m.renderPanel(contentWidth))
	}

	sections = append(sections,
		m.renderReading(contentWidth),
		m.renderChart(contentWidth),
		m.renderHistory(contentWidth),
		m.renderFooter(contentWidth),
	)

	return strings.Split(lipgloss.JoinVertical(lipgloss.Left, sections...), "\n")
}

func (m Model) box(width int, title string, rows ...string) string {
	head := lipgloss.NewStyle().Bold(true).Foreground(colorTitleFg).Render(title)
	body := lipgloss.JoinVertical(lipgloss.Left, append([]string{head}, rows...)...)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(body)
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().Bold(true).Foreground(colorTitleFg).Render("QUYCA · Monitor de riesgo de incendio")
	dim := lipgloss.NewStyle().Foreground(colorDim)

	parts := []string{dim.Render("up " + fmtDuration(m.clock.Since(m.startTime)))}
	if !m.snap.UpdatedAt.IsZero() {
		parts = append(parts, dim.Render(m.snap.UpdatedAt.Format("15:04:05")))
	}
	if m.paused {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorCrit).Bold(true).Render("PAUSADO"))
	}
	right := strings.Join(parts, dim.Render(" │ "))

	gap := max(width-lipgloss.Width(logo)-lipgloss.Width(right)-4, 1)
	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func (m Model) renderReading(width int) string {
	s := m.snap.Settings
	tier := m.snap.ReadingTier
	big := lipgloss.NewStyle().Bold(true).Render(chart.RenderTemperature(m.snap.Temperature, tier))
	row := big + "  " + chart.RenderBadge(tier)

	dim := lipgloss.NewStyle().Foreground(colorDim)
	explain := []string{
		dim.Render(fmt.Sprintf("🟢 Normal: funcionamiento seguro (<%g°C)", s.ReadingRisk.Risk)),
		dim.Render(fmt.Sprintf("🟡 Riesgo: monitoreo cercano (%g-%g°C)", s.ReadingRisk.Risk, s.ReadingRisk.Critical)),
		dim.Render(fmt.Sprintf("🔴 Crítico: peligro de incendio (≥%g°C)", s.ReadingRisk.Critical)),
	}
	scale := chart.RenderScale(m.snap.Temperature, s.ReadingRisk, s.ChartDomain, 40)

	return m.box(width, "Temperatura actual", append([]string{row, scale}, explain...)...)
}

func (m Model) renderChart(width int) string {
	s := m.snap.Settings
	rows := []string{
		chart.RenderTrend(m.snap.Trend),
		chart.RenderSparkline(m.snap.Points, s.ChartDomain),
		chart.RenderTimeline(m.snap.Points),
		chart.RenderLegend(s.ChartRisk),
	}
	return m.box(width, "Últimas 24 horas", rows...)
}

func (m Model) renderHistory(width int) string {
	if len(m.history) == 0 {
		return m.box(width, "Historial de alertas", lipgloss.NewStyle().Foreground(colorDim).Render("Sin alertas registradas"))
	}
	rows := make([]string, 0, len(m.history))
	for _, a := range m.history {
		rows = append(rows, fmt.Sprintf("%s  %s  %-10s %s",
			a.At.Format(fixtures.DatetimeLayout),
			chart.RenderTemperature(a.Temperature, a.Tier),
			lipgloss.NewStyle().Foreground(chart.TierColor(a.Tier)).Render(a.Tier.String()),
			truncate(a.Action, max(width-40, 10)),
		))
	}
	return m.box(width, "Historial de alertas", rows...)
}

func (m Model) renderPanel(width int) string {
	switch m.panel {
	case panelManual:
		return m.renderManual(width)
	case panelContacts:
		return m.renderContacts(width)
	case panelConfig:
		return m.renderConfig(width)
	case panelVerify:
		return m.renderVerify(width)
	}
	return ""
}

func (m Model) renderManual(width int) string {
	var rows []string
	for _, sec := range m.fixtures.Manual {
		rows = append(rows, lipgloss.NewStyle().Bold(true).Foreground(colorLabel).Render(sec.Title))
		for _, it := range sec.Items {
			rows = append(rows, "  • "+it.String())
		}
	}
	return m.box(width, "Manual de seguridad", rows...)
}

func (m Model) renderContacts(width int) string {
	var rows []string
	for _, c := range m.fixtures.Contacts {
		num := lipgloss.NewStyle().Bold(true).Foreground(colorCrit).Render(c.Number)
		rows = append(rows, fmt.Sprintf("%-24s %s  %s", c.Name, num, lipgloss.NewStyle().Foreground(colorDim).Render(c.Description)))
	}
	return m.box(width, "Contacto de emergencia", rows...)
}

func (m Model) renderConfig(width int) string {
	s := m.snap.Settings
	rows := []string{
		fmt.Sprintf("Intervalo de actualización  %s", s.Interval),
		fmt.Sprintf("Regeneración de la serie    %.0f%%", s.RegenerateProbability*100),
		fmt.Sprintf("Umbral lectura (%s)    riesgo %g°C  crítico %g°C", s.ReadingRisk.Name, s.ReadingRisk.Risk, s.ReadingRisk.Critical),
		fmt.Sprintf("Umbral gráfica (%s)     riesgo %g°C  crítico %g°C", s.ChartRisk.Name, s.ChartRisk.Risk, s.ChartRisk.Critical),
		fmt.Sprintf("Dominio de la gráfica       %g-%g°C", s.ChartDomain.Min, s.ChartDomain.Max),
		fmt.Sprintf("Zona horaria                %s", s.Loc()),
		lipgloss.NewStyle().Foreground(colorDim).Render("Solo lectura: edite config.yaml o variables QUYCA_*"),
	}
	return m.box(width, "Configuración", rows...)
}

func (m Model) renderVerify(width int) string {
	if m.verdict == nil {
		return m.box(width, "Verificación por foto",
			"Tome una foto del área para verificar si existe un incendio.",
			"¿Observa signos de incendio en la imagen?",
			lipgloss.NewStyle().Foreground(colorDim).Render("y: sí hay incendio   n: no hay incendio   esc: cerrar"),
		)
	}
	if m.verdict.Action == service.ActionFireDetected {
		return m.box(width, "Verificación por foto",
			lipgloss.NewStyle().Bold(true).Foreground(colorCrit).Render("🔴 INCENDIO DETECTADO"),
			"Se ha registrado la alerta. Contacte inmediatamente a emergencias.",
		)
	}
	return m.box(width, "Verificación por foto",
		lipgloss.NewStyle().Bold(true).Foreground(colorOk).Render("🟢 ÁREA SEGURA"),
		"No se detectaron signos de incendio. Verificación completada.",
	)
}

func (m Model) renderFooter(width int) string {
	dim := lipgloss.NewStyle().Foreground(colorDim)
	label := lipgloss.NewStyle().Foreground(colorLabel)
	keys := []struct{ k, v string }{
		{"m", "manual"}, {"e", "emergencia"}, {"c", "config"}, {"f", "foto"},
		{"p", "pausa"}, {"j/k", "scroll"}, {"q", "salir"},
	}
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(dim.Render(k.k) + label.Render(":"+k.v))
	}
	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(sb.String())
}

func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w <= 3 {
		return string(r[:w])
	}
	return string(r[:w-1]) + "…"
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, mins, s)
	}
	return fmt.Sprintf("%dm%02ds", mins, s)
}
