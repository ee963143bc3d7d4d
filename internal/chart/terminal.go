package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quyca-monitor/internal/risk"
	"quyca-monitor/internal/settings"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// TierColor returns the badge color for a tier.
func TierColor(t risk.Tier) lipgloss.Color {
	switch t {
	case risk.Critico:
		return lipgloss.Color("196") // red
	case risk.Riesgo:
		return lipgloss.Color("220") // yellow
	default:
		return lipgloss.Color("78") // soft green
	}
}

// RenderBadge renders the tier label on its color.
func RenderBadge(t risk.Tier) string {
	return lipgloss.NewStyle().
		Background(TierColor(t)).
		Foreground(lipgloss.Color("16")).
		Bold(true).
		Padding(0, 1).
		Render(strings.ToUpper(t.String()))
}

// RenderTemperature renders a reading colored by its tier.
func RenderTemperature(temp float64, t risk.Tier) string {
	style := lipgloss.NewStyle().Foreground(TierColor(t))
	if t == risk.Critico {
		style = style.Bold(true)
	}
	return style.Render(fmt.Sprintf("%.1f°C", temp))
}

// RenderSparkline draws one block per point scaled to the domain, two cells
// per point so the hourly timeline fits under it.
func RenderSparkline(points []Point, domain settings.Domain) string {
	if len(points) == 0 {
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
		return dim.Render(strings.Repeat("╌", 48))
	}

	span := domain.Max - domain.Min
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder
	for _, p := range points {
		norm := (p.Temperature - domain.Min) / span
		norm = math.Max(0, math.Min(1, norm))
		idx := int(norm * 7)
		if idx > 7 {
			idx = 7
		}
		style := lipgloss.NewStyle().Foreground(TierColor(p.Tier))
		if p.Tier == risk.Critico {
			style = style.Bold(true)
		}
		ch := string(sparkBlocks[idx])
		sb.WriteString(style.Render(ch + ch))
	}
	return sb.String()
}

// RenderTimeline labels every fourth hour under the sparkline.
func RenderTimeline(points []Point) string {
	width := len(points) * 2
	if width == 0 {
		return ""
	}
	line := []rune(strings.Repeat(" ", width))
	lastEnd := -1
	for i := 0; i < len(points); i += 4 {
		label := []rune(points[i].Time)
		start := i * 2
		end := start + len(label)
		if end > width || start <= lastEnd {
			continue
		}
		copy(line[start:], label)
		lastEnd = end
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Render(string(line))
}

// RenderTrend renders the banner above the chart.
func RenderTrend(tr Trend) string {
	if tr.Rising {
		head := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render("▲ TEMPERATURA SUBIENDO")
		return fmt.Sprintf("%s  Cambio: %g°C en la última hora", head, tr.Change)
	}
	head := lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true).Render("▼ TEMPERATURA BAJANDO")
	return fmt.Sprintf("%s  Cambio: %g°C en la última hora", head, tr.Change)
}

// RenderLegend explains the three tiers of a table.
func RenderLegend(tb risk.Table) string {
	entries := []struct {
		tier risk.Tier
		text string
	}{
		{risk.Normal, fmt.Sprintf("Menos de %g°C", tb.Risk)},
		{risk.Riesgo, fmt.Sprintf("%g°C - %g°C", tb.Risk, tb.Critical)},
		{risk.Critico, fmt.Sprintf("%g°C o más", tb.Critical)},
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		dot := lipgloss.NewStyle().Foreground(TierColor(e.tier)).Render("●")
		parts[i] = fmt.Sprintf("%s %s %s", dot, strings.ToUpper(e.tier.String()), e.text)
	}
	return strings.Join(parts, "   ")
}

// RenderScale shows where a value sits between the domain bounds, with the
// table thresholds marked.
func RenderScale(current float64, tb risk.Table, domain settings.Domain, width int) string {
	if width <= 0 {
		return ""
	}
	span := domain.Max - domain.Min
	if span <= 0 {
		span = 1
	}
	pos := func(v float64) int {
		p := int(float64(width-1) * (v - domain.Min) / span)
		return max(0, min(width-1, p))
	}
	riskPos, critPos, curPos := pos(tb.Risk), pos(tb.Critical), pos(current)

	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch i {
		case curPos:
			sb.WriteString(lipgloss.NewStyle().Foreground(TierColor(tb.Classify(current))).Bold(true).Render("◆"))
		case critPos:
			sb.WriteString(lipgloss.NewStyle().Foreground(TierColor(risk.Critico)).Render("▪"))
		case riskPos:
			sb.WriteString(lipgloss.NewStyle().Foreground(TierColor(risk.Riesgo)).Render("▪"))
		default:
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("236")).Render("·"))
		}
	}
	return sb.String()
}
