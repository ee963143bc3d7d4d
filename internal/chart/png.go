package chart

import (
	"errors"
	"fmt"
	"io"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"quyca-monitor/internal/risk"
	"quyca-monitor/internal/settings"
)

// PNGOptions sizes and scales the exported chart.
type PNGOptions struct {
	Width  int
	Height int
	Domain settings.Domain
	Table  risk.Table
}

var (
	lineColor     = drawing.ColorFromHex("2563eb")
	riskColor     = drawing.ColorFromHex("f59e0b")
	criticalColor = drawing.ColorFromHex("ef4444")
)

// RenderPNG draws the points as a filled line over the fixed domain with
// dashed reference lines at the table thresholds.
func RenderPNG(w io.Writer, points []Point, opts PNGOptions) error {
	if len(points) < 2 {
		return errors.New("chart needs at least two points")
	}
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	if opts.Domain.Min >= opts.Domain.Max {
		opts.Domain = settings.Default().ChartDomain
	}

	x := make([]time.Time, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i] = p.At
		y[i] = p.Temperature
	}
	edges := []time.Time{x[0], x[len(x)-1]}

	graph := gochart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat("15:04"),
		},
		YAxis: gochart.YAxis{
			Name:  "Temperatura °C",
			Range: &gochart.ContinuousRange{Min: opts.Domain.Min, Max: opts.Domain.Max},
			ValueFormatter: func(v interface{}) string {
				return gochart.FloatValueFormatterWithFormat(v, "%.0f")
			},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "Temperatura",
				XValues: x,
				YValues: y,
				Style: gochart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 4,
					FillColor:   criticalColor.WithAlpha(64),
					DotColor:    lineColor,
					DotWidth:    4,
				},
			},
			referenceLine(fmt.Sprintf("RIESGO %g°C", opts.Table.Risk), edges, opts.Table.Risk, riskColor),
			referenceLine(fmt.Sprintf("CRÍTICO %g°C", opts.Table.Critical), edges, opts.Table.Critical, criticalColor),
		},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	return graph.Render(gochart.PNG, w)
}

func referenceLine(name string, edges []time.Time, y float64, color drawing.Color) gochart.TimeSeries {
	return gochart.TimeSeries{
		Name:    name,
		XValues: edges,
		YValues: []float64{y, y},
		Style: gochart.Style{
			StrokeColor:     color,
			StrokeWidth:     3,
			StrokeDashArray: []float64{5, 5},
		},
	}
}
