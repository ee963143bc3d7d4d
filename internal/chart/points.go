// Package chart turns a temperature series into chart points and renders
// them as a terminal sparkline, a PNG area chart or CSV.
package chart

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"quyca-monitor/internal/risk"
	"quyca-monitor/internal/simulator"
)

// Point is the simplified value plotted for one hour.
type Point struct {
	Time        string    `json:"time"`
	At          time.Time `json:"at"`
	Temperature float64   `json:"temperature"`
	IsRising    bool      `json:"isRising"`
	Tier        risk.Tier `json:"tier"`
}

// Trend compares the last two chart points.
type Trend struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Rising   bool    `json:"rising"`
	Change   float64 `json:"change"`
}

var four = decimal.NewFromInt(4)

// Mean is the OHLC average rounded to the nearest integer.
func Mean(s simulator.Sample) float64 {
	sum := decimal.NewFromFloat(s.Open).
		Add(decimal.NewFromFloat(s.High)).
		Add(decimal.NewFromFloat(s.Low)).
		Add(decimal.NewFromFloat(s.Close))
	return sum.Div(four).Round(0).InexactFloat64()
}

// Points maps every sample to a chart point classified against table.
func Points(series simulator.Series, table risk.Table) []Point {
	out := make([]Point, len(series))
	for i, s := range series {
		temp := Mean(s)
		out[i] = Point{
			Time:        s.Time,
			At:          s.At,
			Temperature: temp,
			IsRising:    s.IsRising,
			Tier:        table.Classify(temp),
		}
	}
	return out
}

// Summarize reports the change over the last hour. Missing points count as 0.
func Summarize(points []Point) Trend {
	var cur, prev float64
	if n := len(points); n > 0 {
		cur = points[n-1].Temperature
		if n > 1 {
			prev = points[n-2].Temperature
		}
	}
	return Trend{
		Current:  cur,
		Previous: prev,
		Rising:   cur > prev,
		Change:   math.Abs(cur - prev),
	}
}
