// Package simulator produces the mock temperature data shown on the
// dashboard: a 24-hour OHLC series and a live instantaneous reading.
package simulator

import (
	"math"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"quyca-monitor/internal/settings"
)

// DefaultHours is the length of the trailing window.
const DefaultHours = 24

// TimeLayout is the 24-hour HH:MM label format.
const TimeLayout = "15:04"

// Source supplies uniform values in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Sample is one hour of simulated temperature, in °C.
type Sample struct {
	Time     string    `json:"time"`
	At       time.Time `json:"at"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	IsRising bool      `json:"isRising"`
}

// Series is ordered oldest first and is always replaced, never edited.
type Series []Sample

// Generator is not safe for concurrent use; callers serialise access.
type Generator struct {
	clock clockwork.Clock
	src   Source
	loc   *time.Location
	hours int
}

// New builds a generator reading time from clock and randomness from src.
func New(clock clockwork.Clock, src Source, s settings.Settings) *Generator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	hours := s.SeriesHours
	if hours <= 0 {
		hours = DefaultHours
	}
	return &Generator{clock: clock, src: src, loc: s.Loc(), hours: hours}
}

// Series generates a fresh trailing window ending at the current hour offset.
// The waveform depends on the hour offset only, not on the wall-clock hour.
func (g *Generator) Series() Series {
	now := g.clock.Now().In(g.loc)
	out := make(Series, 0, g.hours)
	for i := g.hours - 1; i >= 0; i-- {
		at := now.Add(-time.Duration(i) * time.Hour)
		base := 22 + 8*math.Sin(float64(i)*0.3)

		open := base + g.uniform(-2, 2)
		closeV := base + g.uniform(-2, 2)
		high := math.Max(open, closeV) + g.uniform(0, 3)
		low := math.Min(open, closeV) - g.uniform(0, 2)

		s := Sample{
			Time:  at.Format(TimeLayout),
			At:    at,
			Open:  Round1(open),
			High:  Round1(high),
			Low:   Round1(low),
			Close: Round1(closeV),
		}
		s.IsRising = s.Close > s.Open
		out = append(out, s)
	}
	return out
}

// Reading produces the live instantaneous temperature. It is deliberately a
// different curve from Series, driven by wall-clock milliseconds.
func (g *Generator) Reading() float64 {
	ms := float64(g.clock.Now().UnixMilli())
	return Round1(22 + 8*math.Sin(ms*0.001) + g.uniform(0, 4))
}

// ShouldRegenerate draws once and reports true with probability p.
func (g *Generator) ShouldRegenerate(p float64) bool {
	if p <= 0 {
		return false
	}
	return g.src.Float64() < p
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.src.Float64()*(hi-lo)
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
