// Package settings holds the immutable runtime settings shared by the
// scheduler, the simulator and both risk classifiers.
package settings

import (
	"time"

	"quyca-monitor/internal/risk"
)

// Domain is the fixed y-range of the temperature chart.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Settings is passed by value; nothing mutates it after construction.
type Settings struct {
	Interval              time.Duration  `json:"interval"`
	Schedule              string         `json:"schedule,omitempty"`
	RegenerateProbability float64        `json:"regenerate_probability"`
	Seed                  int64          `json:"seed"`
	Location              *time.Location `json:"-"`
	InitialTemperature    float64        `json:"initial_temperature"`
	SeriesHours           int            `json:"series_hours"`
	ReadingRisk           risk.Table     `json:"reading_risk"`
	ChartRisk             risk.Table     `json:"chart_risk"`
	ChartDomain           Domain         `json:"chart_domain"`
}

// Default returns the values the dashboard has always shipped with.
func Default() Settings {
	return Settings{
		Interval:              3 * time.Second,
		RegenerateProbability: 0.1,
		Location:              time.Local,
		InitialTemperature:    28.5,
		SeriesHours:           24,
		ReadingRisk:           risk.ReadingTable,
		ChartRisk:             risk.ChartTable,
		ChartDomain:           Domain{Min: 15, Max: 120},
	}
}

// Loc never returns nil.
func (s Settings) Loc() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}
