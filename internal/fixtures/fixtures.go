// Package fixtures exposes the static content bundled with the dashboard:
// the seeded alert history, emergency contacts and the safety manual.
package fixtures

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"quyca-monitor/internal/risk"
)

// DatetimeLayout is the format used by the alert history.
const DatetimeLayout = "2006-01-02 15:04"

//go:embed fixtures.yaml
var raw []byte

// Alert is one historical alert row.
type Alert struct {
	ID          int64     `yaml:"id" json:"id"`
	Datetime    string    `yaml:"datetime" json:"datetime"`
	Temperature float64   `yaml:"temperature" json:"temperature"`
	RiskLevel   string    `yaml:"risk_level" json:"riskLevel"`
	Action      string    `yaml:"action" json:"action"`
	Tier        risk.Tier `yaml:"-" json:"-"`
	At          time.Time `yaml:"-" json:"-"`
}

// Contact is an emergency phone entry.
type Contact struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Number      string `yaml:"number" json:"number"`
}

// ManualItem is a bold lead followed by plain text.
type ManualItem struct {
	Lead string `yaml:"lead" json:"lead"`
	Text string `yaml:"text" json:"text"`
}

// String joins lead and text the way the manual prints them.
func (m ManualItem) String() string {
	if m.Text == "" {
		return m.Lead
	}
	if m.Text[0] == ',' {
		return m.Lead + m.Text
	}
	return m.Lead + " " + m.Text
}

// ManualSection groups manual items under a title.
type ManualSection struct {
	Title string       `yaml:"title" json:"title"`
	Items []ManualItem `yaml:"items" json:"items"`
}

// Bundle is the decoded fixture file.
type Bundle struct {
	Alerts   []Alert         `yaml:"alerts" json:"alerts"`
	Contacts []Contact       `yaml:"contacts" json:"contacts"`
	Manual   []ManualSection `yaml:"manual" json:"manual"`
}

// Load decodes the embedded fixtures, interpreting alert datetimes in loc.
func Load(loc *time.Location) (*Bundle, error) {
	return Parse(raw, loc)
}

// Parse decodes fixture YAML.
func Parse(data []byte, loc *time.Location) (*Bundle, error) {
	if loc == nil {
		loc = time.Local
	}
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	for i := range b.Alerts {
		a := &b.Alerts[i]
		tier, err := risk.ParseTier(a.RiskLevel)
		if err != nil {
			return nil, fmt.Errorf("alert %d: %w", a.ID, err)
		}
		at, err := time.ParseInLocation(DatetimeLayout, a.Datetime, loc)
		if err != nil {
			return nil, fmt.Errorf("alert %d datetime: %w", a.ID, err)
		}
		a.Tier = tier
		a.At = at
	}
	for _, c := range b.Contacts {
		if c.Name == "" || c.Number == "" {
			return nil, fmt.Errorf("contact %q is missing a name or number", c.Name)
		}
	}
	return &b, nil
}
