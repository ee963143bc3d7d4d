package risk

import "fmt"

// Tier is a coarse fire-risk level. Values are ordered by ascending severity.
type Tier int

const (
	Normal Tier = iota
	Riesgo
	Critico
)

// String returns the label shown on badges and in the alert history.
func (t Tier) String() string {
	switch t {
	case Normal:
		return "Normal"
	case Riesgo:
		return "Riesgo"
	case Critico:
		return "Crítico"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// MarshalText encodes the tier as its label.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the label with or without the accent.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTier maps a label back to its tier.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "Normal", "normal":
		return Normal, nil
	case "Riesgo", "riesgo":
		return Riesgo, nil
	case "Crítico", "crítico", "Critico", "critico":
		return Critico, nil
	}
	return Normal, fmt.Errorf("unknown risk tier %q", s)
}

// Table holds the two boundaries that split the real line into tiers.
// Risk is inclusive for Riesgo, Critical is inclusive for Crítico.
type Table struct {
	Name     string  `json:"name"`
	Risk     float64 `json:"risk"`
	Critical float64 `json:"critical"`
}

// ReadingTable classifies the live instantaneous readout.
var ReadingTable = Table{Name: "reading", Risk: 35, Critical: 45}

// ChartTable classifies chart points and positions the reference lines.
var ChartTable = Table{Name: "chart", Risk: 45, Critical: 100}

// Classify maps a temperature in °C to its tier.
func (tb Table) Classify(temperature float64) Tier {
	switch {
	case temperature >= tb.Critical:
		return Critico
	case temperature >= tb.Risk:
		return Riesgo
	default:
		return Normal
	}
}

// Validate reports a table whose boundaries are not strictly increasing.
func (tb Table) Validate() error {
	if tb.Risk >= tb.Critical {
		return fmt.Errorf("risk table %q: risk threshold %.1f must be below critical threshold %.1f", tb.Name, tb.Risk, tb.Critical)
	}
	return nil
}

// Classify uses the instantaneous-reading table.
func Classify(temperature float64) Tier {
	return ReadingTable.Classify(temperature)
}
