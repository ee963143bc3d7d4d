package storage

import (
	"time"

	"quyca-monitor/internal/risk"
)

// ReadingSample is one instantaneous reading taken on a tick.
type ReadingSample struct {
	Tick        uint64    `json:"tick"`
	At          time.Time `json:"at"`
	Temperature float64   `json:"temperature"`
	Tier        risk.Tier `json:"tier"`
	Regenerated bool      `json:"regenerated"`
}

// AlertRecord captures an emitted alert for the history table.
type AlertRecord struct {
	ID          int64     `json:"id"`
	At          time.Time `json:"at"`
	Temperature float64   `json:"temperature"`
	Tier        risk.Tier `json:"riskLevel"`
	Action      string    `json:"action"`
	// Source is "fixture", "monitor" or "verification".
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}
