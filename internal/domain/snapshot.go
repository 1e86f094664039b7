package domain

import "time"

// Snapshot is a portfolio summary frozen for one calendar day (UTC).
type Snapshot struct {
	Date    time.Time        `json:"date"`
	Summary PortfolioSummary `json:"summary"`
}
