// Package models contains shared data models used across the mailcheck codebase.
package models

// Status is the verdict for a single address. The three values are
// mutually exclusive and exhaustive.
type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
	StatusRisky   Status = "risky"
)

// EmailResult is one address's verdict. Status is the authoritative
// field for filtering; Score orders riskiness within a status.
type EmailResult struct {
	Address string `json:"address"`
	Status  Status `json:"status"`
	Score   int    `json:"score"`
	Reason  string `json:"reason,omitempty"`
}

// VerificationSummary aggregates verdicts over one batch.
// Valid + Invalid + Risky == Total always holds.
type VerificationSummary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Risky   int `json:"risky"`
}
