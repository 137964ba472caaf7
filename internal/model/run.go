package model

import "time"

// RunStatus tracks a comparison run through its stages.
type RunStatus string

const (
	RunStatusQueued       RunStatus = "queued"
	RunStatusExtracting   RunStatus = "extracting"
	RunStatusComparing    RunStatus = "comparing"
	RunStatusRecommending RunStatus = "recommending"
	RunStatusComplete     RunStatus = "complete"
	RunStatusFailed       RunStatus = "failed"
)

// RunResult is the persisted outcome of a completed run.
type RunResult struct {
	Reference      PropertyRecord  `json:"reference"`
	Preferences    UserPreferences `json:"preferences"`
	Comparables    []Comparable    `json:"comparables"`
	Recommendation string          `json:"recommendation"`
}

// Run is one workflow execution recorded in the history store.
type Run struct {
	ID         string     `json:"id"`
	ListingURL string     `json:"listing_url"`
	Status     RunStatus  `json:"status"`
	Result     *RunResult `json:"result,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
