package model

import "time"

// RunStatus tracks the lifecycle of one analysis run.
type RunStatus string

const (
	RunStatusPending  RunStatus = "pending"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one execution of the analysis pipeline for an idea. A failed
// run always carries a human-readable error message; runs are never left
// silently pending.
type Run struct {
	ID        string    `json:"id"`
	IdeaID    string    `json:"idea_id"`
	Status    RunStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
