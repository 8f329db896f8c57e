package types

import "io"

// ModerationRequest is a single uploaded image waiting for a decision.
type ModerationRequest struct {
	Filename string
	File     io.ReadSeeker
}

// AnalysisOutcome is the verdict of one category analyzer.
type AnalysisOutcome struct {
	IsViolation bool
	Score       float64
	// empty when there is no violation
	Reason string
}

type ModerationStatus string

const (
	ModerationStatusOK       ModerationStatus = "OK"
	ModerationStatusRejected ModerationStatus = "REJECTED"
)

func (s ModerationStatus) String() string {
	return string(s)
}

type ModerationDecision struct {
	Status ModerationStatus `json:"status"`
	Reason string           `json:"reason,omitempty"`
	// keyed by "<category>_score", e.g. nudity_score
	Scores map[string]float64 `json:"scores"`
}

func (d *ModerationDecision) Rejected() bool {
	return d != nil && d.Status == ModerationStatusRejected
}
