package model

import "github.com/google/uuid"

// ResolutionStatus is the outcome of a resolution request
type ResolutionStatus string

const (
	StatusAutoAccepted ResolutionStatus = "auto_accepted"
	StatusNeedsReview  ResolutionStatus = "needs_review"
)

// ResolutionAudit is the diagnostic record attached to each response.
// It is logged, not persisted as a first-class entity.
type ResolutionAudit struct {
	ID             uuid.UUID `json:"id"`
	IndicesQueried []string  `json:"indices_queried"`
	CandidateCount int       `json:"candidate_count"`
	LatencyMs      int64     `json:"latency_ms"`
	SourceID       string    `json:"source_id,omitempty"`
	AliasHit       bool      `json:"alias_hit,omitempty"`
}

// ResolutionResult is the complete answer to a resolution request.
// PersistedChoice is nil when the resolution was not (or could not be) saved;
// callers must treat such a result as ephemeral.
type ResolutionResult struct {
	Status          ResolutionStatus  `json:"status"`
	NormalizedQuery string            `json:"normalized_query"`
	PlaceKey        string            `json:"place_key"`
	BestCandidate   *PlaceCandidate   `json:"best_candidate,omitempty"`
	Candidates      []*PlaceCandidate `json:"candidates"`
	PersistedChoice *FinalChoice      `json:"persisted_choice,omitempty"`
	Reason          string            `json:"reason,omitempty"`
	Audit           ResolutionAudit   `json:"audit"`
}
