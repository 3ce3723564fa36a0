package model

// SearchHit is one raw result from a vector or trigram search backend
type SearchHit struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// CandidateSource tags which backend produced a candidate
type CandidateSource string

const (
	SourcePrimary  CandidateSource = "primary"
	SourceFallback CandidateSource = "fallback"
	SourceAlias    CandidateSource = "alias"
)

// PlaceCandidate is a scored, source-tagged resolution hypothesis.
// Candidates are recomputed on every request and never persisted directly.
type PlaceCandidate struct {
	Name         string          `json:"name"`
	Kind         PlaceKind       `json:"kind"`
	Score        float64         `json:"score"`
	Source       CandidateSource `json:"source"`
	Entry        *GazetteerEntry `json:"entry,omitempty"`
	PathComplete bool            `json:"path_complete"`
	Reason       string          `json:"reason,omitempty"`
}
