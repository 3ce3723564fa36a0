package model

import "time"

// MentionContext carries the provenance of the post a mention was extracted from
type MentionContext struct {
	SourceID  string     `json:"source_id,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Language  string     `json:"language,omitempty"`
	// Text is the full post text, used for disambiguation between
	// structurally distinct placements of the same name.
	Text string `json:"text,omitempty"`
}

// PlaceMention is one free-text place mention to resolve.
// It is constructed per resolution request and discarded after the response.
type PlaceMention struct {
	RawText       string         `json:"raw_text"`
	DetectedPlace string         `json:"detected_place"`
	KindHint      PlaceKind      `json:"place_kind_hint,omitempty"`
	Context       MentionContext `json:"context,omitempty"`
}
