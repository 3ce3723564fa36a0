package model

import (
	"time"

	"github.com/google/uuid"
)

// AliasCacheEntry maps a normalized surface form to a resolved place.
// One row per alias, last-write-wins. The cache is a convenience index,
// rebuildable from the resolution history, and never authoritative.
type AliasCacheEntry struct {
	Alias      string    `json:"alias"`
	PlaceID    uuid.UUID `json:"place_id"`
	Confidence float64   `json:"confidence"`
	LastSeenAt time.Time `json:"last_seen_at"`
	Metadata   Metadata  `json:"metadata,omitempty"`
}
