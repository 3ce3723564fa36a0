package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DecidedBy records whether a resolution was accepted automatically or by a human
type DecidedBy string

const (
	DecidedByAuto  DecidedBy = "auto"
	DecidedByHuman DecidedBy = "human"
)

// FinalChoice is an accepted resolution at a specific version.
// Rows are append-only per place key; the version column is authoritative
// over the version field serialized inside the JSONB blob.
type FinalChoice struct {
	ID         uuid.UUID `json:"id"`
	PlaceKey   string    `json:"place_key"`
	Name       string    `json:"name"`
	Kind       PlaceKind `json:"kind"`
	Block      ParentRef `json:"block,omitempty"`
	District   ParentRef `json:"district,omitempty"`
	State      ParentRef `json:"state,omitempty"`
	Country    ParentRef `json:"country,omitempty"`
	LocalBody  LocalBody `json:"ulb_or_gp,omitempty"`
	FullPath   PathList  `json:"full_path"`
	Codes      Metadata  `json:"codes,omitempty"`
	Confidence float64   `json:"confidence"`
	DecidedBy  DecidedBy `json:"decided_by"`
	DecidedAt  time.Time `json:"decided_at"`
	Version    int       `json:"version"`
}

// NewChoiceFromEntry builds a FinalChoice from an accepted gazetteer entry
func NewChoiceFromEntry(placeKey string, entry *GazetteerEntry, confidence float64, decidedBy DecidedBy) *FinalChoice {
	return &FinalChoice{
		ID:         entry.RID,
		PlaceKey:   placeKey,
		Name:       entry.Name,
		Kind:       entry.Kind,
		Block:      entry.Block,
		District:   entry.District,
		State:      entry.State,
		Country:    entry.Country,
		LocalBody:  entry.LocalBody,
		FullPath:   entry.Path,
		Codes:      entry.Codes,
		Confidence: confidence,
		DecidedBy:  decidedBy,
	}
}

// Value implements the driver.Valuer interface for database storage
func (c FinalChoice) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for database retrieval
func (c *FinalChoice) Scan(value interface{}) error {
	if value == nil {
		*c = FinalChoice{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, c)
}
