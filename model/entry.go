package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PathCompleteLevels is the minimum number of ancestor levels an entry's path
// must carry to count as a complete administrative path.
const PathCompleteLevels = 4

// ParentRef is a lightweight reference to an ancestor node in the hierarchy
type ParentRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// IsZero reports whether the reference is unset
func (r ParentRef) IsZero() bool {
	return r == ParentRef{}
}

// Value implements the driver.Valuer interface for database storage
func (r ParentRef) Value() (driver.Value, error) {
	if r.IsZero() {
		return nil, nil
	}
	return json.Marshal(r)
}

// Scan implements the sql.Scanner interface for database retrieval
func (r *ParentRef) Scan(value interface{}) error {
	if value == nil {
		*r = ParentRef{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, r)
}

// LocalBodyType distinguishes the local governance descriptor of an entry
type LocalBodyType string

const (
	LocalBodyUrban LocalBodyType = "urban_body"
	LocalBodyGP    LocalBodyType = "gram_panchayat"
	LocalBodyWard  LocalBodyType = "ward"
)

// LocalBody is the urban-body-or-gram-panchayat descriptor of an entry
type LocalBody struct {
	Type LocalBodyType `json:"type,omitempty"`
	Name string        `json:"name,omitempty"`
	// WardNo is set for urban entries that resolve to a specific ward
	WardNo string `json:"ward_no,omitempty"`
}

// IsZero reports whether the descriptor is unset
func (l LocalBody) IsZero() bool {
	return l == LocalBody{}
}

// Value implements the driver.Valuer interface for database storage
func (l LocalBody) Value() (driver.Value, error) {
	if l.IsZero() {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for database retrieval
func (l *LocalBody) Scan(value interface{}) error {
	if value == nil {
		*l = LocalBody{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, l)
}

// PathList is the ordered list of ancestor names, root to leaf, stored as JSONB
type PathList []string

// Value implements the driver.Valuer interface for database storage
func (p PathList) Value() (driver.Value, error) {
	if p == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface for database retrieval
func (p *PathList) Scan(value interface{}) error {
	if value == nil {
		*p = PathList{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, p)
}

// GazetteerEntry is a node in the static administrative reference hierarchy.
// Reference data is immutable once loaded.
type GazetteerEntry struct {
	ID             int       `json:"id"`
	RID            uuid.UUID `json:"rid"`
	Name           string    `json:"name"`
	NormalizedName string    `json:"normalized_name,omitempty"`
	Kind           PlaceKind `json:"kind"`
	Block          ParentRef `json:"block,omitempty"`
	District       ParentRef `json:"district,omitempty"`
	State          ParentRef `json:"state,omitempty"`
	Country        ParentRef `json:"country,omitempty"`
	LocalBody      LocalBody `json:"local_body,omitempty"`
	Path           PathList  `json:"path"`
	Codes          Metadata  `json:"codes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// PathComplete reports whether the entry carries a full administrative path
func (e *GazetteerEntry) PathComplete() bool {
	return e != nil && len(e.Path) >= PathCompleteLevels
}
