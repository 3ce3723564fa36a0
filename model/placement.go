package model

// RuralPlacement is a village-level leaf under a gram panchayat
type RuralPlacement struct {
	GramPanchayat string `json:"gram_panchayat"`
}

// UrbanPlacement is a village-level leaf under an urban local body
type UrbanPlacement struct {
	ULB    string `json:"ulb"`
	WardNo string `json:"ward_no,omitempty"`
}

// Placement is one structurally valid hierarchy position for a place name.
// Exactly one of Rural and Urban is set, mirrored by IsUrban so downstream
// consumers can treat both leaf shapes uniformly.
type Placement struct {
	Entry   *GazetteerEntry `json:"entry"`
	IsUrban bool            `json:"is_urban"`
	Rural   *RuralPlacement `json:"rural,omitempty"`
	Urban   *UrbanPlacement `json:"urban,omitempty"`
	// Overlap is the number of ancestor name tokens found in the context text
	Overlap int `json:"overlap"`
}

// NewPlacement derives the rural/urban variant from an entry's local body descriptor
func NewPlacement(entry *GazetteerEntry) *Placement {
	p := &Placement{Entry: entry}
	switch entry.LocalBody.Type {
	case LocalBodyUrban, LocalBodyWard:
		p.IsUrban = true
		p.Urban = &UrbanPlacement{
			ULB:    entry.LocalBody.Name,
			WardNo: entry.LocalBody.WardNo,
		}
	default:
		p.Rural = &RuralPlacement{
			GramPanchayat: entry.LocalBody.Name,
		}
	}
	return p
}

// DisambiguationResult is the answer to a placement disambiguation query.
// When the context does not discriminate, Chosen is nil and Ambiguous is true;
// all placements are then equally valid candidates for human choice.
type DisambiguationResult struct {
	Name       string       `json:"name"`
	Chosen     *Placement   `json:"chosen,omitempty"`
	Placements []*Placement `json:"placements"`
	Ambiguous  bool         `json:"ambiguous"`
}
