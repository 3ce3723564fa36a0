package model

// PlaceKind is the administrative level of a place
type PlaceKind string

const (
	KindVillage       PlaceKind = "village"
	KindGramPanchayat PlaceKind = "gram_panchayat"
	KindWard          PlaceKind = "ward"
	KindUrbanBody     PlaceKind = "urban_body"
	KindBlock         PlaceKind = "block"
	KindTehsil        PlaceKind = "tehsil"
	KindDistrict      PlaceKind = "district"
	KindUnknown       PlaceKind = "unknown"
)

// ParsePlaceKind maps a raw kind string to a known PlaceKind.
// Unrecognized or empty values map to KindUnknown.
func ParsePlaceKind(s string) PlaceKind {
	switch PlaceKind(s) {
	case KindVillage, KindGramPanchayat, KindWard, KindUrbanBody, KindBlock, KindTehsil, KindDistrict:
		return PlaceKind(s)
	default:
		return KindUnknown
	}
}
