// Package normalize canonicalizes raw place strings into comparison keys.
// All functions are pure and perform no I/O.
package normalize

import (
	"fmt"
	"strings"

	"github.com/siherrmann/placeresolver/model"
)

// Normalize trims, case-folds and collapses internal whitespace of a raw
// place string. It returns model.ErrValidation when the result is empty.
func Normalize(raw string) (string, error) {
	fields := strings.Fields(strings.ToLower(raw))
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: place name is empty after normalization", model.ErrValidation)
	}
	return strings.Join(fields, " "), nil
}

// PlaceKey combines a normalized name with a place kind into the composite
// identity used to version resolutions. The kind defaults to unknown, so
// "raipur" queried as a district and as a village are distinct keys.
func PlaceKey(normalized string, kind model.PlaceKind) string {
	if kind == "" {
		kind = model.KindUnknown
	}
	return normalized + "|" + string(kind)
}
