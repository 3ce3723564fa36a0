package resolve

import (
	"strings"

	"github.com/siherrmann/placeresolver/model"
)

// Disambiguate picks one of several structurally distinct placements of the
// same place name using the surrounding text. The placement whose ancestor
// path shares the most tokens with the context wins; when no unique winner
// exists the result is marked ambiguous and all placements are returned for
// human choice rather than guessing.
func Disambiguate(name string, entries []*model.GazetteerEntry, contextText string) *model.DisambiguationResult {
	placements := make([]*model.Placement, 0, len(entries))
	for _, entry := range entries {
		placements = append(placements, model.NewPlacement(entry))
	}

	result := &model.DisambiguationResult{
		Name:       name,
		Placements: placements,
	}

	if len(placements) == 0 {
		return result
	}
	if len(placements) == 1 {
		result.Chosen = placements[0]
		return result
	}

	tokens := tokenize(contextText)
	if len(tokens) == 0 {
		result.Ambiguous = true
		return result
	}

	best := -1
	bestCount := 0
	for i, placement := range placements {
		placement.Overlap = pathOverlap(placement.Entry, tokens)
		switch {
		case best == -1 || placement.Overlap > placements[best].Overlap:
			best = i
			bestCount = 1
		case placement.Overlap == placements[best].Overlap:
			bestCount++
		}
	}

	if bestCount != 1 || placements[best].Overlap == 0 {
		result.Ambiguous = true
		return result
	}

	result.Chosen = placements[best]
	return result
}

// tokenize lowercases and splits a text into a token set
func tokenize(text string) map[string]bool {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return nil
	}
	tokens := make(map[string]bool, len(fields))
	for _, f := range fields {
		tokens[f] = true
	}
	return tokens
}

// pathOverlap counts ancestor name tokens present in the context token set.
// Parent references and the local body name count alongside the path so an
// explicitly declared block or ULB discriminates even with a short path.
func pathOverlap(entry *model.GazetteerEntry, tokens map[string]bool) int {
	names := make([]string, 0, len(entry.Path)+5)
	names = append(names, entry.Path...)
	for _, parent := range []model.ParentRef{entry.Block, entry.District, entry.State, entry.Country} {
		if !parent.IsZero() {
			names = append(names, parent.Name)
		}
	}
	if !entry.LocalBody.IsZero() {
		names = append(names, entry.LocalBody.Name)
	}

	seen := make(map[string]bool)
	count := 0
	for _, name := range names {
		for _, token := range strings.Fields(strings.ToLower(name)) {
			if tokens[token] && !seen[token] {
				seen[token] = true
				count++
			}
		}
	}
	return count
}
