package resolve

import (
	"sort"

	"github.com/siherrmann/placeresolver/model"
)

// Rank merges candidates from all queried backends, applies the deterministic
// score boosts, sorts descending and truncates to top-K. Each boost is applied
// at most once per candidate. The sort is stable, so ties keep retrieval order.
func Rank(candidates []*model.PlaceCandidate, kindHint model.PlaceKind, config *model.ResolverConfig) []*model.PlaceCandidate {
	for _, candidate := range candidates {
		if kindHint != "" && kindHint != model.KindUnknown && candidate.Kind == kindHint {
			candidate.Score += config.KindBoost
			appendReason(candidate, "kind matches hint")
		}
		if candidate.PathComplete {
			candidate.Score += config.PathBoost
		} else if candidate.Reason == "" {
			candidate.Reason = "incomplete path"
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > config.TopK {
		candidates = candidates[:config.TopK]
	}

	return candidates
}

func appendReason(candidate *model.PlaceCandidate, reason string) {
	if candidate.Reason == "" {
		candidate.Reason = reason
		return
	}
	candidate.Reason += "; " + reason
}
