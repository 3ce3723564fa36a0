package resolve

import "github.com/siherrmann/placeresolver/model"

// Decide is the pure escalation policy over the top-ranked candidate.
// Auto-accept requires a complete administrative path and a score at or above
// the high-confidence floor; everything else is routed to human review.
// The low-confidence floor only changes the review reason: candidates between
// the two floors are suggestions needing confirmation, candidates below the
// low floor are not plausible at all.
func Decide(top *model.PlaceCandidate, config *model.ResolverConfig) (model.ResolutionStatus, string) {
	switch {
	case top == nil:
		return model.StatusNeedsReview, "no candidates found"
	case !top.PathComplete:
		return model.StatusNeedsReview, "top candidate has an incomplete administrative path"
	case top.Score >= config.HighConfidence:
		return model.StatusAutoAccepted, "high confidence match"
	case top.Score >= config.LowConfidence:
		return model.StatusNeedsReview, "candidate needs confirmation"
	default:
		return model.StatusNeedsReview, "no plausible candidate above confidence floor"
	}
}
