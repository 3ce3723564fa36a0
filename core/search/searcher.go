// Package search provides the pluggable vector-similarity backends used for
// candidate retrieval.
package search

import (
	"context"

	"github.com/siherrmann/placeresolver/model"
)

// Searcher is one queryable name index. The resolution engine queries the
// primary searcher first and the fallback searcher only when the primary's
// best hit is absent or below the high-confidence floor.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]model.SearchHit, error)
}

// SimilarityIndex is the vector side of the name index
type SimilarityIndex interface {
	SelectNamesBySimilarity(ctx context.Context, embedding []float32, limit int) ([]model.SearchHit, error)
}

// TrigramIndex is the lexical side of the name index
type TrigramIndex interface {
	SelectNamesByTrigram(ctx context.Context, query string, limit int) ([]model.SearchHit, error)
}
