package search

import (
	"context"
	"fmt"

	"github.com/siherrmann/placeresolver/helper"
	"github.com/siherrmann/placeresolver/model"
)

// TrigramSearcher queries the name index by pg_trgm similarity.
// It needs no embedding model, which makes it the natural fallback backend.
type TrigramSearcher struct {
	index TrigramIndex
}

// NewTrigramSearcher creates a trigram searcher over the given index
func NewTrigramSearcher(index TrigramIndex) *TrigramSearcher {
	return &TrigramSearcher{
		index: index,
	}
}

// Search retrieves the k lexically closest names
func (s *TrigramSearcher) Search(ctx context.Context, query string, k int) ([]model.SearchHit, error) {
	hits, err := s.index.SelectNamesByTrigram(ctx, query, k)
	if err != nil {
		return nil, helper.NewError("trigram search", fmt.Errorf("%w: %v", model.ErrBackendUnavailable, err))
	}

	return hits, nil
}
