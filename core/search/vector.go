package search

import (
	"context"
	"fmt"

	"github.com/siherrmann/placeresolver/helper"
	"github.com/siherrmann/placeresolver/model"
)

// VectorSearcher queries the name index by embedding cosine similarity
type VectorSearcher struct {
	embed EmbedFunc
	index SimilarityIndex
}

// NewVectorSearcher creates a vector searcher over the given index
func NewVectorSearcher(embed EmbedFunc, index SimilarityIndex) *VectorSearcher {
	return &VectorSearcher{
		embed: embed,
		index: index,
	}
}

// Search embeds the query and retrieves the k closest names
func (s *VectorSearcher) Search(ctx context.Context, query string, k int) ([]model.SearchHit, error) {
	if s.embed == nil {
		return nil, helper.NewError("vector search", fmt.Errorf("%w: embedder not set", model.ErrBackendUnavailable))
	}

	embedding, err := s.embed(query)
	if err != nil {
		return nil, helper.NewError("generate embedding", fmt.Errorf("%w: %v", model.ErrBackendUnavailable, err))
	}

	hits, err := s.index.SelectNamesBySimilarity(ctx, embedding, k)
	if err != nil {
		return nil, helper.NewError("vector search", fmt.Errorf("%w: %v", model.ErrBackendUnavailable, err))
	}

	return hits, nil
}
