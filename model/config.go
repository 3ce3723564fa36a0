package model

import "time"

// ResolverConfig represents configuration for the resolution pipeline
type ResolverConfig struct {
	// TopK is the number of candidates requested from each backend and
	// returned to the caller after ranking.
	TopK int `json:"top_k"`

	// Confidence thresholds
	HighConfidence float64 `json:"high_confidence"` // auto-accept floor
	LowConfidence  float64 `json:"low_confidence"`  // suggestion band floor

	// Deterministic ranking boosts, each applied at most once per candidate
	KindBoost float64 `json:"kind_boost"` // candidate kind equals the mention's kind hint
	PathBoost float64 `json:"path_boost"` // candidate path is complete

	// SearchTimeout bounds each backend call; a timeout counts as zero hits
	SearchTimeout time.Duration `json:"search_timeout"`

	// MaxInsertRetries bounds version-conflict retries on resolution inserts
	MaxInsertRetries int `json:"max_insert_retries"`

	// EmbeddingDim is the dimension of the name index embeddings
	EmbeddingDim int `json:"embedding_dim"`
}

// DefaultResolverConfig returns a sensible default configuration
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		TopK:             5,
		HighConfidence:   0.88,
		LowConfidence:    0.72,
		KindBoost:        0.02,
		PathBoost:        0.01,
		SearchTimeout:    5 * time.Second,
		MaxInsertRetries: 3,
		EmbeddingDim:     384,
	}
}
