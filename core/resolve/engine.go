// Package resolve implements the resolution pipeline: normalize, retrieve
// candidates from the primary and fallback backends, expand through the
// gazetteer, rank, decide, and persist accepted choices.
package resolve

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/placeresolver/core/search"
	"github.com/siherrmann/placeresolver/model"
	"github.com/siherrmann/placeresolver/normalize"
)

// Gazetteer is the read-only reference lookup the engine expands hits through
type Gazetteer interface {
	FindEntriesByName(normalizedName string) ([]*model.GazetteerEntry, error)
}

// ChoiceStore persists accepted resolutions, append-only per place key
type ChoiceStore interface {
	InsertResolution(choice *model.FinalChoice, audit model.Metadata) error
	SelectCurrentResolution(placeKey string) (*model.FinalChoice, error)
}

// AliasStore is the rebuildable alias-to-place cache
type AliasStore interface {
	UpsertAlias(alias *model.AliasCacheEntry) error
	SelectAlias(alias string) (*model.AliasCacheEntry, error)
}

// Engine runs the resolution pipeline. Requests share no mutable state and
// are safe to run fully in parallel.
type Engine struct {
	primary   search.Searcher
	fallback  search.Searcher
	gazetteer Gazetteer
	choices   ChoiceStore
	aliases   AliasStore
	config    *model.ResolverConfig
	log       *slog.Logger
}

// NewEngine creates a resolution engine. A nil searcher is treated as an
// unavailable backend (zero hits); a nil alias store disables the fast path.
func NewEngine(primary, fallback search.Searcher, gazetteer Gazetteer, choices ChoiceStore, aliases AliasStore, config *model.ResolverConfig, logger *slog.Logger) *Engine {
	if config == nil {
		defaults := model.DefaultResolverConfig()
		config = &defaults
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		primary:   primary,
		fallback:  fallback,
		gazetteer: gazetteer,
		choices:   choices,
		aliases:   aliases,
		config:    config,
		log:       logger,
	}
}

// SetSearchers replaces the primary and fallback search backends
func (e *Engine) SetSearchers(primary, fallback search.Searcher) {
	e.primary = primary
	e.fallback = fallback
}

// sourcedHit tags a raw search hit with the backend that produced it
type sourcedHit struct {
	model.SearchHit
	Source model.CandidateSource
}

// Resolve resolves one place mention. It returns an error only for invalid
// input; backend and persistence failures degrade to a well-formed result.
func (e *Engine) Resolve(ctx context.Context, mention *model.PlaceMention) (*model.ResolutionResult, error) {
	start := time.Now()

	raw := mention.DetectedPlace
	if strings.TrimSpace(raw) == "" {
		raw = mention.RawText
	}
	normalized, err := normalize.Normalize(raw)
	if err != nil {
		return nil, err
	}

	kind := mention.KindHint
	if kind == "" {
		kind = model.KindUnknown
	}
	placeKey := normalize.PlaceKey(normalized, kind)

	audit := model.ResolutionAudit{
		ID:       uuid.New(),
		SourceID: mention.Context.SourceID,
	}

	if result := e.resolveFromAlias(normalized, placeKey, &audit); result != nil {
		result.Audit.LatencyMs = time.Since(start).Milliseconds()
		e.log.Info("Resolved mention from alias cache",
			slog.String("place_key", placeKey),
			slog.String("audit_id", audit.ID.String()))
		return result, nil
	}

	hits := e.gatherHits(ctx, normalized, &audit)
	candidates := e.expandHits(hits)
	candidates = Rank(candidates, kind, e.config)

	var best *model.PlaceCandidate
	if len(candidates) > 0 {
		best = candidates[0]
	}
	status, reason := Decide(best, e.config)

	// The audit must be on the result before persisting, so the stored
	// metadata carries the audit id and source id of this request.
	audit.CandidateCount = len(candidates)
	result := &model.ResolutionResult{
		Status:          status,
		NormalizedQuery: normalized,
		PlaceKey:        placeKey,
		BestCandidate:   best,
		Candidates:      candidates,
		Reason:          reason,
		Audit:           audit,
	}

	if status == model.StatusAutoAccepted {
		e.persist(result, normalized, placeKey, best)
	}

	result.Audit.LatencyMs = time.Since(start).Milliseconds()

	e.log.Info("Resolved mention",
		slog.String("place_key", placeKey),
		slog.String("status", string(status)),
		slog.Int("candidates", len(candidates)),
		slog.Int64("latency_ms", result.Audit.LatencyMs),
		slog.String("audit_id", audit.ID.String()))

	return result, nil
}

// resolveFromAlias short-circuits repeat lookups of a known surface form.
// The cache is advisory: any miss, low confidence or inconsistency falls
// through to the full pipeline. A cache-served lookup returns the current
// persisted choice and does not append a new resolution version; it only
// refreshes the row's last_seen_at.
func (e *Engine) resolveFromAlias(normalized, placeKey string, audit *model.ResolutionAudit) *model.ResolutionResult {
	if e.aliases == nil || e.choices == nil {
		return nil
	}

	cached, err := e.aliases.SelectAlias(normalized)
	if err != nil || cached == nil {
		return nil
	}
	if cached.Confidence < e.config.HighConfidence {
		return nil
	}
	cachedKey, _ := cached.Metadata["place_key"].(string)
	if cachedKey != placeKey {
		return nil
	}

	choice, err := e.choices.SelectCurrentResolution(placeKey)
	if err != nil {
		return nil
	}

	audit.AliasHit = true
	audit.IndicesQueried = []string{"alias"}
	audit.CandidateCount = 1

	// Bump last_seen_at on the served row
	if err := e.aliases.UpsertAlias(cached); err != nil {
		e.log.Warn("Failed to refresh alias cache entry",
			slog.String("alias", normalized),
			slog.String("error", err.Error()))
	}

	candidate := &model.PlaceCandidate{
		Name:         choice.Name,
		Kind:         choice.Kind,
		Score:        cached.Confidence,
		Source:       model.SourceAlias,
		PathComplete: len(choice.FullPath) >= model.PathCompleteLevels,
		Reason:       "alias cache hit",
	}

	return &model.ResolutionResult{
		Status:          model.StatusAutoAccepted,
		NormalizedQuery: normalized,
		PlaceKey:        placeKey,
		BestCandidate:   candidate,
		Candidates:      []*model.PlaceCandidate{candidate},
		PersistedChoice: choice,
		Reason:          "alias cache hit",
		Audit:           *audit,
	}
}

// gatherHits queries the primary backend, then the fallback backend when the
// primary's best hit is absent or below the high-confidence floor. No backend
// is queried more than once per request.
func (e *Engine) gatherHits(ctx context.Context, query string, audit *model.ResolutionAudit) []sourcedHit {
	primaryHits := e.searchBackend(ctx, e.primary, "primary", query, audit)

	hits := make([]sourcedHit, 0, len(primaryHits))
	for _, hit := range primaryHits {
		hits = append(hits, sourcedHit{SearchHit: hit, Source: model.SourcePrimary})
	}

	if e.fallback != nil && (len(primaryHits) == 0 || bestScore(primaryHits) < e.config.HighConfidence) {
		fallbackHits := e.searchBackend(ctx, e.fallback, "fallback", query, audit)
		for _, hit := range fallbackHits {
			hits = append(hits, sourcedHit{SearchHit: hit, Source: model.SourceFallback})
		}
	}

	return hits
}

// searchBackend runs one bounded backend call. A nil searcher, an error or a
// timeout all count as zero hits; the pipeline degrades instead of failing.
func (e *Engine) searchBackend(ctx context.Context, searcher search.Searcher, name, query string, audit *model.ResolutionAudit) []model.SearchHit {
	if searcher == nil {
		e.log.Warn("Search backend not configured", slog.String("backend", name))
		return nil
	}

	audit.IndicesQueried = append(audit.IndicesQueried, name)

	ctx, cancel := context.WithTimeout(ctx, e.config.SearchTimeout)
	defer cancel()

	hits, err := searcher.Search(ctx, query, e.config.TopK)
	if err != nil {
		e.log.Warn("Search backend unavailable, treating as zero hits",
			slog.String("backend", name),
			slog.String("error", err.Error()))
		return nil
	}

	return hits
}

func bestScore(hits []model.SearchHit) float64 {
	best := 0.0
	for _, hit := range hits {
		if hit.Score > best {
			best = hit.Score
		}
	}
	return best
}

// expandHits fans each raw hit out into gazetteer-backed candidates. One hit
// can produce multiple candidates when the name is ambiguous; a hit with no
// entries still surfaces, penalized and explained.
func (e *Engine) expandHits(hits []sourcedHit) []*model.PlaceCandidate {
	var candidates []*model.PlaceCandidate
	for _, hit := range hits {
		normalized, err := normalize.Normalize(hit.Name)
		if err != nil {
			continue
		}

		var entries []*model.GazetteerEntry
		if e.gazetteer != nil {
			entries, err = e.gazetteer.FindEntriesByName(normalized)
			if err != nil {
				e.log.Warn("Gazetteer lookup failed",
					slog.String("name", normalized),
					slog.String("error", err.Error()))
				entries = nil
			}
		}

		if len(entries) == 0 {
			candidates = append(candidates, &model.PlaceCandidate{
				Name:         hit.Name,
				Kind:         model.KindUnknown,
				Score:        hit.Score,
				Source:       hit.Source,
				PathComplete: false,
				Reason:       "entry not found",
			})
			continue
		}

		for _, entry := range entries {
			candidates = append(candidates, &model.PlaceCandidate{
				Name:         entry.Name,
				Kind:         entry.Kind,
				Score:        hit.Score,
				Source:       hit.Source,
				Entry:        entry,
				PathComplete: entry.PathComplete(),
			})
		}
	}

	return candidates
}

// persist writes the accepted choice and upserts the alias cache entry.
// Failures are logged and leave PersistedChoice nil; the caller still gets
// the resolution, only without persistence.
func (e *Engine) persist(result *model.ResolutionResult, normalized, placeKey string, best *model.PlaceCandidate) {
	if e.choices == nil || best.Entry == nil {
		return
	}

	choice := model.NewChoiceFromEntry(placeKey, best.Entry, best.Score, model.DecidedByAuto)
	err := e.choices.InsertResolution(choice, model.Metadata{
		"audit_id":  result.Audit.ID.String(),
		"source_id": result.Audit.SourceID,
	})
	if err != nil {
		e.log.Error("Failed to persist resolution, returning ephemeral result",
			slog.String("place_key", placeKey),
			slog.String("error", err.Error()))
		return
	}
	result.PersistedChoice = choice

	if e.aliases == nil {
		return
	}
	err = e.aliases.UpsertAlias(&model.AliasCacheEntry{
		Alias:      normalized,
		PlaceID:    choice.ID,
		Confidence: best.Score,
		Metadata: model.Metadata{
			"place_key": placeKey,
			"kind":      string(choice.Kind),
		},
	})
	if err != nil {
		e.log.Warn("Failed to upsert alias cache entry",
			slog.String("alias", normalized),
			slog.String("error", err.Error()))
	}
}
