// Package placeresolver resolves free-text place mentions to nodes in a fixed
// administrative hierarchy (village/ward, gram panchayat or urban body, block,
// district, state) using a primary vector index, a trigram fallback index, a
// gazetteer, and append-only versioned persistence of accepted resolutions.
package placeresolver

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/siherrmann/placeresolver/core/resolve"
	"github.com/siherrmann/placeresolver/core/search"
	"github.com/siherrmann/placeresolver/database"
	"github.com/siherrmann/placeresolver/helper"
	"github.com/siherrmann/placeresolver/model"
	"github.com/siherrmann/placeresolver/normalize"
	loadSql "github.com/siherrmann/placeresolver/sql"
)

// Resolver provides a unified interface to the resolution pipeline and all
// database handlers
type Resolver struct {
	DB          *helper.Database
	Entries     *database.EntriesDBHandler
	Names       *database.NamesDBHandler
	Resolutions *database.ResolutionsDBHandler
	Aliases     *database.AliasesDBHandler
	Engine      *resolve.Engine
	Config      model.ResolverConfig
	// Embedder used to index entry names; set by UseDefaultSearchers or SetEmbedder
	embed search.EmbedFunc
	// Logging
	log *slog.Logger
}

// NewResolver creates a new Resolver instance with all handlers initialized.
// Search backends are not set yet; call UseDefaultSearchers or SetSearchers
// before resolving, otherwise every request escalates with zero candidates.
func NewResolver(dbConfig *helper.DatabaseConfiguration, config *model.ResolverConfig) (*Resolver, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	if config == nil {
		defaults := model.DefaultResolverConfig()
		config = &defaults
	}

	// Initialize database
	db := helper.NewDatabase("placeresolver", dbConfig, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create all handlers
	// force=false to not reload if functions already exist
	entries, err := database.NewEntriesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create entries handler", err)
	}

	names, err := database.NewNamesDBHandler(db, config.EmbeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create names handler", err)
	}

	resolutions, err := database.NewResolutionsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create resolutions handler", err)
	}

	aliases, err := database.NewAliasesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create aliases handler", err)
	}

	// Create resolution engine without search backends
	engine := resolve.NewEngine(nil, nil, entries, resolutions, aliases, config, logger)

	return &Resolver{
		DB:          db,
		Entries:     entries,
		Names:       names,
		Resolutions: resolutions,
		Aliases:     aliases,
		Engine:      engine,
		Config:      *config,
		log:         logger,
	}, nil
}

// Close closes the database connection
func (r *Resolver) Close() error {
	if r.DB != nil && r.DB.Instance != nil {
		return r.DB.Instance.Close()
	}
	return nil
}

// SetSearchers sets the primary and fallback search backends
func (r *Resolver) SetSearchers(primary, fallback search.Searcher) {
	r.Engine.SetSearchers(primary, fallback)
}

// SetEmbedder sets the embedder used when indexing entry names
func (r *Resolver) SetEmbedder(embed search.EmbedFunc) {
	r.embed = embed
}

// UseDefaultSearchers sets up the default backends: a pgvector similarity
// search with the all-MiniLM-L6-v2 embedder (384 dimensions) as primary and
// a pg_trgm similarity search as fallback.
func (r *Resolver) UseDefaultSearchers() error {
	embed, err := search.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	r.embed = embed
	r.Engine.SetSearchers(
		search.NewVectorSearcher(embed, r.Names),
		search.NewTrigramSearcher(r.Names),
	)
	return nil
}

// UseTrigramSearchers sets up the trigram backend as both primary and
// fallback. Useful where no embedding model is available; recall relies on
// lexical similarity only.
func (r *Resolver) UseTrigramSearchers() {
	r.Engine.SetSearchers(
		search.NewTrigramSearcher(r.Names),
		search.NewTrigramSearcher(r.Names),
	)
}

// IndexEntry inserts a gazetteer entry and upserts its name into the search
// index. The name row carries an embedding when an embedder is set; without
// one the name stays reachable through the trigram backend only.
func (r *Resolver) IndexEntry(entry *model.GazetteerEntry) error {
	err := r.Entries.InsertEntry(entry)
	if err != nil {
		return helper.NewError("insert entry", err)
	}

	var embedding []float32
	if r.embed != nil {
		embedding, err = r.embed(entry.NormalizedName)
		if err != nil {
			return helper.NewError("embed entry name", err)
		}
	}

	err = r.Names.UpsertName(entry.NormalizedName, embedding)
	if err != nil {
		return helper.NewError("upsert name", err)
	}

	r.log.Info("Indexed gazetteer entry",
		slog.String("name", entry.Name),
		slog.String("kind", string(entry.Kind)),
		slog.Bool("embedded", len(embedding) > 0))

	return nil
}

// Resolve resolves one place mention through the full pipeline. Repeat
// lookups of a known surface form may be served from the alias cache; a
// cache-served result returns the current persisted choice without appending
// a new resolution version.
func (r *Resolver) Resolve(ctx context.Context, mention *model.PlaceMention) (*model.ResolutionResult, error) {
	return r.Engine.Resolve(ctx, mention)
}

// Disambiguate selects one of several structurally distinct placements of a
// place name using free-text context (the source post's text or a declared
// containing region). With no discriminating context all placements are
// returned as equally valid for human choice.
func (r *Resolver) Disambiguate(name string, contextText string) (*model.DisambiguationResult, error) {
	normalized, err := normalize.Normalize(name)
	if err != nil {
		return nil, err
	}

	entries, err := r.Entries.FindEntriesByName(normalized)
	if err != nil {
		return nil, helper.NewError("find entries", err)
	}

	return resolve.Disambiguate(name, entries, contextText), nil
}

// ConfirmHuman persists a human-confirmed choice for a mention at the next
// version with full confidence, and refreshes the alias cache.
func (r *Resolver) ConfirmHuman(mention *model.PlaceMention, entry *model.GazetteerEntry) (*model.FinalChoice, error) {
	if entry == nil {
		return nil, helper.NewError("confirm choice", fmt.Errorf("%w: entry is nil", model.ErrValidation))
	}

	raw := mention.DetectedPlace
	if raw == "" {
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

	choice := model.NewChoiceFromEntry(placeKey, entry, 1.0, model.DecidedByHuman)
	err = r.Resolutions.InsertResolution(choice, model.Metadata{
		"source_id": mention.Context.SourceID,
	})
	if err != nil {
		return nil, helper.NewError("insert resolution", err)
	}

	err = r.Aliases.UpsertAlias(&model.AliasCacheEntry{
		Alias:      normalized,
		PlaceID:    choice.ID,
		Confidence: 1.0,
		Metadata: model.Metadata{
			"place_key": placeKey,
			"kind":      string(choice.Kind),
		},
	})
	if err != nil {
		r.log.Warn("Failed to upsert alias cache entry",
			slog.String("alias", normalized),
			slog.String("error", err.Error()))
	}

	r.log.Info("Persisted human-confirmed choice",
		slog.String("place_key", placeKey),
		slog.Int("version", choice.Version))

	return choice, nil
}

// CurrentChoice returns the authoritative current resolution for a place key
func (r *Resolver) CurrentChoice(placeKey string) (*model.FinalChoice, error) {
	return r.Resolutions.SelectCurrentResolution(placeKey)
}

// ChoiceHistory returns all resolutions for a place key, oldest first
func (r *Resolver) ChoiceHistory(placeKey string) ([]*model.FinalChoice, error) {
	return r.Resolutions.SelectResolutionHistory(placeKey)
}

// ChangeIndexType changes the name index vector index type between HNSW and IVFFlat
func (r *Resolver) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	return r.Names.ChangeIndexType(ctx, indexType, params)
}
