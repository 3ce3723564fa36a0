package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/placeresolver/helper"
	"github.com/siherrmann/placeresolver/model"
	loadSql "github.com/siherrmann/placeresolver/sql"
)

// NamesDBHandlerFunctions defines the interface for name index database operations.
type NamesDBHandlerFunctions interface {
	UpsertName(name string, embedding []float32) error
	SelectNamesBySimilarity(ctx context.Context, embedding []float32, limit int) ([]model.SearchHit, error)
	SelectNamesByTrigram(ctx context.Context, query string, limit int) ([]model.SearchHit, error)
	DeleteName(name string) error
}

// NamesDBHandler handles the place name index used by both search backends
type NamesDBHandler struct {
	db *helper.Database
}

// NewNamesDBHandler creates a new name index database handler.
// It initializes the database connection and loads name-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewNamesDBHandler(db *helper.Database, embeddingDim int, force bool) (*NamesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	namesDbHandler := &NamesDBHandler{
		db: db,
	}

	err := loadSql.LoadNamesSql(namesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load names sql", err)
	}

	err = namesDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized NamesDBHandler")

	return namesDbHandler, nil
}

// CreateTable creates the 'place_names' table in the database.
// If the table already exists, it does not create it again.
// It also creates the vector and trigram indexes.
func (h *NamesDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_names($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing place_names table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table place_names")

	return nil
}

// UpsertName inserts or updates one name index row. A nil embedding leaves
// the row reachable by the trigram backend only.
func (h *NamesDBHandler) UpsertName(name string, embedding []float32) error {
	var emb interface{}
	if len(embedding) > 0 {
		emb = pgvector.NewVector(embedding)
	}

	_, err := h.db.Instance.Exec(
		`SELECT * FROM upsert_name($1, $2)`,
		name,
		emb,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}

	return nil
}

// SelectNamesBySimilarity retrieves the closest names by cosine similarity
func (h *NamesDBHandler) SelectNamesBySimilarity(ctx context.Context, embedding []float32, limit int) ([]model.SearchHit, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_names_by_similarity($1, $2)`,
		pgvector.NewVector(embedding),
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanHits(rows)
}

// SelectNamesByTrigram retrieves the closest names by trigram similarity
func (h *NamesDBHandler) SelectNamesByTrigram(ctx context.Context, query string, limit int) ([]model.SearchHit, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_names_by_trigram($1, $2)`,
		query,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanHits(rows)
}

// DeleteName deletes a name index row
func (h *NamesDBHandler) DeleteName(name string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_name($1)`,
		name,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

func scanHits(rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]model.SearchHit, error) {
	var hits []model.SearchHit
	for rows.Next() {
		var hit model.SearchHit
		err := rows.Scan(&hit.Name, &hit.Score)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		hits = append(hits, hit)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return hits, nil
}
