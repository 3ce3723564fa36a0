package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/siherrmann/placeresolver/helper"
	"github.com/siherrmann/placeresolver/model"
	loadSql "github.com/siherrmann/placeresolver/sql"
)

// AliasesDBHandlerFunctions defines the interface for alias cache database operations.
type AliasesDBHandlerFunctions interface {
	UpsertAlias(alias *model.AliasCacheEntry) error
	SelectAlias(alias string) (*model.AliasCacheEntry, error)
	DeleteAlias(alias string) error
}

// AliasesDBHandler handles the alias cache table
type AliasesDBHandler struct {
	db *helper.Database
}

// NewAliasesDBHandler creates a new alias cache database handler.
// It initializes the database connection and loads alias-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewAliasesDBHandler(db *helper.Database, force bool) (*AliasesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	aliasesDbHandler := &AliasesDBHandler{
		db: db,
	}

	err := loadSql.LoadAliasesSql(aliasesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load aliases sql", err)
	}

	err = aliasesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized AliasesDBHandler")

	return aliasesDbHandler, nil
}

// CreateTable creates the 'alias_cache' table in the database.
// If the table already exists, it does not create it again.
func (h *AliasesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_aliases();`)
	if err != nil {
		log.Panicf("error initializing alias_cache table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table alias_cache")

	return nil
}

// UpsertAlias inserts or overwrites the cache row for an alias (last-write-wins)
func (h *AliasesDBHandler) UpsertAlias(alias *model.AliasCacheEntry) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM upsert_alias($1, $2, $3, $4)`,
		alias.Alias,
		alias.PlaceID,
		alias.Confidence,
		alias.Metadata,
	)

	err := row.Scan(
		&alias.Alias,
		&alias.PlaceID,
		&alias.Confidence,
		&alias.LastSeenAt,
		&alias.Metadata,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectAlias retrieves the cache row for an alias
func (h *AliasesDBHandler) SelectAlias(alias string) (*model.AliasCacheEntry, error) {
	entry := &model.AliasCacheEntry{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_alias($1)`,
		alias,
	)

	err := row.Scan(
		&entry.Alias,
		&entry.PlaceID,
		&entry.Confidence,
		&entry.LastSeenAt,
		&entry.Metadata,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return entry, nil
}

// DeleteAlias removes a cache row. The cache is rebuildable, so deletion is
// always safe.
func (h *AliasesDBHandler) DeleteAlias(alias string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_alias($1)`,
		alias,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
