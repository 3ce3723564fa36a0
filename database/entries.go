package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/siherrmann/placeresolver/helper"
	"github.com/siherrmann/placeresolver/model"
	"github.com/siherrmann/placeresolver/normalize"
	"github.com/siherrmann/placeresolver/sql"
)

// EntriesDBHandlerFunctions defines the interface for gazetteer entry database operations.
type EntriesDBHandlerFunctions interface {
	InsertEntry(entry *model.GazetteerEntry) error
	SelectEntry(id int) (*model.GazetteerEntry, error)
	FindEntriesByName(normalizedName string) ([]*model.GazetteerEntry, error)
	DeleteEntry(id int) error
}

// EntriesDBHandler handles gazetteer entry database operations
type EntriesDBHandler struct {
	db *helper.Database
}

// NewEntriesDBHandler creates a new gazetteer entries database handler.
// It initializes the database connection and loads entry-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewEntriesDBHandler(db *helper.Database, force bool) (*EntriesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	entriesDbHandler := &EntriesDBHandler{
		db: db,
	}

	err := sql.LoadEntriesSql(entriesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load entries sql", err)
	}

	err = entriesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EntriesDBHandler")

	return entriesDbHandler, nil
}

// CreateTable creates the 'gazetteer_entries' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *EntriesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_entries();`)
	if err != nil {
		log.Panicf("error initializing gazetteer_entries table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table gazetteer_entries")

	return nil
}

// InsertEntry inserts a new gazetteer entry. The normalized name is computed
// from the entry name when not set.
func (h *EntriesDBHandler) InsertEntry(entry *model.GazetteerEntry) error {
	if entry.NormalizedName == "" {
		normalized, err := normalize.Normalize(entry.Name)
		if err != nil {
			return helper.NewError("normalize entry name", err)
		}
		entry.NormalizedName = normalized
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_entry($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.Name,
		entry.NormalizedName,
		string(entry.Kind),
		entry.Block,
		entry.District,
		entry.State,
		entry.Country,
		entry.LocalBody,
		entry.Path,
		entry.Codes,
	)

	err := scanEntry(row, entry)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectEntry retrieves an entry by ID
func (h *EntriesDBHandler) SelectEntry(id int) (*model.GazetteerEntry, error) {
	entry := &model.GazetteerEntry{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_entry($1)`,
		id,
	)

	err := scanEntry(row, entry)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return entry, nil
}

// FindEntriesByName retrieves all entries matching a normalized name.
// Ambiguous names (the same village in two blocks) return multiple entries.
func (h *EntriesDBHandler) FindEntriesByName(normalizedName string) ([]*model.GazetteerEntry, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM find_entries_by_name($1)`,
		normalizedName,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var entries []*model.GazetteerEntry
	for rows.Next() {
		entry := &model.GazetteerEntry{}
		err := scanEntry(rows, entry)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		entries = append(entries, entry)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return entries, nil
}

// DeleteEntry deletes an entry by ID
func (h *EntriesDBHandler) DeleteEntry(id int) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_entry($1)`,
		id,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// rowScanner covers both sql.Row and sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner, entry *model.GazetteerEntry) error {
	return row.Scan(
		&entry.ID,
		&entry.RID,
		&entry.Name,
		&entry.NormalizedName,
		&entry.Kind,
		&entry.Block,
		&entry.District,
		&entry.State,
		&entry.Country,
		&entry.LocalBody,
		&entry.Path,
		&entry.Codes,
		&entry.CreatedAt,
	)
}
