package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/siherrmann/placeresolver/helper"
	"github.com/siherrmann/placeresolver/model"
	loadSql "github.com/siherrmann/placeresolver/sql"
)

// uniqueViolation is the PostgreSQL error code raised when two concurrent
// inserts of the same place key compute the same next version.
const uniqueViolation = pq.ErrorCode("23505")

const defaultInsertRetries = 3

// ResolutionsDBHandlerFunctions defines the interface for resolution database operations.
type ResolutionsDBHandlerFunctions interface {
	InsertResolution(choice *model.FinalChoice, audit model.Metadata) error
	SelectCurrentResolution(placeKey string) (*model.FinalChoice, error)
	SelectResolutionHistory(placeKey string) ([]*model.FinalChoice, error)
}

// ResolutionsDBHandler handles the append-only versioned resolutions table.
// Rows are never updated or deleted; the highest version per place key is
// the authoritative current resolution.
type ResolutionsDBHandler struct {
	db         *helper.Database
	maxRetries int
}

// NewResolutionsDBHandler creates a new resolutions database handler.
// It initializes the database connection and loads resolution-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewResolutionsDBHandler(db *helper.Database, force bool) (*ResolutionsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	resolutionsDbHandler := &ResolutionsDBHandler{
		db:         db,
		maxRetries: defaultInsertRetries,
	}

	err := loadSql.LoadResolutionsSql(resolutionsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load resolutions sql", err)
	}

	err = resolutionsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ResolutionsDBHandler")

	return resolutionsDbHandler, nil
}

// CreateTable creates the 'resolutions' table in the database.
// If the table already exists, it does not create it again.
func (h *ResolutionsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_resolutions();`)
	if err != nil {
		log.Panicf("error initializing resolutions table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table resolutions")

	return nil
}

// InsertResolution appends a choice at the next version for its place key.
// The version is computed inside the insert; concurrent inserts of the same
// place key hit the (place_key, version) primary key and are retried, so
// N parallel accepts yield N distinct, gap-free versions.
// On success the choice's Version and DecidedAt are set from the stored row.
func (h *ResolutionsDBHandler) InsertResolution(choice *model.FinalChoice, audit model.Metadata) error {
	var lastErr error
	for attempt := 0; attempt < h.maxRetries; attempt++ {
		lastErr = h.insertResolutionOnce(choice, audit)
		if lastErr == nil {
			return nil
		}

		var pqErr *pq.Error
		if errors.As(lastErr, &pqErr) && pqErr.Code == uniqueViolation {
			continue
		}
		return lastErr
	}

	return helper.NewError("insert resolution", fmt.Errorf("%w: version conflict after %d attempts: %v", model.ErrPersistence, h.maxRetries, lastErr))
}

func (h *ResolutionsDBHandler) insertResolutionOnce(choice *model.FinalChoice, audit model.Metadata) error {
	var stored model.FinalChoice
	var placeKey string

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_resolution($1, $2, $3, $4)`,
		choice.PlaceKey,
		choice,
		string(choice.DecidedBy),
		audit,
	)

	var auditOut model.Metadata
	err := row.Scan(
		&placeKey,
		&choice.Version,
		&stored,
		&choice.DecidedBy,
		&choice.DecidedAt,
		&auditOut,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectCurrentResolution retrieves the highest-versioned choice for a place key
func (h *ResolutionsDBHandler) SelectCurrentResolution(placeKey string) (*model.FinalChoice, error) {
	choice := &model.FinalChoice{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_current_resolution($1)`,
		placeKey,
	)

	err := scanResolution(row, choice)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return choice, nil
}

// SelectResolutionHistory retrieves all choices for a place key, oldest first
func (h *ResolutionsDBHandler) SelectResolutionHistory(placeKey string) ([]*model.FinalChoice, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_resolution_history($1)`,
		placeKey,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var choices []*model.FinalChoice
	for rows.Next() {
		choice := &model.FinalChoice{}
		err := scanResolution(rows, choice)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		choices = append(choices, choice)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return choices, nil
}

// IsNotFound reports whether an error from a select means the place key has
// no resolution yet.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// scanResolution scans one resolutions row. The place_key, version,
// decided_by and decided_at columns overwrite whatever the JSONB blob
// carried; the columns are authoritative.
func scanResolution(row rowScanner, choice *model.FinalChoice) error {
	var placeKey string
	var version int
	var decidedBy model.DecidedBy
	var decidedAt time.Time
	var audit model.Metadata

	err := row.Scan(
		&placeKey,
		&version,
		choice,
		&decidedBy,
		&decidedAt,
		&audit,
	)
	if err != nil {
		return err
	}

	choice.PlaceKey = placeKey
	choice.Version = version
	choice.DecidedBy = decidedBy
	choice.DecidedAt = decidedAt

	return nil
}
