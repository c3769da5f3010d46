// Package core provides the business logic for the import flow: the
// validation pass over classified records, the per-type record creators,
// and the import-run history. This package has no UI dependencies and can
// be used by any frontend.
package core

import (
	"context"
	"time"

	"github.com/bookshophere/bookshop/internal/importer"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// ProcessRequest is the confirmed import the web layer hands to
// ProcessImport: the parsed records grouped by type, plus the optional
// column-to-field mappings the user adjusted in the UI.
type ProcessRequest struct {
	FileType   importer.Format                           `json:"file_type"`
	Filename   string                                    `json:"filename"`
	DataByType map[importer.DomainType][]importer.Record `json:"data_by_type"`
	Mappings   map[importer.DomainType]map[string]string `json:"mappings"`
}

// TypeResult reports the outcome for one domain type.
type TypeResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// ProcessResult is the terminal result of one confirmed import.
type ProcessResult struct {
	Success  bool                                `json:"success"`
	FileType importer.Format                     `json:"file_type"`
	Results  map[importer.DomainType]*TypeResult `json:"results"`
	Errors   []string                            `json:"errors"`
	Summary  importer.Summary                    `json:"summary"`
}

// ImportRun is one row of the import history.
type ImportRun struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	FileType  string    `json:"file_type"`
	Imported  int       `json:"imported"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	CreatedAt time.Time `json:"created_at"`
}
