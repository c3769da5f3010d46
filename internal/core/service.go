package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bookshophere/bookshop/internal/importer"
	"github.com/bookshophere/bookshop/internal/schema"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Service owns the database-backed half of the import flow: validating
// confirmed records against the field configurations and handing them to
// the per-type creators inside one transaction.
type Service struct {
	pool *pgxpool.Pool
}

// NewService creates a new Service instance.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// Ping verifies database connectivity.
func (s *Service) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ProcessImport validates and persists a confirmed import. All inserts run
// in one transaction; each record gets its own savepoint so a failed insert
// rolls back alone and never aborts its siblings (PostgreSQL poisons the
// whole transaction on any error otherwise). Types are processed in the
// fixed DomainTypes order so authors referenced by books in the same file
// already exist.
func (s *Service) ProcessImport(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	acc := importer.NewAccumulator()
	result := &ProcessResult{
		FileType: req.FileType,
		Results:  map[importer.DomainType]*TypeResult{},
		Errors:   []string{},
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op once committed.

	creators := NewCreators(tx)
	savepoint := 0

	for _, domainType := range importer.DomainTypes {
		records := req.DataByType[domainType]
		if len(records) == 0 {
			continue
		}
		configs := schema.FieldConfigs(domainType)
		if configs == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("unknown record type: %s", domainType))
			continue
		}

		typeResult := &TypeResult{Errors: []string{}}
		result.Results[domainType] = typeResult

		for i, record := range records {
			rowNum := i + 1

			mapped := applyMappings(record, req.Mappings[domainType])
			if recordIsEmpty(mapped) {
				typeResult.Skipped++
				continue
			}

			processed := ProcessRow(mapped, configs)
			if violations := ValidateRow(processed, configs); len(violations) > 0 {
				joined := strings.Join(violations, "; ")
				acc.AddError(rowNum, string(domainType), joined)
				typeResult.Errors = append(typeResult.Errors, fmt.Sprintf("row %d: %s", rowNum, joined))
				continue
			}

			savepoint++
			name := fmt.Sprintf("sp_%d", savepoint)
			if _, err := tx.Exec(ctx, "SAVEPOINT "+name); err != nil {
				return nil, fmt.Errorf("create savepoint: %w", err)
			}
			if err := creators.Create(ctx, domainType, processed); err != nil {
				if _, rbErr := tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
					return nil, fmt.Errorf("rollback savepoint: %w", rbErr)
				}
				acc.AddError(rowNum, string(domainType), err.Error())
				typeResult.Errors = append(typeResult.Errors, fmt.Sprintf("row %d: %s", rowNum, err.Error()))
				continue
			}
			if _, err := tx.Exec(ctx, "RELEASE SAVEPOINT "+name); err != nil {
				return nil, fmt.Errorf("release savepoint: %w", err)
			}

			acc.RecordSuccess()
			typeResult.Imported++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	summary := acc.Summary()
	result.Summary = summary
	result.Success = !summary.HasErrors

	if err := s.recordRun(ctx, req, result); err != nil {
		// History is best-effort; the import itself already committed.
		slog.Warn("failed to record import run", "error", err)
	}

	return result, nil
}

// applyMappings rebuilds a record from the user-confirmed column mappings
// (canonical field -> source column). With no mappings the record passes
// through unchanged, since parser output is already canonically keyed.
func applyMappings(record importer.Record, mappings map[string]string) importer.Record {
	if len(mappings) == 0 {
		return record
	}
	mapped := make(importer.Record, len(mappings))
	for field, sourceColumn := range mappings {
		if value, ok := record[strings.ToLower(sourceColumn)]; ok {
			mapped[field] = value
		}
	}
	return mapped
}

func recordIsEmpty(record importer.Record) bool {
	for _, value := range record {
		if !value.IsEmpty() {
			return false
		}
	}
	return true
}

func (s *Service) recordRun(ctx context.Context, req ProcessRequest, result *ProcessResult) error {
	var imported, skipped int
	for _, typeResult := range result.Results {
		imported += typeResult.Imported
		skipped += typeResult.Skipped
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO import_runs (id, filename, file_type, imported, skipped, failed)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(),
		req.Filename,
		string(req.FileType),
		imported,
		skipped,
		result.Summary.Failed,
	)
	return err
}

// RecentRuns returns the most recent import runs, newest first.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]ImportRun, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, filename, file_type, imported, skipped, failed, created_at
		FROM import_runs
		ORDER BY created_at DESC
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		var run ImportRun
		if err := rows.Scan(&run.ID, &run.Filename, &run.FileType,
			&run.Imported, &run.Skipped, &run.Failed, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
