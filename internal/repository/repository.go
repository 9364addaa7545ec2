package repository

import (
	"context"
	"database/sql"
	"fmt"

	"oven_dashboard/internal/models"
)

// sqliteTimeLayout is how timestamps are stored; lexical order is time order.
const sqliteTimeLayout = "2006-01-02 15:04:05.000"

type RunRepo interface {
	Create(ctx context.Context, run models.Run) (string, error)
}

type RecordRepo interface {
	Append(ctx context.Context, runID string, recs []models.Record) error
}

type IntervalRepo interface {
	Append(ctx context.Context, runID string, ivs []models.Interval) error
}

type SkippedRepo interface {
	Append(ctx context.Context, runID string, rows []models.SkippedRow) error
}

type Repository struct {
	Runs      RunRepo
	Records   RecordRepo
	Intervals IntervalRepo
	Skipped   SkippedRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Runs:      NewRunSQLite(db),
		Records:   NewRecordSQLite(db),
		Intervals: NewIntervalSQLite(db),
		Skipped:   NewSkippedSQLite(db),
	}
}

// insertBatch executes query once per item inside a single transaction.
func insertBatch(ctx context.Context, db *sql.DB, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("insert item %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// nullString maps "" to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
