package repository

import (
	"context"
	"database/sql"

	"oven_dashboard/internal/models"
)

type IntervalSQLite struct {
	db *sql.DB
}

func NewIntervalSQLite(db *sql.DB) *IntervalSQLite { return &IntervalSQLite{db: db} }

const insertIntervalSQL = `
		INSERT INTO intervals (run_id, device, phase, start_at, end_at, program)
		VALUES (?, ?, ?, ?, ?, ?)
	`

func (r *IntervalSQLite) Append(ctx context.Context, runID string, ivs []models.Interval) error {
	return insertBatch(ctx, r.db, insertIntervalSQL, len(ivs), func(i int) []any {
		iv := ivs[i]
		return []any{
			runID,
			iv.Device,
			string(iv.Phase),
			iv.Start.Format(sqliteTimeLayout),
			iv.End.Format(sqliteTimeLayout),
			nullString(iv.Program),
		}
	})
}
