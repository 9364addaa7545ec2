package repository

import (
	"context"
	"database/sql"

	"oven_dashboard/internal/models"
)

type RecordSQLite struct {
	db *sql.DB
}

func NewRecordSQLite(db *sql.DB) *RecordSQLite { return &RecordSQLite{db: db} }

const insertRecordSQL = `
		INSERT INTO records (run_id, row, device, occurred_at, message, setpoint_c, actual_c, phase, program)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

// Append stores recs under runID in one transaction. Timestamps are stored
// as wall clock in their parsed zone, like the export they came from.
func (r *RecordSQLite) Append(ctx context.Context, runID string, recs []models.Record) error {
	return insertBatch(ctx, r.db, insertRecordSQL, len(recs), func(i int) []any {
		rec := recs[i]
		return []any{
			runID,
			rec.Row,
			rec.Device,
			rec.Timestamp.Format(sqliteTimeLayout),
			rec.Message,
			rec.Setpoint,
			rec.Actual,
			string(rec.Phase),
			nullString(rec.Program),
		}
	})
}

type SkippedSQLite struct {
	db *sql.DB
}

func NewSkippedSQLite(db *sql.DB) *SkippedSQLite { return &SkippedSQLite{db: db} }

const insertSkippedSQL = `
		INSERT INTO skipped_rows (run_id, row, reason, value)
		VALUES (?, ?, ?, ?)
	`

func (r *SkippedSQLite) Append(ctx context.Context, runID string, rows []models.SkippedRow) error {
	return insertBatch(ctx, r.db, insertSkippedSQL, len(rows), func(i int) []any {
		return []any{runID, rows[i].Row, rows[i].Reason, nullString(rows[i].Value)}
	})
}
