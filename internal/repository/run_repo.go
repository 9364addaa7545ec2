package repository

import (
	"context"
	"database/sql"
	"time"

	"oven_dashboard/internal/models"

	"github.com/google/uuid"
)

type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite { return &RunSQLite{db: db} }

const insertRunSQL = `
		INSERT INTO runs (id, source, encoding, delimiter, rows, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

// Create inserts a run and returns its id. If ID or CreatedAt are empty, they’re set.
func (r *RunSQLite) Create(ctx context.Context, run models.Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, insertRunSQL,
		run.ID,
		run.Source,
		run.Dialect.Encoding,
		string(run.Dialect.Delimiter),
		run.Rows,
		run.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}
