package service

import (
	"context"
	"errors"
	"fmt"

	"oven_dashboard/internal/logger"
	"oven_dashboard/internal/models"
	"oven_dashboard/internal/repository"
)

var errNoResult = errors.New("nothing to export")

// ExportService persists one pipeline result under a fresh run.
type ExportService struct {
	repo *repository.Repository
	log  *logger.Logger
}

func NewExportService(repo *repository.Repository, log *logger.Logger) *ExportService {
	return &ExportService{repo: repo, log: log}
}

// Export writes the run row first; records, intervals and skipped rows
// reference it.
func (s *ExportService) Export(ctx context.Context, source string, res *Result) (string, error) {
	if res == nil {
		return "", errNoResult
	}
	runID, err := s.repo.Runs.Create(ctx, models.Run{
		Source:  source,
		Dialect: res.Dialect,
		Rows:    res.Rows,
	})
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	if err := s.repo.Records.Append(ctx, runID, res.Records); err != nil {
		return "", fmt.Errorf("append records: %w", err)
	}
	if err := s.repo.Intervals.Append(ctx, runID, res.Intervals()); err != nil {
		return "", fmt.Errorf("append intervals: %w", err)
	}
	if err := s.repo.Skipped.Append(ctx, runID, res.Skipped); err != nil {
		return "", fmt.Errorf("append skipped rows: %w", err)
	}

	s.log.Infow("export_done", "run_id", runID, "records", len(res.Records))
	return runID, nil
}
