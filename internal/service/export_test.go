package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"oven_dashboard/internal/logger"
	"oven_dashboard/internal/models"
	"oven_dashboard/internal/repository"

	"github.com/google/go-cmp/cmp"
)

// fakeRuns records the run it was asked to create.
type fakeRuns struct {
	got models.Run
	err error
}

func (f *fakeRuns) Create(_ context.Context, run models.Run) (string, error) {
	f.got = run
	return "run-1", f.err
}

type fakeRecords struct {
	runID string
	got   []models.Record
	err   error
}

func (f *fakeRecords) Append(_ context.Context, runID string, recs []models.Record) error {
	f.runID, f.got = runID, recs
	return f.err
}

type fakeIntervals struct {
	runID string
	got   []models.Interval
}

func (f *fakeIntervals) Append(_ context.Context, runID string, ivs []models.Interval) error {
	f.runID, f.got = runID, ivs
	return nil
}

type fakeSkipped struct {
	runID string
	got   []models.SkippedRow
}

func (f *fakeSkipped) Append(_ context.Context, runID string, rows []models.SkippedRow) error {
	f.runID, f.got = runID, rows
	return nil
}

func TestExport_WritesEverythingUnderOneRun(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 3, 5, 6, 0, 0, 0, time.UTC)
	res := &Result{
		Dialect: models.Dialect{Encoding: "cp1252", Delimiter: ';'},
		Rows:    3,
		Records: []models.Record{{Row: 1, Device: "A", Timestamp: t0, Phase: models.PhasePreheat}},
		Skipped: []models.SkippedRow{{Row: 2, Reason: "unparsable timestamp", Value: "x"}},
		Charts: []models.DeviceChart{
			{Device: "A", Intervals: []models.Interval{{Device: "A", Phase: models.PhasePreheat, Start: t0, End: t0.Add(time.Minute)}}},
			{Device: "B", Intervals: []models.Interval{{Device: "B", Phase: models.PhaseRuntime, Start: t0, End: t0.Add(time.Hour)}}},
		},
	}

	runs, recs, ivs, skipped := &fakeRuns{}, &fakeRecords{}, &fakeIntervals{}, &fakeSkipped{}
	svc := NewExportService(&repository.Repository{Runs: runs, Records: recs, Intervals: ivs, Skipped: skipped}, logger.Nop())

	id, err := svc.Export(context.Background(), "in.csv", res)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if id != "run-1" {
		t.Fatalf("id = %q; want run-1", id)
	}
	if runs.got.Source != "in.csv" || runs.got.Rows != 3 || runs.got.Dialect != res.Dialect {
		t.Fatalf("run = %+v", runs.got)
	}
	for name, got := range map[string]string{"records": recs.runID, "intervals": ivs.runID, "skipped": skipped.runID} {
		if got != "run-1" {
			t.Fatalf("%s run id = %q; want run-1", name, got)
		}
	}
	if diff := cmp.Diff(res.Intervals(), ivs.got); diff != "" {
		t.Fatalf("intervals mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(res.Skipped, skipped.got); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestExport_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name    string
		runs    *fakeRuns
		records *fakeRecords
		res     *Result
	}{
		{"nil result", &fakeRuns{}, &fakeRecords{}, nil},
		{"run insert fails", &fakeRuns{err: boom}, &fakeRecords{}, &Result{}},
		{"record insert fails", &fakeRuns{}, &fakeRecords{err: boom}, &Result{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewExportService(&repository.Repository{
				Runs: tt.runs, Records: tt.records, Intervals: &fakeIntervals{}, Skipped: &fakeSkipped{},
			}, logger.Nop())
			if _, err := svc.Export(context.Background(), "in.csv", tt.res); err == nil {
				t.Fatalf("Export error = nil; want error")
			}
		})
	}
}
