package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"oven_dashboard/internal/models"
	"oven_dashboard/internal/service"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func testResult() *service.Result {
	t0 := time.Date(2024, 3, 5, 6, 0, 0, 0, time.UTC)
	return &service.Result{
		Dialect: models.Dialect{Encoding: "cp1252", Delimiter: ';'},
		Fields: models.FieldMap{
			models.FieldTimestamp: {Header: "Datum", Index: 0},
			models.FieldDevice:    {Header: "Ger„t", Index: 1},
		},
		Rows:    4,
		Records: make([]models.Record, 3),
		Skipped: []models.SkippedRow{{Row: 2, Reason: "unparsable timestamp", Value: "not-a-date"}},
		Charts: []models.DeviceChart{{
			Device:    "Ofen A",
			Intervals: []models.Interval{{Phase: models.PhasePreheat, Start: t0, End: t0.Add(time.Hour)}},
			Stats:     models.DeviceStats{Records: 3, Preheat: time.Hour},
		}},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	r := New("in.csv", testResult(), []string{"ofen_dashboard.html"})

	if r.Delimiter != "semicolon" || r.Encoding != "cp1252" {
		t.Fatalf("dialect = %s/%s; want cp1252/semicolon", r.Encoding, r.Delimiter)
	}
	if diff := cmp.Diff(map[string]string{"timestamp": "Datum", "device": "Ger„t"}, r.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"message", "setpoint", "actual"}, r.Missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
	if r.Rows != 4 || r.Records != 3 || len(r.Devices) != 1 || r.Devices[0].Intervals != 1 {
		t.Fatalf("counts = %+v", r)
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.yml")
	want := New("in.csv", testResult(), nil)
	if err := Write(path, want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "preheat: 1h0m0s") {
		t.Fatalf("durations not written as text:\n%s", b)
	}

	var got Report
	if err := yaml.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_BadPath(t *testing.T) {
	t.Parallel()

	if err := Write(filepath.Join(t.TempDir(), "no", "such", "r.yml"), Report{}); err == nil {
		t.Fatalf("Write error = nil; want error")
	}
}
