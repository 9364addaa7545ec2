package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"oven_dashboard/internal/config"
	"oven_dashboard/internal/models"

	"github.com/google/go-cmp/cmp"
)

func f64(v float64) *float64 { return &v }

var t0 = time.Date(2024, 3, 5, 6, 0, 0, 0, time.UTC)

func testChart() models.DeviceChart {
	return models.DeviceChart{
		Device: "MIWE ideal TC (1) - Herd 1",
		Intervals: []models.Interval{
			{Device: "MIWE ideal TC (1) - Herd 1", Phase: models.PhasePreheat, Start: t0, End: t0.Add(20 * time.Minute)},
			{Device: "MIWE ideal TC (1) - Herd 1", Phase: models.PhaseRuntime, Start: t0.Add(20 * time.Minute), End: t0.Add(80 * time.Minute), Program: "P12"},
		},
		Samples: []models.Sample{
			{Timestamp: t0, Actual: f64(25)},
			{Timestamp: t0.Add(10 * time.Minute), Actual: f64(180), Setpoint: f64(230)},
		},
		Stats: models.DeviceStats{
			Records: 3,
			Actual:  models.SeriesStats{Count: 2, Min: 25, Mean: 102.5, Max: 180},
			Preheat: 20 * time.Minute,
			Runtime: time.Hour,
		},
		WindowStart: t0,
		WindowEnd:   t0.Add(80 * time.Minute),
	}
}

func seriesNames(dc models.DeviceChart) []string {
	line := NewChartBuilder(config.Default().Chart).Build(dc)
	var names []string
	for _, s := range line.MultiSeries {
		names = append(names, s.Name)
	}
	return names
}

func TestBuild_Series(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dc   models.DeviceChart
		want []string
	}{
		{
			name: "bars and both lines",
			dc:   testChart(),
			want: []string{SeriesPreheat, SeriesRuntime, SeriesActual, SeriesSetpoint},
		},
		{
			name: "intervals only",
			dc: models.DeviceChart{
				Device:      "Ofen",
				Intervals:   []models.Interval{{Phase: models.PhaseRuntime, Start: t0, End: t0.Add(time.Hour)}},
				WindowStart: t0,
				WindowEnd:   t0.Add(time.Hour),
			},
			want: []string{SeriesRuntime},
		},
		{
			name: "samples only",
			dc: models.DeviceChart{
				Device:  "Ofen",
				Samples: []models.Sample{{Timestamp: t0, Setpoint: f64(200)}},
			},
			want: []string{SeriesSetpoint},
		},
		{
			name: "empty",
			dc:   models.DeviceChart{Device: "Ofen"},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, seriesNames(tt.dc)); diff != "" {
				t.Fatalf("series mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuild_RenderedOptions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := NewChartBuilder(config.Default().Chart).Build(testChart()).Render(&buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		"rgba(255,0,0,0.3)",
		"rgba(0,200,0,0.3)",
		`"P12"`,
		`"2024-03-05 06:20:00"`,
		`"dotted"`,
		`"insideTop"`,
		"https://cdn.jsdelivr.net/npm/echarts@5.5.1/dist/echarts.min.js",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("chart html missing %q", want)
		}
	}
}

func TestSubtitle(t *testing.T) {
	t.Parallel()

	got := subtitle(testChart().Stats)
	want := "3 Datensätze | Ist 25.0…180.0 °C (Ø 102.5) | Vorheizen 20m | Laufzeit 1h00m"
	if got != want {
		t.Fatalf("subtitle = %q; want %q", got, want)
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0m"},
		{90 * time.Second, "2m"},
		{65 * time.Minute, "1h05m"},
		{26 * time.Hour, "26h00m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Fatalf("formatDuration(%v) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestChartID_NoDashes(t *testing.T) {
	t.Parallel()

	id := chartID()
	if len(id) != 32 || strings.Contains(id, "-") {
		t.Fatalf("chartID = %q; want 32 hex chars", id)
	}
}

func TestRender_Header(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := NewDashboard(config.Default().Chart).Render(&buf, []models.DeviceChart{testChart()}, Summary{
		Title:   "Ofen-Dashboard",
		Source:  "Ofenauswertung.csv",
		Dialect: models.Dialect{Encoding: "cp1252", Delimiter: ';'},
		Records: 3,
		Skipped: 1,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()
	for _, want := range []string{
		"<h1 style=\"margin:0 0 6px\">Ofen-Dashboard</h1>",
		"Vorheizen = Rot | Laufzeit = Grün | Ist/Soll-Temperatur = Linien",
		"Ofenauswertung.csv (cp1252, semicolon)",
		"1 Zeilen ohne lesbaren Zeitstempel übersprungen",
		SeriesRuntime,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("dashboard missing %q", want)
		}
	}
	if i, j := strings.Index(html, "<body>"), strings.Index(html, "ofen-header"); i < 0 || j < i {
		t.Fatalf("header not injected after <body>")
	}
}

func TestRender_EscapesSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := NewDashboard(config.Default().Chart).Render(&buf, nil, Summary{Source: "<script>x</script>.csv"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(buf.String(), "<script>x</script>") {
		t.Fatalf("source file name not escaped")
	}
	if !strings.Contains(buf.String(), "Keine darstellbaren Daten.") {
		t.Fatalf("empty dashboard lacks notice")
	}
}

func TestRender_Integrity(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Chart
	cfg.ScriptIntegrity = "sha384-abc"

	var buf bytes.Buffer
	if err := NewDashboard(cfg).Render(&buf, []models.DeviceChart{testChart()}, Summary{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := `src="` + cfg.AssetsHost + `echarts.min.js" integrity="sha384-abc" crossorigin="anonymous"`
	if !strings.Contains(buf.String(), want) {
		t.Fatalf("script tag not pinned; want %s", want)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRender_WriteError(t *testing.T) {
	t.Parallel()

	err := NewDashboard(config.Default().Chart).Render(failWriter{}, nil, Summary{})
	if !errors.Is(err, ErrRender) {
		t.Fatalf("err = %v; want ErrRender", err)
	}
}

func TestWriteFile_And_Fragments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	d := NewDashboard(config.Default().Chart)
	other := testChart()
	other.Device = "MIWE gateway"
	dcs := []models.DeviceChart{testChart(), other}

	out := filepath.Join(dir, "ofen_dashboard.html")
	if err := d.WriteFile(out, dcs, Summary{Title: "T"}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("stat output: %v", err)
	}

	paths, err := d.WriteFragments(filepath.Join(dir, "frag"), dcs)
	if err != nil {
		t.Fatalf("WriteFragments: %v", err)
	}
	want := []string{
		filepath.Join(dir, "frag", "01_MIWE_ideal_TC_1_Herd_1.html"),
		filepath.Join(dir, "frag", "02_MIWE_gateway.html"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("fragments mismatch (-want +got):\n%s", diff)
	}
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if !strings.Contains(string(b), "echarts.min.js") {
			t.Fatalf("%s does not load ECharts", p)
		}
	}
}

func TestWriteFile_BadPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "out.html")
	err := NewDashboard(config.Default().Chart).WriteFile(path, nil, Summary{})
	if !errors.Is(err, ErrRender) {
		t.Fatalf("err = %v; want ErrRender", err)
	}
}

func TestFragmentName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		i      int
		device string
		want   string
	}{
		{0, "Ofen A", "01_Ofen_A.html"},
		{9, "MIWE ideal TC (1/2) - kein Herd", "10_MIWE_ideal_TC_1_2_kein_Herd.html"},
		{2, "Gerät", "03_Gerät.html"},
		{3, "()", "04_geraet.html"},
	}
	for _, tt := range tests {
		if got := FragmentName(tt.i, tt.device); got != tt.want {
			t.Fatalf("FragmentName(%d, %q) = %q; want %q", tt.i, tt.device, got, tt.want)
		}
	}
}
