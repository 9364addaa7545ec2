package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"oven_dashboard/internal/config"
	"oven_dashboard/internal/models"

	"github.com/go-echarts/go-echarts/v2/components"
)

// ErrRender is returned when a document cannot be produced or written.
var ErrRender = errors.New("render dashboard")

// echartsScript is the asset name go-echarts appends to the assets host.
const echartsScript = "echarts.min.js"

// Summary is what the dashboard header tells about the run.
type Summary struct {
	Title   string
	Source  string
	Dialect models.Dialect
	Records int
	Skipped int
}

var headerTmpl = template.Must(template.New("header").Parse(`
<div class="ofen-header" style="font-family:sans-serif;margin:12px 16px">
  <h1 style="margin:0 0 6px">{{.Title}}</h1>
  <p style="margin:2px 0">Vorheizen = Rot | Laufzeit = Grün | Ist/Soll-Temperatur = Linien</p>
  <p style="margin:2px 0;color:#555">Quelle: {{.Source}} ({{.Encoding}}, {{.Delimiter}}) · {{.Records}} Datensätze · {{.Devices}} Geräte</p>
  {{- if .Skipped}}
  <p class="ofen-skipped" style="margin:2px 0;color:#a00">{{.Skipped}} Zeilen ohne lesbaren Zeitstempel übersprungen</p>
  {{- end}}
  {{- if not .Devices}}
  <p style="margin:2px 0">Keine darstellbaren Daten.</p>
  {{- end}}
</div>
`))

type headerData struct {
	Title     string
	Source    string
	Encoding  string
	Delimiter string
	Records   int
	Skipped   int
	Devices   int
}

// Dashboard assembles device charts into HTML documents.
type Dashboard struct {
	cfg     config.Chart
	builder *ChartBuilder
}

func NewDashboard(cfg config.Chart) *Dashboard {
	return &Dashboard{cfg: cfg, builder: NewChartBuilder(cfg)}
}

// Render writes one document holding every chart in the given order.
func (d *Dashboard) Render(w io.Writer, dcs []models.DeviceChart, s Summary) error {
	page := components.NewPage()
	page.PageTitle = s.Title
	page.AssetsHost = d.cfg.AssetsHost
	for _, dc := range dcs {
		page.AddCharts(d.builder.Build(dc))
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}

	var header bytes.Buffer
	err := headerTmpl.Execute(&header, headerData{
		Title:     s.Title,
		Source:    s.Source,
		Encoding:  s.Dialect.Encoding,
		Delimiter: s.Dialect.DelimiterName(),
		Records:   s.Records,
		Skipped:   s.Skipped,
		Devices:   len(dcs),
	})
	if err != nil {
		return fmt.Errorf("%w: header: %w", ErrRender, err)
	}

	html := strings.Replace(buf.String(), "<body>", "<body>"+header.String(), 1)
	html = d.withIntegrity(html)
	if _, err := io.WriteString(w, html); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// WriteFile renders the aggregate document to path.
func (d *Dashboard) WriteFile(path string, dcs []models.DeviceChart, s Summary) error {
	var buf bytes.Buffer
	if err := d.Render(&buf, dcs, s); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrRender, path, err)
	}
	return nil
}

// WriteFragments writes one standalone document per device into dir and
// returns the written paths.
func (d *Dashboard) WriteFragments(dir string, dcs []models.DeviceChart) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	paths := make([]string, 0, len(dcs))
	for i, dc := range dcs {
		var buf bytes.Buffer
		if err := d.builder.Build(dc).Render(&buf); err != nil {
			return paths, fmt.Errorf("%w: %s: %w", ErrRender, dc.Device, err)
		}
		path := filepath.Join(dir, FragmentName(i, dc.Device))
		if err := os.WriteFile(path, []byte(d.withIntegrity(buf.String())), 0o644); err != nil {
			return paths, fmt.Errorf("%w: write %s: %w", ErrRender, path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// withIntegrity pins the ECharts script tag to the configured hash.
func (d *Dashboard) withIntegrity(html string) string {
	if d.cfg.ScriptIntegrity == "" {
		return html
	}
	src := fmt.Sprintf(`src="%s%s"`, d.cfg.AssetsHost, echartsScript)
	attrs := fmt.Sprintf(`%s integrity="%s" crossorigin="anonymous"`, src, template.HTMLEscapeString(d.cfg.ScriptIntegrity))
	return strings.ReplaceAll(html, src, attrs)
}

var unsafeName = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// FragmentName is "NN_<device>.html" with NN the 1-based position.
func FragmentName(i int, device string) string {
	slug := strings.Trim(unsafeName.ReplaceAllString(device, "_"), "_")
	if slug == "" {
		slug = "geraet"
	}
	return fmt.Sprintf("%02d_%s.html", i+1, slug)
}
