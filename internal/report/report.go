// Package report writes a YAML summary of one dashboard run.
package report

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"oven_dashboard/internal/models"
	"oven_dashboard/internal/service"

	"gopkg.in/yaml.v3"
)

type Report struct {
	Source      string              `yaml:"source"`
	GeneratedAt time.Time           `yaml:"generated_at"`
	Encoding    string              `yaml:"encoding"`
	Delimiter   string              `yaml:"delimiter"`
	Fields      map[string]string   `yaml:"fields"`
	Missing     []string            `yaml:"missing_fields,omitempty"`
	Rows        int                 `yaml:"rows"`
	Records     int                 `yaml:"records"`
	Skipped     []models.SkippedRow `yaml:"skipped,omitempty"`
	Devices     []Device            `yaml:"devices"`
	Outputs     []string            `yaml:"outputs,omitempty"`
}

type Device struct {
	Name      string             `yaml:"name"`
	Intervals int                `yaml:"intervals"`
	Stats     models.DeviceStats `yaml:"stats"`
}

// New summarizes res. outputs lists the files the run produced.
func New(source string, res *service.Result, outputs []string) Report {
	r := Report{
		Source:      source,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Encoding:    res.Dialect.Encoding,
		Delimiter:   res.Dialect.DelimiterName(),
		Fields:      make(map[string]string, len(res.Fields)),
		Rows:        res.Rows,
		Records:     len(res.Records),
		Skipped:     res.Skipped,
		Devices:     make([]Device, 0, len(res.Charts)),
		Outputs:     outputs,
	}
	for f, col := range res.Fields {
		r.Fields[string(f)] = col.Header
	}
	for _, f := range res.Fields.Missing() {
		r.Missing = append(r.Missing, string(f))
	}
	for _, dc := range res.Charts {
		r.Devices = append(r.Devices, Device{
			Name:      dc.Device,
			Intervals: len(dc.Intervals),
			Stats:     dc.Stats,
		})
	}
	return r
}

// Write marshals r to path.
func Write(path string, r Report) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
