package service

import (
	"time"

	"oven_dashboard/internal/config"
	"oven_dashboard/internal/logger"
	"oven_dashboard/internal/models"
)

// Detector turns raw file bytes into a table.
type Detector interface {
	Detect(raw []byte) (models.RawTable, error)
}

// Resolver maps raw headers onto canonical fields.
type Resolver interface {
	Resolve(header []string) models.FieldMap
}

// Normalizer turns table rows into records, reporting the rows it dropped.
type Normalizer interface {
	Normalize(t models.RawTable, fm models.FieldMap) ([]models.Record, []models.SkippedRow)
}

// Segmenter cuts one device's time-sorted records into phase intervals.
type Segmenter interface {
	Segment(device string, records []models.Record) []models.Interval
}

// Service aggregates the pipeline stages.
type Service struct {
	Detector
	Resolver
	Normalizer
	Segmenter

	sticky         bool
	order          string
	cycleStartHour int
	log            *logger.Logger
}

// NewService wires every stage from configuration.
func NewService(cfg *config.Config, log *logger.Logger) (*Service, error) {
	loc, err := cfg.Input.Location()
	if err != nil {
		return nil, err
	}
	return &Service{
		Detector:       NewDialectDetector(cfg.Dialect, log),
		Resolver:       NewColumnResolver(cfg.Columns.Keywords(), log),
		Normalizer:     NewRecordNormalizer(cfg, loc, log),
		Segmenter:      NewPhaseSegmenter(cfg.Phase.MinDuration),
		sticky:         cfg.Phase.Sticky,
		order:          cfg.Dashboard.Order,
		cycleStartHour: cfg.Chart.CycleStartHour,
		log:            log,
	}, nil
}

// Result is everything one run derived from an input file.
type Result struct {
	Dialect models.Dialect
	Fields  models.FieldMap
	Rows    int
	Records []models.Record
	Skipped []models.SkippedRow
	Charts  []models.DeviceChart
}

// Intervals flattens the intervals of every chart.
func (r *Result) Intervals() []models.Interval {
	var out []models.Interval
	for _, dc := range r.Charts {
		out = append(out, dc.Intervals...)
	}
	return out
}

// Process runs detection, resolution, normalization and segmentation.
// Only ErrUnreadableInput is returned; everything else degrades.
func (s *Service) Process(raw []byte) (*Result, error) {
	table, err := s.Detect(raw)
	if err != nil {
		return nil, err
	}
	fields := s.Resolve(table.Header)
	records, skipped := s.Normalize(table, fields)

	res := &Result{
		Dialect: table.Dialect,
		Fields:  fields,
		Rows:    len(table.Rows),
		Records: records,
		Skipped: skipped,
		Charts:  s.Charts(records),
	}
	s.log.Infow("pipeline_done",
		"rows", res.Rows,
		"records", len(res.Records),
		"skipped", len(res.Skipped),
		"devices", len(res.Charts),
	)
	return res, nil
}

// Charts builds one DeviceChart per device. In sticky mode phases are
// inherited along each device's timeline, never along input order.
func (s *Service) Charts(records []models.Record) []models.DeviceChart {
	groups := groupByDevice(records)
	out := make([]models.DeviceChart, 0, len(groups))
	for _, g := range groups {
		if s.sticky {
			inheritPhases(g.records)
		}
		intervals := s.Segment(g.device, g.records)
		samples := samplesOf(g.records)
		start, end := deviceWindow(g.records, intervals)
		out = append(out, models.DeviceChart{
			Device:      g.device,
			Intervals:   intervals,
			Samples:     samples,
			Stats:       deviceStats(len(g.records), samples, intervals),
			WindowStart: start,
			WindowEnd:   end,
		})
	}

	if s.cycleStartHour >= 0 && len(records) > 0 {
		start, end := cycleWindow(earliest(records), s.cycleStartHour)
		for i := range out {
			out[i].WindowStart, out[i].WindowEnd = start, end
		}
	}
	if s.order == config.OrderSmart {
		sortSmart(out)
	}
	return out
}

// samplesOf keeps the records that carry at least one temperature.
func samplesOf(records []models.Record) []models.Sample {
	var out []models.Sample
	for _, r := range records {
		if r.Setpoint == nil && r.Actual == nil {
			continue
		}
		out = append(out, models.Sample{Timestamp: r.Timestamp, Setpoint: r.Setpoint, Actual: r.Actual})
	}
	return out
}

// deviceWindow spans the first record to the later of the last record and
// the last interval end. records must be sorted.
func deviceWindow(records []models.Record, intervals []models.Interval) (time.Time, time.Time) {
	if len(records) == 0 {
		return time.Time{}, time.Time{}
	}
	start, end := records[0].Timestamp, records[len(records)-1].Timestamp
	if n := len(intervals); n > 0 && intervals[n-1].End.After(end) {
		end = intervals[n-1].End
	}
	return start, end
}

// cycleWindow returns the 24h cycle starting at hour that contains t.
func cycleWindow(t time.Time, hour int) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
	if t.Hour() < hour {
		start = start.AddDate(0, 0, -1)
	}
	return start, start.AddDate(0, 0, 1)
}

func earliest(records []models.Record) time.Time {
	first := records[0].Timestamp
	for _, r := range records[1:] {
		if r.Timestamp.Before(first) {
			first = r.Timestamp
		}
	}
	return first
}
