package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"oven_dashboard/internal/config"
	"oven_dashboard/internal/logger"
	"oven_dashboard/internal/models"
)

// Skip reasons reported in SkippedRow.Reason.
const (
	reasonNoTimestampColumn = "no timestamp column"
	reasonEmptyTimestamp    = "empty timestamp"
	reasonBadTimestamp      = "unparsable timestamp"
)

// RecordNormalizer turns raw rows into typed Records.
type RecordNormalizer struct {
	splitLayout string
	layouts     []string
	loc         *time.Location
	classifier  *PhaseClassifier
	namer       *DeviceNamer
	log         *logger.Logger
}

// NewRecordNormalizer wires the normalizer from configuration. loc is the
// zone timestamps without offset are interpreted in.
func NewRecordNormalizer(cfg *config.Config, loc *time.Location, log *logger.Logger) *RecordNormalizer {
	return &RecordNormalizer{
		splitLayout: cfg.Normalize.SplitLayout,
		layouts:     cfg.Normalize.TimeLayouts,
		loc:         loc,
		classifier:  NewPhaseClassifier(cfg.Phase),
		namer:       NewDeviceNamer(cfg.Device),
		log:         log,
	}
}

// Normalize produces one Record per row with a parsable timestamp, in input
// order. Rows that cannot be timestamped are reported in the second result.
// Each record is classified on its own message only.
func (n *RecordNormalizer) Normalize(t models.RawTable, fm models.FieldMap) ([]models.Record, []models.SkippedRow) {
	tsIdx := fm.Index(models.FieldTimestamp)
	devIdx := fm.Index(models.FieldDevice)
	msgIdx := fm.Index(models.FieldMessage)
	spIdx := fm.Index(models.FieldSetpoint)
	actIdx := fm.Index(models.FieldActual)

	records := make([]models.Record, 0, len(t.Rows))
	var skipped []models.SkippedRow

	for i, row := range t.Rows {
		rowNum := i + 1
		msg := strings.TrimSpace(t.Value(row, msgIdx))
		device := n.namer.Label(t.Value(row, devIdx), msg)

		phase, matched := n.classifier.Classify(msg)

		if tsIdx < 0 {
			skipped = append(skipped, models.SkippedRow{Row: rowNum, Reason: reasonNoTimestampColumn})
			continue
		}
		rawTS := t.Value(row, tsIdx)
		ts, err := n.parseTimestamp(rawTS)
		if err != nil {
			reason := reasonBadTimestamp
			if strings.TrimSpace(rawTS) == "" {
				reason = reasonEmptyTimestamp
			}
			n.log.Warnw("row_skipped", "row", rowNum, "reason", reason, "value", rawTS)
			skipped = append(skipped, models.SkippedRow{Row: rowNum, Reason: reason, Value: rawTS})
			continue
		}

		records = append(records, models.Record{
			Row:       rowNum,
			Device:    device,
			Timestamp: ts,
			Message:   msg,
			Setpoint:  parseNumber(t.Value(row, spIdx)),
			Actual:    parseNumber(t.Value(row, actIdx)),
			Phase:     phase,
			Matched:   matched,
			Program:   ProgramNumber(msg),
		})
	}

	if tsIdx < 0 && len(t.Rows) > 0 {
		n.log.Warnw("no_timestamp_column", "rows_skipped", len(t.Rows))
	}
	return records, skipped
}

// parseTimestamp tries the controller's split form "yy/mm/dd, HH:MM:SS, fff"
// first, then every configured layout in order.
func (n *RecordNormalizer) parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if parts := strings.Split(s, ","); len(parts) >= 3 && n.splitLayout != "" {
		joined := fmt.Sprintf("%s %s.%s",
			strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]))
		if ts, err := time.ParseInLocation(n.splitLayout, joined, n.loc); err == nil {
			return ts, nil
		}
	}

	for _, layout := range n.layouts {
		if ts, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout matches %q", s)
}

// parseNumber accepts comma or dot decimals; anything else is nil.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
