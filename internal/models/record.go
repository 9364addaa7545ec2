package models

import "time"

// Phase is the operational state of an oven at a point in time.
type Phase string

const (
	PhasePreheat Phase = "PREHEAT"
	PhaseRuntime Phase = "RUNTIME"
	PhaseNone    Phase = "NONE"
)

// Record is one normalized row of the export.
type Record struct {
	Row       int       `json:"row"`    // 1-based data row number
	Device    string    `json:"device"` // display label, e.g. "MIWE ideal TC (1/1) - Herd 2"
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Setpoint  *float64  `json:"setpoint,omitempty"` // °C
	Actual    *float64  `json:"actual,omitempty"`   // °C
	Phase     Phase     `json:"phase"`
	Matched   bool      `json:"matched"` // a phase or end keyword hit the message
	Program   string    `json:"program,omitempty"` // e.g. "P12"
}

// SkippedRow records why a data row did not become a Record.
type SkippedRow struct {
	Row    int    `json:"row" yaml:"row"`
	Reason string `json:"reason" yaml:"reason"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
}
