package models

import "time"

// Interval is a maximal span during which a device stayed in one phase.
type Interval struct {
	Device  string    `json:"device"`
	Phase   Phase     `json:"phase"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Program string    `json:"program,omitempty"`
}

// Duration returns End - Start.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Sample is one temperature reading of a device.
type Sample struct {
	Timestamp time.Time
	Setpoint  *float64
	Actual    *float64
}

// SeriesStats summarizes one temperature series. Count is zero when the
// series has no values, in which case the other fields are meaningless.
type SeriesStats struct {
	Count int     `yaml:"count"`
	Min   float64 `yaml:"min"`
	Mean  float64 `yaml:"mean"`
	Max   float64 `yaml:"max"`
}

// DeviceStats aggregates one device's samples and intervals.
type DeviceStats struct {
	Records  int           `yaml:"records"`
	Setpoint SeriesStats   `yaml:"setpoint"`
	Actual   SeriesStats   `yaml:"actual"`
	Preheat  time.Duration `yaml:"preheat"`
	Runtime  time.Duration `yaml:"runtime"`
}

// DeviceChart is everything needed to draw one device.
type DeviceChart struct {
	Device      string
	Intervals   []Interval
	Samples     []Sample
	Stats       DeviceStats
	WindowStart time.Time
	WindowEnd   time.Time
}

// HasSetpoint reports whether any sample carries a setpoint.
func (c DeviceChart) HasSetpoint() bool {
	for _, s := range c.Samples {
		if s.Setpoint != nil {
			return true
		}
	}
	return false
}

// HasActual reports whether any sample carries an actual temperature.
func (c DeviceChart) HasActual() bool {
	for _, s := range c.Samples {
		if s.Actual != nil {
			return true
		}
	}
	return false
}
