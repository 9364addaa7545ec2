package service

import (
	"oven_dashboard/internal/models"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// deviceStats summarizes samples and interval durations of one device.
func deviceStats(records int, samples []models.Sample, intervals []models.Interval) models.DeviceStats {
	var setpoints, actuals []float64
	for _, s := range samples {
		if s.Setpoint != nil {
			setpoints = append(setpoints, *s.Setpoint)
		}
		if s.Actual != nil {
			actuals = append(actuals, *s.Actual)
		}
	}

	st := models.DeviceStats{
		Records:  records,
		Setpoint: seriesStats(setpoints),
		Actual:   seriesStats(actuals),
	}
	for _, iv := range intervals {
		switch iv.Phase {
		case models.PhasePreheat:
			st.Preheat += iv.Duration()
		case models.PhaseRuntime:
			st.Runtime += iv.Duration()
		}
	}
	return st
}

func seriesStats(xs []float64) models.SeriesStats {
	if len(xs) == 0 {
		return models.SeriesStats{}
	}
	return models.SeriesStats{
		Count: len(xs),
		Min:   floats.Min(xs),
		Mean:  stat.Mean(xs, nil),
		Max:   floats.Max(xs),
	}
}
