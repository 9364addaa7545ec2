package service

import (
	"sort"
	"time"

	"oven_dashboard/internal/models"
)

// PhaseSegmenter turns one device's records into phase intervals.
type PhaseSegmenter struct {
	minDuration time.Duration
}

func NewPhaseSegmenter(minDuration time.Duration) *PhaseSegmenter {
	return &PhaseSegmenter{minDuration: minDuration}
}

// Segment expects the records of a single device sorted by timestamp.
// Every maximal run of equal phase becomes one interval, except NONE runs.
// A run ends where the next record starts; the final run ends at the last
// record, stretched to minDuration when it would have zero width.
func (s *PhaseSegmenter) Segment(device string, records []models.Record) []models.Interval {
	var out []models.Interval
	for i := 0; i < len(records); {
		j := i
		for j+1 < len(records) && records[j+1].Phase == records[i].Phase {
			j++
		}

		if phase := records[i].Phase; phase == models.PhasePreheat || phase == models.PhaseRuntime {
			start := records[i].Timestamp
			var end time.Time
			if j+1 < len(records) {
				end = records[j+1].Timestamp
			} else {
				end = records[j].Timestamp
				if !end.After(start) {
					end = start.Add(s.minDuration)
				}
			}
			out = append(out, models.Interval{
				Device:  device,
				Phase:   phase,
				Start:   start,
				End:     end,
				Program: firstProgram(records[i : j+1]),
			})
		}
		i = j + 1
	}
	return out
}

func firstProgram(run []models.Record) string {
	for _, r := range run {
		if r.Program != "" {
			return r.Program
		}
	}
	return ""
}

// inheritPhases gives every unmatched record the phase of the last matched
// record before it. records must be one device's, sorted by timestamp.
func inheritPhases(records []models.Record) {
	last, seen := models.PhaseNone, false
	for i := range records {
		if records[i].Matched {
			last, seen = records[i].Phase, true
		} else if seen {
			records[i].Phase = last
		}
	}
}

// deviceGroup holds one device's records.
type deviceGroup struct {
	device  string
	records []models.Record
}

// groupByDevice splits records per device in order of first appearance and
// stable-sorts each group by timestamp.
func groupByDevice(records []models.Record) []deviceGroup {
	index := make(map[string]int)
	var groups []deviceGroup
	for _, r := range records {
		i, ok := index[r.Device]
		if !ok {
			i = len(groups)
			index[r.Device] = i
			groups = append(groups, deviceGroup{device: r.Device})
		}
		groups[i].records = append(groups[i].records, r)
	}
	for _, g := range groups {
		recs := g.records
		sort.SliceStable(recs, func(a, b int) bool {
			return recs[a].Timestamp.Before(recs[b].Timestamp)
		})
	}
	return groups
}
