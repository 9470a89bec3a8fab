package frame

import (
	"sort"

	"go.uber.org/zap"

	"github.com/scenarioworks/scenario-engine/pkg/models"
)

// Interpolate inserts, for every series with two recorded times enclosing t,
// a new row with the value linearly interpolated from the bracketing points.
// Series already holding a value at t and series without bracketing points
// are left unmodified, which makes the operation idempotent.
func (f *Frame) Interpolate(t float64) (*Frame, error) {
	if _, err := f.axis.CastTime(t); err != nil {
		return nil, err
	}

	type point struct{ time, value float64 }
	series := make(map[models.SeriesKey][]point)
	var order []models.SeriesKey
	for _, d := range f.data {
		key := d.SeriesKey()
		if _, ok := series[key]; !ok {
			order = append(order, key)
		}
		series[key] = append(series[key], point{d.Time, d.Value})
	}

	data := make([]models.Datapoint, len(f.data), len(f.data)+len(order))
	copy(data, f.data)

	inserted := 0
	for _, key := range order {
		points := series[key]
		sort.Slice(points, func(i, j int) bool { return points[i].time < points[j].time })

		exists := false
		for _, p := range points {
			if p.time == t {
				exists = true
				break
			}
		}
		if exists {
			continue
		}

		for i := 0; i+1 < len(points); i++ {
			lo, hi := points[i], points[i+1]
			if lo.time < t && t < hi.time {
				value := lo.value + (hi.value-lo.value)*(t-lo.time)/(hi.time-lo.time)
				data = append(data, models.Datapoint{
					Model:    key.Model,
					Scenario: key.Scenario,
					Region:   key.Region,
					Variable: key.Variable,
					Unit:     key.Unit,
					Time:     t,
					Value:    value,
				})
				inserted++
				break
			}
		}
	}

	out := f.derive(data, f.meta.Clone())
	f.logger.Debug("interpolated", f.zapID(), f.zapChild(out), zap.Int("inserted", inserted))
	return out, nil
}
