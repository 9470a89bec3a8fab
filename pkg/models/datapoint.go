package models

// Datapoint is one long-format observation: a single numeric value keyed by
// the full index (model, scenario, region, variable, unit) plus a time
// coordinate. On a yearly frame Time always holds a whole number; on a
// continuous frame it is an arbitrary float.
type Datapoint struct {
	Model    string  `json:"model"`
	Scenario string  `json:"scenario"`
	Region   string  `json:"region"`
	Variable string  `json:"variable"`
	Unit     string  `json:"unit"`
	Time     float64 `json:"time"`
	Value    float64 `json:"value"`
}

// SeriesKey returns the datapoint's full index without the time coordinate.
// Datapoints sharing a SeriesKey form one logical trajectory.
func (d Datapoint) SeriesKey() SeriesKey {
	return SeriesKey{
		Model:    d.Model,
		Scenario: d.Scenario,
		Region:   d.Region,
		Variable: d.Variable,
		Unit:     d.Unit,
	}
}

// SeriesKey identifies one logical time series.
type SeriesKey struct {
	Model    string
	Scenario string
	Region   string
	Variable string
	Unit     string
}

// TimeseriesRow is one row of the wide pivot produced by Frame.Timeseries:
// a series key plus its values keyed by time coordinate.
type TimeseriesRow struct {
	Model    string
	Scenario string
	Region   string
	Variable string
	Unit     string
	Values   map[float64]float64
}

// VariableUnit pairs a variable name with its unit, as reported by
// Frame.VariablesWithUnits.
type VariableUnit struct {
	Variable string
	Unit     string
}
