package models

// Bounds is one validation criterion for a variable: an optional upper and
// lower bound on values, optionally restricted to a single time coordinate.
// Criteria maps are keyed by variable name.
type Bounds struct {
	// Up flags values strictly above the bound.
	Up *float64 `yaml:"up"`
	// Lo flags values strictly below the bound.
	Lo *float64 `yaml:"lo"`
	// Year restricts the check to datapoints at this time coordinate.
	Year *float64 `yaml:"year"`
}

// AggregateMismatch is one failing comparison reported by CheckAggregate or
// CheckAggregateRegions: the recorded parent value versus the sum computed
// from its components at one (model, scenario, region, time) coordinate.
type AggregateMismatch struct {
	Variable string
	Model    string
	Scenario string
	// Region is the row's region for hierarchy checks, or the parent
	// region for region-aggregation checks.
	Region   string
	Time     float64
	Recorded float64
	Computed float64
}

// VariableFill configures one variable for Frame.AddMissingVariables.
// With no lead variable the new series is zero-valued across each group's
// existing time points. With a lead variable, the new series is the lead
// series scaled so that its value at ScaleYear equals ScaleValue.
type VariableFill struct {
	Unit         string   `yaml:"unit"`
	LeadVariable string   `yaml:"lead variable"`
	ScaleYear    *float64 `yaml:"scale year"`
	ScaleValue   *float64 `yaml:"scale value"`
}

// UnitConversion rewrites one unit label and scales matching values.
// Conversion maps are keyed by the old unit.
type UnitConversion struct {
	To     string
	Factor float64
}
