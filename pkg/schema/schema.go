// Package schema defines the fixed key columns of the scenario data model,
// canonicalization of raw tabular input, and the variable-hierarchy rules
// shared by filtering and aggregation checks.
package schema

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
)

// Canonical column names.
const (
	ColModel    = "model"
	ColScenario = "scenario"
	ColRegion   = "region"
	ColVariable = "variable"
	ColUnit     = "unit"
	ColYear     = "year"
	ColTime     = "time"
	ColValue    = "value"
)

// EntityIndex is the metadata key: every (model, scenario) pair in the data
// maps to exactly one metadata row.
var EntityIndex = []string{ColModel, ColScenario}

// FullIndex is the long-format key without the time coordinate.
var FullIndex = []string{ColModel, ColScenario, ColRegion, ColVariable, ColUnit}

// Axis selects the time representation of a frame.
type Axis int

const (
	// AxisYears indexes time by whole-number years.
	AxisYears Axis = iota
	// AxisContinuous indexes time by arbitrary float coordinates.
	AxisContinuous
)

func (a Axis) String() string {
	if a == AxisContinuous {
		return "continuous"
	}
	return "years"
}

// TimeColumn returns the axis's canonical time column name.
func (a Axis) TimeColumn() string {
	if a == AxisContinuous {
		return ColTime
	}
	return ColYear
}

// CastTime validates a time coordinate for the axis. The years axis rejects
// coordinates with a fractional part; the continuous axis accepts any float.
func (a Axis) CastTime(t float64) (float64, error) {
	if a == AxisYears && t != math.Trunc(t) {
		return 0, fmt.Errorf("%w: time label %v is not castable to a year", apperrors.ErrSchema, t)
	}
	return t, nil
}

// NormalizeColumn canonicalizes a column name: trimmed, lower-cased, and the
// two time column labels folded onto each other per the long-format parser.
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Normalize canonicalizes all column names of a raw table header.
func Normalize(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = NormalizeColumn(c)
	}
	return out
}

// ParseTimeLabel parses a wide-table column label as a time coordinate for
// the given axis.
func ParseTimeLabel(label string, axis Axis) (float64, error) {
	t, err := cast.ToFloat64E(strings.TrimSpace(label))
	if err != nil {
		return 0, fmt.Errorf("%w: column %q is neither a key column nor a time label", apperrors.ErrSchema, label)
	}
	return axis.CastTime(t)
}
