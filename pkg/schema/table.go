package schema

import (
	"fmt"

	"github.com/spf13/cast"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/models"
)

// Table is raw tabular input: a header plus untyped rows, as handed over by
// external collaborators (file readers, catalog clients). Parse turns it
// into long-format datapoints.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Parse validates and reshapes a raw table into long-format datapoints for
// the given axis. Both layouts are accepted: long format (a year/time column
// plus a value column) and wide format (every non-key column is a time
// label). Column names are case/whitespace-normalized; missing key columns
// and non-castable time labels fail with a schema error.
func Parse(table *Table, axis Axis) ([]models.Datapoint, error) {
	if table == nil || len(table.Columns) == 0 {
		return nil, fmt.Errorf("%w: empty input table", apperrors.ErrSchema)
	}
	columns := Normalize(table.Columns)

	keyIdx := make(map[string]int, len(FullIndex))
	timeIdx, valueIdx := -1, -1
	var wide []wideColumn
	for i, c := range columns {
		switch c {
		case ColModel, ColScenario, ColRegion, ColVariable, ColUnit:
			keyIdx[c] = i
		case ColYear, ColTime:
			timeIdx = i
		case ColValue:
			valueIdx = i
		default:
			wide = append(wide, wideColumn{index: i, label: c})
		}
	}

	var missing []string
	for _, c := range FullIndex {
		if _, ok := keyIdx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing key columns %v", apperrors.ErrSchema, missing)
	}

	long := timeIdx >= 0 && valueIdx >= 0
	if !long && len(wide) == 0 {
		return nil, fmt.Errorf("%w: table has neither time/value columns nor time labels", apperrors.ErrSchema)
	}
	if long && len(wide) > 0 {
		return nil, fmt.Errorf("%w: unexpected columns %v in long-format table", apperrors.ErrSchema, wideLabels(wide))
	}

	var times []float64
	if !long {
		times = make([]float64, len(wide))
		for i, w := range wide {
			t, err := ParseTimeLabel(w.label, axis)
			if err != nil {
				return nil, err
			}
			times[i] = t
		}
	}

	var data []models.Datapoint
	for r, row := range table.Rows {
		key, err := parseKey(row, keyIdx, r)
		if err != nil {
			return nil, err
		}
		if long {
			t, err := parseCellFloat(row, timeIdx, r)
			if err != nil {
				return nil, err
			}
			if t, err = axis.CastTime(t); err != nil {
				return nil, err
			}
			v, err := parseCellFloat(row, valueIdx, r)
			if err != nil {
				return nil, err
			}
			data = append(data, datapoint(key, t, v))
			continue
		}
		for i, w := range wide {
			if w.index >= len(row) || row[w.index] == nil {
				continue
			}
			v, err := parseCellFloat(row, w.index, r)
			if err != nil {
				return nil, err
			}
			data = append(data, datapoint(key, times[i], v))
		}
	}
	return data, nil
}

type wideColumn struct {
	index int
	label string
}

func wideLabels(cols []wideColumn) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.label
	}
	return out
}

func parseKey(row []any, keyIdx map[string]int, r int) (models.SeriesKey, error) {
	get := func(col string) (string, error) {
		i := keyIdx[col]
		if i >= len(row) {
			return "", fmt.Errorf("%w: row %d is shorter than the header", apperrors.ErrSchema, r)
		}
		s, err := cast.ToStringE(row[i])
		if err != nil {
			return "", fmt.Errorf("%w: row %d has a non-string %s cell", apperrors.ErrSchema, r, col)
		}
		return s, nil
	}
	var key models.SeriesKey
	var err error
	if key.Model, err = get(ColModel); err != nil {
		return key, err
	}
	if key.Scenario, err = get(ColScenario); err != nil {
		return key, err
	}
	if key.Region, err = get(ColRegion); err != nil {
		return key, err
	}
	if key.Variable, err = get(ColVariable); err != nil {
		return key, err
	}
	if key.Unit, err = get(ColUnit); err != nil {
		return key, err
	}
	return key, nil
}

func parseCellFloat(row []any, i, r int) (float64, error) {
	if i >= len(row) {
		return 0, fmt.Errorf("%w: row %d is shorter than the header", apperrors.ErrSchema, r)
	}
	v, err := cast.ToFloat64E(row[i])
	if err != nil {
		return 0, fmt.Errorf("%w: row %d holds non-numeric cell %v", apperrors.ErrSchema, r, row[i])
	}
	return v, nil
}

func datapoint(key models.SeriesKey, t, v float64) models.Datapoint {
	return models.Datapoint{
		Model:    key.Model,
		Scenario: key.Scenario,
		Region:   key.Region,
		Variable: key.Variable,
		Unit:     key.Unit,
		Time:     t,
		Value:    v,
	}
}
