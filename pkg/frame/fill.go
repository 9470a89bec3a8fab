package frame

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/logging"
	"github.com/scenarioworks/scenario-engine/pkg/meta"
	"github.com/scenarioworks/scenario-engine/pkg/models"
)

type fillGroup struct {
	Model    string
	Scenario string
	Region   string
}

// AddMissingVariables inserts, per (model, scenario, region) group, a series
// for every configured variable the frame does not carry yet. Without a
// lead variable the series is zero-valued across the group's existing time
// points. With a lead variable, the series is the lead trajectory scaled so
// its value at the scale year equals the scale value; the scale year is
// interpolated when it is not an exact sample point. A lead variable absent
// from any group fails with a value error. Variables already present are
// skipped with a warning.
func (f *Frame) AddMissingVariables(fills map[string]models.VariableFill) (*Frame, error) {
	groups, groupTimes := f.fillGroups()
	present := make(map[string]struct{})
	for _, v := range f.Variables() {
		present[v] = struct{}{}
	}

	// deterministic fill order
	variables := make([]string, 0, len(fills))
	for v := range fills {
		variables = append(variables, v)
	}
	sort.Strings(variables)

	data := f.Data()
	for _, variable := range variables {
		fill := fills[variable]
		if _, ok := present[variable]; ok {
			f.logger.Warn("variable to fill already in frame, skipping",
				f.zapID(), zap.String("variable", variable))
			continue
		}

		if fill.LeadVariable == "" {
			for _, g := range groups {
				for _, t := range groupTimes[g] {
					data = append(data, models.Datapoint{
						Model: g.Model, Scenario: g.Scenario, Region: g.Region,
						Variable: variable, Unit: fill.Unit, Time: t, Value: 0,
					})
				}
			}
			continue
		}

		rows, err := f.scaledLeadSeries(variable, fill, groups)
		if err != nil {
			return nil, err
		}
		data = append(data, rows...)
	}

	out := f.derive(data, f.meta.Clone())
	f.logger.Debug("missing variables added",
		f.zapID(), f.zapChild(out), logging.ListField("variables", variables))
	return out, nil
}

// scaledLeadSeries builds the filled series for every group from the lead
// trajectory and the configured scale point.
func (f *Frame) scaledLeadSeries(variable string, fill models.VariableFill, groups []fillGroup) ([]models.Datapoint, error) {
	lead := make(map[fillGroup][]models.Datapoint)
	for _, d := range f.data {
		if d.Variable != fill.LeadVariable {
			continue
		}
		g := fillGroup{d.Model, d.Scenario, d.Region}
		lead[g] = append(lead[g], d)
	}
	for _, g := range groups {
		if len(lead[g]) == 0 {
			return nil, fmt.Errorf(
				"%w: lead variable %q could not be found for all model-scenario-region combinations",
				apperrors.ErrInvalidArgument, fill.LeadVariable)
		}
	}

	var out []models.Datapoint
	for _, g := range groups {
		series := lead[g]
		sort.Slice(series, func(i, j int) bool { return series[i].Time < series[j].Time })

		factor := 1.0
		if fill.ScaleYear != nil && fill.ScaleValue != nil {
			at, err := valueAt(series, *fill.ScaleYear)
			if err != nil {
				return nil, fmt.Errorf("scaling %q by %q: %w", variable, fill.LeadVariable, err)
			}
			if at == 0 {
				return nil, fmt.Errorf("%w: lead variable %q is zero at the scale year",
					apperrors.ErrInvalidArgument, fill.LeadVariable)
			}
			factor = *fill.ScaleValue / at
		}

		for _, d := range series {
			out = append(out, models.Datapoint{
				Model: g.Model, Scenario: g.Scenario, Region: g.Region,
				Variable: variable, Unit: fill.Unit, Time: d.Time, Value: d.Value * factor,
			})
		}
	}
	return out, nil
}

// valueAt reads a series value at t, interpolating linearly between the
// bracketing sample points when t is not recorded. The series must be
// sorted by time.
func valueAt(series []models.Datapoint, t float64) (float64, error) {
	for _, d := range series {
		if d.Time == t {
			return d.Value, nil
		}
	}
	for i := 0; i+1 < len(series); i++ {
		lo, hi := series[i], series[i+1]
		if lo.Time < t && t < hi.Time {
			return lo.Value + (hi.Value-lo.Value)*(t-lo.Time)/(hi.Time-lo.Time), nil
		}
	}
	return 0, fmt.Errorf("%w: time %v is outside the recorded range", apperrors.ErrInvalidArgument, t)
}

func (f *Frame) fillGroups() ([]fillGroup, map[fillGroup][]float64) {
	seenGroup := make(map[fillGroup]struct{})
	times := make(map[fillGroup][]float64)
	seenTime := make(map[fillGroup]map[float64]struct{})
	var groups []fillGroup
	for _, d := range f.data {
		g := fillGroup{d.Model, d.Scenario, d.Region}
		if _, ok := seenGroup[g]; !ok {
			seenGroup[g] = struct{}{}
			seenTime[g] = make(map[float64]struct{})
			groups = append(groups, g)
		}
		if _, ok := seenTime[g][d.Time]; !ok {
			seenTime[g][d.Time] = struct{}{}
			times[g] = append(times[g], d.Time)
		}
	}
	for g := range times {
		sort.Float64s(times[g])
	}
	return groups, times
}

// RequireVariable reports the entities that do not carry the given variable
// at all, optionally marking them excluded. Entities carrying it pass; a
// nil result means every entity carries it.
func (f *Frame) RequireVariable(variable string, excludeOnFail bool) []meta.Entity {
	carrying := make(map[meta.Entity]struct{})
	for _, d := range f.data {
		if d.Variable == variable {
			carrying[meta.Entity{Model: d.Model, Scenario: d.Scenario}] = struct{}{}
		}
	}

	var missing []meta.Entity
	for _, e := range f.Entities() {
		if _, ok := carrying[e]; !ok {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if excludeOnFail {
		for _, e := range missing {
			f.meta.SetExclude(e, true)
			f.logger.Info("entity excluded: required variable missing",
				logging.EntityField(e.Model, e.Scenario), zap.String("variable", variable))
		}
	}
	return missing
}
