package frame

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/meta"
	"github.com/scenarioworks/scenario-engine/pkg/models"
	"github.com/scenarioworks/scenario-engine/pkg/schema"
)

// CheckOption adjusts validation and aggregation checks.
type CheckOption func(*checkOptions)

type checkOptions struct {
	excludeOnFail bool
	year          *float64
	scope         Criteria
}

// ExcludeOnFail marks the metadata exclude flag for entities with failing
// rows or comparisons.
func ExcludeOnFail() CheckOption {
	return func(o *checkOptions) { o.excludeOnFail = true }
}

// AtYear restricts an aggregation check to one time coordinate.
func AtYear(t float64) CheckOption {
	return func(o *checkOptions) { o.year = &t }
}

// Scoped restricts a check to the rows matching the given filter criteria.
func Scoped(criteria Criteria) CheckOption {
	return func(o *checkOptions) { o.scope = criteria }
}

// Validate flags datapoints violating per-variable bounds: values strictly
// above Up or strictly below Lo, optionally restricted to one time
// coordinate. It returns the offending rows, or nil when all pass. With
// ExcludeOnFail, offending entities are flagged on the receiver's metadata.
func (f *Frame) Validate(criteria map[string]models.Bounds, opts ...CheckOption) ([]models.Datapoint, error) {
	o := checkOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	scope, err := f.scoped(o.scope)
	if err != nil {
		return nil, err
	}

	offending := collectViolations(scope.data, criteria)
	if len(offending) == 0 {
		return nil, nil
	}
	sortData(offending)

	if o.excludeOnFail {
		f.excludeEntities(entitySet(offending), "validation failed")
	}
	f.logger.Info("validation flagged rows", f.zapID(), f.zapRows(len(offending)))
	return offending, nil
}

// Categorize labels entities whose data does not violate any criterion:
// passing entities get label written into the named metadata column,
// violating entities are left unset. The column is only created when at
// least one entity passes. Entities outside the filter scope are untouched.
func (f *Frame) Categorize(column, label string, criteria map[string]models.Bounds, opts ...CheckOption) error {
	o := checkOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	scope, err := f.scoped(o.scope)
	if err != nil {
		return err
	}

	violating := entitySet(collectViolations(scope.data, criteria))
	var passing []meta.Entity
	for _, e := range scope.Entities() {
		if _, bad := violating[e]; !bad {
			passing = append(passing, e)
		}
	}
	if len(passing) == 0 {
		f.logger.Info("no entities satisfy the criteria, category not created",
			f.zapID(), zap.String("column", column), zap.String("label", label))
		return nil
	}
	if err := f.meta.SetAt(column, meta.String(label), passing); err != nil {
		return err
	}
	f.logger.Info("entities categorized", f.zapID(),
		zap.String("column", column), zap.String("label", label), zap.Int("count", len(passing)))
	return nil
}

// CheckAggregate sums the direct children of variable in the hierarchy,
// grouped by (model, scenario, region, time), and compares the sum to the
// parent's recorded value within the configured tolerance. It returns nil
// when every comparison is close, otherwise one mismatch per failing
// coordinate. Only yearly frames carry a variable hierarchy to check.
func (f *Frame) CheckAggregate(variable string, opts ...CheckOption) ([]models.AggregateMismatch, error) {
	o := checkOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if f.axis != schema.AxisYears {
		return nil, fmt.Errorf("%w: aggregate checks are not supported on continuous frames", apperrors.ErrInvalidArgument)
	}
	scope, err := f.scoped(o.scope)
	if err != nil {
		return nil, err
	}

	sep := f.cfg.Separator
	type groupKey struct {
		Model, Scenario, Region string
		Time                    float64
	}
	childSum := make(map[groupKey]float64)
	hasChildren := false
	for _, d := range scope.data {
		if !schema.IsDirectChild(d.Variable, variable, sep) {
			continue
		}
		if o.year != nil && d.Time != *o.year {
			continue
		}
		hasChildren = true
		childSum[groupKey{d.Model, d.Scenario, d.Region, d.Time}] += d.Value
	}
	if !hasChildren {
		f.logger.Debug("variable has no components, nothing to check",
			f.zapID(), zap.String("variable", variable))
		return nil, nil
	}

	var mismatches []models.AggregateMismatch
	for _, d := range scope.data {
		if d.Variable != variable {
			continue
		}
		if o.year != nil && d.Time != *o.year {
			continue
		}
		sum, ok := childSum[groupKey{d.Model, d.Scenario, d.Region, d.Time}]
		if !ok {
			continue
		}
		if !f.cfg.Close(d.Value, sum) {
			mismatches = append(mismatches, models.AggregateMismatch{
				Variable: variable,
				Model:    d.Model,
				Scenario: d.Scenario,
				Region:   d.Region,
				Time:     d.Time,
				Recorded: d.Value,
				Computed: sum,
			})
		}
	}
	return f.finishCheck(variable, mismatches, o.excludeOnFail)
}

// CheckAggregateRegions sums variable over the component regions and
// compares the sum to the value recorded at the aggregate region. When
// components is nil, all regions other than the aggregate one are used;
// with overlapping region hierarchies this double-counts, so pass explicit
// components when the hierarchy has intermediate levels. Direct children of variable that exist only at the aggregate
// region contribute to the component sum.
func (f *Frame) CheckAggregateRegions(variable, region string, components []string, opts ...CheckOption) ([]models.AggregateMismatch, error) {
	o := checkOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if f.axis != schema.AxisYears {
		return nil, fmt.Errorf("%w: aggregate checks are not supported on continuous frames", apperrors.ErrInvalidArgument)
	}
	scope, err := f.scoped(o.scope)
	if err != nil {
		return nil, err
	}

	var varRows []models.Datapoint
	for _, d := range scope.data {
		if d.Variable == variable {
			varRows = append(varRows, d)
		}
	}

	if components == nil {
		seen := make(map[string]struct{})
		for _, d := range varRows {
			if d.Region == region {
				continue
			}
			if _, ok := seen[d.Region]; !ok {
				seen[d.Region] = struct{}{}
				components = append(components, d.Region)
			}
		}
	}
	if len(components) == 0 {
		f.logger.Debug("variable has no component regions, nothing to check",
			f.zapID(), zap.String("variable", variable), zap.String("region", region))
		return nil, nil
	}
	isComponent := make(map[string]bool, len(components))
	for _, r := range components {
		isComponent[r] = true
	}

	type groupKey struct {
		Model, Scenario string
		Time            float64
	}
	componentSum := make(map[groupKey]float64)
	for _, d := range varRows {
		if !isComponent[d.Region] {
			continue
		}
		componentSum[groupKey{d.Model, d.Scenario, d.Time}] += d.Value
	}
	if len(componentSum) == 0 {
		return nil, nil
	}

	// Children recorded only at the aggregate region are part of its total
	// but invisible in the component regions; fold them into the sum.
	for _, child := range f.regionOnlyChildren(scope.data, variable, region, isComponent) {
		for _, d := range scope.data {
			if d.Variable == child && d.Region == region {
				componentSum[groupKey{d.Model, d.Scenario, d.Time}] += d.Value
			}
		}
	}

	var mismatches []models.AggregateMismatch
	for _, d := range varRows {
		if d.Region != region {
			continue
		}
		if o.year != nil && d.Time != *o.year {
			continue
		}
		sum, ok := componentSum[groupKey{d.Model, d.Scenario, d.Time}]
		if !ok {
			continue
		}
		if !f.cfg.Close(d.Value, sum) {
			mismatches = append(mismatches, models.AggregateMismatch{
				Variable: variable,
				Model:    d.Model,
				Scenario: d.Scenario,
				Region:   region,
				Time:     d.Time,
				Recorded: d.Value,
				Computed: sum,
			})
		}
	}
	return f.finishCheck(variable, mismatches, o.excludeOnFail)
}

// regionOnlyChildren lists direct children of variable recorded at the
// aggregate region but in none of the component regions.
func (f *Frame) regionOnlyChildren(data []models.Datapoint, variable, region string, isComponent map[string]bool) []string {
	sep := f.cfg.Separator
	atRegion := make(map[string]bool)
	atComponents := make(map[string]bool)
	for _, d := range data {
		if !schema.IsDirectChild(d.Variable, variable, sep) {
			continue
		}
		if d.Region == region {
			atRegion[d.Variable] = true
		}
		if isComponent[d.Region] {
			atComponents[d.Variable] = true
		}
	}
	var out []string
	for child := range atRegion {
		if !atComponents[child] {
			out = append(out, child)
		}
	}
	sort.Strings(out)
	return out
}

func (f *Frame) finishCheck(variable string, mismatches []models.AggregateMismatch, excludeOnFail bool) ([]models.AggregateMismatch, error) {
	if len(mismatches) == 0 {
		return nil, nil
	}
	sort.Slice(mismatches, func(i, j int) bool {
		a, b := mismatches[i], mismatches[j]
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		if a.Scenario != b.Scenario {
			return a.Scenario < b.Scenario
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		return a.Time < b.Time
	})
	if excludeOnFail {
		entities := make(map[meta.Entity]struct{})
		for _, m := range mismatches {
			entities[meta.Entity{Model: m.Model, Scenario: m.Scenario}] = struct{}{}
		}
		f.excludeEntities(entities, "aggregate check failed")
	}
	f.logger.Info("aggregate check flagged mismatches", f.zapID(),
		zap.String("variable", variable), zap.Int("mismatches", len(mismatches)))
	return mismatches, nil
}

// scoped applies an optional filter scope, returning the receiver itself
// when no scope is given.
func (f *Frame) scoped(criteria Criteria) (*Frame, error) {
	if len(criteria) == 0 {
		return f, nil
	}
	return f.Filter(criteria)
}

func collectViolations(data []models.Datapoint, criteria map[string]models.Bounds) []models.Datapoint {
	var offending []models.Datapoint
	for _, d := range data {
		bounds, ok := criteria[d.Variable]
		if !ok {
			continue
		}
		if bounds.Year != nil && d.Time != *bounds.Year {
			continue
		}
		if bounds.Up != nil && d.Value > *bounds.Up {
			offending = append(offending, d)
			continue
		}
		if bounds.Lo != nil && d.Value < *bounds.Lo {
			offending = append(offending, d)
		}
	}
	return offending
}

func entitySet(data []models.Datapoint) map[meta.Entity]struct{} {
	out := make(map[meta.Entity]struct{})
	for _, d := range data {
		out[meta.Entity{Model: d.Model, Scenario: d.Scenario}] = struct{}{}
	}
	return out
}
