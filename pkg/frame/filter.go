package frame

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"

	"github.com/gobwas/glob"
	"github.com/spf13/cast"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/meta"
	"github.com/scenarioworks/scenario-engine/pkg/models"
	"github.com/scenarioworks/scenario-engine/pkg/schema"
)

// Criteria maps column names to filter conditions. Data columns (model,
// scenario, region, variable, unit) take a pattern or a list of patterns;
// year/time takes a number or a list of numbers; "level" takes a variable
// depth filter; metadata columns (including "exclude") take a value or a
// list of values and are matched against the metadata table. A column the
// container carries in neither table fails with a value error.
type Criteria map[string]any

// LevelColumn is the pseudo-column filtering on variable-hierarchy depth.
const LevelColumn = "level"

// FilterOption adjusts filter behavior.
type FilterOption func(*filterOptions)

type filterOptions struct {
	regexp bool
	keep   bool
}

// Regexp switches string criteria from glob wildcards to regular
// expressions (anchored at the start, like the original matching rules).
func Regexp() FilterOption {
	return func(o *filterOptions) { o.regexp = true }
}

// Drop inverts the selection: matching rows are removed instead of kept.
func Drop() FilterOption {
	return func(o *filterOptions) { o.keep = false }
}

// Filter selects rows where every criterion matches and returns them as a
// new frame. Metadata rows are retained only for entities still present,
// with their exclude flags and accreted columns carried over.
func (f *Frame) Filter(criteria Criteria, opts ...FilterOption) (*Frame, error) {
	o := filterOptions{keep: true}
	for _, opt := range opts {
		opt(&o)
	}

	match, err := f.compileCriteria(criteria, o.regexp)
	if err != nil {
		return nil, err
	}

	var kept []models.Datapoint
	for _, d := range f.data {
		if match(d) == o.keep {
			kept = append(kept, d)
		}
	}

	out := f.derive(kept, f.meta.Restrict(entitiesOf(kept)))
	f.logger.Debug("frame filtered",
		f.zapID(),
		f.zapChild(out),
		f.zapRows(len(kept)))
	return out, nil
}

// compileCriteria turns a criteria map into a single row predicate,
// dispatching metadata columns to the metadata table.
func (f *Frame) compileCriteria(criteria Criteria, useRegexp bool) (func(models.Datapoint) bool, error) {
	var predicates []func(models.Datapoint) bool

	// deterministic compilation order for stable error reporting
	columns := make([]string, 0, len(criteria))
	for c := range criteria {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	for _, column := range columns {
		value := criteria[column]
		switch column {
		case schema.ColModel, schema.ColScenario, schema.ColRegion, schema.ColVariable, schema.ColUnit:
			p, err := compilePatterns(column, value, useRegexp)
			if err != nil {
				return nil, err
			}
			field := fieldOf(column)
			predicates = append(predicates, func(d models.Datapoint) bool { return p(field(d)) })
		case schema.ColYear, schema.ColTime:
			times, err := toFloats(column, value)
			if err != nil {
				return nil, err
			}
			predicates = append(predicates, func(d models.Datapoint) bool {
				for _, t := range times {
					if d.Time == t {
						return true
					}
				}
				return false
			})
		case LevelColumn:
			matcher, err := f.levelMatcher(value)
			if err != nil {
				return nil, err
			}
			sep := f.cfg.Separator
			predicates = append(predicates, func(d models.Datapoint) bool {
				return matcher.Match(schema.Depth(d.Variable, sep))
			})
		default:
			if !f.meta.Has(column) {
				return nil, fmt.Errorf("%w: filter by %q not supported", apperrors.ErrInvalidArgument, column)
			}
			predicate := metaPredicate(value)
			allowed := make(map[meta.Entity]bool, f.meta.Len())
			for _, e := range f.meta.Entities() {
				allowed[e] = predicate.Match(f.meta.Get(e, column))
			}
			predicates = append(predicates, func(d models.Datapoint) bool {
				return allowed[meta.Entity{Model: d.Model, Scenario: d.Scenario}]
			})
		}
	}

	return func(d models.Datapoint) bool {
		for _, p := range predicates {
			if !p(d) {
				return false
			}
		}
		return true
	}, nil
}

func (f *Frame) levelMatcher(value any) (schema.LevelMatcher, error) {
	switch t := value.(type) {
	case string:
		return schema.ParseLevel(t)
	case int:
		return schema.ParseLevel(fmt.Sprintf("%d", t))
	default:
		return schema.LevelMatcher{}, fmt.Errorf("%w: unknown level filter %v", apperrors.ErrInvalidArgument, value)
	}
}

func fieldOf(column string) func(models.Datapoint) string {
	switch column {
	case schema.ColModel:
		return func(d models.Datapoint) string { return d.Model }
	case schema.ColScenario:
		return func(d models.Datapoint) string { return d.Scenario }
	case schema.ColRegion:
		return func(d models.Datapoint) string { return d.Region }
	case schema.ColVariable:
		return func(d models.Datapoint) string { return d.Variable }
	default:
		return func(d models.Datapoint) string { return d.Unit }
	}
}

// compilePatterns builds a string matcher for one or more glob or regexp
// patterns; a row matches if any pattern matches.
func compilePatterns(column string, value any, useRegexp bool) (func(string) bool, error) {
	patterns, err := toStrings(column, value)
	if err != nil {
		return nil, err
	}
	var matchers []func(string) bool
	for _, p := range patterns {
		if useRegexp {
			re, err := regexp.Compile("^(?:" + p + ")")
			if err != nil {
				return nil, fmt.Errorf("%w: bad regexp %q for column %q: %v",
					apperrors.ErrInvalidArgument, p, column, err)
			}
			matchers = append(matchers, re.MatchString)
		} else {
			g, err := glob.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("%w: bad pattern %q for column %q: %v",
					apperrors.ErrInvalidArgument, p, column, err)
			}
			matchers = append(matchers, g.Match)
		}
	}
	return func(s string) bool {
		for _, m := range matchers {
			if m(s) {
				return true
			}
		}
		return false
	}, nil
}

func toStrings(column string, value any) ([]string, error) {
	if items, ok := asSlice(value); ok {
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, err := cast.ToStringE(item)
			if err != nil {
				return nil, fmt.Errorf("%w: non-string criterion %v for column %q",
					apperrors.ErrInvalidArgument, item, column)
			}
			out = append(out, s)
		}
		return out, nil
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return nil, fmt.Errorf("%w: non-string criterion %v for column %q",
			apperrors.ErrInvalidArgument, value, column)
	}
	return []string{s}, nil
}

func toFloats(column string, value any) ([]float64, error) {
	if items, ok := asSlice(value); ok {
		out := make([]float64, 0, len(items))
		for _, item := range items {
			v, err := cast.ToFloat64E(item)
			if err != nil {
				return nil, fmt.Errorf("%w: non-numeric criterion %v for column %q",
					apperrors.ErrInvalidArgument, item, column)
			}
			out = append(out, v)
		}
		return out, nil
	}
	v, err := cast.ToFloat64E(value)
	if err != nil {
		return nil, fmt.Errorf("%w: non-numeric criterion %v for column %q",
			apperrors.ErrInvalidArgument, value, column)
	}
	return []float64{v}, nil
}

// metaPredicate maps a raw criterion onto the tagged predicate variants:
// nil means is-set, a slice means membership, anything else equality.
func metaPredicate(value any) meta.Predicate {
	if value == nil {
		return meta.IsSet()
	}
	if items, ok := asSlice(value); ok {
		return meta.OneOf(items...)
	}
	return meta.Equals(value)
}

func asSlice(value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
