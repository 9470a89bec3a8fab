package frame

import (
	"fmt"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/models"
)

// RegionOption adjusts region-mapping behavior.
type RegionOption func(*regionOptions)

type regionOptions struct {
	agg              string
	removeDuplicates bool
}

// WithAggregation sets the aggregation method applied when several source
// regions collapse onto one target (models.AggSum).
func WithAggregation(agg string) RegionOption {
	return func(o *regionOptions) { o.agg = agg }
}

// RemoveDuplicates keeps only the first target region for sources that map
// one-to-many.
func RemoveDuplicates() RegionOption {
	return func(o *regionOptions) { o.removeDuplicates = true }
}

// MapRegions replaces region labels through an external mapping. Rows whose
// region has no mapping are dropped. A source mapping to several targets
// duplicates its rows per target unless RemoveDuplicates keeps the first.
// Several sources collapsing onto one target require an aggregation method;
// colliding rows without one fail with a value error.
func (f *Frame) MapRegions(links []models.RegionLink, opts ...RegionOption) (*Frame, error) {
	o := regionOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.agg != models.AggNone && o.agg != models.AggSum {
		return nil, fmt.Errorf("%w: unknown aggregation method %q", apperrors.ErrInvalidArgument, o.agg)
	}

	targets := make(map[string][]string)
	for _, l := range links {
		if o.removeDuplicates && len(targets[l.From]) > 0 {
			continue
		}
		targets[l.From] = append(targets[l.From], l.To)
	}

	var mapped []models.Datapoint
	for _, d := range f.data {
		for _, to := range targets[d.Region] {
			row := d
			row.Region = to
			mapped = append(mapped, row)
		}
	}

	// collapse many-to-one collisions
	index := make(map[rowKey]int, len(mapped))
	var out []models.Datapoint
	for _, d := range mapped {
		k := keyOf(d)
		i, ok := index[k]
		if !ok {
			index[k] = len(out)
			out = append(out, d)
			continue
		}
		if o.agg != models.AggSum {
			return nil, fmt.Errorf(
				"%w: regions collapse onto %q without an aggregation method",
				apperrors.ErrInvalidArgument, d.Region)
		}
		out[i].Value += d.Value
	}

	result := f.derive(out, f.meta.Restrict(entitiesOf(out)))
	f.logger.Debug("regions mapped", f.zapID(), f.zapChild(result), f.zapRows(len(out)))
	return result, nil
}

// MapRegionsBy resolves a columnar region mapping onto (from, to) columns
// and applies it, covering the name-keyed mapping sources.
func (f *Frame) MapRegionsBy(mapping *models.RegionMapping, fromCol, toCol string, opts ...RegionOption) (*Frame, error) {
	if mapping == nil {
		return nil, fmt.Errorf("%w: nil region mapping", apperrors.ErrInvalidArgument)
	}
	links, err := mapping.Links(fromCol, toCol)
	if err != nil {
		return nil, err
	}
	return f.MapRegions(links, opts...)
}
