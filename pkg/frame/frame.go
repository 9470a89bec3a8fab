// Package frame implements the scenario-data container: a long-format table
// of time-indexed trajectories paired with a per-(model, scenario) metadata
// table, kept consistent under every mutating operation. A frame exists in
// two time representations, whole-number years and continuous time, with an
// explicit converter between them.
package frame

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/config"
	"github.com/scenarioworks/scenario-engine/pkg/meta"
	"github.com/scenarioworks/scenario-engine/pkg/models"
	"github.com/scenarioworks/scenario-engine/pkg/schema"
)

// Frame owns one long-format data table and one metadata table. Mutating
// operations never touch the receiver: they return a fresh frame with its
// own data and metadata. Metadata accretion (SetMeta, exclude-on-fail,
// Categorize) updates the receiver's metadata in place.
type Frame struct {
	axis   schema.Axis
	cfg    *config.Config
	data   []models.Datapoint
	meta   *meta.Table
	id     uuid.UUID
	logger *zap.Logger
}

// Option configures a frame at construction time.
type Option func(*Frame)

// WithLogger attaches a zap logger; nil keeps the no-op default.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Frame) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithConfig overrides the engine defaults.
func WithConfig(cfg *config.Config) Option {
	return func(f *Frame) {
		if cfg != nil {
			f.cfg = cfg
		}
	}
}

// New builds a frame from a raw table (long or wide layout) on the given
// time axis. The metadata table is initialized from the distinct
// (model, scenario) pairs of the data, all with exclude=false.
func New(table *schema.Table, axis schema.Axis, opts ...Option) (*Frame, error) {
	data, err := schema.Parse(table, axis)
	if err != nil {
		return nil, err
	}
	return FromDatapoints(data, axis, opts...)
}

// FromDatapoints builds a frame from already-parsed long-format rows. Time
// coordinates are validated against the axis.
func FromDatapoints(data []models.Datapoint, axis schema.Axis, opts ...Option) (*Frame, error) {
	f := &Frame{
		axis:   axis,
		cfg:    config.Default(),
		id:     uuid.New(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.data = make([]models.Datapoint, len(data))
	copy(f.data, data)
	for i := range f.data {
		t, err := axis.CastTime(f.data[i].Time)
		if err != nil {
			return nil, err
		}
		f.data[i].Time = t
	}
	sortData(f.data)
	f.meta = meta.NewTable(entitiesOf(f.data))

	f.logger.Debug("frame constructed",
		zap.String("frame_id", f.id.String()),
		zap.Stringer("axis", axis),
		zap.Int("rows", len(f.data)),
		zap.Int("entities", f.meta.Len()))
	return f, nil
}

// derive builds a child frame sharing axis, config and logger, with a fresh
// identity. The data slice is adopted, not copied; callers pass ownership.
func (f *Frame) derive(data []models.Datapoint, metaTable *meta.Table) *Frame {
	sortData(data)
	return &Frame{
		axis:   f.axis,
		cfg:    f.cfg,
		data:   data,
		meta:   metaTable,
		id:     uuid.New(),
		logger: f.logger,
	}
}

// Axis returns the frame's time representation.
func (f *Frame) Axis() schema.Axis { return f.axis }

// ID returns the frame's identity, attached to its log lines.
func (f *Frame) ID() uuid.UUID { return f.id }

// Len returns the number of long-format rows.
func (f *Frame) Len() int { return len(f.data) }

// Data returns a copy of the long-format rows in canonical order.
func (f *Frame) Data() []models.Datapoint {
	out := make([]models.Datapoint, len(f.data))
	copy(out, f.data)
	return out
}

// Meta returns the live metadata table. The table's entity index always
// matches the distinct entities of the data.
func (f *Frame) Meta() *meta.Table { return f.meta }

// Entities returns the distinct (model, scenario) pairs of the data.
func (f *Frame) Entities() []meta.Entity {
	return entitiesOf(f.data)
}

// Models returns the sorted distinct model names.
func (f *Frame) Models() []string {
	return f.distinct(func(d models.Datapoint) string { return d.Model })
}

// Scenarios returns the sorted distinct scenario names.
func (f *Frame) Scenarios() []string {
	return f.distinct(func(d models.Datapoint) string { return d.Scenario })
}

// Regions returns the sorted distinct region names.
func (f *Frame) Regions() []string {
	return f.distinct(func(d models.Datapoint) string { return d.Region })
}

// Variables returns the sorted distinct variable names.
func (f *Frame) Variables() []string {
	return f.distinct(func(d models.Datapoint) string { return d.Variable })
}

// VariablesWithUnits returns the sorted distinct (variable, unit) pairs.
func (f *Frame) VariablesWithUnits() []models.VariableUnit {
	seen := make(map[models.VariableUnit]struct{})
	var out []models.VariableUnit
	for _, d := range f.data {
		vu := models.VariableUnit{Variable: d.Variable, Unit: d.Unit}
		if _, ok := seen[vu]; ok {
			continue
		}
		seen[vu] = struct{}{}
		out = append(out, vu)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Variable != out[j].Variable {
			return out[i].Variable < out[j].Variable
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}

// Times returns the sorted distinct time coordinates.
func (f *Frame) Times() []float64 {
	seen := make(map[float64]struct{})
	var out []float64
	for _, d := range f.data {
		if _, ok := seen[d.Time]; ok {
			continue
		}
		seen[d.Time] = struct{}{}
		out = append(out, d.Time)
	}
	sort.Float64s(out)
	return out
}

// Timeseries pivots the data into wide rows: one row per series key, values
// keyed by time coordinate. Rows are returned in canonical index order.
func (f *Frame) Timeseries() []models.TimeseriesRow {
	index := make(map[models.SeriesKey]int)
	var rows []models.TimeseriesRow
	for _, d := range f.data {
		key := d.SeriesKey()
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, models.TimeseriesRow{
				Model:    key.Model,
				Scenario: key.Scenario,
				Region:   key.Region,
				Variable: key.Variable,
				Unit:     key.Unit,
				Values:   make(map[float64]float64),
			})
		}
		rows[i].Values[d.Time] = d.Value
	}
	return rows
}

// ValidateConsistency checks the container invariant directly: every
// distinct entity of the data must have a metadata row. Entities retained
// by explicit metadata edits may exceed the data's entities.
func (f *Frame) ValidateConsistency() error {
	for _, e := range entitiesOf(f.data) {
		if !f.meta.Contains(e) {
			return fmt.Errorf("%w: entity %s has data but no metadata row", apperrors.ErrConflict, e)
		}
	}
	return nil
}

func (f *Frame) distinct(field func(models.Datapoint) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, d := range f.data {
		v := field(d)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func entitiesOf(data []models.Datapoint) []meta.Entity {
	seen := make(map[meta.Entity]struct{})
	var out []meta.Entity
	for _, d := range data {
		e := meta.Entity{Model: d.Model, Scenario: d.Scenario}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}

// sortData orders rows by the full long-format index, time last.
func sortData(data []models.Datapoint) {
	sort.SliceStable(data, func(i, j int) bool {
		a, b := data[i], data[j]
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		if a.Scenario != b.Scenario {
			return a.Scenario < b.Scenario
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Variable != b.Variable {
			return a.Variable < b.Variable
		}
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		return a.Time < b.Time
	})
}

// rowKey identifies one (full index, time) coordinate for duplicate checks.
type rowKey struct {
	key  models.SeriesKey
	time float64
}

func keyOf(d models.Datapoint) rowKey {
	return rowKey{key: d.SeriesKey(), time: d.Time}
}
