package meta

import (
	"fmt"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
)

// ExcludeColumn is the boolean flag column present on every metadata table.
const ExcludeColumn = "exclude"

// Entity is a (model, scenario) pair, the primary key of the metadata table.
type Entity struct {
	Model    string
	Scenario string
}

func (e Entity) String() string {
	return e.Model + "/" + e.Scenario
}

// Table holds per-entity scalar metadata: a unique, ordered entity index and
// a set of named columns accreted over the table's life. The exclude column
// always exists and defaults to false.
type Table struct {
	entities []Entity
	columns  []string
	cells    map[Entity]map[string]Scalar
}

// NewTable builds a metadata table for the given entity index, dropping
// duplicates while preserving first-appearance order. Every entity starts
// with exclude=false.
func NewTable(entities []Entity) *Table {
	t := &Table{
		columns: []string{ExcludeColumn},
		cells:   make(map[Entity]map[string]Scalar, len(entities)),
	}
	for _, e := range entities {
		if _, ok := t.cells[e]; ok {
			continue
		}
		t.entities = append(t.entities, e)
		t.cells[e] = map[string]Scalar{ExcludeColumn: Bool(false)}
	}
	return t
}

// Entities returns the entity index in order.
func (t *Table) Entities() []Entity {
	out := make([]Entity, len(t.entities))
	copy(out, t.entities)
	return out
}

// Columns returns the column names in accretion order, exclude first.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of entities.
func (t *Table) Len() int { return len(t.entities) }

// Has reports whether the table carries the named column.
func (t *Table) Has(column string) bool {
	for _, c := range t.columns {
		if c == column {
			return true
		}
	}
	return false
}

// Contains reports whether the entity is part of the index.
func (t *Table) Contains(e Entity) bool {
	_, ok := t.cells[e]
	return ok
}

// Get returns the cell for an entity and column; the missing sentinel when
// either is absent.
func (t *Table) Get(e Entity, column string) Scalar {
	row, ok := t.cells[e]
	if !ok {
		return Missing()
	}
	return row[column]
}

// Column returns the named column's cells aligned to the entity index.
func (t *Table) Column(column string) []Scalar {
	out := make([]Scalar, len(t.entities))
	for i, e := range t.entities {
		out[i] = t.cells[e][column]
	}
	return out
}

// Excluded reports the exclude flag for an entity.
func (t *Table) Excluded(e Entity) bool {
	return t.Get(e, ExcludeColumn).AsBool()
}

// SetExclude sets the exclude flag for an entity already in the index.
func (t *Table) SetExclude(e Entity, excluded bool) {
	if row, ok := t.cells[e]; ok {
		row[ExcludeColumn] = Bool(excluded)
	}
}

// Set writes a cell, registering the column on first use. The entity must be
// part of the index.
func (t *Table) Set(e Entity, column string, value Scalar) error {
	row, ok := t.cells[e]
	if !ok {
		return fmt.Errorf("%w: entity %s is not in the metadata index", apperrors.ErrInvalidArgument, e)
	}
	t.ensureColumn(column)
	row[column] = value
	return nil
}

// SetAll broadcasts one value to every entity.
func (t *Table) SetAll(column string, value Scalar) {
	t.ensureColumn(column)
	for _, row := range t.cells {
		row[column] = value
	}
}

// SetSlice assigns values positionally against the entity index. The slice
// length must match the index exactly.
func (t *Table) SetSlice(column string, values []Scalar) error {
	if len(values) != len(t.entities) {
		return fmt.Errorf("%w: %d values cannot be aligned to %d entities",
			apperrors.ErrInvalidArgument, len(values), len(t.entities))
	}
	t.ensureColumn(column)
	for i, e := range t.entities {
		t.cells[e][column] = values[i]
	}
	return nil
}

// SetAt broadcasts one value to the entities named by index, leaving the
// rest of the column untouched (missing if the column is new). The index
// must be unique and a subset of the table's entities.
func (t *Table) SetAt(column string, value Scalar, index []Entity) error {
	seen := make(map[Entity]struct{}, len(index))
	for _, e := range index {
		if _, dup := seen[e]; dup {
			return fmt.Errorf("%w: duplicate entity %s in metadata index", apperrors.ErrInvalidArgument, e)
		}
		seen[e] = struct{}{}
		if !t.Contains(e) {
			return fmt.Errorf("%w: entity %s is not in the metadata index", apperrors.ErrInvalidArgument, e)
		}
	}
	t.ensureColumn(column)
	for _, e := range index {
		t.cells[e][column] = value
	}
	return nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		entities: make([]Entity, len(t.entities)),
		columns:  make([]string, len(t.columns)),
		cells:    make(map[Entity]map[string]Scalar, len(t.cells)),
	}
	copy(out.entities, t.entities)
	copy(out.columns, t.columns)
	for e, row := range t.cells {
		clone := make(map[string]Scalar, len(row))
		for c, v := range row {
			clone[c] = v
		}
		out.cells[e] = clone
	}
	return out
}

// Restrict returns a copy keeping only the given entities (in the given
// order), preserving their cells. Unknown entities are ignored.
func (t *Table) Restrict(entities []Entity) *Table {
	out := &Table{
		columns: make([]string, len(t.columns)),
		cells:   make(map[Entity]map[string]Scalar),
	}
	copy(out.columns, t.columns)
	for _, e := range entities {
		row, ok := t.cells[e]
		if !ok {
			continue
		}
		if _, dup := out.cells[e]; dup {
			continue
		}
		clone := make(map[string]Scalar, len(row))
		for c, v := range row {
			clone[c] = v
		}
		out.entities = append(out.entities, e)
		out.cells[e] = clone
	}
	return out
}

// Reindex returns a copy with entities remapped through rename. Collapsing
// two entities onto one key reconciles their rows: non-conflicting cells
// merge, conflicting non-missing cells fail with a conflict error.
func (t *Table) Reindex(rename func(Entity) Entity) (*Table, error) {
	out := &Table{
		columns: make([]string, len(t.columns)),
		cells:   make(map[Entity]map[string]Scalar),
	}
	copy(out.columns, t.columns)
	for _, e := range t.entities {
		target := rename(e)
		row := t.cells[e]
		existing, ok := out.cells[target]
		if !ok {
			clone := make(map[string]Scalar, len(row))
			for c, v := range row {
				clone[c] = v
			}
			out.entities = append(out.entities, target)
			out.cells[target] = clone
			continue
		}
		for c, v := range row {
			cur, has := existing[c]
			switch {
			case !has || cur.IsMissing():
				existing[c] = v
			case v.IsMissing() || cur.Equal(v):
				// keep existing
			default:
				return nil, fmt.Errorf("%w: metadata column %q disagrees for collapsed entity %s (%s vs %s)",
					apperrors.ErrConflict, c, target, cur, v)
			}
		}
	}
	return out, nil
}

// Merge unions two tables for append: entities unique to either side pass
// through; shared entities must agree on every shared non-missing cell
// unless preferLeft suppresses the conflict by keeping the receiver's value.
func (t *Table) Merge(other *Table, preferLeft bool) (*Table, error) {
	out := t.Clone()
	for _, c := range other.columns {
		out.ensureColumn(c)
	}
	for _, e := range other.entities {
		row := other.cells[e]
		existing, ok := out.cells[e]
		if !ok {
			clone := make(map[string]Scalar, len(row))
			for c, v := range row {
				clone[c] = v
			}
			out.entities = append(out.entities, e)
			out.cells[e] = clone
			continue
		}
		for c, v := range row {
			cur := existing[c]
			switch {
			case cur.IsMissing():
				existing[c] = v
			case v.IsMissing() || cur.Equal(v):
				// keep existing
			case preferLeft:
				// conflict suppressed, left side wins
			default:
				return nil, fmt.Errorf("%w: metadata column %q disagrees for entity %s (%s vs %s)",
					apperrors.ErrConflict, c, e, cur, v)
			}
		}
	}
	return out, nil
}

func (t *Table) ensureColumn(column string) {
	if !t.Has(column) {
		t.columns = append(t.columns, column)
	}
}
