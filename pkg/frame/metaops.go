package frame

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/meta"
	"github.com/scenarioworks/scenario-engine/pkg/schema"
)

// SetMeta writes a metadata column on the receiver. Accepted shapes:
//   - a single scalar, broadcast to every entity;
//   - a slice, aligned positionally to the entity index (length must match);
//   - a map keyed by entity, which may cover a subset of the index.
//
// Alignment failures, unknown entities and duplicate indices fail with a
// value error before anything is written.
func (f *Frame) SetMeta(name string, value any) error {
	if name == "" {
		return fmt.Errorf("%w: metadata column name must not be empty", apperrors.ErrInvalidArgument)
	}

	if byEntity, ok := value.(map[meta.Entity]any); ok {
		index := make([]meta.Entity, 0, len(byEntity))
		for e := range byEntity {
			index = append(index, e)
		}
		sort.Slice(index, func(i, j int) bool {
			if index[i].Model != index[j].Model {
				return index[i].Model < index[j].Model
			}
			return index[i].Scenario < index[j].Scenario
		})
		// validate everything before the first write
		scalars := make([]meta.Scalar, len(index))
		for i, e := range index {
			if !f.meta.Contains(e) {
				return fmt.Errorf("%w: entity %s is not in the metadata index", apperrors.ErrInvalidArgument, e)
			}
			s, err := meta.FromAny(byEntity[e])
			if err != nil {
				return err
			}
			scalars[i] = s
		}
		for i, e := range index {
			if err := f.meta.Set(e, name, scalars[i]); err != nil {
				return err
			}
		}
		return nil
	}

	if items, ok := asSlice(value); ok {
		scalars := make([]meta.Scalar, len(items))
		for i, item := range items {
			s, err := meta.FromAny(item)
			if err != nil {
				return err
			}
			scalars[i] = s
		}
		return f.meta.SetSlice(name, scalars)
	}

	s, err := meta.FromAny(value)
	if err != nil {
		return err
	}
	f.meta.SetAll(name, s)
	return nil
}

// SetMetaAt broadcasts one value to the entities named by index, leaving
// other entities' cells untouched.
func (f *Frame) SetMetaAt(name string, value any, index []meta.Entity) error {
	s, err := meta.FromAny(value)
	if err != nil {
		return err
	}
	return f.meta.SetAt(name, s, index)
}

// excludeEntities flags the given entities in the receiver's metadata.
func (f *Frame) excludeEntities(entities map[meta.Entity]struct{}, reason string) {
	for e := range entities {
		f.meta.SetExclude(e, true)
	}
	if len(entities) > 0 {
		f.logger.Info("entities excluded", f.zapID(),
			zap.String("reason", reason), zap.Int("count", len(entities)))
	}
}

// FilterByMeta joins an external raw table to a frame's metadata on the
// entity columns and keeps rows whose metadata matches every predicate.
// Rows for entities absent from the frame's metadata are dropped. With
// joinMeta, the predicate columns are projected onto the result in sorted
// order.
func FilterByMeta(table *schema.Table, f *Frame, joinMeta bool, criteria map[string]meta.Predicate) (*schema.Table, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil table", apperrors.ErrInvalidArgument)
	}
	columns := schema.Normalize(table.Columns)
	modelIdx, scenarioIdx := -1, -1
	for i, c := range columns {
		switch c {
		case schema.ColModel:
			modelIdx = i
		case schema.ColScenario:
			scenarioIdx = i
		}
	}
	if modelIdx < 0 || scenarioIdx < 0 {
		return nil, fmt.Errorf("%w: table has no entity-index columns to join on", apperrors.ErrSchema)
	}

	names := make([]string, 0, len(criteria))
	for name := range criteria {
		if !f.meta.Has(name) {
			return nil, fmt.Errorf("%w: unknown metadata column %q", apperrors.ErrInvalidArgument, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	out := &schema.Table{Columns: append([]string{}, table.Columns...)}
	if joinMeta {
		out.Columns = append(out.Columns, names...)
	}

	for _, row := range table.Rows {
		if modelIdx >= len(row) || scenarioIdx >= len(row) {
			continue
		}
		e := meta.Entity{
			Model:    fmt.Sprintf("%v", row[modelIdx]),
			Scenario: fmt.Sprintf("%v", row[scenarioIdx]),
		}
		if !f.meta.Contains(e) {
			continue
		}
		matched := true
		for _, name := range names {
			if !criteria[name].Match(f.meta.Get(e, name)) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		kept := append([]any{}, row...)
		if joinMeta {
			for _, name := range names {
				kept = append(kept, f.meta.Get(e, name).Interface())
			}
		}
		out.Rows = append(out.Rows, kept)
	}
	return out, nil
}
