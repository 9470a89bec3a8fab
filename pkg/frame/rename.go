package frame

import (
	"fmt"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/meta"
	"github.com/scenarioworks/scenario-engine/pkg/models"
	"github.com/scenarioworks/scenario-engine/pkg/schema"
)

// Rename remaps values of index columns per an explicit old-to-new mapping,
// keyed column name -> old value -> new value.
//
// Renaming non-entity columns (region, variable, unit) may consolidate
// several series onto one key; rows that collide on (full index, time) are
// summed. Renaming entity columns (model, scenario) may collapse two
// entities onto the same key: that succeeds only when the collapsed rows
// carry no conflicting data (duplicate coordinates with equal values merge
// silently, differing values fail) and the entities' metadata can be
// reconciled.
func (f *Frame) Rename(mapping map[string]map[string]string) (*Frame, error) {
	entityRename := false
	otherRename := false
	for column := range mapping {
		switch column {
		case schema.ColModel, schema.ColScenario:
			entityRename = true
		case schema.ColRegion, schema.ColVariable, schema.ColUnit:
			otherRename = true
		default:
			return nil, fmt.Errorf("%w: renaming column %q not supported", apperrors.ErrInvalidArgument, column)
		}
	}

	remap := func(column, value string) string {
		if m, ok := mapping[column]; ok {
			if newValue, ok := m[value]; ok {
				return newValue
			}
		}
		return value
	}

	renamed := make([]models.Datapoint, len(f.data))
	for i, d := range f.data {
		d.Model = remap(schema.ColModel, d.Model)
		d.Scenario = remap(schema.ColScenario, d.Scenario)
		d.Region = remap(schema.ColRegion, d.Region)
		d.Variable = remap(schema.ColVariable, d.Variable)
		d.Unit = remap(schema.ColUnit, d.Unit)
		renamed[i] = d
	}

	// Collapse colliding coordinates. Non-entity consolidation sums;
	// pure entity renames merge equal values and reject differing ones.
	index := make(map[rowKey]int, len(renamed))
	var merged []models.Datapoint
	for _, d := range renamed {
		k := keyOf(d)
		i, ok := index[k]
		if !ok {
			index[k] = len(merged)
			merged = append(merged, d)
			continue
		}
		switch {
		case otherRename:
			merged[i].Value += d.Value
		case merged[i].Value == d.Value:
			// identical duplicate, drop
		default:
			if entityRename {
				return nil, fmt.Errorf(
					"%w: rename collapses entities with conflicting data at %s/%s %s %s (%v)",
					apperrors.ErrConflict, d.Model, d.Scenario, d.Region, d.Variable, d.Time)
			}
			return nil, fmt.Errorf("%w: rename produces conflicting duplicate rows", apperrors.ErrConflict)
		}
	}

	metaTable := f.meta
	if entityRename {
		reindexed, err := f.meta.Reindex(func(e meta.Entity) meta.Entity {
			return meta.Entity{
				Model:    remap(schema.ColModel, e.Model),
				Scenario: remap(schema.ColScenario, e.Scenario),
			}
		})
		if err != nil {
			return nil, err
		}
		metaTable = reindexed
	} else {
		metaTable = f.meta.Clone()
	}

	out := f.derive(merged, metaTable)
	f.logger.Debug("frame renamed", f.zapID(), f.zapChild(out), f.zapRows(len(merged)))
	return out, nil
}
