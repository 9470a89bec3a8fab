package frame

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/meta"
	"github.com/scenarioworks/scenario-engine/pkg/models"
	"github.com/scenarioworks/scenario-engine/pkg/schema"
)

// DiagnosticsPrefix marks variables carrying climate-model provenance in the
// yearly representation, as "Diagnostics|{model}|{variable}".
const DiagnosticsPrefix = "Diagnostics"

// ToContinuous converts a yearly frame to the continuous representation.
// Scenario labels become the composite "{scenario}|{model}". The model label
// is taken from the diagnostics prefix of the variable name when it carries
// one, with the prefix stripped from the variable; all other rows get the
// configured placeholder model. Any failure is reported as a ConversionError.
func (f *Frame) ToContinuous() (*Frame, error) {
	out, err := f.toContinuous()
	if err != nil {
		return nil, apperrors.NewConversionError("continuous", err)
	}
	f.logger.Debug("converted to continuous representation", f.zapID(), f.zapChild(out))
	return out, nil
}

func (f *Frame) toContinuous() (*Frame, error) {
	if f.axis != schema.AxisYears {
		return nil, fmt.Errorf("%w: frame is already in the continuous representation",
			apperrors.ErrInvalidArgument)
	}
	sep := f.cfg.Separator
	prefix := DiagnosticsPrefix + sep

	data := make([]models.Datapoint, len(f.data))
	for i, d := range f.data {
		row := d
		row.Scenario = d.Scenario + sep + d.Model
		row.Model = f.cfg.PlaceholderModel
		if rest, ok := strings.CutPrefix(d.Variable, prefix); ok {
			cut := strings.Index(rest, sep)
			if cut < 0 {
				return nil, fmt.Errorf("%w: diagnostic variable %q has no payload segment",
					apperrors.ErrSchema, d.Variable)
			}
			row.Model = rest[:cut]
			row.Variable = rest[cut+len(sep):]
		}
		data[i] = row
	}

	metaTable, err := f.remapMeta(entitiesOf(data), func(e meta.Entity) (meta.Entity, error) {
		scenario, model, err := splitComposite(e.Scenario, sep)
		if err != nil {
			return meta.Entity{}, err
		}
		return meta.Entity{Model: model, Scenario: scenario}, nil
	})
	if err != nil {
		return nil, err
	}
	return f.withAxis(schema.AxisContinuous, data, metaTable), nil
}

// ToDiscrete converts a continuous frame to the yearly representation. The
// composite scenario label is split back into (scenario, model); variables
// from a non-placeholder model are re-prefixed with the diagnostics prefix
// unless they already carry it. Time coordinates are rounded to whole years,
// so fractional times lose precision. Any failure is reported as a
// ConversionError.
func (f *Frame) ToDiscrete() (*Frame, error) {
	out, err := f.toDiscrete()
	if err != nil {
		return nil, apperrors.NewConversionError("yearly", err)
	}
	f.logger.Debug("converted to yearly representation", f.zapID(), f.zapChild(out))
	return out, nil
}

func (f *Frame) toDiscrete() (*Frame, error) {
	if f.axis != schema.AxisContinuous {
		return nil, fmt.Errorf("%w: frame is already in the yearly representation",
			apperrors.ErrInvalidArgument)
	}
	sep := f.cfg.Separator

	data := make([]models.Datapoint, len(f.data))
	for i, d := range f.data {
		scenario, model, err := splitComposite(d.Scenario, sep)
		if err != nil {
			return nil, err
		}
		row := d
		row.Scenario = scenario
		row.Model = model
		row.Time = math.Round(d.Time)
		if d.Model != f.cfg.PlaceholderModel {
			prefix := DiagnosticsPrefix + sep + d.Model + sep
			if !strings.HasPrefix(d.Variable, prefix) {
				row.Variable = prefix + d.Variable
			}
		}
		data[i] = row
	}

	// pre-validate composite keys so the reindex cannot see a malformed one
	for _, e := range f.meta.Entities() {
		if _, _, err := splitComposite(e.Scenario, sep); err != nil {
			return nil, err
		}
	}
	metaTable, err := f.meta.Reindex(func(e meta.Entity) meta.Entity {
		scenario, model, _ := splitComposite(e.Scenario, sep)
		return meta.Entity{Model: model, Scenario: scenario}
	})
	if err != nil {
		return nil, err
	}
	return f.withAxis(schema.AxisYears, data, metaTable), nil
}

// remapMeta builds a metadata table over the converted entity index, pulling
// each new entity's row from its source entity resolved by source.
func (f *Frame) remapMeta(entities []meta.Entity, source func(meta.Entity) (meta.Entity, error)) (*meta.Table, error) {
	out := meta.NewTable(entities)
	for _, e := range entities {
		src, err := source(e)
		if err != nil {
			return nil, err
		}
		if !f.meta.Contains(src) {
			return nil, fmt.Errorf("%w: entity %s has no metadata row", apperrors.ErrConflict, src)
		}
		out.SetExclude(e, f.meta.Excluded(src))
		for _, column := range f.meta.Columns() {
			if column == meta.ExcludeColumn {
				continue
			}
			if err := out.Set(e, column, f.meta.Get(src, column)); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// withAxis builds the converted frame; unlike derive it changes the time
// representation.
func (f *Frame) withAxis(axis schema.Axis, data []models.Datapoint, metaTable *meta.Table) *Frame {
	sortData(data)
	return &Frame{
		axis:   axis,
		cfg:    f.cfg,
		data:   data,
		meta:   metaTable,
		id:     uuid.New(),
		logger: f.logger,
	}
}

// splitComposite splits a composite "{scenario}|{model}" label on its last
// separator.
func splitComposite(composite, sep string) (scenario, model string, err error) {
	cut := strings.LastIndex(composite, sep)
	if cut < 0 {
		return "", "", fmt.Errorf("%w: malformed composite scenario %q",
			apperrors.ErrSchema, composite)
	}
	return composite[:cut], composite[cut+len(sep):], nil
}
