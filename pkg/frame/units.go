package frame

import (
	"github.com/scenarioworks/scenario-engine/pkg/models"
)

// ConvertUnit rewrites unit labels and scales matching values, keyed by the
// old unit. Rows with unmapped units pass through unchanged.
func (f *Frame) ConvertUnit(conversions map[string]models.UnitConversion) *Frame {
	data := make([]models.Datapoint, len(f.data))
	copy(data, f.data)
	for i := range data {
		if conv, ok := conversions[data[i].Unit]; ok {
			data[i].Unit = conv.To
			data[i].Value *= conv.Factor
		}
	}
	out := f.derive(data, f.meta.Clone())
	f.logger.Debug("units converted", f.zapID(), f.zapChild(out))
	return out
}
