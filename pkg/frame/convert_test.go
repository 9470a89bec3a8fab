package frame_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/frame"
	"github.com/scenarioworks/scenario-engine/pkg/meta"
	"github.com/scenarioworks/scenario-engine/pkg/models"
	"github.com/scenarioworks/scenario-engine/pkg/schema"
	"github.com/scenarioworks/scenario-engine/pkg/testhelpers"
)

func TestToContinuous(t *testing.T) {
	f := testhelpers.DiagnosticsFrame(t)
	got, err := f.ToContinuous()
	require.NoError(t, err)
	assert.Equal(t, schema.AxisContinuous, got.Axis())

	assert.Equal(t, []string{"N/A", "c_model"}, got.Models())
	assert.Equal(t, []string{"a_scenario|a_model"}, got.Scenarios())
	assert.Equal(t, []string{
		"Atmospheric Concentrations|CO2",
		"Emissions|CO2",
		"Emissions|CO2|Coal",
		"Surface Temperature",
	}, got.Variables())

	diag, err := got.Filter(frame.Criteria{"model": "c_model", "variable": "Emissions|CO2"})
	require.NoError(t, err)
	require.Equal(t, 2, diag.Len())
	assert.Equal(t, 0.5, diag.Data()[0].Value)

	plain, err := got.Filter(frame.Criteria{"model": "N/A", "variable": "Emissions|CO2"})
	require.NoError(t, err)
	require.Equal(t, 2, plain.Len())
}

func TestToDiscrete(t *testing.T) {
	rows := []models.Datapoint{
		{Model: "c_model", Scenario: "a_scenario|a_model", Region: "World", Variable: "Surface Temperature", Unit: "K", Time: 2005, Value: 0.9},
		{Model: "N/A", Scenario: "a_scenario|a_model", Region: "World", Variable: "Emissions|CO2", Unit: "Gt C / yr", Time: 2010, Value: 3.0},
	}
	f, err := frame.FromDatapoints(rows, schema.AxisContinuous)
	require.NoError(t, err)

	got, err := f.ToDiscrete()
	require.NoError(t, err)
	assert.Equal(t, schema.AxisYears, got.Axis())
	assert.Equal(t, []string{"a_model"}, got.Models())
	assert.Equal(t, []string{"a_scenario"}, got.Scenarios())
	assert.Equal(t, []string{
		"Diagnostics|c_model|Surface Temperature",
		"Emissions|CO2",
	}, got.Variables())
}

func TestToDiscreteRoundsFractionalTimes(t *testing.T) {
	rows := []models.Datapoint{
		{Model: "N/A", Scenario: "s|m", Region: "World", Variable: "v", Unit: "u", Time: 2005.4, Value: 1},
	}
	f, err := frame.FromDatapoints(rows, schema.AxisContinuous)
	require.NoError(t, err)

	got, err := f.ToDiscrete()
	require.NoError(t, err)
	assert.Equal(t, []float64{2005}, got.Times())
}

func TestConversionRoundTrip(t *testing.T) {
	f := testhelpers.DiagnosticsFrame(t)
	require.NoError(t, f.SetMeta("category", "bau"))
	f.Meta().SetExclude(meta.Entity{Model: "a_model", Scenario: "a_scenario"}, true)

	cont, err := f.ToContinuous()
	require.NoError(t, err)
	back, err := cont.ToDiscrete()
	require.NoError(t, err)

	assert.Equal(t, f.Data(), back.Data())
	e := meta.Entity{Model: "a_model", Scenario: "a_scenario"}
	assert.Equal(t, "bau", back.Meta().Get(e, "category").AsString())
	assert.True(t, back.Meta().Excluded(e))
}

func TestConversionWrongDirectionFails(t *testing.T) {
	f := testhelpers.BasicFrame(t)
	_, err := f.ToDiscrete()
	require.Error(t, err)
	var ce *apperrors.ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "yearly", ce.Target)
	assert.Contains(t, ce.Message, "already in the yearly representation")
	assert.NotEmpty(t, ce.Trace)

	c := testhelpers.ContinuousFrame(t)
	_, err = c.ToContinuous()
	require.Error(t, err)
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "continuous", ce.Target)
}

func TestToDiscreteMalformedCompositeFails(t *testing.T) {
	rows := []models.Datapoint{
		{Model: "N/A", Scenario: "no_separator", Region: "World", Variable: "v", Unit: "u", Time: 2005, Value: 1},
	}
	f, err := frame.FromDatapoints(rows, schema.AxisContinuous)
	require.NoError(t, err)

	_, err = f.ToDiscrete()
	require.Error(t, err)
	var ce *apperrors.ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Message, "malformed composite scenario")
}
