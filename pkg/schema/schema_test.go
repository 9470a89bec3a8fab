package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/models"
)

func wideTable() *Table {
	return &Table{
		Columns: []string{"Model", " Scenario", "region", "variable", "unit", "2005", "2010"},
		Rows: [][]any{
			{"a_model", "a_scenario", "World", "Primary Energy", "EJ/y", 1, 6},
			{"a_model", "a_scenario", "World", "Primary Energy|Coal", "EJ/y", 0.5, 3},
		},
	}
}

func TestParseWideTable(t *testing.T) {
	data, err := Parse(wideTable(), AxisYears)
	require.NoError(t, err)
	require.Len(t, data, 4)

	assert.Equal(t, models.Datapoint{
		Model: "a_model", Scenario: "a_scenario", Region: "World",
		Variable: "Primary Energy", Unit: "EJ/y", Time: 2005, Value: 1,
	}, data[0])
	assert.Equal(t, 3.0, data[3].Value)
	assert.Equal(t, 2010.0, data[3].Time)
}

func TestParseLongTable(t *testing.T) {
	long := &Table{
		Columns: []string{"model", "scenario", "region", "variable", "unit", "year", "value"},
		Rows: [][]any{
			{"a_model", "a_scenario", "World", "Primary Energy", "EJ/y", 2005, 1.0},
			{"a_model", "a_scenario", "World", "Primary Energy", "EJ/y", 2010, 6.0},
		},
	}
	data, err := Parse(long, AxisYears)
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Equal(t, 2010.0, data[1].Time)
}

func TestParseFloatYearLabelsRejectedOnYearsAxis(t *testing.T) {
	table := wideTable()
	table.Columns[5] = "2005.5"

	_, err := Parse(table, AxisYears)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSchema)
}

func TestParseFloatYearLabelsAcceptedOnContinuousAxis(t *testing.T) {
	table := wideTable()
	table.Columns[5] = "2005.5"

	data, err := Parse(table, AxisContinuous)
	require.NoError(t, err)
	assert.Equal(t, 2005.5, data[0].Time)
}

func TestParseWholeFloatYearLabels(t *testing.T) {
	table := wideTable()
	table.Columns[5], table.Columns[6] = "2005.0", "2010.0"

	data, err := Parse(table, AxisYears)
	require.NoError(t, err)
	assert.Equal(t, 2005.0, data[0].Time)
}

func TestParseMissingKeyColumns(t *testing.T) {
	table := &Table{
		Columns: []string{"model", "scenario", "2005"},
		Rows:    [][]any{{"m", "s", 1}},
	}
	_, err := Parse(table, AxisYears)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSchema)
	assert.Contains(t, err.Error(), "region")
}

func TestParseLongTimeColumnAlias(t *testing.T) {
	long := &Table{
		Columns: []string{"model", "scenario", "region", "variable", "unit", "time", "value"},
		Rows: [][]any{
			{"c_model", "a_scenario|a_model", "World", "Surface Temperature", "K", 2005.5, 0.9},
		},
	}
	data, err := Parse(long, AxisContinuous)
	require.NoError(t, err)
	assert.Equal(t, 2005.5, data[0].Time)
}

func TestDepth(t *testing.T) {
	assert.Equal(t, 0, Depth("Primary Energy", "|"))
	assert.Equal(t, 1, Depth("Primary Energy|Coal", "|"))
	assert.Equal(t, 2, Depth("Emissions|CO2|Coal", "|"))
}

func TestParentOf(t *testing.T) {
	assert.Equal(t, "Primary Energy", ParentOf("Primary Energy|Coal", "|"))
	assert.Equal(t, "Primary Energy|Coal", ParentOf("Primary Energy|Coal|Lignite", "|"))
	assert.Equal(t, "", ParentOf("Primary Energy", "|"))
}

func TestIsDirectChild(t *testing.T) {
	assert.True(t, IsDirectChild("Primary Energy|Coal", "Primary Energy", "|"))
	assert.False(t, IsDirectChild("Primary Energy|Coal|Lignite", "Primary Energy", "|"))
	assert.False(t, IsDirectChild("Primary Energy", "Primary Energy", "|"))
}

func TestParseLevel(t *testing.T) {
	exact, err := ParseLevel("1")
	require.NoError(t, err)
	assert.False(t, exact.Match(0))
	assert.True(t, exact.Match(1))
	assert.False(t, exact.Match(2))

	atMost, err := ParseLevel("1-")
	require.NoError(t, err)
	assert.True(t, atMost.Match(0))
	assert.True(t, atMost.Match(1))
	assert.False(t, atMost.Match(2))

	atLeast, err := ParseLevel("1+")
	require.NoError(t, err)
	assert.False(t, atLeast.Match(0))
	assert.True(t, atLeast.Match(1))
	assert.True(t, atLeast.Match(2))
}

func TestParseLevelBadSuffix(t *testing.T) {
	_, err := ParseLevel("1/")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}
