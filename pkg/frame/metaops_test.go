package frame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/frame"
	"github.com/scenarioworks/scenario-engine/pkg/meta"
	"github.com/scenarioworks/scenario-engine/pkg/schema"
	"github.com/scenarioworks/scenario-engine/pkg/testhelpers"
)

func TestSetMetaScalarBroadcast(t *testing.T) {
	f := testhelpers.TwoScenarioFrame(t)
	require.NoError(t, f.SetMeta("number", 1.0))
	for _, e := range f.Entities() {
		assert.Equal(t, 1.0, f.Meta().Get(e, "number").AsNumber())
	}
}

func TestSetMetaPositionalSlice(t *testing.T) {
	f := testhelpers.TwoScenarioFrame(t)
	require.NoError(t, f.SetMeta("category", []any{"low", "high"}))
	assert.Equal(t, "low", f.Meta().Get(meta.Entity{Model: "a_model", Scenario: "a_scenario"}, "category").AsString())
	assert.Equal(t, "high", f.Meta().Get(meta.Entity{Model: "a_model", Scenario: "a_scenario2"}, "category").AsString())
}

func TestSetMetaSliceLengthMismatch(t *testing.T) {
	f := testhelpers.TwoScenarioFrame(t)
	err := f.SetMeta("category", []any{"only one"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestSetMetaByEntitySubset(t *testing.T) {
	f := testhelpers.TwoScenarioFrame(t)
	e2 := meta.Entity{Model: "a_model", Scenario: "a_scenario2"}
	require.NoError(t, f.SetMeta("category", map[meta.Entity]any{e2: "high"}))
	assert.Equal(t, "high", f.Meta().Get(e2, "category").AsString())
	assert.True(t, f.Meta().Get(meta.Entity{Model: "a_model", Scenario: "a_scenario"}, "category").IsMissing())
}

func TestSetMetaUnknownEntityFails(t *testing.T) {
	f := testhelpers.BasicFrame(t)
	err := f.SetMeta("category", map[meta.Entity]any{
		{Model: "other_model", Scenario: "other_scenario"}: "x",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	// nothing was written
	assert.False(t, f.Meta().Has("category"))
}

func TestSetMetaAt(t *testing.T) {
	f := testhelpers.TwoScenarioFrame(t)
	e := meta.Entity{Model: "a_model", Scenario: "a_scenario"}
	require.NoError(t, f.SetMetaAt("category", "bau", []meta.Entity{e}))
	assert.Equal(t, "bau", f.Meta().Get(e, "category").AsString())
}

func TestFilterByMetaMatchingIndex(t *testing.T) {
	f := testhelpers.TwoScenarioFrame(t)
	require.NoError(t, f.SetMeta("category", []any{"low", "high"}))

	table := &schema.Table{
		Columns: []string{"model", "scenario", "region", "col"},
		Rows: [][]any{
			{"a_model", "a_scenario", "a_region1", 1},
			{"a_model", "a_scenario", "a_region2", 2},
			{"a_model", "a_scenario2", "a_region3", 3},
		},
	}

	got, err := frame.FilterByMeta(table, f, false, map[string]meta.Predicate{
		"category": meta.Equals("low"),
	})
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)

	got, err = frame.FilterByMeta(table, f, true, map[string]meta.Predicate{
		"category": meta.Equals("high"),
	})
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, []string{"model", "scenario", "region", "col", "category"}, got.Columns)
	assert.Equal(t, "high", got.Rows[0][4])
}

func TestFilterByMetaDropsUnknownEntities(t *testing.T) {
	f := testhelpers.TwoScenarioFrame(t)
	require.NoError(t, f.SetMeta("category", "any"))

	table := &schema.Table{
		Columns: []string{"model", "scenario", "value"},
		Rows: [][]any{
			{"a_model", "a_scenario", 1},
			{"a_model", "unknown_scenario", 2},
		},
	}
	got, err := frame.FilterByMeta(table, f, false, map[string]meta.Predicate{
		"category": meta.IsSet(),
	})
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "a_scenario", got.Rows[0][1])
}

func TestFilterByMetaUnknownColumnFails(t *testing.T) {
	f := testhelpers.BasicFrame(t)
	table := &schema.Table{
		Columns: []string{"model", "scenario"},
		Rows:    [][]any{{"a_model", "a_scenario"}},
	}
	_, err := frame.FilterByMeta(table, f, false, map[string]meta.Predicate{
		"nope": meta.IsSet(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestFilterByMetaMissingEntityColumnsFails(t *testing.T) {
	f := testhelpers.BasicFrame(t)
	table := &schema.Table{
		Columns: []string{"region", "value"},
		Rows:    [][]any{{"World", 1}},
	}
	_, err := frame.FilterByMeta(table, f, false, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSchema)
}
