package frame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/frame"
	"github.com/scenarioworks/scenario-engine/pkg/meta"
	"github.com/scenarioworks/scenario-engine/pkg/testhelpers"
)

func TestFilterByVariable(t *testing.T) {
	f := testhelpers.TwoScenarioFrame(t)
	got, err := f.Filter(frame.Criteria{"variable": "Primary Energy|Coal"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a_scenario"}, got.Scenarios())
}

func TestFilterWildcard(t *testing.T) {
	f := testhelpers.BasicFrame(t)
	got, err := f.Filter(frame.Criteria{"variable": "Primary Energy*"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Primary Energy", "Primary Energy|Coal"}, got.Variables())
}

func TestFilterKeepFalse(t *testing.T) {
	f := testhelpers.TwoScenarioFrame(t)
	got, err := f.Filter(frame.Criteria{"variable": "Primary Energy|Coal", "year": 2005}, frame.Drop())
	require.NoError(t, err)
	assert.Equal(t, f.Len()-1, got.Len())
	for _, d := range got.Data() {
		if d.Variable == "Primary Energy|Coal" {
			assert.NotEqual(t, 2005.0, d.Time)
		}
	}
}

func TestFilterByLevel(t *testing.T) {
	f := testhelpers.BasicFrame(t)

	got, err := f.Filter(frame.Criteria{"level": 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"Primary Energy"}, got.Variables())

	got, err = f.Filter(frame.Criteria{"level": "0-"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Primary Energy"}, got.Variables())

	got, err = f.Filter(frame.Criteria{"level": "0+"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Primary Energy", "Primary Energy|Coal"}, got.Variables())

	got, err = f.Filter(frame.Criteria{"level": "1+"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Primary Energy|Coal"}, got.Variables())

	_, err = f.Filter(frame.Criteria{"level": "1/"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestFilterRegexp(t *testing.T) {
	f := testhelpers.TwoScenarioFrame(t)
	got, err := f.Filter(frame.Criteria{"scenario": "a_scenari.$"}, frame.Regexp())
	require.NoError(t, err)
	assert.Equal(t, []string{"a_scenario"}, got.Scenarios())

	// the same pattern is not a glob match
	got, err = f.Filter(frame.Criteria{"scenario": "a_scenari.$"})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestFilterByYearList(t *testing.T) {
	f := testhelpers.BasicFrame(t)
	got, err := f.Filter(frame.Criteria{"year": []int{2005}})
	require.NoError(t, err)
	assert.Equal(t, []float64{2005}, got.Times())
}

func TestFilterByMetaColumn(t *testing.T) {
	f := testhelpers.TwoScenarioFrame(t)
	require.NoError(t, f.SetMeta("category", []any{"low", "high"}))

	got, err := f.Filter(frame.Criteria{"category": "high"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a_scenario2"}, got.Scenarios())

	got, err = f.Filter(frame.Criteria{"exclude": false})
	require.NoError(t, err)
	assert.Equal(t, f.Len(), got.Len())
}

func TestFilterUnknownColumn(t *testing.T) {
	f := testhelpers.BasicFrame(t)
	_, err := f.Filter(frame.Criteria{"foo": "bar"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	assert.Contains(t, err.Error(), `filter by "foo" not supported`)
}

func TestFilterRetainsMetaForKeptEntities(t *testing.T) {
	f := testhelpers.TwoScenarioFrame(t)
	require.NoError(t, f.SetMeta("category", "a"))

	got, err := f.Filter(frame.Criteria{"scenario": "a_scenario2"})
	require.NoError(t, err)
	m := got.Meta()
	assert.Equal(t, 1, m.Len())
	e := meta.Entity{Model: "a_model", Scenario: "a_scenario2"}
	assert.Equal(t, "a", m.Get(e, "category").AsString())
	require.NoError(t, got.ValidateConsistency())
}

func TestFilterIdempotence(t *testing.T) {
	f := testhelpers.TwoScenarioFrame(t)
	criteria := frame.Criteria{"variable": "Primary Energy", "year": 2010}

	once, err := f.Filter(criteria)
	require.NoError(t, err)
	twice, err := once.Filter(criteria)
	require.NoError(t, err)
	assert.Equal(t, once.Data(), twice.Data())
}
