package runcontrol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
	"github.com/scenarioworks/scenario-engine/pkg/models"
)

const doc = `
region_mappings:
  iso_to_r5:
    columns: [iso, r5_region]
    rows:
      - [SSD, R5MAF]
      - [SDN, R5MAF]
      - [DEU, R5OECD]
validation:
  sanity:
    Primary Energy: {up: 10.0, lo: 0.0}
    Primary Energy|Coal: {up: 5.0, year: 2010}
fills:
  harmonization:
    Emissions|CCl4:
      unit: kt CCl4 / yr
      lead variable: Emissions|CH4
      scale year: 2015
      scale value: 11.2
`

func TestParse(t *testing.T) {
	parsed, err := Parse([]byte(doc))
	require.NoError(t, err)

	m, ok := parsed.RegionMappings["iso_to_r5"]
	require.True(t, ok)
	assert.Equal(t, "iso_to_r5", m.Name)
	assert.Equal(t, []string{"iso", "r5_region"}, m.Columns)
	assert.Len(t, m.Rows, 3)

	sanity := parsed.Validation["sanity"]
	require.Contains(t, sanity, "Primary Energy")
	require.NotNil(t, sanity["Primary Energy"].Up)
	assert.Equal(t, 10.0, *sanity["Primary Energy"].Up)
	require.NotNil(t, sanity["Primary Energy|Coal"].Year)
	assert.Equal(t, 2010.0, *sanity["Primary Energy|Coal"].Year)

	fill := parsed.Fills["harmonization"]["Emissions|CCl4"]
	assert.Equal(t, "Emissions|CH4", fill.LeadVariable)
	require.NotNil(t, fill.ScaleValue)
	assert.Equal(t, 11.2, *fill.ScaleValue)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("region_mappings: ["))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSchema)
}

func TestRegistryLoadAndLookup(t *testing.T) {
	r := NewRegistry(WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, r.Load([]byte(doc)))

	links, err := r.Links("iso_to_r5", "iso", "r5_region")
	require.NoError(t, err)
	assert.Contains(t, links, models.RegionLink{From: "SSD", To: "R5MAF"})

	criteria, err := r.Criteria("sanity")
	require.NoError(t, err)
	assert.Len(t, criteria, 2)

	fills, err := r.FillConfig("harmonization")
	require.NoError(t, err)
	assert.Contains(t, fills, "Emissions|CCl4")

	_, err = r.RegionMap("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestRegistryDuplicateLoadFails(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Load([]byte(doc)))
	err := r.Load([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRegisterExplicitMapping(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(models.RegionMapping{
		Name:    "custom",
		Columns: []string{"from", "to"},
		Rows:    [][]string{{"A", "B"}},
	}))

	err := r.Register(models.RegionMapping{Name: "custom"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	err = r.Register(models.RegionMapping{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}
