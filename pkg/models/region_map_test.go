package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
)

func testMapping() *RegionMapping {
	return &RegionMapping{
		Name:    "r5_region",
		Columns: []string{"iso", "r5_region"},
		Rows: [][]string{
			{"SSD", "R5MAF"},
			{"SDN", "R5MAF"},
			{"AGO", "R5MAF"},
			{"", "R5LAM"},
		},
	}
}

func TestRegionMappingLinks(t *testing.T) {
	links, err := testMapping().Links("iso", "r5_region")
	require.NoError(t, err)

	assert.Equal(t, []RegionLink{
		{From: "SSD", To: "R5MAF"},
		{From: "SDN", To: "R5MAF"},
		{From: "AGO", To: "R5MAF"},
	}, links)
}

func TestRegionMappingLinksReversed(t *testing.T) {
	links, err := testMapping().Links("r5_region", "iso")
	require.NoError(t, err)

	// one-to-many: R5MAF expands to every ISO code that rolls up into it
	assert.Len(t, links, 3)
	for _, l := range links {
		assert.Equal(t, "R5MAF", l.From)
	}
}

func TestRegionMappingUnknownColumn(t *testing.T) {
	_, err := testMapping().Links("iso", "r10_region")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}
