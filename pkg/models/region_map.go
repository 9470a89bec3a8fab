package models

import (
	"fmt"

	"github.com/scenarioworks/scenario-engine/pkg/apperrors"
)

// Aggregation methods accepted by Frame.MapRegions when several source
// regions collapse onto one target.
const (
	AggNone = ""
	AggSum  = "sum"
)

// RegionLink maps one source region to one target region. A source appearing
// in several links expands one-to-many; several sources sharing a target
// collapse many-to-one.
type RegionLink struct {
	From string
	To   string
}

// RegionMapping is a columnar region-translation table, e.g. ISO codes
// against one or more model-native or aggregate region columns. It mirrors
// the shape of the external region-mapping sources consumed by MapRegions.
type RegionMapping struct {
	Name    string     `yaml:"name"`
	Columns []string   `yaml:"columns"`
	Rows    [][]string `yaml:"rows"`
}

// Links projects the mapping onto a (from, to) column pair, dropping rows
// where either side is empty.
func (m *RegionMapping) Links(fromCol, toCol string) ([]RegionLink, error) {
	fi, err := m.columnIndex(fromCol)
	if err != nil {
		return nil, err
	}
	ti, err := m.columnIndex(toCol)
	if err != nil {
		return nil, err
	}

	links := make([]RegionLink, 0, len(m.Rows))
	for _, row := range m.Rows {
		if fi >= len(row) || ti >= len(row) {
			continue
		}
		if row[fi] == "" || row[ti] == "" {
			continue
		}
		links = append(links, RegionLink{From: row[fi], To: row[ti]})
	}
	return links, nil
}

func (m *RegionMapping) columnIndex(name string) (int, error) {
	for i, col := range m.Columns {
		if col == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: region mapping %q has no column %q",
		apperrors.ErrInvalidArgument, m.Name, name)
}
