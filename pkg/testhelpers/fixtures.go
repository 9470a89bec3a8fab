// Package testhelpers provides shared fixture frames for tests.
package testhelpers

import (
	"testing"

	"github.com/scenarioworks/scenario-engine/pkg/frame"
	"github.com/scenarioworks/scenario-engine/pkg/models"
	"github.com/scenarioworks/scenario-engine/pkg/schema"
)

// BasicFrame returns a minimal yearly frame: one entity, one region, a
// two-level variable hierarchy over two years.
func BasicFrame(t *testing.T, opts ...frame.Option) *frame.Frame {
	t.Helper()
	return yearly(t, basicRows(), opts...)
}

func basicRows() []models.Datapoint {
	return []models.Datapoint{
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Primary Energy", Unit: "EJ/y", Time: 2005, Value: 1},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Primary Energy", Unit: "EJ/y", Time: 2010, Value: 6},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Primary Energy|Coal", Unit: "EJ/y", Time: 2005, Value: 0.5},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Primary Energy|Coal", Unit: "EJ/y", Time: 2010, Value: 3},
	}
}

// TwoScenarioFrame extends BasicFrame with a second scenario that carries
// only the top-level variable, for metadata and validation tests.
func TwoScenarioFrame(t *testing.T, opts ...frame.Option) *frame.Frame {
	t.Helper()
	rows := append(basicRows(),
		models.Datapoint{Model: "a_model", Scenario: "a_scenario2", Region: "World", Variable: "Primary Energy", Unit: "EJ/y", Time: 2005, Value: 2},
		models.Datapoint{Model: "a_model", Scenario: "a_scenario2", Region: "World", Variable: "Primary Energy", Unit: "EJ/y", Time: 2010, Value: 7},
	)
	return yearly(t, rows, opts...)
}

// InfillingFrame extends BasicFrame with emissions series across three
// entities at 2040 and 2050, for gap-filling tests.
func InfillingFrame(t *testing.T, opts ...frame.Option) *frame.Frame {
	t.Helper()
	rows := basicRows()
	emissions := []struct {
		model, scenario string
		at2040, at2050  float64
	}{
		{"a_model", "a_scenario", 1.1, 1.2},
		{"a_model", "b_scenario", 2.1, 2.2},
		{"b_model", "b_scenario", 1.4, 1.4},
	}
	variables := []models.VariableUnit{
		{Variable: "Emissions|BC", Unit: "Mt BC / yr"},
		{Variable: "Emissions|C2F6", Unit: "kt C2F6 / yr"},
		{Variable: "Emissions|CCl4", Unit: "kt CCl4 / yr"},
	}
	for _, e := range emissions {
		for _, vu := range variables {
			rows = append(rows,
				models.Datapoint{Model: e.model, Scenario: e.scenario, Region: "World", Variable: vu.Variable, Unit: vu.Unit, Time: 2040, Value: e.at2040},
				models.Datapoint{Model: e.model, Scenario: e.scenario, Region: "World", Variable: vu.Variable, Unit: vu.Unit, Time: 2050, Value: e.at2050},
			)
		}
	}
	return yearly(t, rows, opts...)
}

// ContinuousFrame returns the basic data on the continuous axis with
// fractional time coordinates.
func ContinuousFrame(t *testing.T, opts ...frame.Option) *frame.Frame {
	t.Helper()
	rows := []models.Datapoint{
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Primary Energy", Unit: "EJ/y", Time: 2005.5, Value: 1},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Primary Energy", Unit: "EJ/y", Time: 2010, Value: 6},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Primary Energy|Coal", Unit: "EJ/y", Time: 2005.5, Value: 0.5},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Primary Energy|Coal", Unit: "EJ/y", Time: 2010, Value: 3},
	}
	f, err := frame.FromDatapoints(rows, schema.AxisContinuous, opts...)
	if err != nil {
		t.Fatalf("failed to build continuous fixture frame: %v", err)
	}
	return f
}

// DiagnosticsFrame returns a yearly frame mixing diagnostic variables from a
// climate model with plain emissions series, for converter tests.
func DiagnosticsFrame(t *testing.T, opts ...frame.Option) *frame.Frame {
	t.Helper()
	rows := []models.Datapoint{
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Diagnostics|c_model|Atmospheric Concentrations|CO2", Unit: "ppm", Time: 2005, Value: 395},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Diagnostics|c_model|Atmospheric Concentrations|CO2", Unit: "ppm", Time: 2010, Value: 401},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Diagnostics|c_model|Surface Temperature", Unit: "K", Time: 2005, Value: 0.9},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Diagnostics|c_model|Surface Temperature", Unit: "K", Time: 2010, Value: 0.94},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Diagnostics|c_model|Emissions|CO2", Unit: "Gt C / yr", Time: 2005, Value: 0.5},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Diagnostics|c_model|Emissions|CO2", Unit: "Gt C / yr", Time: 2010, Value: 3.0},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Emissions|CO2", Unit: "Gt C / yr", Time: 2005, Value: 0.5},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Emissions|CO2", Unit: "Gt C / yr", Time: 2010, Value: 3.0},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Emissions|CO2|Coal", Unit: "Gt C / yr", Time: 2005, Value: 0.5},
		{Model: "a_model", Scenario: "a_scenario", Region: "World", Variable: "Emissions|CO2|Coal", Unit: "Gt C / yr", Time: 2010, Value: 3.0},
	}
	return yearly(t, rows, opts...)
}

// RegionalFrame returns a yearly frame with a region hierarchy: national
// regions summing into REUROPE and RASIA, which sum into World.
func RegionalFrame(t *testing.T, opts ...frame.Option) *frame.Frame {
	t.Helper()
	pe := func(region string, v2005, v2010 float64) []models.Datapoint {
		return []models.Datapoint{
			{Model: "AIM", Scenario: "cscen", Region: region, Variable: "Primary Energy", Unit: "EJ/y", Time: 2005, Value: v2005},
			{Model: "AIM", Scenario: "cscen", Region: region, Variable: "Primary Energy", Unit: "EJ/y", Time: 2010, Value: v2010},
		}
	}
	var rows []models.Datapoint
	rows = append(rows, pe("Germany", 1, 2)...)
	rows = append(rows, pe("UK", 0.5, 1)...)
	rows = append(rows, pe("REUROPE", 1.5, 3)...)
	rows = append(rows, pe("China", 3, 4)...)
	rows = append(rows, pe("India", 2, 3)...)
	rows = append(rows, pe("RASIA", 5, 7)...)
	rows = append(rows, pe("World", 6.5, 10)...)
	return yearly(t, rows, opts...)
}

// AggregateFrame returns a yearly frame that is consistent under both the
// variable-hierarchy and the region aggregation checks: every parent equals
// the sum of its children per region, every World value equals the sum over
// R5REF and R5ASIA plus any World-only children.
func AggregateFrame(t *testing.T, opts ...frame.Option) *frame.Frame {
	t.Helper()
	var rows []models.Datapoint
	add := func(scenario, region, variable, unit string, v2005, v2010 float64) {
		rows = append(rows,
			models.Datapoint{Model: "IMG", Scenario: scenario, Region: region, Variable: variable, Unit: unit, Time: 2005, Value: v2005},
			models.Datapoint{Model: "IMG", Scenario: scenario, Region: region, Variable: variable, Unit: unit, Time: 2010, Value: v2010},
		)
	}

	for i, scenario := range []string{"a_scen", "a_scen_2"} {
		o := float64(i)
		type leaf struct{ r5ref, r5asia [2]float64 }
		coal := leaf{[2]float64{2 + o, 3 + o}, [2]float64{4 + o, 6 + o}}
		gas := leaf{[2]float64{1 + o, 2 + o}, [2]float64{2 + o, 3 + o}}
		cars := leaf{[2]float64{10 + o, 12 + o}, [2]float64{16 + o, 20 + o}}
		tar := leaf{[2]float64{3 + o, 4 + o}, [2]float64{5 + o, 7 + o}}
		ch4 := leaf{[2]float64{6 + o, 7 + o}, [2]float64{9 + o, 11 + o}}
		aggAgg := [2]float64{0.5 + o, 0.7 + o}
		solvents := [2]float64{0.3 + o, 0.4 + o}

		for _, pair := range []struct {
			region string
			pick   func(leaf) [2]float64
		}{
			{"R5REF", func(l leaf) [2]float64 { return l.r5ref }},
			{"R5ASIA", func(l leaf) [2]float64 { return l.r5asia }},
		} {
			c, g := pair.pick(coal), pair.pick(gas)
			add(scenario, pair.region, "Primary Energy|Coal", "EJ/y", c[0], c[1])
			add(scenario, pair.region, "Primary Energy|Gas", "EJ/y", g[0], g[1])
			add(scenario, pair.region, "Primary Energy", "EJ/y", c[0]+g[0], c[1]+g[1])

			ca, ta := pair.pick(cars), pair.pick(tar)
			add(scenario, pair.region, "Emissions|CO2|Cars", "Mt CO2/yr", ca[0], ca[1])
			add(scenario, pair.region, "Emissions|CO2|Tar", "Mt CO2/yr", ta[0], ta[1])
			add(scenario, pair.region, "Emissions|CO2", "Mt CO2/yr", ca[0]+ta[0], ca[1]+ta[1])

			m := pair.pick(ch4)
			add(scenario, pair.region, "Emissions|CH4", "Mt CH4/yr", m[0], m[1])
		}

		worldCoal := [2]float64{coal.r5ref[0] + coal.r5asia[0], coal.r5ref[1] + coal.r5asia[1]}
		worldGas := [2]float64{gas.r5ref[0] + gas.r5asia[0], gas.r5ref[1] + gas.r5asia[1]}
		add(scenario, "World", "Primary Energy|Coal", "EJ/y", worldCoal[0], worldCoal[1])
		add(scenario, "World", "Primary Energy|Gas", "EJ/y", worldGas[0], worldGas[1])
		add(scenario, "World", "Primary Energy", "EJ/y", worldCoal[0]+worldGas[0], worldCoal[1]+worldGas[1])

		worldCars := [2]float64{cars.r5ref[0] + cars.r5asia[0], cars.r5ref[1] + cars.r5asia[1]}
		worldTar := [2]float64{tar.r5ref[0] + tar.r5asia[0], tar.r5ref[1] + tar.r5asia[1]}
		add(scenario, "World", "Emissions|CO2|Cars", "Mt CO2/yr", worldCars[0], worldCars[1])
		add(scenario, "World", "Emissions|CO2|Tar", "Mt CO2/yr", worldTar[0], worldTar[1])
		add(scenario, "World", "Emissions|CO2|Agg Agg", "Mt CO2/yr", aggAgg[0], aggAgg[1])
		add(scenario, "World", "Emissions|CO2", "Mt CO2/yr",
			worldCars[0]+worldTar[0]+aggAgg[0], worldCars[1]+worldTar[1]+aggAgg[1])

		add(scenario, "World", "Emissions|CH4", "Mt CH4/yr",
			ch4.r5ref[0]+ch4.r5asia[0], ch4.r5ref[1]+ch4.r5asia[1])

		add(scenario, "World", "Emissions|C2F6|Solvents", "kt C2F6/yr", solvents[0], solvents[1])
		add(scenario, "World", "Emissions|C2F6", "kt C2F6/yr", solvents[0], solvents[1])
	}
	return yearly(t, rows, opts...)
}

// RegionMappingFixture returns a columnar ISO-to-aggregate region mapping.
func RegionMappingFixture() models.RegionMapping {
	return models.RegionMapping{
		Name:    "iso_to_r5",
		Columns: []string{"iso", "r5_region"},
		Rows: [][]string{
			{"SSD", "R5MAF"},
			{"SDN", "R5MAF"},
			{"DEU", "R5OECD"},
		},
	}
}

func yearly(t *testing.T, rows []models.Datapoint, opts ...frame.Option) *frame.Frame {
	t.Helper()
	f, err := frame.FromDatapoints(rows, schema.AxisYears, opts...)
	if err != nil {
		t.Fatalf("failed to build fixture frame: %v", err)
	}
	return f
}
