package report

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"hybrid-sizer/internal/model"
	"hybrid-sizer/internal/optimize"
)

func reportFixture(t *testing.T) (model.ProjectParams, model.Technologies, model.Series, *optimize.Outcome) {
	t.Helper()

	project := model.ProjectParams{DiscountRate: 0.08, InflationRate: 0.02, LifetimeYears: 25, TargetUnmetPercent: 5}
	techs := model.Technologies{
		Solar: model.SolarParams{CapexPerKW: 800, OMPerKWYear: 10, LifetimeYears: 25, BaselineKW: 1000},
		Wind:  model.WindParams{LifetimeYears: 20},
		Hydro: model.HydroParams{Enabled: true, CapexPerKW: 2500, OMPerKWYear: 50, LifetimeYears: 30, HoursPerDay: 8},
		Storage: model.StorageParams{
			DurationHours: 4, PowerCapexPerKW: 300, EnergyCapexPerKWh: 250,
			OMPerKWYear: 8, LifetimeYears: 10,
			ChargeEfficiency: 0.95, DischargeEfficiency: 0.95,
			MinSOC: 0.1, MaxSOC: 0.9,
		},
	}

	series := model.Series{
		LoadKW:       make([]float64, 48),
		PVOutputKW:   make([]float64, 48),
		WindOutputKW: make([]float64, 48),
	}
	for h := range series.LoadKW {
		series.LoadKW[h] = 100
		series.PVOutputKW[h] = 100
	}

	out, err := optimize.Search(context.Background(), optimize.Inputs{
		Project: project,
		Techs:   techs,
		Series:  series,
		Space: optimize.Space{
			PV:      optimize.Range{Start: 0, End: 1000, Step: 500},
			Wind:    optimize.Range{Start: 0, End: 0, Step: 1},
			Hydro:   optimize.Range{Start: 0, End: 100, Step: 100},
			Storage: optimize.Range{Start: 0, End: 50, Step: 50},
		},
	})
	require.NoError(t, err)
	return project, techs, series, out
}

func TestWriteResultsRoundTrip(t *testing.T) {
	project, techs, series, out := reportFixture(t)
	require.NotNil(t, out.Optimal)

	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, WriteResults(path, project, techs, series, out))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	for _, name := range []string{
		SheetSummary, SheetCostBreakdown, SheetCashFlow, SheetAllResults,
		SheetFeasible, SheetDispatch, SheetTypicalDay, SheetWindowAnalysis,
	} {
		_, ok := f.Sheet[name]
		assert.True(t, ok, "missing sheet %s", name)
	}

	all := f.Sheet[SheetAllResults]
	require.Len(t, all.Rows, len(out.Results)+1)
	assert.Equal(t, "Iteration", all.Rows[0].Cells[0].String())

	// Dispatch sheet covers every simulated hour.
	disp := f.Sheet[SheetDispatch]
	require.Len(t, disp.Rows, series.Hours()+1)

	// Feasible sheet is sorted by NPC ascending.
	feas := f.Sheet[SheetFeasible]
	require.Greater(t, len(feas.Rows), 1)
	npcCol := -1
	for j, cell := range feas.Rows[0].Cells {
		if cell.String() == "NPC_$" {
			npcCol = j
		}
	}
	require.GreaterOrEqual(t, npcCol, 0)
	prev := -1.0
	for _, row := range feas.Rows[1:] {
		npc, err := row.Cells[npcCol].Float()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, npc, prev)
		prev = npc
	}
}

func TestWriteResultsNoFeasible(t *testing.T) {
	project, techs, series, out := reportFixture(t)
	for i := range out.Results {
		out.Results[i].Feasible = false
	}
	out.Optimal = nil

	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, WriteResults(path, project, techs, series, out))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	_, ok := f.Sheet[SheetSummary]
	assert.True(t, ok)
	_, ok = f.Sheet[SheetDispatch]
	assert.False(t, ok)
	_, ok = f.Sheet[SheetCostBreakdown]
	assert.False(t, ok)

	feas, ok := f.Sheet[SheetFeasible]
	require.True(t, ok)
	assert.Len(t, feas.Rows, 1) // header only
}
