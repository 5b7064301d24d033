package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hybrid-sizer/internal/model"
)

func searchTechs() model.Technologies {
	return model.Technologies{
		Solar: model.SolarParams{CapexPerKW: 800, OMPerKWYear: 10, LifetimeYears: 25, BaselineKW: 1000},
		Wind:  model.WindParams{Enabled: true, CapexPerKW: 1200, OMPerKWYear: 30, LifetimeYears: 20},
		Hydro: model.HydroParams{Enabled: true, CapexPerKW: 2500, OMPerKWYear: 50, LifetimeYears: 30, HoursPerDay: 8},
		Storage: model.StorageParams{
			DurationHours: 4, PowerCapexPerKW: 300, EnergyCapexPerKWh: 250,
			OMPerKWYear: 8, LifetimeYears: 10,
			ChargeEfficiency: 0.95, DischargeEfficiency: 0.95,
			MinSOC: 0.1, MaxSOC: 0.9,
		},
	}
}

func flatLoadSeries(hours int, load float64) model.Series {
	s := model.Series{
		LoadKW:       make([]float64, hours),
		PVOutputKW:   make([]float64, hours),
		WindOutputKW: make([]float64, hours),
	}
	for i := range s.LoadKW {
		s.LoadKW[i] = load
	}
	return s
}

func TestBestWindowAllTieTakesEarliest(t *testing.T) {
	// Flat load means every 8-hour block covers the same 800 kWh; the
	// earliest window must win deterministically.
	series := flatLoadSeries(24, 100)
	techs := searchTechs()

	best := BestWindow(series, model.Candidate{HydroKW: 150}, techs)
	assert.Equal(t, 0, best.Window.Start)
	assert.Equal(t, 8, best.Window.End)
	assert.InDelta(t, 100.0*1600/2400, best.UnmetPercent, 1e-6)

	all := AllWindows(series, model.Candidate{HydroKW: 150}, techs)
	require.Len(t, all, 17)
	for _, w := range all {
		assert.InDelta(t, best.UnmetPercent, w.UnmetPercent, 1e-9)
		assert.Equal(t, 8, w.Window.Hours())
	}
}

func TestBestWindowFindsEveningGap(t *testing.T) {
	// PV serves 08:00-16:00, wind serves 00:00-08:00; only the evening
	// needs hydro, so the [16, 24) window is uniquely optimal.
	series := flatLoadSeries(48, 100)
	for h := range series.LoadKW {
		switch hod := h % 24; {
		case hod >= 8 && hod < 16:
			series.PVOutputKW[h] = 100
		case hod < 8:
			series.WindOutputKW[h] = 100
		}
	}
	cand := model.Candidate{PVKW: 1000, WindKW: 1, HydroKW: 100}

	best := BestWindow(series, cand, searchTechs())
	assert.Equal(t, 16, best.Window.Start)
	assert.Equal(t, 24, best.Window.End)
	assert.Zero(t, best.UnmetPercent)
}

func TestBestWindowZeroHydroShortCircuits(t *testing.T) {
	series := flatLoadSeries(24, 100)
	best := BestWindow(series, model.Candidate{}, searchTechs())
	assert.Equal(t, 0, best.Window.Start)
	assert.Equal(t, 8, best.Window.End)
	assert.InDelta(t, 100.0, best.UnmetPercent, 1e-9)
}

func TestRankWindowsSortsAscending(t *testing.T) {
	series := flatLoadSeries(48, 100)
	for h := range series.LoadKW {
		if hod := h % 24; hod >= 8 && hod < 16 {
			series.PVOutputKW[h] = 100
		}
	}
	cand := model.Candidate{PVKW: 1000, HydroKW: 100}

	ranked := RankWindows(series, cand, searchTechs())
	require.Len(t, ranked, 17)
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i-1].UnmetPercent, ranked[i].UnmetPercent)
	}
}
