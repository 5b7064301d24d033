package dispatch

import (
	"fmt"
	"math"

	"hybrid-sizer/internal/model"
)

// Window is a contiguous daily hydro operating window [Start, End) in
// hours of day, e.g. {6, 14} runs hydro from 06:00 to 14:00.
type Window struct {
	Start int
	End   int
}

// Contains reports whether the given hour of day falls inside the window.
func (w Window) Contains(hourOfDay int) bool {
	return hourOfDay >= w.Start && hourOfDay < w.End
}

// Hours is the daily runtime of the window.
func (w Window) Hours() int { return w.End - w.Start }

func (w Window) String() string {
	return fmt.Sprintf("%02d:00-%02d:00", w.Start, w.End)
}

// Validate rejects windows that spill past the end of the day. Hour-of-day
// never wraps, so a window ending after 24:00 would silently truncate.
func (w Window) Validate() error {
	if w.Start < 0 || w.End < w.Start || w.End > 24 {
		return fmt.Errorf("hydro window %s must fit within a 0-24 hour day", w)
	}
	return nil
}

// HourRow is one hour of the dispatch trace.
type HourRow struct {
	Hour        int
	LoadKW      float64
	PVKW        float64
	WindKW      float64
	HydroKW     float64
	HydroActive bool
	ChargeKW    float64
	DischargeKW float64
	SOCKWh      float64
	UnmetKW     float64
	ExcessKW    float64
}

// Totals aggregates a full-horizon trace. Intervals are one hour, so kW
// sums read directly as kWh.
type Totals struct {
	LoadKWh      float64
	ServedKWh    float64
	PVKWh        float64
	WindKWh      float64
	HydroKWh     float64
	ChargeKWh    float64
	DischargeKWh float64
	UnmetKWh     float64
	ExcessKWh    float64

	UnmetPercent  float64
	CyclesPerYear float64
}

// Result is the outcome of one simulation run.
type Result struct {
	Window Window
	Trace  []HourRow
	Totals Totals
}

// Simulate runs the hourly merit-order energy balance for one candidate:
// PV and wind first (non-dispatchable), hydro up to capacity inside its
// operating window, then battery discharge; residual deficit is unmet load.
// Surplus renewables charge the battery; the remainder is excess.
//
// The battery starts at 50% of energy capacity so the first hours are
// neither credited with a full battery nor penalized with an empty one.
// Simulate is a pure function of its inputs.
func Simulate(series model.Series, cand model.Candidate, techs model.Technologies, window Window) *Result {
	hours := series.Hours()
	trace := make([]HourRow, hours)

	energyKWh := cand.StorageEnergyKWh(techs.Storage.DurationHours)
	minSOCKWh := techs.Storage.MinSOC * energyKWh
	maxSOCKWh := techs.Storage.MaxSOC * energyKWh
	chargeEff := techs.Storage.ChargeEfficiency
	dischargeEff := techs.Storage.DischargeEfficiency
	powerKW := cand.StoragePowerKW

	soc := 0.5 * energyKWh

	totals := Totals{}

	for h := 0; h < hours; h++ {
		hourOfDay := h % 24
		hydroActive := window.Contains(hourOfDay)

		load := series.LoadKW[h]
		pv := series.PVOutputKW[h] * (cand.PVKW / techs.Solar.BaselineKW)
		wind := 0.0
		if techs.Wind.Enabled {
			wind = series.WindOutputKW[h] * cand.WindKW
		}

		row := HourRow{
			Hour:        h,
			LoadKW:      load,
			PVKW:        pv,
			WindKW:      wind,
			HydroActive: hydroActive,
		}

		netLoad := load - pv - wind

		if netLoad > 0 && hydroActive && cand.HydroKW > 0 {
			row.HydroKW = math.Min(netLoad, cand.HydroKW)
			netLoad -= row.HydroKW
		}

		if netLoad > 0 {
			// Deficit: discharge, accounting for round-trip loss on the
			// way out of the battery.
			available := math.Max(0, soc-minSOCKWh)
			deliverable := available * dischargeEff
			row.DischargeKW = math.Min(powerKW, math.Min(deliverable, netLoad))
			if row.DischargeKW > 0 {
				soc -= row.DischargeKW / dischargeEff
			}
			row.UnmetKW = math.Max(0, netLoad-row.DischargeKW)
		} else {
			// Surplus: charge. The efficiency loss is applied on the way
			// in, so SOC grows by the charge amount directly.
			surplus := -netLoad
			headroom := math.Max(0, maxSOCKWh-soc)
			chargeable := surplus * chargeEff
			row.ChargeKW = math.Min(powerKW, math.Min(headroom, chargeable))
			soc += row.ChargeKW
			row.ExcessKW = math.Max(0, surplus-row.ChargeKW/chargeEff)
		}

		// Guard against float drift at the bounds.
		soc = math.Max(minSOCKWh, math.Min(soc, maxSOCKWh))
		row.SOCKWh = soc

		trace[h] = row

		totals.LoadKWh += row.LoadKW
		totals.PVKWh += row.PVKW
		totals.WindKWh += row.WindKW
		totals.HydroKWh += row.HydroKW
		totals.ChargeKWh += row.ChargeKW
		totals.DischargeKWh += row.DischargeKW
		totals.UnmetKWh += row.UnmetKW
		totals.ExcessKWh += row.ExcessKW
	}

	totals.ServedKWh = totals.LoadKWh - totals.UnmetKWh
	if totals.LoadKWh > 0 {
		totals.UnmetPercent = totals.UnmetKWh / totals.LoadKWh * 100
	}
	if energyKWh > 0 {
		totals.CyclesPerYear = totals.DischargeKWh / energyKWh
	}

	return &Result{Window: window, Trace: trace, Totals: totals}
}
