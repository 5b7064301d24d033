package finance

import "hybrid-sizer/internal/model"

// YearFlow is one year of nominal (undiscounted) cash flow for a candidate
// system. Outflows are negative, the salvage inflow is positive.
type YearFlow struct {
	Year        int
	Capital     float64
	OM          float64
	Replacement float64
	Salvage     float64
	Net         float64
}

// CashFlow builds the year-by-year nominal flow schedule for a candidate:
// capital at year 0, O&M every year, replacements at every multiple of each
// component lifetime before project end, and the straight-line salvage
// credit in the final year.
func CashFlow(cand model.Candidate, techs model.Technologies, project model.ProjectParams) []YearFlow {
	years := project.LifetimeYears
	flows := make([]YearFlow, years+1)
	for y := range flows {
		flows[y].Year = y
	}

	type component struct {
		capital  float64
		annualOM float64
		life     int
	}
	energyKWh := cand.StorageEnergyKWh(techs.Storage.DurationHours)
	components := []component{
		{cand.PVKW * techs.Solar.CapexPerKW, cand.PVKW * techs.Solar.OMPerKWYear, techs.Solar.LifetimeYears},
		{cand.WindKW * techs.Wind.CapexPerKW, cand.WindKW * techs.Wind.OMPerKWYear, techs.Wind.LifetimeYears},
		{cand.HydroKW * techs.Hydro.CapexPerKW, cand.HydroKW * techs.Hydro.OMPerKWYear, techs.Hydro.LifetimeYears},
		{cand.StoragePowerKW*techs.Storage.PowerCapexPerKW + energyKWh*techs.Storage.EnergyCapexPerKWh,
			cand.StoragePowerKW * techs.Storage.OMPerKWYear, techs.Storage.LifetimeYears},
	}

	for _, c := range components {
		if c.capital == 0 && c.annualOM == 0 {
			continue
		}
		flows[0].Capital -= c.capital
		for y := 1; y <= years; y++ {
			flows[y].OM -= c.annualOM
		}
		for y := c.life; y < years; y += c.life {
			flows[y].Replacement -= c.capital * DefaultReplacementMultiplier
		}
		flows[years].Salvage += SalvageValue(c.capital, c.life, years, 0)
	}

	for y := range flows {
		f := &flows[y]
		f.Net = f.Capital + f.OM + f.Replacement + f.Salvage
	}
	return flows
}
