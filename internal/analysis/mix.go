package analysis

import "hybrid-sizer/internal/dispatch"

// Mix summarizes where a candidate system's energy comes from and goes.
// Fractions are percentages.
type Mix struct {
	PVFraction          float64
	WindFraction        float64
	HydroFraction       float64
	REPenetration       float64
	StorageContribution float64
	ExcessFraction      float64
}

// generationGuard keeps zero-generation candidates from dividing by zero
// while leaving real fractions effectively untouched.
const generationGuard = 0.001

// EnergyMix derives the mix metrics from simulation totals.
func EnergyMix(t dispatch.Totals) Mix {
	generation := t.PVKWh + t.WindKWh + t.HydroKWh

	m := Mix{
		PVFraction:    t.PVKWh / (generation + generationGuard) * 100,
		WindFraction:  t.WindKWh / (generation + generationGuard) * 100,
		HydroFraction: t.HydroKWh / (generation + generationGuard) * 100,
	}
	if t.LoadKWh > 0 {
		m.REPenetration = t.ServedKWh / t.LoadKWh * 100
		m.StorageContribution = t.DischargeKWh / t.LoadKWh * 100
	}
	if generation > 0 {
		m.ExcessFraction = t.ExcessKWh / (generation + generationGuard) * 100
	}
	return m
}
