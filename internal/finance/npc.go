package finance

import (
	"math"

	"hybrid-sizer/internal/model"
)

// DefaultReplacementMultiplier is the HOMER-style assumption that replacing
// a component costs less than the original install (no re-permitting or
// site work).
const DefaultReplacementMultiplier = 0.8

// ComponentNPC is the lifecycle cost breakdown for one technology.
// All values are present-value dollars except Annualized ($/year) and CRF.
type ComponentNPC struct {
	Capital       float64
	ReplacementPV float64
	OMPV          float64
	SalvagePV     float64
	NPC           float64
	Annualized    float64
	CRF           float64
}

// RealDiscountRate converts a nominal discount rate to a real
// (inflation-adjusted) rate: (nominal - inflation) / (1 + inflation).
func RealDiscountRate(nominal, inflation float64) float64 {
	return (nominal - inflation) / (1 + inflation)
}

// CRF is the capital recovery factor: the annuity factor converting a
// present value into an equivalent uniform annual cost over n years.
func CRF(rate float64, years int) float64 {
	if rate == 0 {
		return 1.0 / float64(years)
	}
	n := float64(years)
	num := rate * math.Pow(1+rate, n)
	den := math.Pow(1+rate, n) - 1
	return num / den
}

// PresentValueFactor is the inverse of CRF: the present value of a $1/year
// annuity over n years.
func PresentValueFactor(rate float64, years int) float64 {
	if rate == 0 {
		return float64(years)
	}
	return 1 / CRF(rate, years)
}

// SalvageValue is the straight-line residual value of a component at project
// end. The component is replaced every componentLife years, so its age at
// project end wraps around: an age of exactly zero means the last unit is
// fully depreciated.
func SalvageValue(capital float64, componentLife, projectLife, ageAtStart int) float64 {
	ageAtEnd := (ageAtStart + projectLife) % componentLife
	if ageAtEnd == 0 {
		return 0
	}
	remaining := componentLife - ageAtEnd
	return capital * float64(remaining) / float64(componentLife)
}

// ReplacementCostPV is the present value of all replacements over the
// project. Replacements occur at every multiple of componentLife strictly
// before projectLife, each costing capital*multiplier discounted to year 0.
func ReplacementCostPV(capital float64, componentLife, projectLife int, rate, multiplier float64) float64 {
	if componentLife >= projectLife {
		return 0
	}
	cost := capital * multiplier
	total := 0.0
	for year := componentLife; year < projectLife; year += componentLife {
		total += cost / math.Pow(1+rate, float64(year))
	}
	return total
}

// Component computes the full NPC breakdown for one technology:
// NPC = capital + replacement PV + O&M PV - salvage PV.
func Component(capital, annualOM float64, componentLife, projectLife int, rate, multiplier float64) ComponentNPC {
	crf := CRF(rate, projectLife)
	replacementPV := ReplacementCostPV(capital, componentLife, projectLife, rate, multiplier)
	salvage := SalvageValue(capital, componentLife, projectLife, 0)
	salvagePV := salvage / math.Pow(1+rate, float64(projectLife))
	omPV := annualOM * PresentValueFactor(rate, projectLife)

	npc := capital + replacementPV + omPV - salvagePV
	return ComponentNPC{
		Capital:       capital,
		ReplacementPV: replacementPV,
		OMPV:          omPV,
		SalvagePV:     salvagePV,
		NPC:           npc,
		Annualized:    npc * crf,
		CRF:           crf,
	}
}

// SystemBreakdown aggregates component NPCs for one candidate system.
type SystemBreakdown struct {
	NominalRate float64
	RealRate    float64
	CRF         float64

	PV      ComponentNPC
	Wind    ComponentNPC
	Hydro   ComponentNPC
	Storage ComponentNPC

	Capital       float64
	ReplacementPV float64
	OMPV          float64
	SalvagePV     float64
	NPC           float64
	Annualized    float64

	AnnualServedKWh   float64
	LifetimeServedKWh float64
	LCOE              float64
}

// Breakdown costs one candidate. annualServedKWh is the energy actually
// delivered to load per year (load minus unmet); LCOE divides lifecycle cost
// by lifetime served energy, so curtailed generation never dilutes it.
// Technologies at zero capacity contribute an all-zero record.
func Breakdown(cand model.Candidate, techs model.Technologies, project model.ProjectParams, annualServedKWh float64) SystemBreakdown {
	realRate := RealDiscountRate(project.DiscountRate, project.InflationRate)

	b := SystemBreakdown{
		NominalRate:     project.DiscountRate,
		RealRate:        realRate,
		CRF:             CRF(realRate, project.LifetimeYears),
		AnnualServedKWh: annualServedKWh,
	}

	if cand.PVKW > 0 {
		b.PV = Component(
			cand.PVKW*techs.Solar.CapexPerKW,
			cand.PVKW*techs.Solar.OMPerKWYear,
			techs.Solar.LifetimeYears, project.LifetimeYears,
			realRate, DefaultReplacementMultiplier,
		)
	}
	if cand.WindKW > 0 {
		b.Wind = Component(
			cand.WindKW*techs.Wind.CapexPerKW,
			cand.WindKW*techs.Wind.OMPerKWYear,
			techs.Wind.LifetimeYears, project.LifetimeYears,
			realRate, DefaultReplacementMultiplier,
		)
	}
	if cand.HydroKW > 0 {
		b.Hydro = Component(
			cand.HydroKW*techs.Hydro.CapexPerKW,
			cand.HydroKW*techs.Hydro.OMPerKWYear,
			techs.Hydro.LifetimeYears, project.LifetimeYears,
			realRate, DefaultReplacementMultiplier,
		)
	}
	if cand.StoragePowerKW > 0 {
		energyKWh := cand.StorageEnergyKWh(techs.Storage.DurationHours)
		capital := cand.StoragePowerKW*techs.Storage.PowerCapexPerKW +
			energyKWh*techs.Storage.EnergyCapexPerKWh
		b.Storage = Component(
			capital,
			cand.StoragePowerKW*techs.Storage.OMPerKWYear,
			techs.Storage.LifetimeYears, project.LifetimeYears,
			realRate, DefaultReplacementMultiplier,
		)
	}

	for _, c := range []ComponentNPC{b.PV, b.Wind, b.Hydro, b.Storage} {
		b.Capital += c.Capital
		b.ReplacementPV += c.ReplacementPV
		b.OMPV += c.OMPV
		b.SalvagePV += c.SalvagePV
		b.NPC += c.NPC
		b.Annualized += c.Annualized
	}

	b.LifetimeServedKWh = annualServedKWh * float64(project.LifetimeYears)
	if b.LifetimeServedKWh > 0 {
		b.LCOE = b.NPC / b.LifetimeServedKWh
	}
	return b
}
