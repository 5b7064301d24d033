package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hybrid-sizer/internal/model"
)

func TestCashFlowSchedule(t *testing.T) {
	project := model.ProjectParams{DiscountRate: 0.08, InflationRate: 0.02, LifetimeYears: 25}
	cand := model.Candidate{PVKW: 1000, StoragePowerKW: 200}
	techs := testTechs()

	flows := CashFlow(cand, techs, project)
	require.Len(t, flows, 26)

	pvCapital := 1000 * techs.Solar.CapexPerKW
	storageCapital := 200*techs.Storage.PowerCapexPerKW + 800*techs.Storage.EnergyCapexPerKWh

	// Year 0: all capital, nothing else.
	assert.InDelta(t, -(pvCapital + storageCapital), flows[0].Capital, 1e-6)
	assert.Zero(t, flows[0].OM)
	assert.Zero(t, flows[0].Replacement)

	// Annual O&M from year 1 on.
	annualOM := 1000*techs.Solar.OMPerKWYear + 200*techs.Storage.OMPerKWYear
	assert.InDelta(t, -annualOM, flows[1].OM, 1e-6)
	assert.InDelta(t, -annualOM, flows[25].OM, 1e-6)

	// Storage (10y life) replaced in years 10 and 20; PV (25y) never.
	assert.InDelta(t, -storageCapital*DefaultReplacementMultiplier, flows[10].Replacement, 1e-6)
	assert.InDelta(t, -storageCapital*DefaultReplacementMultiplier, flows[20].Replacement, 1e-6)
	assert.Zero(t, flows[15].Replacement)

	// Final year: storage salvage (age 25 mod 10 = 5, half life left);
	// PV is exactly depreciated.
	assert.InDelta(t, storageCapital*0.5, flows[25].Salvage, 1e-6)

	for _, f := range flows {
		assert.InDelta(t, f.Capital+f.OM+f.Replacement+f.Salvage, f.Net, 1e-9)
	}
}

func TestCashFlowEmptyCandidate(t *testing.T) {
	project := model.ProjectParams{DiscountRate: 0.08, InflationRate: 0.02, LifetimeYears: 10}
	flows := CashFlow(model.Candidate{}, testTechs(), project)
	require.Len(t, flows, 11)
	for _, f := range flows {
		assert.Zero(t, f.Net)
	}
}
