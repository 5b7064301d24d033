package report

import (
	"fmt"

	"github.com/tealeg/xlsx/v2"

	"hybrid-sizer/internal/analysis"
	"hybrid-sizer/internal/dispatch"
	"hybrid-sizer/internal/finance"
	"hybrid-sizer/internal/model"
	"hybrid-sizer/internal/optimize"
)

// Sheet names written to a results workbook.
const (
	SheetSummary        = "Summary"
	SheetCostBreakdown  = "Cost_Breakdown"
	SheetCashFlow       = "Cash_Flow"
	SheetAllResults     = "All_Results"
	SheetFeasible       = "Feasible_Solutions"
	SheetDispatch       = "Hourly_Dispatch"
	SheetTypicalDay     = "Typical_Day"
	SheetWindowAnalysis = "Hydro_Window_Analysis"
)

// WriteResults writes a full results workbook: a summary of the optimal
// system, its cost breakdown, the complete result grid, feasible solutions
// sorted by NPC, the optimal hourly dispatch, and the hydro window ranking.
//
// When no feasible solution exists, only the summary and result sheets are
// written.
func WriteResults(path string, project model.ProjectParams, techs model.Technologies, series model.Series, out *optimize.Outcome) error {
	f := xlsx.NewFile()

	if err := writeSummary(f, out); err != nil {
		return err
	}
	if out.Optimal != nil {
		if err := writeCostBreakdown(f, out.Optimal); err != nil {
			return err
		}
		if err := writeCashFlow(f, finance.CashFlow(out.Optimal.Candidate, techs, project)); err != nil {
			return err
		}
	}
	if err := writeResults(f, SheetAllResults, out.Results); err != nil {
		return err
	}
	if err := writeResults(f, SheetFeasible, feasibleByNPC(out.Results)); err != nil {
		return err
	}
	if out.Optimal != nil {
		opt := out.Optimal
		sim := dispatch.Simulate(series, opt.Candidate, techs, opt.Window)
		if err := writeDispatch(f, sim.Trace); err != nil {
			return err
		}
		if err := writeTypicalDay(f, analysis.TypicalDay(sim.Trace)); err != nil {
			return err
		}
		if err := writeWindowAnalysis(f, optimize.RankWindows(series, opt.Candidate, techs)); err != nil {
			return err
		}
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save results workbook: %w", err)
	}
	return nil
}

func feasibleByNPC(results []optimize.Result) []optimize.Result {
	var out []optimize.Result
	for _, r := range results {
		if r.Feasible {
			out = append(out, r)
		}
	}
	// Insertion sort keeps equal-NPC results in grid order.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Cost.NPC < out[j-1].Cost.NPC; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func writeSummary(f *xlsx.File, out *optimize.Outcome) error {
	sheet, err := f.AddSheet(SheetSummary)
	if err != nil {
		return err
	}
	addHeader(sheet, "Parameter", "Value")

	feasibleCount := 0
	for _, r := range out.Results {
		if r.Feasible {
			feasibleCount++
		}
	}

	addParam := func(name string, value interface{}) {
		row := sheet.AddRow()
		row.AddCell().SetString(name)
		setCell(row.AddCell(), value)
	}

	addParam("Optimization Method", "Grid Search")
	addParam("NPC Calculation Method", "HOMER-style component NPC")
	addParam("Total Combinations Tested", len(out.Results))
	addParam("Feasible Solutions", feasibleCount)
	addParam("Search Duration (s)", out.Elapsed.Seconds())

	if out.Optimal == nil {
		addParam("Optimal Found", "NO")
		return nil
	}
	opt := out.Optimal

	addParam("Optimal Found", "YES")
	addParam("Optimal Iteration", opt.Iteration)
	addParam("Real Discount Rate (%)", opt.Cost.RealRate*100)
	addParam("CRF", opt.Cost.CRF)

	addParam("PV_kW", opt.Candidate.PVKW)
	addParam("Wind_kW", opt.Candidate.WindKW)
	addParam("Hydro_kW", opt.Candidate.HydroKW)
	addParam("Hydro_Window_Start", opt.Window.Start)
	addParam("Hydro_Window_End", opt.Window.End)
	addParam("Hydro_Window_Hours", opt.Window.Hours())
	addParam("BESS_Power_kW", opt.Candidate.StoragePowerKW)
	addParam("BESS_Capacity_kWh", opt.StorageEnergyKWh)
	addParam("BESS_Annual_Discharge_kWh", opt.Totals.DischargeKWh)
	addParam("BESS_Cycles_Per_Year", opt.Totals.CyclesPerYear)

	addParam("NPC_$", opt.Cost.NPC)
	addParam("Capital_$", opt.Cost.Capital)
	addParam("Replacement_$", opt.Cost.ReplacementPV)
	addParam("OM_$", opt.Cost.OMPV)
	addParam("Salvage_$", opt.Cost.SalvagePV)
	addParam("Annualized_$/yr", opt.Cost.Annualized)
	addParam("LCOE_$/kWh", opt.Cost.LCOE)
	addParam("LCOE_$/MWh", opt.Cost.LCOE*1000)

	addParam("Unmet_%", opt.Totals.UnmetPercent)
	addParam("PV_Fraction_%", opt.Mix.PVFraction)
	addParam("Wind_Fraction_%", opt.Mix.WindFraction)
	addParam("Hydro_Fraction_%", opt.Mix.HydroFraction)
	addParam("RE_Penetration_%", opt.Mix.REPenetration)
	addParam("BESS_Contribution_%", opt.Mix.StorageContribution)
	addParam("Excess_Fraction_%", opt.Mix.ExcessFraction)
	return nil
}

func writeCostBreakdown(f *xlsx.File, opt *optimize.Result) error {
	sheet, err := f.AddSheet(SheetCostBreakdown)
	if err != nil {
		return err
	}
	addHeader(sheet, "Component", "Capital_$", "Replacement_$", "OM_$", "Salvage_$", "NPC_$", "Annualized_$/yr")

	addComponent := func(name string, capital, repl, om, salvage, npc, annualized float64) {
		row := sheet.AddRow()
		row.AddCell().SetString(name)
		row.AddCell().SetFloat(capital)
		row.AddCell().SetFloat(repl)
		row.AddCell().SetFloat(om)
		row.AddCell().SetFloat(salvage)
		row.AddCell().SetFloat(npc)
		row.AddCell().SetFloat(annualized)
	}

	c := opt.Cost
	addComponent("PV", c.PV.Capital, c.PV.ReplacementPV, c.PV.OMPV, c.PV.SalvagePV, c.PV.NPC, c.PV.Annualized)
	addComponent("Wind", c.Wind.Capital, c.Wind.ReplacementPV, c.Wind.OMPV, c.Wind.SalvagePV, c.Wind.NPC, c.Wind.Annualized)
	addComponent("Hydro", c.Hydro.Capital, c.Hydro.ReplacementPV, c.Hydro.OMPV, c.Hydro.SalvagePV, c.Hydro.NPC, c.Hydro.Annualized)
	addComponent("BESS", c.Storage.Capital, c.Storage.ReplacementPV, c.Storage.OMPV, c.Storage.SalvagePV, c.Storage.NPC, c.Storage.Annualized)
	addComponent("System", c.Capital, c.ReplacementPV, c.OMPV, c.SalvagePV, c.NPC, c.Annualized)
	return nil
}

func writeResults(f *xlsx.File, sheetName string, results []optimize.Result) error {
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return err
	}
	addHeader(sheet,
		"Iteration", "PV_kW", "Wind_kW", "Hydro_kW",
		"Hydro_Window_Start", "Hydro_Window_End",
		"BESS_Power_kW", "BESS_Capacity_kWh",
		"BESS_Annual_Discharge_kWh", "BESS_Cycles_Per_Year",
		"Unmet_%", "Feasible",
		"NPC_$", "Capital_$", "Replacement_$", "OM_$", "Salvage_$", "Annualized_$/yr",
		"LCOE_$/kWh", "LCOE_$/MWh", "Real_Discount_Rate_%", "CRF",
		"Total_Load_kWh", "Total_Energy_Served_kWh",
		"PV_Energy_kWh", "Wind_Energy_kWh", "Hydro_Energy_kWh",
		"Unmet_kWh", "Excess_kWh",
		"PV_Fraction_%", "Wind_Fraction_%", "Hydro_Fraction_%",
		"RE_Penetration_%", "BESS_Contribution_%", "Excess_Fraction_%",
	)

	for _, r := range results {
		row := sheet.AddRow()
		row.AddCell().SetInt(r.Iteration)
		row.AddCell().SetFloat(r.Candidate.PVKW)
		row.AddCell().SetFloat(r.Candidate.WindKW)
		row.AddCell().SetFloat(r.Candidate.HydroKW)
		row.AddCell().SetInt(r.Window.Start)
		row.AddCell().SetInt(r.Window.End)
		row.AddCell().SetFloat(r.Candidate.StoragePowerKW)
		row.AddCell().SetFloat(r.StorageEnergyKWh)
		row.AddCell().SetFloat(r.Totals.DischargeKWh)
		row.AddCell().SetFloat(r.Totals.CyclesPerYear)
		row.AddCell().SetFloat(r.Totals.UnmetPercent)
		row.AddCell().SetBool(r.Feasible)
		row.AddCell().SetFloat(r.Cost.NPC)
		row.AddCell().SetFloat(r.Cost.Capital)
		row.AddCell().SetFloat(r.Cost.ReplacementPV)
		row.AddCell().SetFloat(r.Cost.OMPV)
		row.AddCell().SetFloat(r.Cost.SalvagePV)
		row.AddCell().SetFloat(r.Cost.Annualized)
		row.AddCell().SetFloat(r.Cost.LCOE)
		row.AddCell().SetFloat(r.Cost.LCOE * 1000)
		row.AddCell().SetFloat(r.Cost.RealRate * 100)
		row.AddCell().SetFloat(r.Cost.CRF)
		row.AddCell().SetFloat(r.Totals.LoadKWh)
		row.AddCell().SetFloat(r.Totals.ServedKWh)
		row.AddCell().SetFloat(r.Totals.PVKWh)
		row.AddCell().SetFloat(r.Totals.WindKWh)
		row.AddCell().SetFloat(r.Totals.HydroKWh)
		row.AddCell().SetFloat(r.Totals.UnmetKWh)
		row.AddCell().SetFloat(r.Totals.ExcessKWh)
		row.AddCell().SetFloat(r.Mix.PVFraction)
		row.AddCell().SetFloat(r.Mix.WindFraction)
		row.AddCell().SetFloat(r.Mix.HydroFraction)
		row.AddCell().SetFloat(r.Mix.REPenetration)
		row.AddCell().SetFloat(r.Mix.StorageContribution)
		row.AddCell().SetFloat(r.Mix.ExcessFraction)
	}
	return nil
}

func writeCashFlow(f *xlsx.File, flows []finance.YearFlow) error {
	sheet, err := f.AddSheet(SheetCashFlow)
	if err != nil {
		return err
	}
	addHeader(sheet, "Year", "Capital_$", "OM_$", "Replacement_$", "Salvage_$", "Net_$")
	for _, y := range flows {
		row := sheet.AddRow()
		row.AddCell().SetInt(y.Year)
		row.AddCell().SetFloat(y.Capital)
		row.AddCell().SetFloat(y.OM)
		row.AddCell().SetFloat(y.Replacement)
		row.AddCell().SetFloat(y.Salvage)
		row.AddCell().SetFloat(y.Net)
	}
	return nil
}

func writeTypicalDay(f *xlsx.File, day []analysis.HourOfDayAverage) error {
	sheet, err := f.AddSheet(SheetTypicalDay)
	if err != nil {
		return err
	}
	addHeader(sheet,
		"Hour_of_Day", "Load_kW", "PV_kW", "Wind_kW", "Hydro_kW",
		"BESS_Charge_kW", "BESS_Discharge_kW", "SOC_kWh",
	)
	for _, h := range day {
		row := sheet.AddRow()
		row.AddCell().SetInt(h.HourOfDay)
		row.AddCell().SetFloat(h.LoadKW)
		row.AddCell().SetFloat(h.PVKW)
		row.AddCell().SetFloat(h.WindKW)
		row.AddCell().SetFloat(h.HydroKW)
		row.AddCell().SetFloat(h.ChargeKW)
		row.AddCell().SetFloat(h.DischargeKW)
		row.AddCell().SetFloat(h.SOCKWh)
	}
	return nil
}

func writeDispatch(f *xlsx.File, trace []dispatch.HourRow) error {
	sheet, err := f.AddSheet(SheetDispatch)
	if err != nil {
		return err
	}
	addHeader(sheet,
		"Hour", "Load_kW", "PV_kW", "Wind_kW", "Hydro_kW", "Hydro_Active",
		"BESS_Charge_kW", "BESS_Discharge_kW", "SOC_kWh", "Unmet_kW", "Excess_kW",
	)
	for _, h := range trace {
		row := sheet.AddRow()
		row.AddCell().SetInt(h.Hour)
		row.AddCell().SetFloat(h.LoadKW)
		row.AddCell().SetFloat(h.PVKW)
		row.AddCell().SetFloat(h.WindKW)
		row.AddCell().SetFloat(h.HydroKW)
		row.AddCell().SetBool(h.HydroActive)
		row.AddCell().SetFloat(h.ChargeKW)
		row.AddCell().SetFloat(h.DischargeKW)
		row.AddCell().SetFloat(h.SOCKWh)
		row.AddCell().SetFloat(h.UnmetKW)
		row.AddCell().SetFloat(h.ExcessKW)
	}
	return nil
}

func writeWindowAnalysis(f *xlsx.File, ranked []optimize.WindowResult) error {
	sheet, err := f.AddSheet(SheetWindowAnalysis)
	if err != nil {
		return err
	}
	addHeader(sheet, "Rank", "Window_Range", "Start_Hour", "End_Hour", "Unmet_%")
	for i, w := range ranked {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		row.AddCell().SetString(w.Window.String())
		row.AddCell().SetInt(w.Window.Start)
		row.AddCell().SetInt(w.Window.End)
		row.AddCell().SetFloat(w.UnmetPercent)
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, names ...string) {
	row := sheet.AddRow()
	for _, name := range names {
		row.AddCell().SetString(name)
	}
}

func setCell(cell *xlsx.Cell, value interface{}) {
	switch v := value.(type) {
	case string:
		cell.SetString(v)
	case int:
		cell.SetInt(v)
	case float64:
		cell.SetFloat(v)
	case bool:
		cell.SetBool(v)
	default:
		cell.SetString(fmt.Sprint(v))
	}
}
