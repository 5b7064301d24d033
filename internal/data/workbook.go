package data

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx/v2"

	"hybrid-sizer/internal/model"
	"hybrid-sizer/internal/optimize"
)

// Sheet names expected in an input workbook.
const (
	SheetConfiguration = "Configuration"
	SheetGridSearch    = "Grid_Search_Config"
	SheetSolar         = "Solar_PV"
	SheetWind          = "Wind"
	SheetHydro         = "Hydro"
	SheetBESS          = "BESS"
	SheetLoadProfile   = "Load_Profile"
	SheetPVProfile     = "PVsyst_Profile"
	SheetWindProfile   = "Wind_Profile"
)

const defaultInflationRate = 0.02

// WorkbookInputs is everything an input workbook provides: project economics,
// technology parameters, the search space, and the hourly profiles.
type WorkbookInputs struct {
	Project model.ProjectParams
	Techs   model.Technologies
	Space   optimize.Space
	Series  model.Series
}

// ReadWorkbook parses an input workbook (.xlsx) into typed inputs.
//
// Parameter sheets hold two columns, Parameter and Value. The Wind sheet and
// the Wind_Profile sheet are optional; when absent, wind is disabled and its
// profile is all zeros.
func ReadWorkbook(path string) (*WorkbookInputs, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	var in WorkbookInputs

	if err := readConfiguration(f, &in.Project); err != nil {
		return nil, err
	}
	if err := readGridSearch(f, &in.Space); err != nil {
		return nil, err
	}
	if err := readSolar(f, &in.Techs.Solar); err != nil {
		return nil, err
	}
	if err := readWind(f, &in.Techs.Wind); err != nil {
		return nil, err
	}
	if err := readHydro(f, &in.Techs.Hydro); err != nil {
		return nil, err
	}
	if err := readStorage(f, &in.Techs.Storage); err != nil {
		return nil, err
	}

	in.Series.LoadKW, err = readProfileColumn(f, SheetLoadProfile, "Load_kW")
	if err != nil {
		return nil, err
	}
	in.Series.PVOutputKW, err = readProfileColumn(f, SheetPVProfile, "Output_kW")
	if err != nil {
		return nil, err
	}
	if in.Techs.Wind.Enabled {
		in.Series.WindOutputKW, err = readProfileColumn(f, SheetWindProfile, "Output_kW")
		if err != nil {
			// Wind enabled but no profile sheet: treat as zero output.
			in.Series.WindOutputKW = make([]float64, len(in.Series.LoadKW))
		}
	} else {
		in.Series.WindOutputKW = make([]float64, len(in.Series.LoadKW))
	}

	return &in, nil
}

// readConfiguration matches parameter names case-insensitively and by
// substring, so sheets with slightly different labels still parse.
func readConfiguration(f *xlsx.File, p *model.ProjectParams) error {
	rows, err := paramRows(f, SheetConfiguration)
	if err != nil {
		return err
	}
	sawInflation := false
	for _, r := range rows {
		name := strings.ToLower(r.Name)
		switch {
		case strings.Contains(name, "target unmet"):
			v, err := r.Float()
			if err != nil {
				return err
			}
			p.TargetUnmetPercent = v
		case strings.Contains(name, "discount rate") && !strings.Contains(name, "inflation"):
			v, err := r.Float()
			if err != nil {
				return err
			}
			p.DiscountRate = v
		case strings.Contains(name, "inflation"):
			v, err := r.Float()
			if err != nil {
				return err
			}
			p.InflationRate = v
			sawInflation = true
		case strings.Contains(name, "project lifetime") || strings.Contains(name, "lifetime"):
			v, err := r.Int()
			if err != nil {
				return err
			}
			p.LifetimeYears = v
		}
	}
	if !sawInflation {
		p.InflationRate = defaultInflationRate
	}
	return nil
}

func readGridSearch(f *xlsx.File, s *optimize.Space) error {
	rows, err := paramRows(f, SheetGridSearch)
	if err != nil {
		return err
	}
	for _, r := range rows {
		var dst *float64
		switch r.Name {
		case "PV Search Start":
			dst = &s.PV.Start
		case "PV Search End":
			dst = &s.PV.End
		case "PV Search Step":
			dst = &s.PV.Step
		case "Wind Search Start":
			dst = &s.Wind.Start
		case "Wind Search End":
			dst = &s.Wind.End
		case "Wind Search Step":
			dst = &s.Wind.Step
		case "Hydro Search Start":
			dst = &s.Hydro.Start
		case "Hydro Search End":
			dst = &s.Hydro.End
		case "Hydro Search Step":
			dst = &s.Hydro.Step
		case "BESS Search Start":
			dst = &s.Storage.Start
		case "BESS Search End":
			dst = &s.Storage.End
		case "BESS Search Step":
			dst = &s.Storage.Step
		case "Max Combinations":
			v, err := r.Int()
			if err != nil {
				return err
			}
			s.MaxCombinations = v
			continue
		default:
			continue
		}
		v, err := r.Float()
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

func readSolar(f *xlsx.File, p *model.SolarParams) error {
	rows, err := paramRows(f, SheetSolar)
	if err != nil {
		return err
	}
	for _, r := range rows {
		switch r.Name {
		case "PVsyst Baseline":
			if p.BaselineKW, err = r.Float(); err != nil {
				return err
			}
		case "Capex":
			if p.CapexPerKW, err = r.Float(); err != nil {
				return err
			}
		case "O&M Cost":
			if p.OMPerKWYear, err = r.Float(); err != nil {
				return err
			}
		case "Lifetime":
			if p.LifetimeYears, err = r.Int(); err != nil {
				return err
			}
		}
	}
	return nil
}

func readWind(f *xlsx.File, p *model.WindParams) error {
	rows, err := paramRows(f, SheetWind)
	if err != nil {
		// Optional sheet: absence means wind is excluded from the system.
		*p = model.WindParams{LifetimeYears: 25}
		return nil
	}
	for _, r := range rows {
		switch r.Name {
		case "Include Wind?":
			p.Enabled = r.YesNo()
		case "Capex":
			if p.CapexPerKW, err = r.Float(); err != nil {
				return err
			}
		case "O&M Cost":
			if p.OMPerKWYear, err = r.Float(); err != nil {
				return err
			}
		case "Lifetime":
			if p.LifetimeYears, err = r.Int(); err != nil {
				return err
			}
		}
	}
	return nil
}

func readHydro(f *xlsx.File, p *model.HydroParams) error {
	rows, err := paramRows(f, SheetHydro)
	if err != nil {
		return err
	}
	p.HoursPerDay = 6
	for _, r := range rows {
		switch r.Name {
		case "Include Hydro?":
			p.Enabled = r.YesNo()
		case "Capex":
			if p.CapexPerKW, err = r.Float(); err != nil {
				return err
			}
		case "O&M Cost":
			if p.OMPerKWYear, err = r.Float(); err != nil {
				return err
			}
		case "Lifetime":
			if p.LifetimeYears, err = r.Int(); err != nil {
				return err
			}
		case "Operating Hours":
			if p.HoursPerDay, err = r.Int(); err != nil {
				return err
			}
		}
	}
	return nil
}

func readStorage(f *xlsx.File, p *model.StorageParams) error {
	rows, err := paramRows(f, SheetBESS)
	if err != nil {
		return err
	}
	for _, r := range rows {
		switch r.Name {
		case "Duration":
			if p.DurationHours, err = r.Float(); err != nil {
				return err
			}
		case "Charge Efficiency":
			if p.ChargeEfficiency, err = r.Percent(); err != nil {
				return err
			}
		case "Discharge Efficiency":
			if p.DischargeEfficiency, err = r.Percent(); err != nil {
				return err
			}
		case "Min SOC":
			if p.MinSOC, err = r.Percent(); err != nil {
				return err
			}
		case "Max SOC":
			if p.MaxSOC, err = r.Percent(); err != nil {
				return err
			}
		case "Power Capex":
			if p.PowerCapexPerKW, err = r.Float(); err != nil {
				return err
			}
		case "Energy Capex":
			if p.EnergyCapexPerKWh, err = r.Float(); err != nil {
				return err
			}
		case "O&M Cost":
			if p.OMPerKWYear, err = r.Float(); err != nil {
				return err
			}
		case "Lifetime":
			if p.LifetimeYears, err = r.Int(); err != nil {
				return err
			}
		}
	}
	return nil
}

// paramRow is one Parameter/Value pair from a parameter sheet.
type paramRow struct {
	Sheet string
	Name  string
	Value string
}

func (r paramRow) Float() (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.Value), 64)
	if err != nil {
		return 0, fmt.Errorf("sheet %s: parameter %q: %w", r.Sheet, r.Name, err)
	}
	return v, nil
}

func (r paramRow) Int() (int, error) {
	v, err := r.Float()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// Percent parses a value written in percent (e.g. 95 for 95%).
func (r paramRow) Percent() (float64, error) {
	v, err := r.Float()
	if err != nil {
		return 0, err
	}
	return v / 100.0, nil
}

func (r paramRow) YesNo() bool {
	return strings.EqualFold(strings.TrimSpace(r.Value), "YES")
}

func paramRows(f *xlsx.File, name string) ([]paramRow, error) {
	sheet, ok := f.Sheet[name]
	if !ok {
		return nil, fmt.Errorf("workbook is missing sheet %q", name)
	}
	var rows []paramRow
	for i, row := range sheet.Rows {
		if i == 0 {
			continue // header
		}
		if len(row.Cells) < 2 {
			continue
		}
		param := strings.TrimSpace(row.Cells[0].String())
		if param == "" {
			continue
		}
		rows = append(rows, paramRow{Sheet: sheet.Name, Name: param, Value: row.Cells[1].String()})
	}
	return rows, nil
}

// readProfileColumn reads one hourly column from a profile sheet, located by
// its header name.
func readProfileColumn(f *xlsx.File, sheetName, column string) ([]float64, error) {
	sheet, ok := f.Sheet[sheetName]
	if !ok {
		return nil, fmt.Errorf("workbook is missing sheet %q", sheetName)
	}
	if len(sheet.Rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheetName)
	}

	col := -1
	for j, cell := range sheet.Rows[0].Cells {
		if strings.TrimSpace(cell.String()) == column {
			col = j
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("sheet %s has no column %q", sheetName, column)
	}

	var out []float64
	for _, row := range sheet.Rows[1:] {
		if col >= len(row.Cells) {
			continue
		}
		raw := strings.TrimSpace(row.Cells[col].String())
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", sheetName, len(out)+2, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("sheet %s has no data rows", sheetName)
	}
	return out, nil
}
