package dispatch

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteTraceCSV writes an hourly dispatch trace to a CSV file. This is the
// primary artifact for "what happened" in one simulation.
func WriteTraceCSV(path string, trace []HourRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"hour",
		"load_kw",
		"pv_kw",
		"wind_kw",
		"hydro_kw",
		"hydro_active",
		"bess_charge_kw",
		"bess_discharge_kw",
		"bess_soc_kwh",
		"unmet_kw",
		"excess_kw",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range trace {
		row := []string{
			strconv.Itoa(r.Hour),
			fmtFloat(r.LoadKW),
			fmtFloat(r.PVKW),
			fmtFloat(r.WindKW),
			fmtFloat(r.HydroKW),
			strconv.FormatBool(r.HydroActive),
			fmtFloat(r.ChargeKW),
			fmtFloat(r.DischargeKW),
			fmtFloat(r.SOCKWh),
			fmtFloat(r.UnmetKW),
			fmtFloat(r.ExcessKW),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
