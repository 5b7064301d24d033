package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"hybrid-sizer/internal/model"
)

// LoadSeriesCSV reads hourly profiles from a CSV file with a header row.
// Required column: load_kw. Optional: pv_output_kw, wind_output_kw (absent
// columns become zero series).
func LoadSeriesCSV(path string) (model.Series, error) {
	var s model.Series

	f, err := os.Open(path)
	if err != nil {
		return s, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return s, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) < 2 {
		return s, fmt.Errorf("%s has no data rows", path)
	}

	cols := map[string]int{}
	for j, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = j
	}
	loadCol, ok := cols["load_kw"]
	if !ok {
		return s, fmt.Errorf("%s has no load_kw column", path)
	}
	pvCol, hasPV := cols["pv_output_kw"]
	windCol, hasWind := cols["wind_output_kw"]

	hours := len(records) - 1
	s.LoadKW = make([]float64, hours)
	s.PVOutputKW = make([]float64, hours)
	s.WindOutputKW = make([]float64, hours)

	parse := func(row []string, col, line int) (float64, error) {
		if col >= len(row) {
			return 0, fmt.Errorf("%s line %d: short row", path, line)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return 0, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		return v, nil
	}

	for i, row := range records[1:] {
		line := i + 2
		if s.LoadKW[i], err = parse(row, loadCol, line); err != nil {
			return model.Series{}, err
		}
		if hasPV {
			if s.PVOutputKW[i], err = parse(row, pvCol, line); err != nil {
				return model.Series{}, err
			}
		}
		if hasWind {
			if s.WindOutputKW[i], err = parse(row, windCol, line); err != nil {
				return model.Series{}, err
			}
		}
	}
	return s, nil
}
