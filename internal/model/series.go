package model

import (
	"errors"
	"fmt"
)

// Series holds the hourly input profiles for one simulation horizon,
// typically 8760 hours (one representative year). Hour-of-day is implicit:
// index mod 24.
//
// LoadKW is the demand. PVOutputKW is the production of a reference PV plant
// of SolarParams.BaselineKW; WindOutputKW is the production of a 1 kW
// reference turbine. Both are scaled by the candidate capacities at dispatch
// time.
type Series struct {
	LoadKW       []float64
	PVOutputKW   []float64
	WindOutputKW []float64
}

// Hours returns the horizon length.
func (s Series) Hours() int { return len(s.LoadKW) }

func (s Series) Validate() error {
	if len(s.LoadKW) == 0 {
		return errors.New("load profile is empty")
	}
	if len(s.PVOutputKW) != len(s.LoadKW) {
		return fmt.Errorf("pv profile length %d does not match load profile length %d",
			len(s.PVOutputKW), len(s.LoadKW))
	}
	if len(s.WindOutputKW) != len(s.LoadKW) {
		return fmt.Errorf("wind profile length %d does not match load profile length %d",
			len(s.WindOutputKW), len(s.LoadKW))
	}
	for i, v := range s.LoadKW {
		if v < 0 {
			return fmt.Errorf("load profile hour %d is negative", i)
		}
	}
	for i, v := range s.PVOutputKW {
		if v < 0 {
			return fmt.Errorf("pv profile hour %d is negative", i)
		}
	}
	for i, v := range s.WindOutputKW {
		if v < 0 {
			return fmt.Errorf("wind profile hour %d is negative", i)
		}
	}
	return nil
}

// TotalLoadKWh sums the load over the horizon (1-hour intervals).
func (s Series) TotalLoadKWh() float64 {
	total := 0.0
	for _, v := range s.LoadKW {
		total += v
	}
	return total
}
