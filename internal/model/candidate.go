package model

import "errors"

// Candidate is one point of the capacity search space. Storage energy is not
// searched directly; it is derived from power and the configured duration.
type Candidate struct {
	PVKW           float64
	WindKW         float64
	HydroKW        float64
	StoragePowerKW float64
}

// StorageEnergyKWh derives the battery energy capacity at the given duration.
func (c Candidate) StorageEnergyKWh(durationHours float64) float64 {
	return c.StoragePowerKW * durationHours
}

func (c Candidate) Validate() error {
	if c.PVKW < 0 || c.WindKW < 0 || c.HydroKW < 0 || c.StoragePowerKW < 0 {
		return errors.New("candidate capacities must be >= 0")
	}
	return nil
}
