package model

import "errors"

// SolarParams defines the PV technology.
// Units:
// - CapexPerKW: $/kW installed
// - OMPerKWYear: $/kW/year
// - BaselineKW: reference capacity the PV production profile was generated at
type SolarParams struct {
	CapexPerKW    float64
	OMPerKWYear   float64
	LifetimeYears int
	BaselineKW    float64
}

func (p SolarParams) Validate() error {
	if p.CapexPerKW < 0 {
		return errors.New("solar CapexPerKW must be >= 0")
	}
	if p.OMPerKWYear < 0 {
		return errors.New("solar OMPerKWYear must be >= 0")
	}
	if p.LifetimeYears <= 0 {
		return errors.New("solar LifetimeYears must be > 0")
	}
	if p.BaselineKW <= 0 {
		return errors.New("solar BaselineKW must be > 0")
	}
	return nil
}

// WindParams defines the wind technology. When Enabled is false the
// simulator produces zero wind output regardless of capacity.
type WindParams struct {
	Enabled       bool
	CapexPerKW    float64
	OMPerKWYear   float64
	LifetimeYears int
}

func (p WindParams) Validate() error {
	if p.CapexPerKW < 0 {
		return errors.New("wind CapexPerKW must be >= 0")
	}
	if p.OMPerKWYear < 0 {
		return errors.New("wind OMPerKWYear must be >= 0")
	}
	if p.LifetimeYears <= 0 {
		return errors.New("wind LifetimeYears must be > 0")
	}
	return nil
}

// HydroParams defines the run-of-river hydro technology. HoursPerDay is the
// fixed daily runtime; the operating window placement is optimized per
// candidate, not configured.
type HydroParams struct {
	Enabled       bool
	CapexPerKW    float64
	OMPerKWYear   float64
	LifetimeYears int
	HoursPerDay   int
}

func (p HydroParams) Validate() error {
	if p.CapexPerKW < 0 {
		return errors.New("hydro CapexPerKW must be >= 0")
	}
	if p.OMPerKWYear < 0 {
		return errors.New("hydro OMPerKWYear must be >= 0")
	}
	if p.LifetimeYears <= 0 {
		return errors.New("hydro LifetimeYears must be > 0")
	}
	if p.HoursPerDay < 1 || p.HoursPerDay > 24 {
		return errors.New("hydro HoursPerDay must be in [1, 24]")
	}
	return nil
}

// StorageParams defines the battery energy storage system.
// Units:
// - DurationHours: hours of storage at rated power (energy = power * duration)
// - Efficiencies: 0..1
// - MinSOC/MaxSOC: fraction 0..1 of energy capacity
type StorageParams struct {
	DurationHours       float64
	PowerCapexPerKW     float64
	EnergyCapexPerKWh   float64
	OMPerKWYear         float64
	LifetimeYears       int
	ChargeEfficiency    float64
	DischargeEfficiency float64
	MinSOC              float64
	MaxSOC              float64
}

func (p StorageParams) Validate() error {
	if p.DurationHours <= 0 {
		return errors.New("storage DurationHours must be > 0")
	}
	if p.PowerCapexPerKW < 0 || p.EnergyCapexPerKWh < 0 {
		return errors.New("storage capex rates must be >= 0")
	}
	if p.OMPerKWYear < 0 {
		return errors.New("storage OMPerKWYear must be >= 0")
	}
	if p.LifetimeYears <= 0 {
		return errors.New("storage LifetimeYears must be > 0")
	}
	if p.ChargeEfficiency <= 0 || p.ChargeEfficiency > 1 {
		return errors.New("storage ChargeEfficiency must be in (0, 1]")
	}
	if p.DischargeEfficiency <= 0 || p.DischargeEfficiency > 1 {
		return errors.New("storage DischargeEfficiency must be in (0, 1]")
	}
	if p.MinSOC < 0 || p.MinSOC > 1 || p.MaxSOC < 0 || p.MaxSOC > 1 || p.MinSOC > p.MaxSOC {
		return errors.New("storage MinSOC/MaxSOC must satisfy 0<=MinSOC<=MaxSOC<=1")
	}
	return nil
}

// Technologies bundles the four technology definitions for one run.
type Technologies struct {
	Solar   SolarParams
	Wind    WindParams
	Hydro   HydroParams
	Storage StorageParams
}

func (t Technologies) Validate() error {
	if err := t.Solar.Validate(); err != nil {
		return err
	}
	if err := t.Wind.Validate(); err != nil {
		return err
	}
	if err := t.Hydro.Validate(); err != nil {
		return err
	}
	return t.Storage.Validate()
}
