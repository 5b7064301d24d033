package models

// OptimizeRequest is the request body for running a sizing optimization.
type OptimizeRequest struct {
	Project  ProjectRequest  `json:"project" binding:"required"`
	Solar    SolarRequest    `json:"solar" binding:"required"`
	Wind     WindRequest     `json:"wind,omitempty"`
	Hydro    HydroRequest    `json:"hydro,omitempty"`
	Storage  StorageRequest  `json:"storage,omitempty"`
	Search   SearchRequest   `json:"search" binding:"required"`
	Profiles ProfilesRequest `json:"profiles" binding:"required"`
	Options  OptimizeOptions `json:"options,omitempty"`
}

// ProjectRequest defines project-level economics.
type ProjectRequest struct {
	DiscountRate       float64 `json:"discount_rate"`
	InflationRate      float64 `json:"inflation_rate"`
	LifetimeYears      int     `json:"lifetime_years"`
	TargetUnmetPercent float64 `json:"target_unmet_percent"`
}

// SolarRequest defines PV cost and profile scaling parameters.
type SolarRequest struct {
	CapexPerKW    float64 `json:"capex_per_kw"`
	OMPerKWYear   float64 `json:"om_per_kw_year"`
	LifetimeYears int     `json:"lifetime_years"`
	BaselineKW    float64 `json:"baseline_kw"`
}

// WindRequest defines wind cost parameters.
type WindRequest struct {
	Enabled       bool    `json:"enabled"`
	CapexPerKW    float64 `json:"capex_per_kw"`
	OMPerKWYear   float64 `json:"om_per_kw_year"`
	LifetimeYears int     `json:"lifetime_years"`
}

// HydroRequest defines hydro cost and operating-window parameters.
type HydroRequest struct {
	Enabled       bool    `json:"enabled"`
	CapexPerKW    float64 `json:"capex_per_kw"`
	OMPerKWYear   float64 `json:"om_per_kw_year"`
	LifetimeYears int     `json:"lifetime_years"`
	HoursPerDay   int     `json:"hours_per_day"`
}

// StorageRequest defines battery parameters. When storage_file is set the
// named preset is loaded first and non-zero fields here override it.
type StorageRequest struct {
	StorageFile         string  `json:"storage_file,omitempty"`
	Name                string  `json:"name,omitempty"`
	DurationHours       float64 `json:"duration_hours"`
	PowerCapexPerKW     float64 `json:"power_capex_per_kw"`
	EnergyCapexPerKWh   float64 `json:"energy_capex_per_kwh"`
	OMPerKWYear         float64 `json:"om_per_kw_year"`
	LifetimeYears       int     `json:"lifetime_years"`
	ChargeEfficiency    float64 `json:"charge_efficiency"`
	DischargeEfficiency float64 `json:"discharge_efficiency"`
	MinSOC              float64 `json:"min_soc"`
	MaxSOC              float64 `json:"max_soc"`
}

// RangeRequest is one capacity sweep dimension.
type RangeRequest struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Step  float64 `json:"step"`
}

// SearchRequest defines the grid search space.
type SearchRequest struct {
	PV              RangeRequest `json:"pv"`
	Wind            RangeRequest `json:"wind"`
	Hydro           RangeRequest `json:"hydro"`
	Storage         RangeRequest `json:"storage"`
	MaxCombinations int          `json:"max_combinations,omitempty"`
}

// ProfilesRequest carries the hourly series inline.
type ProfilesRequest struct {
	LoadKW       []float64 `json:"load_kw" binding:"required"`
	PVOutputKW   []float64 `json:"pv_output_kw" binding:"required"`
	WindOutputKW []float64 `json:"wind_output_kw,omitempty"`
}

// OptimizeOptions contains optional run parameters.
type OptimizeOptions struct {
	Workers        int  `json:"workers,omitempty"`         // 0 = all cores
	IncludeResults bool `json:"include_results,omitempty"` // default: summary only
}
