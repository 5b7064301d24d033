package models

// OptimizeResponse is the response from a sizing optimization run.
type OptimizeResponse struct {
	ID      string           `json:"id"`
	Status  string           `json:"status"`
	Summary OptimizeSummary  `json:"summary"`
	Results []ResultRow      `json:"results,omitempty"`
}

// OptimizeSummary describes the optimal system and the search itself.
type OptimizeSummary struct {
	CombinationsTested int     `json:"combinations_tested"`
	FeasibleSolutions  int     `json:"feasible_solutions"`
	ElapsedSeconds     float64 `json:"elapsed_seconds"`
	OptimalFound       bool    `json:"optimal_found"`

	Optimal *ResultRow `json:"optimal,omitempty"`
}

// ResultRow is one costed grid point in API form.
type ResultRow struct {
	Iteration        int     `json:"iteration"`
	PVKW             float64 `json:"pv_kw"`
	WindKW           float64 `json:"wind_kw"`
	HydroKW          float64 `json:"hydro_kw"`
	WindowStart      int     `json:"hydro_window_start"`
	WindowEnd        int     `json:"hydro_window_end"`
	StoragePowerKW   float64 `json:"bess_power_kw"`
	StorageEnergyKWh float64 `json:"bess_capacity_kwh"`
	CyclesPerYear    float64 `json:"bess_cycles_per_year"`

	UnmetPercent float64 `json:"unmet_percent"`
	Feasible     bool    `json:"feasible"`

	NPC           float64 `json:"npc"`
	Capital       float64 `json:"capital"`
	ReplacementPV float64 `json:"replacement_pv"`
	OMPV          float64 `json:"om_pv"`
	SalvagePV     float64 `json:"salvage_pv"`
	Annualized    float64 `json:"annualized_per_year"`
	LCOEPerKWh    float64 `json:"lcoe_per_kwh"`
	LCOEPerMWh    float64 `json:"lcoe_per_mwh"`
	RealRate      float64 `json:"real_discount_rate"`
	CRF           float64 `json:"crf"`

	LoadKWh   float64 `json:"load_kwh"`
	ServedKWh float64 `json:"served_kwh"`
	UnmetKWh  float64 `json:"unmet_kwh"`
	ExcessKWh float64 `json:"excess_kwh"`

	PVFraction          float64 `json:"pv_fraction_percent"`
	WindFraction        float64 `json:"wind_fraction_percent"`
	HydroFraction       float64 `json:"hydro_fraction_percent"`
	REPenetration       float64 `json:"re_penetration_percent"`
	StorageContribution float64 `json:"bess_contribution_percent"`
	ExcessFraction      float64 `json:"excess_fraction_percent"`
}

// DispatchResponse carries the hourly trace of a stored run's optimal system.
type DispatchResponse struct {
	ID    string        `json:"id"`
	Hours int           `json:"hours"`
	Trace []DispatchRow `json:"trace"`
}

// DispatchRow is one simulated hour.
type DispatchRow struct {
	Hour        int     `json:"hour"`
	LoadKW      float64 `json:"load_kw"`
	PVKW        float64 `json:"pv_kw"`
	WindKW      float64 `json:"wind_kw"`
	HydroKW     float64 `json:"hydro_kw"`
	HydroActive bool    `json:"hydro_active"`
	ChargeKW    float64 `json:"charge_kw"`
	DischargeKW float64 `json:"discharge_kw"`
	SOCKWh      float64 `json:"soc_kwh"`
	UnmetKW     float64 `json:"unmet_kw"`
	ExcessKW    float64 `json:"excess_kw"`
}

// WindowsResponse carries the hydro window ranking of a stored run.
type WindowsResponse struct {
	ID      string      `json:"id"`
	Windows []WindowRow `json:"windows"`
}

// WindowRow is one candidate operating window.
type WindowRow struct {
	Rank         int     `json:"rank"`
	StartHour    int     `json:"start_hour"`
	EndHour      int     `json:"end_hour"`
	WindowRange  string  `json:"window_range"`
	UnmetPercent float64 `json:"unmet_percent"`
}

// StorageInfo describes a storage preset file.
type StorageInfo struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	File  string       `json:"file"`
	Specs StorageSpecs `json:"specs"`
}

// StorageSpecs contains headline storage preset values.
type StorageSpecs struct {
	DurationHours     float64 `json:"duration_hours"`
	PowerCapexPerKW   float64 `json:"power_capex_per_kw"`
	EnergyCapexPerKWh float64 `json:"energy_capex_per_kwh"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
