package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"hybrid-sizer/internal/model"
	"hybrid-sizer/internal/optimize"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Project ProjectConfig `yaml:"project"`

	// Optional: load storage parameters from a separate YAML preset
	// (e.g. examples/storage/*.yaml). Explicit fields in Storage override
	// the preset.
	StorageFile string `yaml:"storage_file"`

	Solar   SolarConfig   `yaml:"solar"`
	Wind    WindConfig    `yaml:"wind"`
	Hydro   HydroConfig   `yaml:"hydro"`
	Storage StorageConfig `yaml:"storage"`

	Search  SearchConfig `yaml:"search"`
	Workers int          `yaml:"workers"`
}

type ProjectConfig struct {
	DiscountRate       float64 `yaml:"discount_rate"`
	InflationRate      float64 `yaml:"inflation_rate"`
	LifetimeYears      int     `yaml:"lifetime_years"`
	TargetUnmetPercent float64 `yaml:"target_unmet_percent"`
}

type SolarConfig struct {
	CapexPerKW    float64 `yaml:"capex_per_kw"`
	OMPerKWYear   float64 `yaml:"om_per_kw_year"`
	LifetimeYears int     `yaml:"lifetime_years"`
	BaselineKW    float64 `yaml:"baseline_kw"`
}

type WindConfig struct {
	Enabled       bool    `yaml:"enabled"`
	CapexPerKW    float64 `yaml:"capex_per_kw"`
	OMPerKWYear   float64 `yaml:"om_per_kw_year"`
	LifetimeYears int     `yaml:"lifetime_years"`
}

type HydroConfig struct {
	Enabled       bool    `yaml:"enabled"`
	CapexPerKW    float64 `yaml:"capex_per_kw"`
	OMPerKWYear   float64 `yaml:"om_per_kw_year"`
	LifetimeYears int     `yaml:"lifetime_years"`
	HoursPerDay   int     `yaml:"hours_per_day"`
}

type StorageConfig struct {
	Name                string  `yaml:"name"`
	DurationHours       float64 `yaml:"duration_hours"`
	PowerCapexPerKW     float64 `yaml:"power_capex_per_kw"`
	EnergyCapexPerKWh   float64 `yaml:"energy_capex_per_kwh"`
	OMPerKWYear         float64 `yaml:"om_per_kw_year"`
	LifetimeYears       int     `yaml:"lifetime_years"`
	ChargeEfficiency    float64 `yaml:"charge_efficiency"`
	DischargeEfficiency float64 `yaml:"discharge_efficiency"`
	MinSOC              float64 `yaml:"min_soc"`
	MaxSOC              float64 `yaml:"max_soc"`
}

type RangeConfig struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Step  float64 `yaml:"step"`
}

type SearchConfig struct {
	PV              RangeConfig `yaml:"pv"`
	Wind            RangeConfig `yaml:"wind"`
	Hydro           RangeConfig `yaml:"hydro"`
	Storage         RangeConfig `yaml:"storage"`
	MaxCombinations int         `yaml:"max_combinations"`
}

// Load reads, merges and validates a config file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If storage_file is set, load it and merge in any explicit overrides.
	if c.StorageFile != "" {
		storagePath := c.StorageFile
		if !filepath.IsAbs(storagePath) {
			// Prefer interpreting relative paths as relative to the config
			// file directory, falling back to the cwd-relative path.
			cand := filepath.Join(filepath.Dir(path), storagePath)
			if _, err := os.Stat(cand); err == nil {
				storagePath = cand
			}
		}
		loaded, err := loadStorageFile(storagePath)
		if err != nil {
			return nil, err
		}
		c.Storage = MergeStorage(loaded, c.Storage)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Project.ToModel().Validate(); err != nil {
		return fmt.Errorf("project config invalid: %w", err)
	}
	if err := c.Technologies().Validate(); err != nil {
		return fmt.Errorf("technology config invalid: %w", err)
	}
	if err := c.Space().Validate(); err != nil {
		return fmt.Errorf("search config invalid: %w", err)
	}
	return nil
}

func (p ProjectConfig) ToModel() model.ProjectParams {
	return model.ProjectParams{
		DiscountRate:       p.DiscountRate,
		InflationRate:      p.InflationRate,
		LifetimeYears:      p.LifetimeYears,
		TargetUnmetPercent: p.TargetUnmetPercent,
	}
}

// Technologies converts the config into the engine's typed parameters.
func (c *Config) Technologies() model.Technologies {
	return model.Technologies{
		Solar: model.SolarParams{
			CapexPerKW:    c.Solar.CapexPerKW,
			OMPerKWYear:   c.Solar.OMPerKWYear,
			LifetimeYears: c.Solar.LifetimeYears,
			BaselineKW:    c.Solar.BaselineKW,
		},
		Wind: model.WindParams{
			Enabled:       c.Wind.Enabled,
			CapexPerKW:    c.Wind.CapexPerKW,
			OMPerKWYear:   c.Wind.OMPerKWYear,
			LifetimeYears: c.Wind.LifetimeYears,
		},
		Hydro: model.HydroParams{
			Enabled:       c.Hydro.Enabled,
			CapexPerKW:    c.Hydro.CapexPerKW,
			OMPerKWYear:   c.Hydro.OMPerKWYear,
			LifetimeYears: c.Hydro.LifetimeYears,
			HoursPerDay:   c.Hydro.HoursPerDay,
		},
		Storage: model.StorageParams{
			DurationHours:       c.Storage.DurationHours,
			PowerCapexPerKW:     c.Storage.PowerCapexPerKW,
			EnergyCapexPerKWh:   c.Storage.EnergyCapexPerKWh,
			OMPerKWYear:         c.Storage.OMPerKWYear,
			LifetimeYears:       c.Storage.LifetimeYears,
			ChargeEfficiency:    c.Storage.ChargeEfficiency,
			DischargeEfficiency: c.Storage.DischargeEfficiency,
			MinSOC:              c.Storage.MinSOC,
			MaxSOC:              c.Storage.MaxSOC,
		},
	}
}

// Space converts the search ranges into the optimizer's search space.
func (c *Config) Space() optimize.Space {
	toRange := func(r RangeConfig) optimize.Range {
		return optimize.Range{Start: r.Start, End: r.End, Step: r.Step}
	}
	return optimize.Space{
		PV:              toRange(c.Search.PV),
		Wind:            toRange(c.Search.Wind),
		Hydro:           toRange(c.Search.Hydro),
		Storage:         toRange(c.Search.Storage),
		MaxCombinations: c.Search.MaxCombinations,
	}
}

type storageFileWrapper struct {
	Storage StorageConfig `yaml:"storage"`
}

func loadStorageFile(path string) (StorageConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return StorageConfig{}, err
	}
	var w storageFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return StorageConfig{}, err
	}
	return w.Storage, nil
}

// MergeStorage overlays non-zero fields from override onto base.
// This is used when loading a storage preset and then applying overrides
// from the main config or an API request.
func MergeStorage(base, override StorageConfig) StorageConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.DurationHours != 0 {
		out.DurationHours = override.DurationHours
	}
	if override.PowerCapexPerKW != 0 {
		out.PowerCapexPerKW = override.PowerCapexPerKW
	}
	if override.EnergyCapexPerKWh != 0 {
		out.EnergyCapexPerKWh = override.EnergyCapexPerKWh
	}
	if override.OMPerKWYear != 0 {
		out.OMPerKWYear = override.OMPerKWYear
	}
	if override.LifetimeYears != 0 {
		out.LifetimeYears = override.LifetimeYears
	}
	if override.ChargeEfficiency != 0 {
		out.ChargeEfficiency = override.ChargeEfficiency
	}
	if override.DischargeEfficiency != 0 {
		out.DischargeEfficiency = override.DischargeEfficiency
	}
	// Note: these are allowed to be 0 in theory, but our configs use
	// non-zero values.
	if override.MinSOC != 0 {
		out.MinSOC = override.MinSOC
	}
	if override.MaxSOC != 0 {
		out.MaxSOC = override.MaxSOC
	}
	return out
}
