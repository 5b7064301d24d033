package model

import "errors"

// ProjectParams holds the project-level financial assumptions.
// Rates are fractions (0.08 = 8%).
type ProjectParams struct {
	DiscountRate       float64
	InflationRate      float64
	LifetimeYears      int
	TargetUnmetPercent float64
}

func (p ProjectParams) Validate() error {
	if p.InflationRate <= -1 {
		return errors.New("project InflationRate must be > -1")
	}
	if p.LifetimeYears <= 0 {
		return errors.New("project LifetimeYears must be > 0")
	}
	if p.TargetUnmetPercent < 0 || p.TargetUnmetPercent > 100 {
		return errors.New("project TargetUnmetPercent must be in [0, 100]")
	}
	return nil
}
