package optimize

import (
	"errors"
	"fmt"
	"math"

	"hybrid-sizer/internal/model"
)

// Range is one search dimension: capacities from Start to End in increments
// of Step. End is always part of the enumeration even when the span is not
// an exact multiple of Step, so the user-specified maximum is tested.
type Range struct {
	Start float64
	End   float64
	Step  float64
}

func (r Range) Validate() error {
	if r.Start < 0 {
		return errors.New("range start must be >= 0")
	}
	if r.End < r.Start {
		return errors.New("range end must be >= start")
	}
	if r.Step <= 0 {
		return errors.New("range step must be > 0")
	}
	return nil
}

// Values expands the range. The last step may be shorter than Step.
// A range that fails Validate expands to nothing.
func (r Range) Values() []float64 {
	if r.Step <= 0 || r.End < r.Start {
		return nil
	}
	var values []float64
	for v := r.Start; v <= r.End+1e-9; v += r.Step {
		values = append(values, v)
	}
	if math.Abs(values[len(values)-1]-r.End) > 1e-9 {
		values = append(values, r.End)
	} else {
		values[len(values)-1] = r.End
	}
	return values
}

// Space is the full 4-dimensional capacity search space.
// MaxCombinations is advisory: exceeding it produces a warning, never an
// error, so a deliberate large sweep is not blocked.
type Space struct {
	PV              Range
	Wind            Range
	Hydro           Range
	Storage         Range
	MaxCombinations int
}

func (s Space) Validate() error {
	if err := s.PV.Validate(); err != nil {
		return fmt.Errorf("pv range: %w", err)
	}
	if err := s.Wind.Validate(); err != nil {
		return fmt.Errorf("wind range: %w", err)
	}
	if err := s.Hydro.Validate(); err != nil {
		return fmt.Errorf("hydro range: %w", err)
	}
	if err := s.Storage.Validate(); err != nil {
		return fmt.Errorf("storage range: %w", err)
	}
	return nil
}

// Combinations is the number of grid points.
func (s Space) Combinations() int {
	return len(s.PV.Values()) * len(s.Wind.Values()) * len(s.Hydro.Values()) * len(s.Storage.Values())
}

// Candidates materializes the Cartesian product in grid order: PV outermost,
// then wind, hydro, storage power.
func (s Space) Candidates() []model.Candidate {
	pvs := s.PV.Values()
	winds := s.Wind.Values()
	hydros := s.Hydro.Values()
	storages := s.Storage.Values()

	out := make([]model.Candidate, 0, len(pvs)*len(winds)*len(hydros)*len(storages))
	for _, pv := range pvs {
		for _, wind := range winds {
			for _, hydro := range hydros {
				for _, power := range storages {
					out = append(out, model.Candidate{
						PVKW:           pv,
						WindKW:         wind,
						HydroKW:        hydro,
						StoragePowerKW: power,
					})
				}
			}
		}
	}
	return out
}
