package optimize

import (
	"sort"

	"hybrid-sizer/internal/dispatch"
	"hybrid-sizer/internal/model"
)

// WindowResult is one candidate hydro window and the unmet-load share it
// produced over a full-horizon simulation.
type WindowResult struct {
	Window       dispatch.Window
	UnmetPercent float64
}

// AllWindows simulates every contiguous daily window of the configured
// hydro runtime and returns them in start-hour order. This is O(24)
// full-horizon simulations and dominates the cost of a grid search.
func AllWindows(series model.Series, cand model.Candidate, techs model.Technologies) []WindowResult {
	hoursPerDay := techs.Hydro.HoursPerDay
	results := make([]WindowResult, 0, 24-hoursPerDay+1)
	for start := 0; start <= 24-hoursPerDay; start++ {
		w := dispatch.Window{Start: start, End: start + hoursPerDay}
		res := dispatch.Simulate(series, cand, techs, w)
		results = append(results, WindowResult{Window: w, UnmetPercent: res.Totals.UnmetPercent})
	}
	return results
}

// BestWindow picks the operating window with the lowest unmet load. Ties go
// to the earliest start hour, which makes the choice deterministic.
//
// With zero hydro capacity every window ties, so the earliest window wins
// without running the enumeration.
func BestWindow(series model.Series, cand model.Candidate, techs model.Technologies) WindowResult {
	hoursPerDay := techs.Hydro.HoursPerDay
	if cand.HydroKW == 0 {
		w := dispatch.Window{Start: 0, End: hoursPerDay}
		res := dispatch.Simulate(series, cand, techs, w)
		return WindowResult{Window: w, UnmetPercent: res.Totals.UnmetPercent}
	}

	results := AllWindows(series, cand, techs)
	best := results[0]
	for _, r := range results[1:] {
		if r.UnmetPercent < best.UnmetPercent {
			best = r
		}
	}
	return best
}

// RankWindows returns all candidate windows sorted by unmet load ascending,
// earliest start first among ties. Used for the window analysis report.
func RankWindows(series model.Series, cand model.Candidate, techs model.Technologies) []WindowResult {
	results := AllWindows(series, cand, techs)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].UnmetPercent < results[j].UnmetPercent
	})
	return results
}
