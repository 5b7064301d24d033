package optimize

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"hybrid-sizer/internal/analysis"
	"hybrid-sizer/internal/dispatch"
	"hybrid-sizer/internal/finance"
	"hybrid-sizer/internal/model"
)

// ProgressFunc receives completion counts while a search runs. It may be
// called from multiple goroutines; done values are not ordered.
type ProgressFunc func(done, total int)

// Inputs bundles everything one grid search needs. All of it is read-only
// during the search.
type Inputs struct {
	Project model.ProjectParams
	Techs   model.Technologies
	Series  model.Series
	Space   Space

	// Workers bounds the parallel evaluation; <= 0 means GOMAXPROCS.
	Workers int

	Progress ProgressFunc
}

func (in Inputs) Validate() error {
	if err := in.Project.Validate(); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	if err := in.Techs.Validate(); err != nil {
		return fmt.Errorf("technologies: %w", err)
	}
	if err := in.Series.Validate(); err != nil {
		return fmt.Errorf("profiles: %w", err)
	}
	if err := in.Space.Validate(); err != nil {
		return fmt.Errorf("search space: %w", err)
	}
	return nil
}

// ExceedsMaxCombinations reports whether the space is larger than the
// configured advisory limit. The search itself never refuses to run.
func (in Inputs) ExceedsMaxCombinations() bool {
	return in.Space.MaxCombinations > 0 && in.Space.Combinations() > in.Space.MaxCombinations
}

// Result is one fully-costed grid point.
type Result struct {
	Iteration        int
	Candidate        model.Candidate
	StorageEnergyKWh float64
	Window           dispatch.Window
	Totals           dispatch.Totals
	Feasible         bool
	Cost             finance.SystemBreakdown
	Mix              analysis.Mix
}

// Outcome is the full product of a grid search.
type Outcome struct {
	Results []Result
	// Optimal points into Results; nil when no candidate meets the
	// unmet-load target.
	Optimal *Result
	Elapsed time.Duration
}

// Search evaluates every grid point: hydro window search, one final
// dispatch simulation, NPC costing, feasibility. Tuples are independent,
// so they fan out across a bounded worker pool; each worker writes only
// its own index of the result slice, which keeps the output in grid order
// without locking. Cancellation is cooperative between tuples.
func Search(ctx context.Context, in Inputs) (*Outcome, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	candidates := in.Space.Candidates()
	results := make([]Result, len(candidates))
	start := time.Now()

	workers := in.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = evaluate(in, i, cand)
			if in.Progress != nil {
				in.Progress(int(done.Add(1)), len(candidates))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Outcome{Results: results, Elapsed: time.Since(start)}
	if best, ok := SelectOptimal(results); ok {
		out.Optimal = &out.Results[best.Iteration-1]
	}
	return out, nil
}

func evaluate(in Inputs, index int, cand model.Candidate) Result {
	best := BestWindow(in.Series, cand, in.Techs)
	sim := dispatch.Simulate(in.Series, cand, in.Techs, best.Window)

	res := Result{
		Iteration:        index + 1,
		Candidate:        cand,
		StorageEnergyKWh: cand.StorageEnergyKWh(in.Techs.Storage.DurationHours),
		Window:           best.Window,
		Totals:           sim.Totals,
		Feasible:         sim.Totals.UnmetPercent <= in.Project.TargetUnmetPercent,
		Mix:              analysis.EnergyMix(sim.Totals),
	}
	res.Cost = finance.Breakdown(cand, in.Techs, in.Project, sim.Totals.ServedKWh)
	return res
}

// SelectOptimal picks the feasible result with the lowest system NPC.
// The first minimum in grid order wins ties. ok is false when nothing is
// feasible; callers must surface that explicitly rather than fall back to
// an infeasible best.
func SelectOptimal(results []Result) (Result, bool) {
	var best Result
	found := false
	for _, r := range results {
		if !r.Feasible {
			continue
		}
		if !found || r.Cost.NPC < best.Cost.NPC {
			best = r
			found = true
		}
	}
	return best, found
}
