package optimize

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hybrid-sizer/internal/model"
)

func searchInputs() Inputs {
	series := flatLoadSeries(48, 100)
	for h := range series.LoadKW {
		series.PVOutputKW[h] = 100 // exact match at baseline capacity
	}
	return Inputs{
		Project: model.ProjectParams{DiscountRate: 0.08, InflationRate: 0.02, LifetimeYears: 25, TargetUnmetPercent: 5},
		Techs:   searchTechs(),
		Series:  series,
		Space: Space{
			PV:      Range{Start: 0, End: 1000, Step: 500},
			Wind:    Range{Start: 0, End: 0, Step: 1},
			Hydro:   Range{Start: 0, End: 100, Step: 100},
			Storage: Range{Start: 0, End: 50, Step: 50},
		},
	}
}

func TestSearchProducesGridOrderedResults(t *testing.T) {
	in := searchInputs()
	out, err := Search(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out.Results, in.Space.Combinations())

	for i, r := range out.Results {
		assert.Equal(t, i+1, r.Iteration)
	}
}

func TestSearchParallelMatchesSequential(t *testing.T) {
	in := searchInputs()

	in.Workers = 1
	seq, err := Search(context.Background(), in)
	require.NoError(t, err)

	in.Workers = 8
	par, err := Search(context.Background(), in)
	require.NoError(t, err)

	require.Equal(t, len(seq.Results), len(par.Results))
	for i := range seq.Results {
		assert.Equal(t, seq.Results[i], par.Results[i], "result %d diverges", i)
	}
	require.NotNil(t, seq.Optimal)
	require.NotNil(t, par.Optimal)
	assert.Equal(t, *seq.Optimal, *par.Optimal)
}

func TestSearchPicksCheapestFeasible(t *testing.T) {
	in := searchInputs()
	out, err := Search(context.Background(), in)
	require.NoError(t, err)

	require.NotNil(t, out.Optimal)
	opt := out.Optimal

	// PV at the profile baseline serves the whole load; anything extra
	// only adds cost. The optimum is the bare 1000 kW PV system.
	assert.Equal(t, 1000.0, opt.Candidate.PVKW)
	assert.Equal(t, 0.0, opt.Candidate.HydroKW)
	assert.Equal(t, 0.0, opt.Candidate.StoragePowerKW)
	assert.True(t, opt.Feasible)
	assert.Zero(t, opt.Totals.UnmetPercent)

	for _, r := range out.Results {
		if r.Feasible {
			assert.LessOrEqual(t, opt.Cost.NPC, r.Cost.NPC)
		}
	}
}

func TestSearchNoFeasibleSolution(t *testing.T) {
	in := searchInputs()
	in.Project.TargetUnmetPercent = 0
	// Strip all generation: every candidate except PV-only ones fails, and
	// with a zeroed PV profile even those serve nothing.
	for h := range in.Series.PVOutputKW {
		in.Series.PVOutputKW[h] = 0
	}

	out, err := Search(context.Background(), in)
	require.NoError(t, err)
	assert.Nil(t, out.Optimal)
	for _, r := range out.Results {
		assert.False(t, r.Feasible)
	}
}

func TestSearchValidatesInputs(t *testing.T) {
	in := searchInputs()
	in.Series.PVOutputKW = in.Series.PVOutputKW[:10] // mismatched lengths
	_, err := Search(context.Background(), in)
	assert.Error(t, err)

	in = searchInputs()
	in.Space.PV.Step = 0
	_, err = Search(context.Background(), in)
	assert.Error(t, err)
}

func TestSearchCancellation(t *testing.T) {
	in := searchInputs()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Search(ctx, in)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchProgressReachesTotal(t *testing.T) {
	in := searchInputs()
	var mu sync.Mutex
	maxDone := 0
	in.Progress = func(done, total int) {
		mu.Lock()
		if done > maxDone {
			maxDone = done
		}
		mu.Unlock()
		assert.Equal(t, in.Space.Combinations(), total)
	}

	_, err := Search(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in.Space.Combinations(), maxDone)
}

func TestSelectOptimalEmpty(t *testing.T) {
	_, ok := SelectOptimal(nil)
	assert.False(t, ok)
}

func TestExceedsMaxCombinations(t *testing.T) {
	in := searchInputs()
	in.Space.MaxCombinations = 5
	assert.True(t, in.ExceedsMaxCombinations())
	in.Space.MaxCombinations = 100
	assert.False(t, in.ExceedsMaxCombinations())
	in.Space.MaxCombinations = 0
	assert.False(t, in.ExceedsMaxCombinations())
}
