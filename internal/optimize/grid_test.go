package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeValuesIncludesEndpoint(t *testing.T) {
	// Span is not a multiple of the step: the final step is shorter.
	assert.Equal(t, []float64{0, 2, 4, 5}, Range{Start: 0, End: 5, Step: 2}.Values())

	// Aligned span.
	assert.Equal(t, []float64{0, 2, 4, 6}, Range{Start: 0, End: 6, Step: 2}.Values())

	// Single point.
	assert.Equal(t, []float64{3}, Range{Start: 3, End: 3, Step: 1}.Values())

	// Fractional steps must not drop the endpoint to float drift.
	vals := Range{Start: 0, End: 1, Step: 0.1}.Values()
	require.Len(t, vals, 11)
	assert.InDelta(t, 1.0, vals[len(vals)-1], 1e-12)
}

func TestRangeValuesDegenerateRanges(t *testing.T) {
	// Invalid ranges expand to nothing rather than spinning or panicking;
	// an input file missing a step must fail validation, not hang the sweep.
	assert.Empty(t, Range{Start: 0, End: 5, Step: 0}.Values())
	assert.Empty(t, Range{Start: 0, End: 5, Step: -1}.Values())
	assert.Empty(t, Range{Start: 5, End: 4, Step: 1}.Values())

	s := Space{
		PV:      Range{Start: 0, End: 100, Step: 0},
		Wind:    Range{Start: 0, End: 0, Step: 1},
		Hydro:   Range{Start: 0, End: 0, Step: 1},
		Storage: Range{Start: 0, End: 0, Step: 1},
	}
	assert.Zero(t, s.Combinations())
	assert.Empty(t, s.Candidates())
	assert.Error(t, s.Validate())
}

func TestRangeValidate(t *testing.T) {
	assert.NoError(t, Range{Start: 0, End: 10, Step: 2}.Validate())
	assert.Error(t, Range{Start: -1, End: 10, Step: 2}.Validate())
	assert.Error(t, Range{Start: 5, End: 4, Step: 1}.Validate())
	assert.Error(t, Range{Start: 0, End: 10, Step: 0}.Validate())
}

func TestSpaceCombinationsAndOrder(t *testing.T) {
	s := Space{
		PV:      Range{Start: 0, End: 100, Step: 100},
		Wind:    Range{Start: 0, End: 50, Step: 50},
		Hydro:   Range{Start: 0, End: 0, Step: 10},
		Storage: Range{Start: 0, End: 20, Step: 20},
	}
	assert.Equal(t, 8, s.Combinations())

	cands := s.Candidates()
	require.Len(t, cands, 8)
	// PV is the outermost dimension, storage power the innermost.
	assert.Equal(t, 0.0, cands[0].PVKW)
	assert.Equal(t, 0.0, cands[0].StoragePowerKW)
	assert.Equal(t, 20.0, cands[1].StoragePowerKW)
	assert.Equal(t, 100.0, cands[7].PVKW)
	assert.Equal(t, 50.0, cands[7].WindKW)
}
