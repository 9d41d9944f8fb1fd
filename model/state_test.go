package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classicState builds the textbook 5-process, 3-resource example.
func classicState(t *testing.T) *State {
	t.Helper()
	s := NewState(DefaultCapacity())
	require.NoError(t, s.SetDimensions(5, 3))
	s.SetTotals(Vector{10, 5, 7})
	s.SetClaims(Matrix{
		{7, 5, 3},
		{3, 2, 2},
		{9, 0, 2},
		{2, 2, 2},
		{4, 3, 3},
	})
	s.SetAllocations(Matrix{
		{0, 1, 0},
		{2, 0, 0},
		{3, 0, 2},
		{2, 1, 1},
		{0, 0, 2},
	})
	s.Derive()
	return s
}

func TestStateDerive(t *testing.T) {
	s := classicState(t)

	assert.Equal(t, 5, s.Processes())
	assert.Equal(t, 3, s.Resources())
	assert.Equal(t, Vector{3, 3, 2}, s.AvailableVector())

	expectedNeed := Matrix{
		{7, 4, 3},
		{1, 2, 2},
		{6, 0, 0},
		{0, 1, 1},
		{4, 3, 1},
	}
	for p := 0; p < s.Processes(); p++ {
		assert.Equal(t, expectedNeed[p], s.NeedRow(p), "need row %d", p)
	}
}

func TestStateDeriveIdempotent(t *testing.T) {
	s := classicState(t)
	before := s.AvailableVector()
	needBefore := s.NeedRow(0)

	s.Derive()
	s.Derive()

	assert.Equal(t, before, s.AvailableVector())
	assert.Equal(t, needBefore, s.NeedRow(0))
}

func TestStateCapacity(t *testing.T) {
	capacity := Capacity{MaxProcesses: 4, MaxResources: 2}

	testCases := []struct {
		description string
		processes   int
		resources   int
		expectErr   bool
	}{
		{description: "within capacity", processes: 3, resources: 2},
		{description: "exactly at capacity", processes: 4, resources: 2},
		{description: "one process too many", processes: 5, resources: 2, expectErr: true},
		{description: "one resource too many", processes: 4, resources: 3, expectErr: true},
		{description: "empty", processes: 0, resources: 0},
	}
	for _, testCase := range testCases {
		s := NewState(capacity)
		err := s.SetDimensions(testCase.processes, testCase.resources)
		if testCase.expectErr {
			assert.ErrorIs(t, err, ErrCapacityExceeded, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}
}

func TestStateReset(t *testing.T) {
	s := classicState(t)
	s.Reset()
	assert.Equal(t, 0, s.Processes())
	assert.Equal(t, 0, s.Resources())

	// the instance is reusable after a reset
	require.NoError(t, s.SetDimensions(1, 1))
	s.SetTotals(Vector{2})
	s.SetClaims(Matrix{{2}})
	s.SetAllocations(Matrix{{1}})
	s.Derive()
	assert.Equal(t, Vector{1}, s.AvailableVector())
}

func TestStateValidate(t *testing.T) {
	s := classicState(t)
	assert.NoError(t, s.Validate())

	overAllocated := NewState(DefaultCapacity())
	require.NoError(t, overAllocated.SetDimensions(2, 1))
	overAllocated.SetTotals(Vector{3})
	overAllocated.SetClaims(Matrix{{2}, {2}})
	overAllocated.SetAllocations(Matrix{{2}, {2}})
	overAllocated.Derive()
	assert.ErrorIs(t, overAllocated.Validate(), ErrInvariant)

	aboveClaim := NewState(DefaultCapacity())
	require.NoError(t, aboveClaim.SetDimensions(1, 1))
	aboveClaim.SetTotals(Vector{5})
	aboveClaim.SetClaims(Matrix{{1}})
	aboveClaim.SetAllocations(Matrix{{2}})
	aboveClaim.Derive()
	assert.ErrorIs(t, aboveClaim.Validate(), ErrInvariant)

	negative := NewState(DefaultCapacity())
	require.NoError(t, negative.SetDimensions(1, 1))
	negative.SetTotals(Vector{5})
	negative.SetClaims(Matrix{{-1}})
	negative.Derive()
	assert.ErrorIs(t, negative.Validate(), ErrInvariant)
}

func TestStateApply(t *testing.T) {
	s := classicState(t)

	// a grant within need and availability succeeds and re-derives
	require.NoError(t, s.Apply(1, Vector{1, 0, 2}))
	assert.Equal(t, Vector{2, 3, 0}, s.AvailableVector())
	assert.Equal(t, Vector{0, 2, 0}, s.NeedRow(1))

	// beyond remaining need
	err := s.Apply(3, Vector{1, 2, 0})
	assert.ErrorIs(t, err, ErrExceedsClaim)

	// beyond availability
	err = s.Apply(0, Vector{3, 0, 1})
	assert.ErrorIs(t, err, ErrExceedsAvailable)

	// shape and range errors
	assert.Error(t, s.Apply(9, Vector{0, 0, 0}))
	assert.Error(t, s.Apply(0, Vector{0, 0}))
}

func TestStateClone(t *testing.T) {
	s := classicState(t)
	clone := s.Clone()
	require.NoError(t, clone.Apply(1, Vector{1, 0, 2}))

	// the original is untouched
	assert.Equal(t, Vector{3, 3, 2}, s.AvailableVector())
	assert.Equal(t, 2, s.Allocation(1, 0))
	assert.Equal(t, 3, clone.Allocation(1, 0))
}

func TestVectorOps(t *testing.T) {
	v := Vector{1, 2, 3}
	v.Add(Vector{1, 1, 1})
	assert.Equal(t, Vector{2, 3, 4}, v)

	assert.True(t, v.Fits(Vector{2, 3, 4}))
	assert.False(t, v.Fits(Vector{2, 3, 3}))
	assert.True(t, Vector{0, 0}.IsZero())
	assert.False(t, v.IsZero())

	clone := v.Clone()
	clone[0] = 9
	assert.Equal(t, 2, v[0])
}
