// Package safety decides whether an allocation state is safe under the
// Banker's Algorithm: safe means there is at least one order in which every
// process can run to completion, assuming each may request up to its full
// claim before finishing and releasing what it holds.
package safety

import (
	"github.com/allocsafe/banker/model"
)

const noCandidate = -1

// Result describes the outcome of a safety evaluation.
type Result struct {
	// Safe reports whether every process can run to completion.
	Safe bool

	// Order lists processes in the simulated completion order.  The scan is
	// lowest-index-first, so the order is deterministic for a given state.
	// When the state is unsafe the order covers only the processes that
	// managed to finish before the simulation stalled.
	Order []int
}

// Evaluate runs the safety check against a derived state snapshot.
//
// The simulation keeps a working copy of the available vector and a
// completion marker per process.  Each round picks the lowest-indexed
// unfinished process whose remaining need fits the working availability,
// lets it finish, and reclaims its allocation into the working availability.
// The state is safe iff every process finishes.  Reclamation only grows
// availability, so the greedy choice never changes the verdict, only the
// reported order.
//
// Evaluate never mutates the state and terminates within N+1 rounds.  A
// state with no processes or no resource types is trivially safe.
func Evaluate(state *model.State) Result {
	available := state.AvailableVector()
	completed := make([]bool, state.Processes())

	var result Result
	for {
		candidate := nextCandidate(state, completed, available)
		if candidate == noCandidate {
			break
		}
		available.Add(state.AllocationRow(candidate))
		completed[candidate] = true
		result.Order = append(result.Order, candidate)
	}
	for _, done := range completed {
		if !done {
			return result
		}
	}
	result.Safe = true
	return result
}

// IsSafe is a convenience wrapper returning only the verdict.
func IsSafe(state *model.State) bool {
	return Evaluate(state).Safe
}

// nextCandidate returns the lowest-indexed process that has not completed
// and whose need row fits the working availability, or noCandidate.
func nextCandidate(state *model.State, completed []bool, available model.Vector) int {
	for p := 0; p < state.Processes(); p++ {
		if !completed[p] && canFinish(state, p, available) {
			return p
		}
	}
	return noCandidate
}

// canFinish reports whether the process's remaining need is component-wise
// within the working availability.
func canFinish(state *model.State, process int, available model.Vector) bool {
	for r := 0; r < state.Resources(); r++ {
		if state.Need(process, r) > available[r] {
			return false
		}
	}
	return true
}
