package model

import (
	"errors"
	"fmt"
)

// Default capacity bounds applied when a State is created with a zero
// Capacity value.
const (
	DefaultMaxProcesses = 32
	DefaultMaxResources = 16
)

// Common, reusable state errors.  Using sentinel variables allows callers to
// reliably detect error conditions via errors.Is instead of brittle string
// comparisons.
var (
	// ErrCapacityExceeded is returned when requested dimensions exceed the
	// configured process or resource-type capacity.
	ErrCapacityExceeded = errors.New("state: capacity exceeded")

	// ErrExceedsClaim is returned when a request would push a process past
	// its maximum claim.
	ErrExceedsClaim = errors.New("state: request exceeds remaining claim")

	// ErrExceedsAvailable is returned when a request asks for more than is
	// currently available.
	ErrExceedsAvailable = errors.New("state: request exceeds available resources")

	// ErrInvariant indicates that loaded values violate the state contract
	// (negative counts, allocation above claim, or over-allocated totals).
	ErrInvariant = errors.New("state: invariant violation")
)

// Capacity bounds the dimensions a State accepts.  The bounds exist because
// callers size reports, queues and scenario fixtures against a known maximum;
// they are the system's only hard limit.
type Capacity struct {
	MaxProcesses int `json:"maxProcesses,omitempty" yaml:"maxProcesses,omitempty"`
	MaxResources int `json:"maxResources,omitempty" yaml:"maxResources,omitempty"`
}

// DefaultCapacity returns the package default capacity bounds.
func DefaultCapacity() Capacity {
	return Capacity{MaxProcesses: DefaultMaxProcesses, MaxResources: DefaultMaxResources}
}

// State models the allocation state of a fixed set of processes and resource
// types: maximum claims, current allocations, the derived need matrix and the
// total/available resource vectors.  Matrices are sized to the active
// dimensions, so an unset cell cannot be observed.  A State is not safe for
// concurrent mutation; callers serialise writes or work on clones.
type State struct {
	capacity  Capacity
	processes int
	resources int

	claim      Matrix
	allocation Matrix
	need       Matrix

	total     Vector
	available Vector
}

// NewState returns an empty state bounded by the supplied capacity.  Zero
// capacity fields fall back to the package defaults.
func NewState(capacity Capacity) *State {
	if capacity.MaxProcesses == 0 {
		capacity.MaxProcesses = DefaultMaxProcesses
	}
	if capacity.MaxResources == 0 {
		capacity.MaxResources = DefaultMaxResources
	}
	return &State{capacity: capacity}
}

// Reset returns the state to empty so the same instance can be reused across
// loads.
func (s *State) Reset() {
	s.processes, s.resources = 0, 0
	s.claim, s.allocation, s.need = nil, nil, nil
	s.total, s.available = nil, nil
}

// SetDimensions records the active process and resource-type counts and sizes
// the underlying storage accordingly.  Previously populated values are
// discarded.
func (s *State) SetDimensions(processes, resources int) error {
	if processes < 0 || resources < 0 {
		return fmt.Errorf("%w: negative dimensions %d x %d", ErrInvariant, processes, resources)
	}
	if processes > s.capacity.MaxProcesses || resources > s.capacity.MaxResources {
		return fmt.Errorf("%w: requested %d processes x %d resource types, capacity is %d x %d",
			ErrCapacityExceeded, processes, resources, s.capacity.MaxProcesses, s.capacity.MaxResources)
	}
	s.processes, s.resources = processes, resources
	s.claim = NewMatrix(processes, resources)
	s.allocation = NewMatrix(processes, resources)
	s.need = NewMatrix(processes, resources)
	s.total = NewVector(resources)
	s.available = NewVector(resources)
	return nil
}

// SetTotals copies the total installed units per resource type.  Values are
// the loader's contract: non-negative integers, one per active resource type.
func (s *State) SetTotals(totals Vector) {
	copy(s.total, totals)
}

// SetClaims copies the maximum-claim matrix for the active dimensions.
func (s *State) SetClaims(claims Matrix) {
	for p := 0; p < s.processes && p < len(claims); p++ {
		copy(s.claim[p], claims[p])
	}
}

// SetAllocations copies the current-allocation matrix for the active
// dimensions.
func (s *State) SetAllocations(allocations Matrix) {
	for p := 0; p < s.processes && p < len(allocations); p++ {
		copy(s.allocation[p], allocations[p])
	}
}

// Derive recomputes the need matrix (claim minus allocation) and the
// available vector (total minus the allocation column sums).  It must run
// after any change to claims or allocations before derived values are read.
// The computation is pure arithmetic and idempotent; it does not detect
// contract violations in the inputs - Validate does.
func (s *State) Derive() {
	for p := 0; p < s.processes; p++ {
		for r := 0; r < s.resources; r++ {
			s.need[p][r] = s.claim[p][r] - s.allocation[p][r]
		}
	}
	for r := 0; r < s.resources; r++ {
		allocated := 0
		for p := 0; p < s.processes; p++ {
			allocated += s.allocation[p][r]
		}
		s.available[r] = s.total[r] - allocated
	}
}

// Validate checks the loader contract: every claim, allocation and total is
// non-negative, no allocation exceeds its claim, and no resource is allocated
// beyond its total.  The safety checker itself stays permissive and will
// happily evaluate an invalid state, so loaders call Validate before handing
// a state over.
func (s *State) Validate() error {
	for p := 0; p < s.processes; p++ {
		for r := 0; r < s.resources; r++ {
			if s.claim[p][r] < 0 {
				return fmt.Errorf("%w: negative claim[%d][%d] = %d", ErrInvariant, p, r, s.claim[p][r])
			}
			if s.allocation[p][r] < 0 {
				return fmt.Errorf("%w: negative allocation[%d][%d] = %d", ErrInvariant, p, r, s.allocation[p][r])
			}
			if s.allocation[p][r] > s.claim[p][r] {
				return fmt.Errorf("%w: allocation[%d][%d] = %d exceeds claim %d",
					ErrInvariant, p, r, s.allocation[p][r], s.claim[p][r])
			}
		}
	}
	for r := 0; r < s.resources; r++ {
		if s.total[r] < 0 {
			return fmt.Errorf("%w: negative total[%d] = %d", ErrInvariant, r, s.total[r])
		}
		allocated := 0
		for p := 0; p < s.processes; p++ {
			allocated += s.allocation[p][r]
		}
		if allocated > s.total[r] {
			return fmt.Errorf("%w: resource %d allocates %d of %d total",
				ErrInvariant, r, allocated, s.total[r])
		}
	}
	return nil
}

// Apply grants the requested amounts to the given process: the amounts are
// added to the process's allocation row and the derived fields recomputed.
// The grant is rejected when it would push the process past its claim or draw
// more than is currently available, leaving the state untouched.
func (s *State) Apply(process int, amounts Vector) error {
	if process < 0 || process >= s.processes {
		return fmt.Errorf("state: process %d out of range [0, %d)", process, s.processes)
	}
	if len(amounts) != s.resources {
		return fmt.Errorf("state: request carries %d amounts, state has %d resource types",
			len(amounts), s.resources)
	}
	if !amounts.Fits(s.need[process]) {
		return fmt.Errorf("%w: process %d requested %v with need %v",
			ErrExceedsClaim, process, []int(amounts), []int(s.need[process]))
	}
	if !amounts.Fits(s.available) {
		return fmt.Errorf("%w: process %d requested %v with available %v",
			ErrExceedsAvailable, process, []int(amounts), []int(s.available))
	}
	s.allocation[process].Add(amounts)
	s.Derive()
	return nil
}

// Clone returns an independent deep copy of the state.
func (s *State) Clone() *State {
	return &State{
		capacity:   s.capacity,
		processes:  s.processes,
		resources:  s.resources,
		claim:      s.claim.Clone(),
		allocation: s.allocation.Clone(),
		need:       s.need.Clone(),
		total:      s.total.Clone(),
		available:  s.available.Clone(),
	}
}

// Capacity returns the configured dimension bounds.
func (s *State) Capacity() Capacity { return s.capacity }

// Processes returns the active process count.
func (s *State) Processes() int { return s.processes }

// Resources returns the active resource-type count.
func (s *State) Resources() int { return s.resources }

// Claim returns the maximum claim of process p on resource r.
func (s *State) Claim(p, r int) int { return s.claim[p][r] }

// Allocation returns the units of resource r currently held by process p.
func (s *State) Allocation(p, r int) int { return s.allocation[p][r] }

// Need returns the derived remaining need of process p for resource r.
func (s *State) Need(p, r int) int { return s.need[p][r] }

// Total returns the installed units of resource r.
func (s *State) Total(r int) int { return s.total[r] }

// Available returns the derived unallocated units of resource r.
func (s *State) Available(r int) int { return s.available[r] }

// NeedRow returns a copy of process p's derived need row.
func (s *State) NeedRow(p int) Vector { return s.need[p].Clone() }

// AllocationRow returns a copy of process p's allocation row.
func (s *State) AllocationRow(p int) Vector { return s.allocation[p].Clone() }

// AvailableVector returns a copy of the derived available vector.
func (s *State) AvailableVector() Vector { return s.available.Clone() }

// TotalVector returns a copy of the resource total vector.
func (s *State) TotalVector() Vector { return s.total.Clone() }
