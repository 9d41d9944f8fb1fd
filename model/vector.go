package model

// Vector holds one integer count per resource type.
type Vector []int

// NewVector returns a zeroed vector with one slot per resource type.
func NewVector(resources int) Vector {
	return make(Vector, resources)
}

// Clone returns an independent copy of the vector.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	return append(Vector(nil), v...)
}

// Add adds other component-wise into v.  The receiver must be at least as
// long as other.
func (v Vector) Add(other Vector) {
	for i := range other {
		v[i] += other[i]
	}
}

// Fits reports whether v is component-wise less than or equal to limit.
func (v Vector) Fits(limit Vector) bool {
	for i := range v {
		if v[i] > limit[i] {
			return false
		}
	}
	return true
}

// IsZero reports whether every component is zero.
func (v Vector) IsZero() bool {
	for _, value := range v {
		if value != 0 {
			return false
		}
	}
	return true
}
