package model

// Matrix is a process-by-resource table of integer counts; row p describes
// process p, column r resource type r.
type Matrix []Vector

// NewMatrix returns a zeroed matrix with the given number of process rows
// and resource columns.
func NewMatrix(processes, resources int) Matrix {
	rows := make(Matrix, processes)
	for p := range rows {
		rows[p] = NewVector(resources)
	}
	return rows
}

// Clone returns an independent deep copy of the matrix.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	rows := make(Matrix, len(m))
	for p := range m {
		rows[p] = m[p].Clone()
	}
	return rows
}

// Row returns the p-th row.  The returned vector aliases the matrix storage;
// callers that need an independent copy clone it.
func (m Matrix) Row(p int) Vector {
	return m[p]
}
