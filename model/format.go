package model

import (
	"fmt"
	"strings"
)

// String renders the vector as a fixed-width table headed by resource labels
// R0..Rm-1.
func (v Vector) String() string {
	var b strings.Builder
	writeResourceHeader(&b, len(v))
	fmt.Fprintf(&b, "%-4s", " ")
	for _, value := range v {
		fmt.Fprintf(&b, "%-4d", value)
	}
	b.WriteByte('\n')
	return b.String()
}

// String renders the matrix as a fixed-width table with resource labels as
// the header row and process labels P0..Pn-1 on each row.
func (m Matrix) String() string {
	var b strings.Builder
	if len(m) == 0 {
		return b.String()
	}
	writeResourceHeader(&b, len(m[0]))
	for p, row := range m {
		fmt.Fprintf(&b, "P%-3d", p)
		for _, value := range row {
			fmt.Fprintf(&b, "%-4d", value)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String renders all matrices and vectors of the state as labelled tables for
// diagnostics.
func (s *State) String() string {
	var b strings.Builder
	b.WriteString("Claim matrix C\n")
	b.WriteString(s.claim.String())
	b.WriteByte('\n')
	b.WriteString("Allocation matrix A\n")
	b.WriteString(s.allocation.String())
	b.WriteByte('\n')
	b.WriteString("Need matrix C-A\n")
	b.WriteString(s.need.String())
	b.WriteByte('\n')
	b.WriteString("Resource vector R\n")
	b.WriteString(s.total.String())
	b.WriteByte('\n')
	b.WriteString("Available vector V\n")
	b.WriteString(s.available.String())
	b.WriteByte('\n')
	return b.String()
}

func writeResourceHeader(b *strings.Builder, resources int) {
	fmt.Fprintf(b, "%-4s", " ")
	for r := 0; r < resources; r++ {
		fmt.Fprintf(b, "R%-3d", r)
	}
	b.WriteByte('\n')
}
