package loader

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/viant/parsly"

	"github.com/allocsafe/banker/model"
)

// ErrMalformed is returned when source data cannot be parsed into the
// expected state shape (missing values, wrong token types, premature end of
// input).
var ErrMalformed = errors.New("loader: malformed state")

// Parse decodes the textual state format into a derived, validated state
// bounded by capacity.  The format is
//
//	n m
//	r0 r1 ... rm-1          total units per resource type
//	n rows x m columns      maximum claims
//	n rows x m columns      current allocations
//
// where n is the process count and m the resource-type count.  A '#' starts
// a comment running to the end of the line; comments and whitespace may
// appear between any two values.
func Parse(data []byte, capacity model.Capacity) (*model.State, error) {
	cursor := parsly.NewCursor("", data, 0)

	processes, err := readInt(cursor, "process count")
	if err != nil {
		return nil, err
	}
	resources, err := readInt(cursor, "resource count")
	if err != nil {
		return nil, err
	}

	state := model.NewState(capacity)
	if err = state.SetDimensions(processes, resources); err != nil {
		return nil, err
	}

	totals := model.NewVector(resources)
	for r := range totals {
		if totals[r], err = readInt(cursor, fmt.Sprintf("total for resource %d", r)); err != nil {
			return nil, err
		}
	}

	claims, err := readMatrix(cursor, processes, resources, "claim")
	if err != nil {
		return nil, err
	}
	allocations, err := readMatrix(cursor, processes, resources, "allocation")
	if err != nil {
		return nil, err
	}

	state.SetTotals(totals)
	state.SetClaims(claims)
	state.SetAllocations(allocations)
	state.Derive()

	if err = state.Validate(); err != nil {
		return nil, err
	}
	return state, nil
}

func readMatrix(cursor *parsly.Cursor, processes, resources int, name string) (model.Matrix, error) {
	matrix := model.NewMatrix(processes, resources)
	for p := 0; p < processes; p++ {
		for r := 0; r < resources; r++ {
			value, err := readInt(cursor, fmt.Sprintf("%s[%d][%d]", name, p, r))
			if err != nil {
				return nil, err
			}
			matrix[p][r] = value
		}
	}
	return matrix, nil
}

func readInt(cursor *parsly.Cursor, what string) (int, error) {
	matched := cursor.MatchAfterOptional(skipToken, intToken)
	if matched.Code != intCode {
		return 0, fmt.Errorf("%w: expected %s at offset %d", ErrMalformed, what, cursor.Pos)
	}
	value, err := strconv.Atoi(matched.Text(cursor))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrMalformed, what, err)
	}
	return value, nil
}
