package loader

import (
	"github.com/viant/parsly"
)

// Token codes
const (
	skipCode = iota
	intCode
)

// Token definitions
var (
	skipToken = parsly.NewToken(skipCode, "WhitespaceOrComment", &skipMatcher{})
	intToken  = parsly.NewToken(intCode, "Integer", &intMatcher{})
)

// skipMatcher consumes runs of whitespace and '#' comments; a comment runs to
// the end of its line.  Comments may appear between any two tokens of the
// state format.
type skipMatcher struct{}

func (m *skipMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	matched := 0
	for pos < size {
		switch c := input[pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			pos++
			matched++
		case c == '#':
			for pos < size && input[pos] != '\n' {
				pos++
				matched++
			}
		default:
			return matched
		}
	}
	return matched
}

// intMatcher matches a decimal integer with an optional leading minus.
type intMatcher struct{}

func (m *intMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}
	matched := 0
	if input[pos] == '-' {
		matched++
		pos++
	}
	digits := 0
	for pos < size && input[pos] >= '0' && input[pos] <= '9' {
		matched++
		digits++
		pos++
	}
	if digits == 0 {
		return 0
	}
	return matched
}
