package parser

import (
	"fmt"
	"strings"
)

// Error is a lexical or syntax error with its position in the input.
type Error struct {
	Pos     int // byte offset
	Line    int // 1-based
	Column  int // 1-based, in runes
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

func errorAt(input string, pos int, format string, args ...any) *Error {
	if pos > len(input) {
		pos = len(input)
	}
	before := input[:pos]
	line := strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return &Error{
		Pos:     pos,
		Line:    line,
		Column:  len([]rune(before[lineStart:])) + 1,
		Message: fmt.Sprintf(format, args...),
	}
}
