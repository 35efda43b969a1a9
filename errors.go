package toml

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	ErrNilInput           = errors.New("nil input")
	ErrInvalidKey         = errors.New("invalid key")
	ErrInvalidValueType   = errors.New("invalid value type")
	ErrInvalidTaggedValue = errors.New("invalid tagged value")
	ErrInvalidVersion     = errors.New("invalid TOML version")
)

// Position is a 1-based line and column in the input. Columns count
// characters, not bytes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// ParseError is a single problem found while parsing, located at the input
// position of the offending element.
type ParseError struct {
	Message  string
	Position Position
	Source   string

	err error
}

func newParseError(pos Position, format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Position: pos}
}

// Error renders the message and, when the source is known, the offending line
// with a caret under the column.
func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parse error at %s: %s", e.Position, e.Message)
	}
	lines := strings.Split(e.Source, "\n")
	if e.Position.Line < 1 || e.Position.Line > len(lines) {
		return fmt.Sprintf("parse error at line %d: %s", e.Position.Line, e.Message)
	}
	lineContent := strings.TrimSuffix(lines[e.Position.Line-1], "\r")
	var buf strings.Builder
	fmt.Fprintf(&buf, "parse error at %s: %s\n", e.Position, e.Message)
	fmt.Fprintf(&buf, "  %d | %s\n", e.Position.Line, lineContent)
	buf.WriteString("    | ")
	col := 1
	for _, r := range lineContent {
		if col >= e.Position.Column {
			break
		}
		if r == '\t' {
			buf.WriteByte('\t')
		} else {
			buf.WriteByte(' ')
		}
		col++
	}
	buf.WriteString("^\n")
	return buf.String()
}

// Unwrap returns the sentinel the error was raised for, if any.
func (e *ParseError) Unwrap() error { return e.err }

// ParseErrors is the ordered list of errors found in one document. It
// implements error so the whole list can be returned at once.
type ParseErrors []*ParseError

func (p ParseErrors) Error() string {
	switch len(p) {
	case 0:
		return ""
	case 1:
		return p[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", strings.TrimSuffix(p[0].Error(), "\n"), len(p)-1)
}
