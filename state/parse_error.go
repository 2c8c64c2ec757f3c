package state

import "fmt"

type ParseErrorKind int

const (
	// ParseErrorEmptyLine - the line was blank after trimming. Counted, but
	// never rendered into the error table.
	ParseErrorEmptyLine ParseErrorKind = iota
	// ParseErrorIncompleteLine - too short to contain a logging timestamp
	ParseErrorIncompleteLine
	// ParseErrorBadLogDate - a timestamp is present but malformed
	ParseErrorBadLogDate
)

func (k ParseErrorKind) String() string {
	switch k {
	case ParseErrorEmptyLine:
		return "EmptyLine"
	case ParseErrorIncompleteLine:
		return "IncompleteLine"
	case ParseErrorBadLogDate:
		return "BadLogDate"
	}
	return "Unknown"
}

// ParseError - A line that could not be parsed. Parse errors go into the
// error table of a run; they never abort it.
type ParseError struct {
	Source  string
	LineNum int64
	Line    string
	Kind    ParseErrorKind
	Detail  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Before orders errors for the error table.
func (e *ParseError) Before(other *ParseError) bool {
	if e.Source != other.Source {
		return e.Source < other.Source
	}
	return e.LineNum < other.LineNum
}
