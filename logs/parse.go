package logs

import (
	"fmt"
	"strings"

	"github.com/logpivot/converter/state"
)

// The minimum length of a line that can carry a logging timestamp of the form
// YYYY-MM-DD HH:MM:SS.FFFFFFF
const logDateMinLength = 27

// LineParser - Parses single log lines into state.LogLine records
//
// A line looks like
//
//	<timestamp> | Key1=Val1 | Key2="Val 2" | [LEVEL] | message text Key3=Val3
//
// with every part after the timestamp optional. Parsing never fails past the
// timestamp: anything that stops looking like a KVP becomes message text.
type LineParser struct {
	cleaner *strings.Replacer
}

// NewLineParser - When preserveNewlines is set, embedded LF survives into
// messages and values and only CR is dropped. The default replaces each CR
// and LF with one space so fields can never break a CSV row.
func NewLineParser(preserveNewlines bool) *LineParser {
	cleaner := strings.NewReplacer("\r", " ", "\n", " ")
	if preserveNewlines {
		cleaner = strings.NewReplacer("\r", "")
	}
	return &LineParser{cleaner: cleaner}
}

// ParseLine turns one raw line into a LogLine record or a ParseError, never
// both. The returned error's character indexes refer to the raw line as
// passed in, including any leading whitespace.
func (p *LineParser) ParseLine(source string, lineNum int64, raw string) (state.LogLine, *state.ParseError) {
	line := []byte(raw)

	first, ok := nextNonWhitespace(line, 0, len(line)-1)
	if !ok {
		return state.LogLine{}, &state.ParseError{
			Source:  source,
			LineNum: lineNum,
			Kind:    state.ParseErrorEmptyLine,
			Detail:  "The line is empty after trimming",
		}
	}
	last, _ := prevNonWhitespace(line, len(line)-1, first)

	if last-first+1 < logDateMinLength {
		return state.LogLine{}, &state.ParseError{
			Source:  source,
			LineNum: lineNum,
			Line:    raw,
			Kind:    state.ParseErrorIncompleteLine,
			Detail:  fmt.Sprintf("The input line is less than %d characters, which indicates it does not even contain a logging timestamp", logDateMinLength),
		}
	}

	// The timestamp is validated position by position: YYYY-MM-DD HH:MM:SS.
	// followed by at least one fractional seconds digit.
	for i := 0; i < 20; i++ {
		pos := first + i
		c := line[pos]
		var want string
		var matches bool
		switch i {
		case 4, 7:
			want, matches = "-", c == '-'
		case 10:
			want, matches = " ", c == ' '
		case 13, 16:
			want, matches = ":", c == ':'
		case 19:
			want, matches = ".", c == '.'
		default:
			want, matches = "digit", c >= '0' && c <= '9'
		}
		if !matches {
			return state.LogLine{}, &state.ParseError{
				Source:  source,
				LineNum: lineNum,
				Line:    raw,
				Kind:    state.ParseErrorBadLogDate,
				Detail:  fmt.Sprintf("Character %d was expected to be %s, but was %c", pos, want, c),
			}
		}
	}

	// Consume all fractional digits, not just the usual seven, leaving
	// fractionEnd on the last one.
	fractionEnd := first + 20
	for fractionEnd <= last && line[fractionEnd] >= '0' && line[fractionEnd] <= '9' {
		fractionEnd++
	}
	fractionEnd--
	if fractionEnd < first+20 {
		return state.LogLine{}, &state.ParseError{
			Source:  source,
			LineNum: lineNum,
			Line:    raw,
			Kind:    state.ParseErrorBadLogDate,
			Detail:  "No fractional seconds part was detected on the log_date",
		}
	}

	logLine := state.LogLine{
		Source:  source,
		LineNum: lineNum,
		Line:    string(line[first : last+1]),
		LogDate: string(line[first : fractionEnd+1]),
	}

	// Prologue: eat KVPs and the log level until something that is neither
	// marks the start of the message.
	start, ok := nextNonWhitespaceOrPipeAfter(line, fractionEnd, last)
	if !ok {
		// Nothing after the timestamp
		return logLine, nil
	}

	var msgStart int
	for {
		span, matched := nextKVP(line, start, last)
		if !matched {
			msgStart = start
			break
		}
		if span.isLogLevel {
			if logLine.LogLevel == "" {
				logLine.LogLevel = span.key(line)
			}
		} else {
			logLine.Kvps.Insert(state.KVP{Key: span.key(line), Value: p.clean(span.value(line))})
		}
		start, ok = nextNonWhitespaceOrPipeAfter(line, span.endIndex, last)
		if !ok {
			// The line ends inside its prologue: no message at all
			return logLine, nil
		}
	}

	// Trailing KVPs: eat backward from the end of the line until a backward
	// parse fails or everything down to the message start is consumed. This
	// is what finally pins down the end of the message.
	msgEnd := last
	for {
		span, matched := prevKVP(line, msgEnd, msgStart)
		if !matched {
			break
		}
		logLine.Kvps.Insert(state.KVP{Key: span.key(line), Value: p.clean(span.value(line))})
		msgEnd, ok = prevNonWhitespace(line, span.keyStart-1, msgStart)
		if !ok {
			// Only whitespace is left before the KVPs: empty message
			msgEnd = msgStart - 1
			break
		}
	}

	if msgEnd >= msgStart {
		logLine.Message = p.clean(string(line[msgStart : msgEnd+1]))
	}

	return logLine, nil
}

func (p *LineParser) clean(s string) string {
	return p.cleaner.Replace(s)
}
