package logs

// The forward and backward KVP grammars. A KVP takes one of three forms:
//
//	Key=
//	Key=Value
//	Key="Value with space"
//
// The logging framework guarantees no space around the '=' and wraps the
// value in double quotes when it contains a quote or a space. Keys may
// contain '.', as in "Http.Request.Path".

// Log level tokens emitted by the logging framework. Always 7 characters.
var logLevels = []string{
	"[INFO_]",
	"[DEBUG]",
	"[VRBSE]",
	"[WARNG]",
	"[ERROR]",
	"[FATAL]",
	"[UNDEF]",
	"[DEBG2]",
	"[DEBG1]",
}

const logLevelLength = 7

// kvpSpan records where a grammar match landed inside the line. Indexes are
// inclusive byte offsets; valueStart > valueEnd encodes an empty value.
// endIndex is the last byte of the whole expression, quotes included, so
// scanning resumes at endIndex+1.
type kvpSpan struct {
	keyStart, keyEnd     int
	valueStart, valueEnd int
	isLogLevel           bool
	endIndex             int
}

func (s kvpSpan) key(line []byte) string {
	return string(line[s.keyStart : s.keyEnd+1])
}

func (s kvpSpan) value(line []byte) string {
	if s.valueStart > s.valueEnd {
		return ""
	}
	return string(line[s.valueStart : s.valueEnd+1])
}

func logLevelSpan(line []byte, start int, end int) (kvpSpan, bool) {
	if end-start+1 != logLevelLength {
		return kvpSpan{}, false
	}
	token := string(line[start : end+1])
	for _, level := range logLevels {
		if token == level {
			return kvpSpan{keyStart: start, keyEnd: end, valueStart: 0, valueEnd: -1, isLogLevel: true, endIndex: end}, true
		}
	}
	return kvpSpan{}, false
}

// nextKVP attempts to match one KVP reading forward from current, which must
// be on the first character of a candidate key. A token terminated by
// whitespace instead of '=' can still match as a log level.
func nextKVP(line []byte, current int, limit int) (kvpSpan, bool) {
	term, found := next(line, current, limit, func(c byte) bool { return !isKvpTerminator(c) })
	if !found {
		// The token runs to the end of the window. It cannot be Key=Value,
		// but it may be a log level flush against the end.
		if current >= 0 && current <= limit && limit < len(line) {
			return logLevelSpan(line, current, limit)
		}
		return kvpSpan{}, false
	}

	if line[term] != '=' {
		return logLevelSpan(line, current, term-1)
	}

	if term == current {
		// '=' with no key in front of it
		return kvpSpan{}, false
	}

	span := kvpSpan{keyStart: current, keyEnd: term - 1, valueStart: 0, valueEnd: -1, endIndex: term}

	valueStart := term + 1
	if valueStart > limit {
		// "Key=" flush against the end: empty value
		return span, true
	}

	switch {
	case line[valueStart] == '"':
		// Quoted value: scan for the closing quote, but never cross a line
		// break. An unterminated quote consumes the rest as the value.
		closing, found := next(line, valueStart+1, limit, func(c byte) bool {
			return c != '"' && c != '\r' && c != '\n'
		})
		switch {
		case !found:
			span.valueStart, span.valueEnd, span.endIndex = valueStart+1, limit, limit
		case line[closing] == '"':
			span.valueStart, span.valueEnd, span.endIndex = valueStart+1, closing-1, closing
		default:
			// Stopped on CR or LF; the break stays outside the value.
			span.valueStart, span.valueEnd, span.endIndex = valueStart+1, closing-1, closing-1
		}
	case isWhitespace(line[valueStart]):
		// "Key= ": empty value, the expression ends on the '='
	default:
		valueEnd, found := nextWhitespace(line, valueStart, limit)
		if !found {
			valueEnd = limit + 1
		}
		span.valueStart, span.valueEnd, span.endIndex = valueStart, valueEnd-1, valueEnd-1
	}

	return span, true
}

// prevKVP attempts to match one KVP reading backward from current, which must
// be on the last character of a candidate value ('=', '"' or a bare value
// byte) and not on whitespace.
func prevKVP(line []byte, current int, limit int) (kvpSpan, bool) {
	if limit < 0 || current >= len(line) || current < limit {
		return kvpSpan{}, false
	}

	switch c := line[current]; {
	case isWhitespace(c):
		return kvpSpan{}, false
	case c == '=':
		// "Key=" with an empty value
		return extractKeyBackward(line, current, limit, 0, -1, current)
	case c == '"':
		// Quoted value: find the opening quote. No opening quote inside the
		// window, an opening quote at the window start, or anything but '='
		// before it means this is quoted prose, not a KVP: fail hard so the
		// trailing scan stops.
		opening, found := prev(line, current-1, limit, func(b byte) bool { return b != '"' })
		if !found || opening == limit {
			return kvpSpan{}, false
		}
		if line[opening-1] != '=' {
			return kvpSpan{}, false
		}
		return extractKeyBackward(line, opening-1, limit, opening+1, current-1, current)
	default:
		// Bare value: expect '=' before any '"' or whitespace.
		eq, found := prev(line, current, limit, func(b byte) bool {
			return b != '=' && b != '"' && !isWhitespace(b)
		})
		if !found || line[eq] != '=' {
			return kvpSpan{}, false
		}
		return extractKeyBackward(line, eq, limit, eq+1, current, current)
	}
}

// extractKeyBackward finds the key in front of the '=' at eq: the maximal run
// of non-whitespace immediately before it, bounded by the window start.
// Whitespace directly before the '=' means there is no KVP here.
func extractKeyBackward(line []byte, eq int, limit int, valueStart int, valueEnd int, endIndex int) (kvpSpan, bool) {
	keyEnd := eq - 1
	if keyEnd < limit {
		return kvpSpan{}, false
	}
	if isWhitespace(line[keyEnd]) {
		return kvpSpan{}, false
	}
	keyStart := limit
	if ws, found := prevWhitespace(line, keyEnd, limit); found {
		keyStart = ws + 1
	}
	return kvpSpan{keyStart: keyStart, keyEnd: keyEnd, valueStart: valueStart, valueEnd: valueEnd, endIndex: endIndex}, true
}
