package logs

// Scanning primitives for the KVP grammars and the line parser. All indexes
// are byte offsets and all limits are INCLUSIVE. The delimiter classes are
// pure ASCII, and multi-byte UTF-8 sequences never contain ASCII bytes, so
// byte-wise scanning is safe even when values carry UTF-8 text.

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\r' || c == '\n' || c == '\t'
}

func isKvpTerminator(c byte) bool {
	return c == '=' || isWhitespace(c)
}

func isWhitespaceOrPipe(c byte) bool {
	return c == '|' || isWhitespace(c)
}

// next scans forward from current and returns the first index in
// [current, limit] at which pred stops holding. Reports failure if pred holds
// through limit, or if the window is invalid.
func next(line []byte, current int, limit int, pred func(byte) bool) (int, bool) {
	if current < 0 || limit >= len(line) || current > limit {
		return 0, false
	}
	for i := current; i <= limit; i++ {
		if !pred(line[i]) {
			return i, true
		}
	}
	return 0, false
}

// prev is the backward counterpart of next: it scans down from current and
// returns the first index in [limit, current] at which pred stops holding.
func prev(line []byte, current int, limit int, pred func(byte) bool) (int, bool) {
	if limit < 0 || current >= len(line) || current < limit {
		return 0, false
	}
	for i := current; i >= limit; i-- {
		if !pred(line[i]) {
			return i, true
		}
	}
	return 0, false
}

func nextWhitespace(line []byte, current int, limit int) (int, bool) {
	return next(line, current, limit, func(c byte) bool { return !isWhitespace(c) })
}

func nextNonWhitespace(line []byte, current int, limit int) (int, bool) {
	return next(line, current, limit, isWhitespace)
}

func nextNonWhitespaceOrPipe(line []byte, current int, limit int) (int, bool) {
	return next(line, current, limit, isWhitespaceOrPipe)
}

// nextNonWhitespaceOrPipeAfter starts one past current. This is the hop the
// prologue scan makes from the end of one token to the start of the next.
func nextNonWhitespaceOrPipeAfter(line []byte, current int, limit int) (int, bool) {
	return nextNonWhitespaceOrPipe(line, current+1, limit)
}

func prevNonWhitespace(line []byte, current int, limit int) (int, bool) {
	return prev(line, current, limit, isWhitespace)
}

func prevWhitespace(line []byte, current int, limit int) (int, bool) {
	return prev(line, current, limit, func(c byte) bool { return !isWhitespace(c) })
}
