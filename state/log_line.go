package state

// LogLine - One successfully parsed line of a log file
//
// LogDate and Line are verbatim slices of the trimmed input. Message and KVP
// values have had CR/LF cleaned according to the run's cleaning mode.
type LogLine struct {
	Source  string
	LineNum int64

	Line     string
	LogDate  string
	LogLevel string
	Message  string

	Kvps KVPCollection
}

// Before reports whether l sorts ahead of other in consolidated output. The
// fixed timestamp layout makes plain string comparison chronological, so no
// time parsing is needed.
func (l LogLine) Before(other LogLine) bool {
	if l.LogDate != other.LogDate {
		return l.LogDate < other.LogDate
	}
	if l.Source != other.Source {
		return l.Source < other.Source
	}
	return l.LineNum < other.LineNum
}
