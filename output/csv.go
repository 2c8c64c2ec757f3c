package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/logpivot/converter/state"
)

// WriteRecords - Renders records as CSV, one row per record, in slice order.
// The caller sorts; this writes.
func WriteRecords(w io.Writer, resolver *Resolver, lines []state.LogLine) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(resolver.Header()); err != nil {
		return errors.Wrap(err, "failed to write the header row")
	}
	for _, line := range lines {
		if err := writer.Write(resolver.Resolve(line)); err != nil {
			return errors.Wrapf(err, "failed to write the row for %s line %d", line.Source, line.LineNum)
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "failed to flush the consolidated output")
}

// WriteErrors - Renders the error table. Its shape is fixed: one row per
// line that failed to parse, carrying the raw line for later inspection.
func WriteErrors(w io.Writer, parseErrors []state.ParseError) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Source", "LineNum", "Message", "Line"}); err != nil {
		return errors.Wrap(err, "failed to write the error table header")
	}
	for _, parseErr := range parseErrors {
		row := []string{parseErr.Source, strconv.FormatInt(parseErr.LineNum, 10), parseErr.Error(), parseErr.Line}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write the error row for %s line %d", parseErr.Source, parseErr.LineNum)
		}
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "failed to flush the error table")
}
