package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/logpivot/converter/state"
)

func TestWriteRecords(t *testing.T) {
	resolver := mustResolver(t, resolverProfile("LogDate", "Message"))
	lines := []state.LogLine{
		{LogDate: "2018-01-01 00:00:00.1", Message: "plain"},
		{LogDate: "2018-01-01 00:00:00.2", Message: `has "quotes", commas`},
	}

	var buf bytes.Buffer
	if err := WriteRecords(&buf, resolver, lines); err != nil {
		t.Fatalf("want nil; got %v", err)
	}

	want := "LogDate,Message\n" +
		"2018-01-01 00:00:00.1,plain\n" +
		"2018-01-01 00:00:00.2,\"has \"\"quotes\"\", commas\"\n"
	if buf.String() != want {
		t.Errorf("want %q; got %q", want, buf.String())
	}
}

func TestWriteRecordsHeaderOnlyForNoLines(t *testing.T) {
	resolver := mustResolver(t, resolverProfile("LogDate", "LogLevel", "Message"))

	var buf bytes.Buffer
	if err := WriteRecords(&buf, resolver, nil); err != nil {
		t.Fatalf("want nil; got %v", err)
	}
	if buf.String() != "LogDate,LogLevel,Message\n" {
		t.Errorf("want a bare header; got %q", buf.String())
	}
}

func TestWriteErrors(t *testing.T) {
	parseErrors := []state.ParseError{
		{Source: "a.log", LineNum: 3, Line: "too short", Kind: state.ParseErrorIncompleteLine,
			Detail: "The input line is less than 27 characters, which indicates it does not even contain a logging timestamp"},
		{Source: "b.log", LineNum: 9, Line: "x018-01-01 00:00:00.1 | rest", Kind: state.ParseErrorBadLogDate,
			Detail: "Character 0 was expected to be digit, but was x"},
	}

	var buf bytes.Buffer
	if err := WriteErrors(&buf, parseErrors); err != nil {
		t.Fatalf("want nil; got %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("want a header plus 2 rows; got %d records", len(records))
	}
	checkRow(t, records[0], []string{"Source", "LineNum", "Message", "Line"})
	checkRow(t, records[1], []string{"a.log", "3",
		"IncompleteLine: The input line is less than 27 characters, which indicates it does not even contain a logging timestamp",
		"too short"})
	checkRow(t, records[2], []string{"b.log", "9",
		"BadLogDate: Character 0 was expected to be digit, but was x",
		"x018-01-01 00:00:00.1 | rest"})
}
