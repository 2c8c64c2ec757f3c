package input

import (
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Line - One record-bearing slice of an input file, 1-based. The logging
// framework ends every record with CR (optionally followed by LF) and uses
// a bare LF inside a record as a soft continuation, so Text may itself
// contain LF characters.
type Line struct {
	Num  int64
	Text string
}

// ReadLines - Reads the whole file into memory and splits it into lines.
// Files ending in .gz are decompressed transparently. A bare CR without a
// following LF still ends a line, and a final line without any terminator
// still counts.
func ReadLines(file InputFile) ([]Line, error) {
	data, err := readAll(file.Path)
	if err != nil {
		return nil, err
	}
	return splitLines(data), nil
}

func readAll(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s as gzip", path)
		}
		defer gz.Close()
		reader = gz
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data, nil
}

func splitLines(data []byte) []Line {
	lines := []Line{}
	var num int64
	start := 0
	i := 0

	for i < len(data) {
		if data[i] != '\r' {
			i++
			continue
		}
		num++
		lines = append(lines, Line{Num: num, Text: string(data[start:i])})
		i++
		if i < len(data) && data[i] == '\n' {
			i++
		}
		start = i
	}

	if start < len(data) {
		num++
		lines = append(lines, Line{Num: num, Text: string(data[start:])})
	}

	return lines
}
