package input

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type splitTestpair struct {
	in  string
	out []Line
}

var splitTests = []splitTestpair{
	// CRLF terminated
	{"one\r\ntwo\r\n", []Line{{1, "one"}, {2, "two"}}},
	// Bare CR is a terminator too
	{"one\rtwo\r", []Line{{1, "one"}, {2, "two"}}},
	// Bare LF stays inside the line
	{"first\nsecond\r\nthird\r\n", []Line{{1, "first\nsecond"}, {2, "third"}}},
	// The final line may lack its terminator
	{"one\r\ntail", []Line{{1, "one"}, {2, "tail"}}},
	// Lines that are empty still take a line number
	{"\r\n\r\nthree\r\n", []Line{{1, ""}, {2, ""}, {3, "three"}}},
	{"", []Line{}},
	// LF-only input never splits
	{"a\nb\nc", []Line{{1, "a\nb\nc"}}},
}

func TestSplitLines(t *testing.T) {
	for _, pair := range splitTests {
		got := splitLines([]byte(pair.in))
		if !reflect.DeepEqual(got, pair.out) {
			t.Errorf("For %q: want %v; got %v", pair.in, pair.out, got)
		}
	}
}

func TestReadLinesPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte("one\r\ntwo\rthree"), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadLines(InputFile{Path: path, Name: "app.log"})
	if err != nil {
		t.Fatalf("want nil; got %v", err)
	}
	want := []Line{{1, "one"}, {2, "two"}, {3, "three"}}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("want %v; got %v", want, lines)
	}
}

func TestReadLinesGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte("one\r\ntwo\r\n")); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadLines(InputFile{Path: path, Name: "app.log.gz"})
	if err != nil {
		t.Fatalf("want nil; got %v", err)
	}
	want := []Line{{1, "one"}, {2, "two"}}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("want %v; got %v", want, lines)
	}
}

func TestReadLinesMissingFile(t *testing.T) {
	_, err := ReadLines(InputFile{Path: filepath.Join(t.TempDir(), "nope.log")})
	if err == nil {
		t.Fatal("want an error for a missing file")
	}
}
