package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/logpivot/converter/util"
)

func writeDiscoverTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"a.log":          "aaa",
		"b.log":          "bb",
		"notes.txt":      "n",
		"sub/c.log":      "c",
		"sub/deep/d.log": "dddd",
	} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func discoverTestLogger() *util.Logger {
	return util.NewLogger(false, true)
}

func TestDiscoverTopLevelPattern(t *testing.T) {
	dir := writeDiscoverTree(t)

	files, err := Discover([]string{filepath.Join(dir, "*.log")}, discoverTestLogger())
	if err != nil {
		t.Fatalf("want nil; got %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("want 2 files; got %d (%v)", len(files), files)
	}
	if files[0].Name != "a.log" || files[1].Name != "b.log" {
		t.Errorf("want a.log then b.log; got %s then %s", files[0].Name, files[1].Name)
	}
	if files[0].Length != 3 || files[1].Length != 2 {
		t.Errorf("want lengths 3 and 2; got %d and %d", files[0].Length, files[1].Length)
	}
}

func TestDiscoverDoublestarWalksSubdirectories(t *testing.T) {
	dir := writeDiscoverTree(t)

	files, err := Discover([]string{filepath.Join(dir, "**", "*.log")}, discoverTestLogger())
	if err != nil {
		t.Fatalf("want nil; got %v", err)
	}
	var names []string
	for _, file := range files {
		names = append(names, file.Name)
	}
	want := []string{"a.log", "b.log", "c.log", "d.log"}
	if len(names) != len(want) {
		t.Fatalf("want %v; got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("want %v; got %v", want, names)
		}
	}
}

func TestDiscoverDeduplicatesOverlappingPatterns(t *testing.T) {
	dir := writeDiscoverTree(t)

	files, err := Discover([]string{
		filepath.Join(dir, "*.log"),
		filepath.Join(dir, "a.log"),
		filepath.Join(dir, "**", "*.log"),
	}, discoverTestLogger())
	if err != nil {
		t.Fatalf("want nil; got %v", err)
	}
	seen := make(map[string]int)
	for _, file := range files {
		seen[file.Path]++
	}
	for path, count := range seen {
		if count > 1 {
			t.Errorf("%s discovered %d times", path, count)
		}
	}
	if len(files) != 4 {
		t.Errorf("want 4 distinct files; got %d", len(files))
	}
}

func TestDiscoverNoMatchesIsNotAnError(t *testing.T) {
	dir := t.TempDir()

	files, err := Discover([]string{filepath.Join(dir, "*.log")}, discoverTestLogger())
	if err != nil {
		t.Fatalf("want nil; got %v", err)
	}
	if len(files) != 0 {
		t.Errorf("want no files; got %v", files)
	}
}
