package input

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/logpivot/converter/util"
)

// InputFile - One concrete file to be processed. Name is the filename
// without its directory and is what parsed records carry as their Source.
type InputFile struct {
	Path   string
	Name   string
	Length int64
}

// Discover - Expands glob patterns into the concrete input file list.
// Patterns may use "**" to match across directories. A file matched by more
// than one pattern is kept once, and the result is sorted by path so runs
// are deterministic regardless of pattern order.
func Discover(patterns []string, logger *util.Logger) ([]InputFile, error) {
	seen := make(map[string]bool)
	files := []InputFile{}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to expand pattern %s", pattern)
		}
		if len(matches) == 0 {
			logger.PrintVerbose("Pattern %s matched no files", pattern)
			continue
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			info, err := os.Stat(match)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to stat %s", match)
			}
			files = append(files, InputFile{
				Path:   match,
				Name:   filepath.Base(match),
				Length: info.Size(),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}
