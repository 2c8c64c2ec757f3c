package runner

import (
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/logpivot/converter/config"
	"github.com/logpivot/converter/input"
	"github.com/logpivot/converter/logs"
	"github.com/logpivot/converter/output"
	"github.com/logpivot/converter/state"
	"github.com/logpivot/converter/util"
)

// Lines are handed to the parse workers in chunks, so one channel hop covers
// many lines.
const parseChunkSize = 1000

type fileLines struct {
	file  input.InputFile
	lines []input.Line
}

type parseChunk struct {
	source string
	lines  []input.Line
}

type parseResult struct {
	records  []state.LogLine
	errs     []state.ParseError
	empty    int64
	filtered int64
}

// Run - Executes one conversion run against the effective profile
//
// All matched files are read in parallel, their lines parsed and filtered in
// parallel, and the surviving records sorted globally by timestamp before
// being rendered. Every input line ends up as exactly one output row, one
// error row, or one counter increment, and a run only fails outright when a
// filter bound is malformed or a whole file cannot be read or written.
func Run(profile *config.Profile, logger *util.Logger) (state.RunSummary, error) {
	summary := state.NewRunSummary()

	filter, err := NewFilter(profile, time.Now())
	if err != nil {
		return summary, err
	}
	resolver, err := output.NewResolver(profile)
	if err != nil {
		return summary, err
	}

	files, err := input.Discover(profile.FilePatterns, logger)
	if err != nil {
		return summary, err
	}
	summary.Files = len(files)
	if len(files) == 0 {
		logger.PrintWarning("No input files matched %v, writing empty output", profile.FilePatterns)
	}

	loaded, err := readFiles(files, logger)
	if err != nil {
		return summary, err
	}

	parser := logs.NewLineParser(profile.PreserveNewlines)
	result := parseFiles(parser, filter, loaded)
	summary.Records = int64(len(result.records))
	summary.ErrorLines = int64(len(result.errs))
	summary.EmptyLines = result.empty
	summary.FilteredOut = result.filtered

	sort.Slice(result.records, func(i, j int) bool {
		return result.records[i].Before(result.records[j])
	})
	sort.Slice(result.errs, func(i, j int) bool {
		return result.errs[i].Before(&result.errs[j])
	})

	if err := writeRecordFile(profile.OutputPath, resolver, result.records); err != nil {
		return summary, err
	}
	logger.PrintVerbose("Wrote %d records to %s", len(result.records), profile.OutputPath)

	if err := writeErrorFile(profile.ErrorPath, result.errs, logger); err != nil {
		return summary, err
	}

	summary.Elapsed = time.Since(summary.StartedAt)
	return summary, nil
}

// readFiles loads every input file into memory, in parallel. Failure to read
// any one file fails the whole run.
func readFiles(files []input.InputFile, logger *util.Logger) ([]fileLines, error) {
	loaded := make([]fileLines, len(files))
	readErrs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file input.InputFile) {
			defer wg.Done()
			fileLogger := logger.WithPrefix(file.Name)
			lines, err := input.ReadLines(file)
			if err != nil {
				readErrs[i] = err
				return
			}
			fileLogger.PrintVerbose("Read %d bytes, %d lines", file.Length, len(lines))
			loaded[i] = fileLines{file: file, lines: lines}
		}(i, file)
	}
	wg.Wait()

	for _, err := range readErrs {
		if err != nil {
			return nil, err
		}
	}
	return loaded, nil
}

// parseFiles runs the line parser over every loaded line with a worker per
// CPU. Ordering does not matter here: each line carries its own source and
// line number, and the global sort happens afterwards.
func parseFiles(parser *logs.LineParser, filter *Filter, loaded []fileLines) parseResult {
	jobs := make(chan parseChunk)
	results := make(chan parseResult)

	var wg sync.WaitGroup
	for i := 0; i < runtime.GOMAXPROCS(0); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range jobs {
				results <- parseChunkLines(parser, filter, chunk)
			}
		}()
	}

	go func() {
		for _, file := range loaded {
			for start := 0; start < len(file.lines); start += parseChunkSize {
				end := start + parseChunkSize
				if end > len(file.lines) {
					end = len(file.lines)
				}
				jobs <- parseChunk{source: file.file.Name, lines: file.lines[start:end]}
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var merged parseResult
	for result := range results {
		merged.records = append(merged.records, result.records...)
		merged.errs = append(merged.errs, result.errs...)
		merged.empty += result.empty
		merged.filtered += result.filtered
	}
	return merged
}

func parseChunkLines(parser *logs.LineParser, filter *Filter, chunk parseChunk) parseResult {
	var result parseResult
	for _, line := range chunk.lines {
		record, parseErr := parser.ParseLine(chunk.source, line.Num, line.Text)
		if parseErr != nil {
			// Blank lines are counted but never reported.
			if parseErr.Kind == state.ParseErrorEmptyLine {
				result.empty++
			} else {
				result.errs = append(result.errs, *parseErr)
			}
			continue
		}
		if !filter.Keep(record) {
			result.filtered++
			continue
		}
		result.records = append(result.records, record)
	}
	return result
}

func writeRecordFile(path string, resolver *output.Resolver, records []state.LogLine) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := output.WriteRecords(f, resolver, records); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}

// writeErrorFile writes the error table, or removes it when this run had
// nothing to report, so a stale table from an earlier run cannot linger.
func writeErrorFile(path string, errs []state.ParseError, logger *util.Logger) error {
	if len(errs) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.PrintVerbose("Could not remove stale %s: %s", path, err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := output.WriteErrors(f, errs); err != nil {
		f.Close()
		return err
	}
	logger.PrintVerbose("Wrote %d parse errors to %s", len(errs), path)
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}
