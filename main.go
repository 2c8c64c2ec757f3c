package main

import (
	"os"
	"path/filepath"
	"strings"

	flag "github.com/ogier/pflag"
	"github.com/pkg/errors"
	"gopkg.in/guregu/null.v3"

	"github.com/logpivot/converter/config"
	"github.com/logpivot/converter/input"
	"github.com/logpivot/converter/runner"
	"github.com/logpivot/converter/util"
)

const userConfigFile = ".logpivot-converter.conf"
const systemConfigFile = "/etc/logpivot-converter.conf"

func main() {
	var configFilename, profileName string
	var noDefaultProfile, quiet, verbose, preserveNewlines, dumpConfig bool
	var maxMessageLength, generateLines int
	var outputPath, errorPath, sysRefs, fromBound, toBound string

	flag.StringVarP(&configFilename, "config", "c", "", "Specify the configuration file, instead of looking in the home directory and /etc")
	flag.StringVarP(&profileName, "profile", "p", config.DefaultProfileName, "Name of the configuration profile to apply on top of the default profile")
	flag.BoolVarP(&noDefaultProfile, "no-default-profile", "D", false, "Suppress the default profile, applying only the named profile")
	flag.BoolVarP(&quiet, "quiet", "q", false, "Run quietly")
	flag.BoolVarP(&verbose, "verbose", "v", false, "Include verbose output of what the converter is doing")
	flag.StringVarP(&outputPath, "output", "o", "", "Write the consolidated CSV to this file")
	flag.StringVarP(&errorPath, "errors", "e", "", "Write the parse error table to this file")
	flag.IntVarP(&maxMessageLength, "max-message-length", "m", 0, "Maximum length of the message column in the output")
	flag.BoolVar(&preserveNewlines, "preserve-newlines", false, "Keep soft line breaks inside messages instead of flattening them to spaces")
	flag.StringVarP(&sysRefs, "sysrefs", "s", "", "Only output records matching one of these comma-separated SysRef values")
	flag.StringVarP(&fromBound, "from", "f", "", "Only output records at or after this date (\"YYYY-MM-DD HH:MM:SS\", \"YYYY-MM-DD\", \"HH:MM\" or \"yesterday\")")
	flag.StringVarP(&toBound, "to", "t", "", "Only output records at or before this date (same formats as --from)")
	flag.BoolVarP(&dumpConfig, "dump-config", "d", false, "Dump the effective configuration in configuration file syntax and exit")
	flag.IntVar(&generateLines, "generate", 0, "Write this many sample log lines to the named file and exit")
	flag.Parse()

	logger := util.NewLogger(verbose, quiet)

	if generateLines > 0 {
		if err := generateSampleFile(flag.Args(), generateLines); err != nil {
			logger.PrintError("Error: %s", err)
			os.Exit(1)
		}
		return
	}

	profile, err := loadProfile(logger, configFilename, profileName, noDefaultProfile)
	if err != nil {
		logger.PrintError("Config Error: %s", err)
		os.Exit(1)
	}
	profile.ApplyOverrides(collectOverrides(quiet, maxMessageLength, preserveNewlines, outputPath, errorPath, fromBound, toBound, sysRefs))
	logger.Quiet = profile.Quiet

	if dumpConfig {
		if err := profile.Dump(os.Stdout); err != nil {
			logger.PrintError("Error: %s", err)
			os.Exit(1)
		}
		return
	}

	summary, err := runner.Run(profile, logger)
	if err != nil {
		logger.PrintError("Error: %s", err)
		os.Exit(1)
	}

	logger.PrintVerbose("Run %s finished", summary.RunID)
	logger.PrintInfo("Processed %d lines from %d files in %s: %d records, %d parse errors, %d empty, %d filtered out",
		summary.TotalLines(), summary.Files, summary.Elapsed, summary.Records, summary.ErrorLines, summary.EmptyLines, summary.FilteredOut)
}

// loadProfile reads the effective profile. An explicitly named configuration
// file has to exist; the two well-known locations are optional.
func loadProfile(logger *util.Logger, configFilename string, profileName string, noDefaultProfile bool) (*config.Profile, error) {
	if configFilename != "" {
		if _, err := os.Stat(configFilename); err != nil {
			return nil, errors.Wrapf(err, "cannot read configuration file %s", configFilename)
		}
		return config.Read(logger, configFilename, profileName, noDefaultProfile)
	}
	return config.Read(logger, defaultConfigFilename(), profileName, noDefaultProfile)
}

func defaultConfigFilename() string {
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, userConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	if _, err := os.Stat(systemConfigFile); err == nil {
		return systemConfigFile
	}
	return ""
}

// collectOverrides picks up only the flags the user actually passed, so an
// unset flag never clobbers a profile setting with its zero value.
func collectOverrides(quiet bool, maxMessageLength int, preserveNewlines bool, outputPath string, errorPath string, fromBound string, toBound string, sysRefs string) config.Overrides {
	var overrides config.Overrides

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "quiet":
			overrides.Quiet = null.BoolFrom(quiet)
		case "max-message-length":
			overrides.MaxMessageLength = null.IntFrom(int64(maxMessageLength))
		case "preserve-newlines":
			overrides.PreserveNewlines = null.BoolFrom(preserveNewlines)
		case "output":
			overrides.OutputPath = null.StringFrom(outputPath)
		case "errors":
			overrides.ErrorPath = null.StringFrom(errorPath)
		case "from":
			overrides.From = null.StringFrom(fromBound)
		case "to":
			overrides.To = null.StringFrom(toBound)
		case "sysrefs":
			overrides.SysRefs = splitCommaList(sysRefs)
		}
	})

	overrides.FilePatterns = flag.Args()
	return overrides
}

func splitCommaList(value string) []string {
	var values []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func generateSampleFile(args []string, numLines int) error {
	if len(args) != 1 {
		return errors.Errorf("--generate needs exactly one target file argument, got %d", len(args))
	}

	f, err := os.Create(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", args[0])
	}
	if err := input.Generate(f, numLines); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write sample lines to %s", args[0])
	}
	return errors.Wrapf(f.Close(), "failed to close %s", args[0])
}
