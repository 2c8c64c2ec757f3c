package config

import (
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
	"gopkg.in/guregu/null.v3"

	"github.com/logpivot/converter/util"
)

const DefaultProfileName = "default"

// DefaultMaxMessageLength bounds the Message column. Some log lines are
// extremely long and can generate warnings in LibreOffice or Excel, so the
// limit lets them be trimmed down to something more reasonable.
const DefaultMaxMessageLength = 1000000

const (
	DefaultOutputPath  = "consolidated.csv"
	DefaultErrorPath   = "errors.csv"
	DefaultFilePattern = "*.log"
)

// The built-in column names. These resolve directly from the parsed record
// instead of from its KVPs.
const (
	ColumnLogDate  = "LogDate"
	ColumnLogLevel = "LogLevel"
	ColumnMessage  = "Message"
)

// Profile - The effective configuration of one conversion run
//
// It says which files to read, which columns to emit, and how to filter.
// Built from the built-in defaults, a configuration file section, and
// command line overrides, in that order.
type Profile struct {
	Name string `ini:"-"`

	Quiet            bool `ini:"quiet"`
	MaxMessageLength int  `ini:"max_message_length"`
	PreserveNewlines bool `ini:"preserve_newlines"`

	OutputPath string `ini:"output"`
	ErrorPath  string `ini:"errors"`

	// The column names, in output order. These become the CSV header.
	Columns []string `ini:"columns"`

	// Glob patterns naming the files to process ("**" is supported).
	FilePatterns []string `ini:"file_patterns"`

	// Optional allow-list of SysRef values; records carrying a SysRef not in
	// the list are dropped. Empty means no filtering.
	SysRefs []string `ini:"sysrefs"`

	// Optional LogDate bounds, see dates.go for the accepted formats.
	From string `ini:"from"`
	To   string `ini:"to"`

	// Alternate KVP key names per column. If a value cannot be found under
	// the column's own name, each alternate is tried in order. This lets a
	// column called "AppName" locate a value logged as "ApplicationName".
	Alternates map[string][]string `ini:"-"`

	// Extraction regexes per column, applied to the message text when the
	// KVP lookups come up empty. Columns without an entry fall back to a
	// generated probe pattern.
	Patterns map[string]string `ini:"-"`
}

// HasColumn reports whether the column is already configured, either under
// its own name or as an alternate name of another column. Case-insensitive.
func (p *Profile) HasColumn(name string) bool {
	if util.SliceContainsFold(p.Columns, name) {
		return true
	}
	for _, alternates := range p.Alternates {
		if util.SliceContainsFold(alternates, name) {
			return true
		}
	}
	return false
}

func (p *Profile) AddColumn(name string) {
	if !util.SliceContainsFold(p.Columns, name) {
		p.Columns = append(p.Columns, name)
	}
}

func (p *Profile) AddAlternate(column string, alternate string) {
	if p.Alternates == nil {
		p.Alternates = make(map[string][]string)
	}
	if !util.SliceContainsFold(p.Alternates[column], alternate) {
		p.Alternates[column] = append(p.Alternates[column], alternate)
	}
}

func (p *Profile) AddFilePattern(pattern string) {
	if !util.SliceContainsFold(p.FilePatterns, pattern) {
		p.FilePatterns = append(p.FilePatterns, pattern)
	}
}

func (p *Profile) AddSysRef(sysref string) {
	if !util.SliceContainsFold(p.SysRefs, sysref) {
		p.SysRefs = append(p.SysRefs, sysref)
	}
}

func (p *Profile) SetPattern(column string, pattern string) {
	if p.Patterns == nil {
		p.Patterns = make(map[string]string)
	}
	p.Patterns[column] = pattern
}

func blankProfile() *Profile {
	return &Profile{
		Name:             "blank",
		MaxMessageLength: DefaultMaxMessageLength,
		OutputPath:       DefaultOutputPath,
		ErrorPath:        DefaultErrorPath,
	}
}

func getDefaultProfile() *Profile {
	profile := blankProfile()
	profile.Name = DefaultProfileName

	profile.AddColumn(ColumnLogDate)
	profile.AddColumn(ColumnLogLevel)
	profile.AddColumn("MachineName")
	profile.AddColumn("AppName")
	profile.AddColumn("PID")
	profile.AddColumn("TID")
	profile.AddColumn("SysRef")
	profile.AddColumn("Action")
	profile.AddColumn("Source")
	profile.AddColumn("CorrelationKey")
	profile.AddColumn("CallRecorderExecutionTime")
	profile.AddColumn("Http.RequestId")
	profile.AddColumn("Http.RequestQueryString")
	profile.AddColumn("Http.Request.Path")
	profile.AddColumn("UserName")
	profile.AddColumn("UserIdentity")
	profile.AddColumn(ColumnMessage)

	profile.AddAlternate("AppName", "ApplicationName")
	profile.AddAlternate("Http.RequestId", "Owin.Request.Id")
	profile.AddAlternate("Http.RequestQueryString", "Owin.Request.QueryString")
	profile.AddAlternate("Http.Request.Path", "Owin.Request.Path")

	// The environment variables are the default way to configure when running
	// inside a container.
	if quiet := os.Getenv("LOGPIVOT_QUIET"); quiet != "" && quiet != "0" {
		profile.Quiet = true
	}
	if maxMessageLength := os.Getenv("LOGPIVOT_MAX_MESSAGE_LENGTH"); maxMessageLength != "" {
		if n, err := strconv.Atoi(maxMessageLength); err == nil {
			profile.MaxMessageLength = n
		}
	}
	if preserveNewlines := os.Getenv("LOGPIVOT_PRESERVE_NEWLINES"); preserveNewlines != "" && preserveNewlines != "0" {
		profile.PreserveNewlines = true
	}
	if outputPath := os.Getenv("LOGPIVOT_OUTPUT"); outputPath != "" {
		profile.OutputPath = outputPath
	}
	if errorPath := os.Getenv("LOGPIVOT_ERRORS"); errorPath != "" {
		profile.ErrorPath = errorPath
	}
	if sysrefs := os.Getenv("LOGPIVOT_SYSREFS"); sysrefs != "" {
		for _, sysref := range strings.Split(sysrefs, ",") {
			if sysref = strings.TrimSpace(sysref); sysref != "" {
				profile.AddSysRef(sysref)
			}
		}
	}

	return profile
}

// Overrides - Command line settings that take precedence over the profile.
// Null fields were not given on the command line and leave the profile value
// in place.
type Overrides struct {
	Quiet            null.Bool
	MaxMessageLength null.Int
	PreserveNewlines null.Bool
	OutputPath       null.String
	ErrorPath        null.String
	From             null.String
	To               null.String
	SysRefs          []string
	FilePatterns     []string
}

// ApplyOverrides - Applies command line settings on top of the profile and
// fills the final fallbacks. Files named on the command line replace the
// profile's file patterns entirely; a run with no patterns from anywhere
// processes "*.log" in the current directory.
func (p *Profile) ApplyOverrides(overrides Overrides) {
	if overrides.Quiet.Valid {
		p.Quiet = overrides.Quiet.Bool
	}
	if overrides.MaxMessageLength.Valid {
		p.MaxMessageLength = int(overrides.MaxMessageLength.Int64)
	}
	if overrides.PreserveNewlines.Valid {
		p.PreserveNewlines = overrides.PreserveNewlines.Bool
	}
	if overrides.OutputPath.Valid {
		p.OutputPath = overrides.OutputPath.String
	}
	if overrides.ErrorPath.Valid {
		p.ErrorPath = overrides.ErrorPath.String
	}
	if overrides.From.Valid {
		p.From = overrides.From.String
	}
	if overrides.To.Valid {
		p.To = overrides.To.String
	}
	if len(overrides.SysRefs) > 0 {
		p.SysRefs = overrides.SysRefs
	}
	if len(overrides.FilePatterns) > 0 {
		p.FilePatterns = overrides.FilePatterns
	}

	if len(p.FilePatterns) == 0 {
		p.FilePatterns = []string{DefaultFilePattern}
	}
}

// Dump - Writes the profile in configuration file syntax, suitable as a
// starting point for a custom configuration file.
func (p *Profile) Dump(w io.Writer) error {
	file := ini.Empty()
	section, err := file.NewSection(p.Name)
	if err != nil {
		return err
	}

	section.NewKey("quiet", strconv.FormatBool(p.Quiet))
	section.NewKey("max_message_length", strconv.Itoa(p.MaxMessageLength))
	section.NewKey("preserve_newlines", strconv.FormatBool(p.PreserveNewlines))
	section.NewKey("output", p.OutputPath)
	section.NewKey("errors", p.ErrorPath)
	section.NewKey("columns", strings.Join(p.Columns, ","))
	if len(p.FilePatterns) > 0 {
		section.NewKey("file_patterns", strings.Join(p.FilePatterns, ","))
	}
	if len(p.SysRefs) > 0 {
		section.NewKey("sysrefs", strings.Join(p.SysRefs, ","))
	}
	if p.From != "" {
		section.NewKey("from", p.From)
	}
	if p.To != "" {
		section.NewKey("to", p.To)
	}

	// Sorted so the dump is stable.
	columns := make([]string, 0, len(p.Alternates))
	for column := range p.Alternates {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	for _, column := range columns {
		section.NewKey("alternate."+column, strings.Join(p.Alternates[column], ","))
	}

	columns = columns[:0]
	for column := range p.Patterns {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	for _, column := range columns {
		section.NewKey("pattern."+column, p.Patterns[column])
	}

	_, err = file.WriteTo(w)
	return err
}
