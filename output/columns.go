package output

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/logpivot/converter/config"
	"github.com/logpivot/converter/state"
)

// Columns whose name ends in "date" or "datetime" get the date probe and
// their extracted value reassembled into YYYY-MM-DD[ HH:MM:SS[.fraction]]
// form. The second alternative needs its own group names because duplicate
// names are rejected by the regexp package.
var datePattern = regexp.MustCompile(
	`(?P<year>\d{4})-(?P<month>\d{2})-(?P<day>\d{2}) (?P<hour>\d{2}):(?P<minutes>\d{2}):(?P<seconds>\d{2})\.+(?P<fractions>\d+)` +
		`|(?P<year2>\d{4})-(?P<month2>\d{2})-(?P<day2>\d{2})`)

// Extracted values may carry quotes' worth of raw text, so they get the same
// newline treatment as CSV fields regardless of the parser's cleaning mode.
var valueCleaner = strings.NewReplacer("\r", " ", "\n", " ")

type resolverColumn struct {
	name       string
	alternates []string
	pattern    *regexp.Regexp
	isDate     bool
}

// Resolver - Maps parsed records to ordered output rows
//
// Each configured column resolves, in order: the three built-in fields
// (LogDate, LogLevel, Message), then the record's KVPs under the column's
// own name, then under its alternate names, and finally a regular expression
// probe into the message text. A column that resolves nowhere becomes an
// empty field, never an error.
type Resolver struct {
	header           []string
	builtins         []string
	columns          map[int]resolverColumn
	maxMessageLength int
}

// NewResolver - Precompiles the per-column resolution state for a profile.
// Fails only when a configured extraction pattern does not compile.
func NewResolver(profile *config.Profile) (*Resolver, error) {
	resolver := &Resolver{
		header:           append([]string{}, profile.Columns...),
		builtins:         make([]string, len(profile.Columns)),
		columns:          make(map[int]resolverColumn),
		maxMessageLength: profile.MaxMessageLength,
	}

	for i, name := range profile.Columns {
		switch {
		case strings.EqualFold(name, config.ColumnLogDate):
			resolver.builtins[i] = config.ColumnLogDate
		case strings.EqualFold(name, config.ColumnLogLevel):
			resolver.builtins[i] = config.ColumnLogLevel
		case strings.EqualFold(name, config.ColumnMessage):
			resolver.builtins[i] = config.ColumnMessage
		default:
			column, err := newResolverColumn(profile, name)
			if err != nil {
				return nil, err
			}
			resolver.columns[i] = column
		}
	}

	return resolver, nil
}

func newResolverColumn(profile *config.Profile, name string) (resolverColumn, error) {
	lower := strings.ToLower(name)
	column := resolverColumn{
		name:       name,
		alternates: lookupFold(profile.Alternates, name),
		isDate:     strings.HasSuffix(lower, "date") || strings.HasSuffix(lower, "datetime"),
	}

	if custom, ok := patternFold(profile.Patterns, name); ok {
		pattern, err := regexp.Compile(custom)
		if err != nil {
			return resolverColumn{}, errors.Wrapf(err, "invalid extraction pattern for column %s", name)
		}
		column.pattern = pattern
	} else if column.isDate {
		column.pattern = datePattern
	} else {
		column.pattern = kvpProbePattern(name, column.alternates)
	}

	return column, nil
}

func lookupFold(m map[string][]string, name string) []string {
	for key, values := range m {
		if strings.EqualFold(key, name) {
			return values
		}
	}
	return nil
}

func patternFold(m map[string]string, name string) (string, bool) {
	for key, value := range m {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}
	return "", false
}

// kvpProbePattern matches Key="quoted value" or Key=bare-value anywhere in
// the message, under the column's own name or any of its alternates. The
// leading \W keeps a key like "Ref" from matching inside "SysRef".
func kvpProbePattern(name string, alternates []string) *regexp.Regexp {
	var parts []string
	for _, key := range append([]string{name}, alternates...) {
		quoted := regexp.QuoteMeta(key)
		parts = append(parts, `\W`+quoted+`="(.*?)"`, `\W`+quoted+`=(\S*)`)
	}
	return regexp.MustCompile(strings.Join(parts, "|"))
}

// Header returns the output column names in configured order.
func (r *Resolver) Header() []string {
	return r.header
}

// Resolve - Produces the row for one record, one field per configured column
func (r *Resolver) Resolve(line state.LogLine) []string {
	row := make([]string, len(r.header))
	for i := range r.header {
		switch r.builtins[i] {
		case config.ColumnLogDate:
			row[i] = line.LogDate
		case config.ColumnLogLevel:
			row[i] = line.LogLevel
		case config.ColumnMessage:
			row[i] = truncate(line.Message, r.maxMessageLength)
		default:
			row[i] = r.resolveColumn(line, r.columns[i])
		}
	}
	return row
}

func (r *Resolver) resolveColumn(line state.LogLine, column resolverColumn) string {
	if value, ok := line.Kvps.GetWithAlternates(column.name, column.alternates); ok {
		return value
	}

	matches := column.pattern.FindStringSubmatch(line.Message)
	if matches == nil {
		return ""
	}
	if column.isDate {
		return assembleDate(column.pattern, matches)
	}
	for _, match := range matches[1:] {
		if match != "" {
			return strings.TrimSpace(valueCleaner.Replace(match))
		}
	}
	return ""
}

// assembleDate normalizes the named captures of a date probe. Missing time
// groups degrade to a date-only value, and a missing date degrades to an
// empty field.
func assembleDate(pattern *regexp.Regexp, matches []string) string {
	groups := make(map[string]string)
	for i, name := range pattern.SubexpNames() {
		if i == 0 || name == "" || i >= len(matches) || matches[i] == "" {
			continue
		}
		if _, ok := groups[name]; !ok {
			groups[name] = matches[i]
		}
	}

	year, month, day := groups["year"], groups["month"], groups["day"]
	if year == "" {
		year, month, day = groups["year2"], groups["month2"], groups["day2"]
	}
	if year == "" || month == "" || day == "" {
		return ""
	}
	value := year + "-" + month + "-" + day

	hour, minutes, seconds := groups["hour"], groups["minutes"], groups["seconds"]
	if hour == "" || minutes == "" || seconds == "" {
		return value
	}
	value += " " + hour + ":" + minutes + ":" + seconds

	if fractions := groups["fractions"]; fractions != "" {
		value += "." + fractions
	}
	return value
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
// A zero or negative max means unlimited.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
