package runner

import (
	"testing"
	"time"

	"github.com/logpivot/converter/config"
	"github.com/logpivot/converter/state"
)

var filterTestNow = time.Date(2020, 3, 10, 14, 30, 0, 0, time.UTC)

func mustFilter(t *testing.T, profile *config.Profile) *Filter {
	t.Helper()
	filter, err := NewFilter(profile, filterTestNow)
	if err != nil {
		t.Fatalf("want nil; got %v", err)
	}
	return filter
}

func recordAt(logDate string) state.LogLine {
	return state.LogLine{LogDate: logDate}
}

func recordWithSysRef(sysRef string) state.LogLine {
	line := state.LogLine{LogDate: "2018-01-01 10:00:00.0000000"}
	line.Kvps.Insert(state.KVP{Key: "SysRef", Value: sysRef})
	return line
}

func TestFilterKeepsEverythingByDefault(t *testing.T) {
	filter := mustFilter(t, &config.Profile{})

	if !filter.Keep(recordAt("2018-01-01 10:00:00.0000000")) {
		t.Error("want a record with no filters configured to pass")
	}
	if !filter.Keep(recordWithSysRef("ANY")) {
		t.Error("want a record with a SysRef to pass when no allow-list is set")
	}
}

func TestFilterSysRefAllowList(t *testing.T) {
	filter := mustFilter(t, &config.Profile{SysRefs: []string{"ABC", "def"}})

	if !filter.Keep(recordWithSysRef("abc")) {
		t.Error("want a case-insensitive SysRef match to pass")
	}
	if !filter.Keep(recordWithSysRef("DEF")) {
		t.Error("want the second allow-list entry to pass")
	}
	if filter.Keep(recordWithSysRef("XYZ")) {
		t.Error("want an unlisted SysRef to be dropped")
	}
	if filter.Keep(recordAt("2018-01-01 10:00:00.0000000")) {
		t.Error("want a record without a SysRef to be dropped")
	}
}

func TestFilterDateWindow(t *testing.T) {
	filter := mustFilter(t, &config.Profile{From: "2018-01-01", To: "2018-01-02"})

	if filter.Keep(recordAt("2017-12-31 23:59:59.9999999")) {
		t.Error("want a record before the window to be dropped")
	}
	if !filter.Keep(recordAt("2018-01-01 00:00:00.0000000")) {
		t.Error("want the first instant of the window to pass")
	}
	if !filter.Keep(recordAt("2018-01-02 23:59:59.9999999")) {
		t.Error("want the last fractional instant of the to-day to pass")
	}
	if filter.Keep(recordAt("2018-01-03 00:00:00.0000000")) {
		t.Error("want a record after the window to be dropped")
	}
}

func TestFilterYesterday(t *testing.T) {
	filter := mustFilter(t, &config.Profile{From: "yesterday"})

	if !filter.Keep(recordAt("2020-03-09 00:00:00.0000000")) {
		t.Error("want the start of yesterday to pass")
	}
	if filter.Keep(recordAt("2020-03-08 23:59:59.9999999")) {
		t.Error("want the day before yesterday to be dropped")
	}
}

func TestFilterRejectsMalformedBounds(t *testing.T) {
	if _, err := NewFilter(&config.Profile{From: "bogus"}, filterTestNow); err == nil {
		t.Error("want an error for an unparseable from bound")
	}
	if _, err := NewFilter(&config.Profile{To: "12pm"}, filterTestNow); err == nil {
		t.Error("want an error for an unparseable to bound")
	}
}
