package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/logpivot/converter/util"
)

const readTestConfig = `[default]
quiet = true
output = everything.csv

[cases]
max_message_length = 200
columns = CaseId,Workflow
file_patterns = case*.log
alternate.CaseId = CaseRef,CaseNo
pattern.Workflow = Workflow:(\S+)
`

func writeTestConfig(t *testing.T, contents string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "logpivot-converter.conf")
	if err := os.WriteFile(filename, []byte(contents), 0644); err != nil {
		t.Fatalf("could not write test configuration: %s", err)
	}
	return filename
}

func testLogger() *util.Logger {
	return util.NewLogger(false, true)
}

func TestReadWithoutConfigFileReturnsDefaults(t *testing.T) {
	profile, err := Read(testLogger(), filepath.Join(t.TempDir(), "missing.conf"), "", false)
	if err != nil {
		t.Fatalf("want nil; got %v", err)
	}
	if profile.Name != DefaultProfileName {
		t.Errorf("want profile %q; got %q", DefaultProfileName, profile.Name)
	}
	if !profile.HasColumn("SysRef") {
		t.Error("expected the built-in default columns")
	}
}

func TestReadMissingNamedProfileFails(t *testing.T) {
	filename := writeTestConfig(t, readTestConfig)

	_, err := Read(testLogger(), filename, "nosuch", false)
	if err == nil {
		t.Fatal("want an error for a profile that does not exist")
	}
}

func TestReadDefaultSectionOverlay(t *testing.T) {
	filename := writeTestConfig(t, readTestConfig)

	profile, err := Read(testLogger(), filename, "", false)
	if err != nil {
		t.Fatalf("want nil; got %v", err)
	}
	if !profile.Quiet {
		t.Error("want quiet from the [default] section")
	}
	if profile.OutputPath != "everything.csv" {
		t.Errorf("want output everything.csv; got %s", profile.OutputPath)
	}
	// Keys absent from the section keep their built-in values.
	if profile.MaxMessageLength != DefaultMaxMessageLength {
		t.Errorf("want max message length %d; got %d", DefaultMaxMessageLength, profile.MaxMessageLength)
	}
	if !profile.HasColumn("SysRef") {
		t.Error("expected the built-in default columns to survive the overlay")
	}
}

func TestReadNamedProfileIsAdditive(t *testing.T) {
	filename := writeTestConfig(t, readTestConfig)

	profile, err := Read(testLogger(), filename, "cases", false)
	if err != nil {
		t.Fatalf("want nil; got %v", err)
	}
	if profile.Name != "cases" {
		t.Errorf("want profile cases; got %s", profile.Name)
	}
	if profile.MaxMessageLength != 200 {
		t.Errorf("want max message length 200; got %d", profile.MaxMessageLength)
	}
	if !profile.Quiet {
		t.Error("want quiet inherited from the [default] section")
	}

	// The profile's columns are added after the defaults, not instead of them.
	if !profile.HasColumn("SysRef") || !profile.HasColumn("CaseId") || !profile.HasColumn("Workflow") {
		t.Errorf("want default plus profile columns; got %v", profile.Columns)
	}
	if got := profile.Columns[len(profile.Columns)-2:]; !reflect.DeepEqual(got, []string{"CaseId", "Workflow"}) {
		t.Errorf("want profile columns appended in order; got %v", got)
	}

	if got := profile.Alternates["CaseId"]; !reflect.DeepEqual(got, []string{"CaseRef", "CaseNo"}) {
		t.Errorf("want CaseId alternates [CaseRef CaseNo]; got %v", got)
	}
	if got := profile.Patterns["Workflow"]; got != `Workflow:(\S+)` {
		t.Errorf("want the Workflow pattern; got %q", got)
	}
	if !reflect.DeepEqual(profile.FilePatterns, []string{"case*.log"}) {
		t.Errorf("want file patterns [case*.log]; got %v", profile.FilePatterns)
	}
}

func TestReadNoDefaultProfile(t *testing.T) {
	filename := writeTestConfig(t, readTestConfig)

	profile, err := Read(testLogger(), filename, "cases", true)
	if err != nil {
		t.Fatalf("want nil; got %v", err)
	}
	if profile.Quiet {
		t.Error("the [default] section should have been skipped")
	}
	if profile.HasColumn("SysRef") {
		t.Error("the built-in columns should have been skipped")
	}
	if !reflect.DeepEqual(profile.Columns, []string{"CaseId", "Workflow"}) {
		t.Errorf("want only the profile's columns; got %v", profile.Columns)
	}
}
