package config

import (
	"os"
	"strings"

	"github.com/go-ini/ini"
	"github.com/pkg/errors"

	"github.com/logpivot/converter/util"
)

// Read - Builds the effective profile. The baseline is the built-in default
// profile (or an empty one when noDefaultProfile is set), overlaid with the
// [default] section of the configuration file, then with the named profile
// section. Named profiles are additive: their columns, alternate names, file
// patterns and sysrefs are added to the baseline rather than replacing it,
// which keeps custom profiles short.
func Read(logger *util.Logger, filename string, profileName string, noDefaultProfile bool) (*Profile, error) {
	baseline := getDefaultProfile()
	if noDefaultProfile {
		baseline = blankProfile()
	}
	if profileName == "" {
		profileName = DefaultProfileName
	}

	if _, err := os.Stat(filename); filename == "" || err != nil {
		if profileName != DefaultProfileName {
			if filename == "" {
				return nil, errors.Errorf("profile %s requested, but no configuration file was found", profileName)
			}
			return nil, errors.Errorf("profile %s requested, but there is no configuration file at %s", profileName, filename)
		}
		if filename != "" {
			logger.PrintVerbose("No configuration file at %s, using built-in defaults", filename)
		}
		return baseline, nil
	}

	configFile, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load configuration file %s", filename)
	}

	if !noDefaultProfile {
		if section, err := configFile.GetSection(DefaultProfileName); err == nil {
			if err = applyDefaultSection(baseline, section); err != nil {
				return nil, errors.Wrapf(err, "failed to map the %s section of %s", DefaultProfileName, filename)
			}
		}
	}

	if profileName != DefaultProfileName {
		section, err := configFile.GetSection(profileName)
		if err != nil {
			return nil, errors.Errorf("profile %s does not exist in %s", profileName, filename)
		}
		if err = applyProfileSection(baseline, section); err != nil {
			return nil, errors.Wrapf(err, "failed to map the %s section of %s", profileName, filename)
		}
		baseline.Name = profileName
	}

	return baseline, nil
}

// applyDefaultSection overlays the [default] section directly onto the
// baseline: keys that appear replace the built-in values, keys that are
// absent keep them.
func applyDefaultSection(profile *Profile, section *ini.Section) error {
	if err := section.MapTo(profile); err != nil {
		return err
	}
	readColumnMaps(profile, section)
	return nil
}

// applyProfileSection applies a named profile on top of the baseline.
// Scalar keys that appear in the section win; list keys add their entries.
func applyProfileSection(profile *Profile, section *ini.Section) error {
	scratch := new(Profile)
	*scratch = *profile
	scratch.Columns = nil
	scratch.FilePatterns = nil
	scratch.SysRefs = nil
	scratch.Alternates = nil
	scratch.Patterns = nil

	if err := section.MapTo(scratch); err != nil {
		return err
	}

	profile.Quiet = scratch.Quiet
	profile.MaxMessageLength = scratch.MaxMessageLength
	profile.PreserveNewlines = scratch.PreserveNewlines
	profile.OutputPath = scratch.OutputPath
	profile.ErrorPath = scratch.ErrorPath
	profile.From = scratch.From
	profile.To = scratch.To

	for _, column := range scratch.Columns {
		profile.AddColumn(column)
	}
	for _, pattern := range scratch.FilePatterns {
		profile.AddFilePattern(pattern)
	}
	for _, sysref := range scratch.SysRefs {
		profile.AddSysRef(sysref)
	}
	readColumnMaps(profile, section)
	return nil
}

// readColumnMaps collects the sparse per-column keys of a section:
// "alternate.Col" lists alternate KVP names for Col, "pattern.Col" sets the
// extraction regex for Col.
func readColumnMaps(profile *Profile, section *ini.Section) {
	for _, key := range section.Keys() {
		name := key.Name()
		switch {
		case strings.HasPrefix(name, "alternate."):
			column := strings.TrimPrefix(name, "alternate.")
			for _, alternate := range key.Strings(",") {
				profile.AddAlternate(column, alternate)
			}
		case strings.HasPrefix(name, "pattern."):
			column := strings.TrimPrefix(name, "pattern.")
			profile.SetPattern(column, key.String())
		}
	}
}
