package runner

import (
	"time"

	"github.com/logpivot/converter/config"
	"github.com/logpivot/converter/state"
	"github.com/logpivot/converter/util"
)

// Filter - Run-level record filtering
//
// Records can be restricted to an allow-list of SysRef values and to a
// LogDate window. Parse errors are never filtered: a line that failed to
// parse always reaches the error table.
type Filter struct {
	sysRefs []string
	from    string
	to      string
}

// NewFilter - Builds the filter for one run. A date bound that does not
// parse fails here, before any input is read.
func NewFilter(profile *config.Profile, now time.Time) (*Filter, error) {
	from, err := config.FromBound(profile.From, now)
	if err != nil {
		return nil, err
	}
	to, err := config.ToBound(profile.To, now)
	if err != nil {
		return nil, err
	}
	return &Filter{sysRefs: profile.SysRefs, from: from, to: to}, nil
}

// Keep reports whether the record passes the run's filters. The date window
// compares LogDate strings directly: the fixed timestamp layout makes
// lexicographic order chronological. A record without a SysRef value never
// matches an active allow-list.
func (f *Filter) Keep(line state.LogLine) bool {
	if len(f.sysRefs) > 0 {
		sysRef, ok := line.Kvps.Get("SysRef")
		if !ok || !util.SliceContainsFold(f.sysRefs, sysRef) {
			return false
		}
	}
	if f.from != "" && line.LogDate < f.from {
		return false
	}
	if f.to != "" && line.LogDate >= f.to {
		return false
	}
	return true
}
