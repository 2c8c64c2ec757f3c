package state

import (
	"time"

	"github.com/google/uuid"
)

// RunSummary - Counters and identity for one conversion run
type RunSummary struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Elapsed   time.Duration

	Files       int
	Records     int64
	EmptyLines  int64
	ErrorLines  int64
	FilteredOut int64
}

func NewRunSummary() RunSummary {
	return RunSummary{RunID: uuid.New(), StartedAt: time.Now()}
}

// TotalLines is every physical line the run looked at, including the blank
// and filtered ones that produced no output row.
func (s RunSummary) TotalLines() int64 {
	return s.Records + s.EmptyLines + s.ErrorLines + s.FilteredOut
}
