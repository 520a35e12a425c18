package corrector

import "sync/atomic"

// Result is the outcome of correcting one token.
//
// Accepted is false when no correction was found within the edit budget, in
// which case Text is the original token.
type Result struct {
	Accepted bool   `json:"accepted"`
	Text     string `json:"text"`
}

// Stats is a snapshot of a Corrector's counters.
type Stats struct {
	Checked    int64 `json:"checked"`    // tokens passed to Correct
	Corrected  int64 `json:"corrected"`  // accepted with a different text
	Unchanged  int64 `json:"unchanged"`  // accepted as given
	Failed     int64 `json:"failed"`     // no correction found
	Candidates int64 `json:"candidates"` // compositions generated while searching
}

type counters struct {
	checked    atomic.Int64
	corrected  atomic.Int64
	unchanged  atomic.Int64
	failed     atomic.Int64
	candidates atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Checked:    c.checked.Load(),
		Corrected:  c.corrected.Load(),
		Unchanged:  c.unchanged.Load(),
		Failed:     c.failed.Load(),
		Candidates: c.candidates.Load(),
	}
}
