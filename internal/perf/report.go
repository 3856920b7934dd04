package perf

import "github.com/google/uuid"

// Report pairs a Tracker's distribution summary with a run identifier, so a
// single percentile dump can be correlated back to the demo run that
// produced it. Order identity in this system is the monotone OrderId from
// IdCounter, never a UUID — this is the one place the corpus's UUID
// dependency earns its keep, at the session level rather than the order
// level.
type Report struct {
	RunID          string
	Representation string
	// InvariantTSC records whether the host's cycle counter was trustworthy
	// as a stable clock for this run (always false off amd64, where
	// ReadCycles falls back to wall-clock nanoseconds instead).
	InvariantTSC bool
	Percentiles
}

// NewReport mints a fresh run id and pairs it with the tracker's current
// summary. ok mirrors Tracker.Summary's ok — false if no samples were ever
// recorded.
func NewReport(representation string, t *Tracker) (Report, bool) {
	summary, ok := t.Summary()
	if !ok {
		return Report{}, false
	}
	return Report{
		RunID:          uuid.NewString(),
		Representation: representation,
		InvariantTSC:   HasInvariantTSC(),
		Percentiles:    summary,
	}, true
}
