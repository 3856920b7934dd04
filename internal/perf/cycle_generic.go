//go:build !amd64

package perf

import "time"

// processEpoch anchors the nanosecond fallback used on architectures
// without a Go-accessible hardware cycle counter.
var processEpoch = time.Now()

// ReadCycles returns nanoseconds elapsed since process start. On these
// builds "cycles" in a recorded sample is really "nanoseconds" — report
// labels must say so (spec §4.6).
func ReadCycles() uint64 {
	return uint64(time.Since(processEpoch).Nanoseconds())
}
