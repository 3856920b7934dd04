package perf

import (
	"bufio"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/cpuid/v2"
)

// estimationInterval is the wall-clock sleep used by estimateFrequencyGHz
// when no OS-provided frequency source is available (spec §4.6: "~10ms").
const estimationInterval = 10 * time.Millisecond

// CPUFrequencyGHz returns a best-effort estimate of the CPU's clock
// frequency in GHz, for converting recorded cycle counts into
// nanoseconds. It prefers an OS-provided source (/proc/cpuinfo on Linux)
// and falls back to reading the cycle counter across a known sleep
// interval and dividing.
func CPUFrequencyGHz() float64 {
	if ghz, ok := frequencyFromProcCPUInfo(); ok {
		return ghz
	}
	return estimateFrequencyGHz()
}

func frequencyFromProcCPUInfo() (float64, bool) {
	if runtime.GOOS != "linux" {
		return 0, false
	}
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return 0, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu MHz") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		mhz, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		return mhz / 1000.0, true
	}
	return 0, false
}

// estimateFrequencyGHz reads the cycle counter, sleeps for
// estimationInterval, reads it again, and divides cycles by elapsed
// nanoseconds.
func estimateFrequencyGHz() float64 {
	start := ReadCycles()
	time.Sleep(estimationInterval)
	end := ReadCycles()

	cycles := end - start
	return float64(cycles) / float64(estimationInterval.Nanoseconds())
}

// HasInvariantTSC reports whether the CPU advertises an invariant
// time-stamp counter (ticks at a constant rate regardless of core
// frequency scaling or C-state transitions). When false, cycle deltas
// recorded by Tracker should be treated as noisier relative-cost signals
// rather than a stable wall-clock proxy.
func HasInvariantTSC() bool {
	return cpuid.CPU.Supports(cpuid.CONSTANT_TSC)
}

// CyclesToNanos converts a recorded cycle count to nanoseconds given a CPU
// frequency in GHz (as returned by CPUFrequencyGHz).
func CyclesToNanos(cycles uint64, ghz float64) float64 {
	if ghz <= 0 {
		return 0
	}
	return float64(cycles) / ghz
}
