package perf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadCycles_IsMonotonicAndNonZeroAfterWork(t *testing.T) {
	first := ReadCycles()
	var sink uint64
	for i := uint64(0); i < 1_000_000; i++ {
		sink += i
	}
	second := ReadCycles()

	assert.GreaterOrEqual(t, second, first, "cycle counter must not run backwards")
	assert.NotZero(t, second, "cycle counter must be non-zero after work")
	_ = sink
}

func TestCyclesToNanos(t *testing.T) {
	assert.Equal(t, 500.0, CyclesToNanos(1000, 2.0))
	assert.Equal(t, float64(0), CyclesToNanos(1000, 0))
}
