package perf

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReport_EmptyTrackerReportsFalse(t *testing.T) {
	tr := NewTracker(8)
	_, ok := NewReport("dense", tr)
	assert.False(t, ok)
}

func TestNewReport_MintsAValidRunID(t *testing.T) {
	tr := &Tracker{samples: []uint64{1, 2, 3}}
	report, ok := NewReport("tree", tr)
	require.True(t, ok)

	assert.Equal(t, "tree", report.Representation)
	_, err := uuid.Parse(report.RunID)
	assert.NoError(t, err, "RunID should be a valid UUID")
	assert.Equal(t, uint64(3), report.Max)
}

func TestNewReport_DifferentCallsMintDifferentRunIDs(t *testing.T) {
	tr := &Tracker{samples: []uint64{1}}
	first, _ := NewReport("dense", tr)
	second, _ := NewReport("dense", tr)
	assert.NotEqual(t, first.RunID, second.RunID)
}
