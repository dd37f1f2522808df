package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/plus3/interstellar/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)

	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportGenerate(t *testing.T) {
	r := &Report{Config: config.Default(), Systems: 10, Stars: 17, Fleets: 3, TotalTicks: 42}
	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "**Systems:** 10")
	assert.Contains(t, out, "**Total Ticks:** 42")
	assert.Contains(t, out, "classic")
	assert.NotContains(t, out, "GC Pause")
}
