package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeEnd(t *testing.T) {
	start := time.Date(2026, 8, 28, 18, 30, 0, 0, time.UTC)

	s := FilmSession{StartsAt: start}
	s.RecomputeEnd(120)
	require.NotNil(t, s.EndsAt)
	assert.Equal(t, start.Add(2*time.Hour), *s.EndsAt)

	// Re-saving with a different start recomputes the end.
	s.StartsAt = start.Add(time.Hour)
	s.RecomputeEnd(120)
	require.NotNil(t, s.EndsAt)
	assert.Equal(t, start.Add(3*time.Hour), *s.EndsAt)
}

func TestRecomputeEndUnknownDuration(t *testing.T) {
	start := time.Date(2026, 8, 28, 18, 30, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	s := FilmSession{StartsAt: start, EndsAt: &end}
	s.RecomputeEnd(0)
	assert.Nil(t, s.EndsAt, "unknown duration must clear a stale end time")
}

func TestRecomputeEndZeroStart(t *testing.T) {
	var s FilmSession
	s.RecomputeEnd(95)
	assert.Nil(t, s.EndsAt)
}

func TestSeatKey(t *testing.T) {
	assert.Equal(t, "1-5", Seat{Row: 1, Column: 5}.Key())
	assert.Equal(t, "12-3", Ticket{RowNumber: 12, ColumnNumber: 3}.Seat().Key())
}
