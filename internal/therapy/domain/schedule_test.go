package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleDaily(t *testing.T) {
	// 2025-03-06 is a Thursday.
	start := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)

	got, err := Schedule(start, "09:30", 1, 3, false)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		time.Date(2025, 3, 6, 9, 30, 0, 0, time.UTC),
		time.Date(2025, 3, 7, 9, 30, 0, 0, time.UTC),
		time.Date(2025, 3, 8, 9, 30, 0, 0, time.UTC),
	}, got)
}

func TestScheduleSkipsWeekends(t *testing.T) {
	start := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)

	got, err := Schedule(start, "17:00", 1, 4, true)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, time.Thursday, got[0].Weekday())
	assert.Equal(t, time.Friday, got[1].Weekday())
	assert.Equal(t, time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC), got[2])
	assert.Equal(t, time.Date(2025, 3, 11, 17, 0, 0, 0, time.UTC), got[3])
}

func TestScheduleIntervalFromMovedDate(t *testing.T) {
	// Friday start, every 2 days: Fri, Sun->Mon, Wed.
	start := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)

	got, err := Schedule(start, "08:00", 2, 3, true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC), got[0])
	assert.Equal(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), got[1])
	assert.Equal(t, time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC), got[2])
}

func TestScheduleValidation(t *testing.T) {
	start := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)

	_, err := Schedule(start, "08:00", 1, 0, false)
	assert.ErrorIs(t, err, ErrInvalidSessionsCount)
	_, err = Schedule(start, "08:00", 1, 366, false)
	assert.ErrorIs(t, err, ErrInvalidSessionsCount)
	_, err = Schedule(start, "08:00", 0, 3, false)
	assert.ErrorIs(t, err, ErrInvalidInterval)
	_, err = Schedule(start, "25:00", 1, 3, false)
	assert.ErrorIs(t, err, ErrInvalidStartTime)

	got, err := Schedule(start, "08:00", 1, MaxSessions, false)
	require.NoError(t, err)
	assert.Len(t, got, MaxSessions)
}
