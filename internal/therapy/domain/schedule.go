package domain

import (
	"errors"
	"time"
)

const MaxSessions = 365

var ErrInvalidStartTime = errors.New("invalid_start_time")

// ParseClock parses an "HH:MM" wall-clock time into hour and minute.
func ParseClock(value string) (int, int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, ErrInvalidStartTime
	}
	return t.Hour(), t.Minute(), nil
}

// Schedule returns the start instant of each session. The first session
// starts at startDate+startTime and each following one interval days later.
// With skipWeekends a Saturday or Sunday slot moves to the next Monday and
// stepping continues from the moved date.
func Schedule(startDate time.Time, startTime string, intervalDays, count int, skipWeekends bool) ([]time.Time, error) {
	if count < 1 || count > MaxSessions {
		return nil, ErrInvalidSessionsCount
	}
	if intervalDays < 1 {
		return nil, ErrInvalidInterval
	}
	hour, minute, err := ParseClock(startTime)
	if err != nil {
		return nil, err
	}

	current := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), hour, minute, 0, 0, time.UTC)
	out := make([]time.Time, 0, count)
	for len(out) < count {
		if skipWeekends {
			current = nextWeekday(current)
		}
		out = append(out, current)
		current = current.AddDate(0, 0, intervalDays)
	}
	return out, nil
}

func nextWeekday(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	}
	return t
}
