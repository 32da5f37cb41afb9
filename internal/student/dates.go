package student

import "time"

const dayLayout = "2006-01-02"

// today is the store clock's calendar date in its own location. Streak
// comparisons always happen on these strings, never on raw timestamps, so a
// DST shift cannot produce a fractional-day difference.
func (s *Store) today() string {
	return s.now().Format(dayLayout)
}

// nextStreak implements the daily-streak transition: first attempt starts at
// 1, a one-day gap extends the streak, any larger gap resets it to 1. A
// zero-day gap is unreachable through CompleteQuiz and leaves the streak
// unchanged.
func nextStreak(current int, lastAttemptDate, today string) int {
	if lastAttemptDate == "" {
		return 1
	}

	switch diff := daysBetween(lastAttemptDate, today); {
	case diff == 1:
		return current + 1
	case diff > 1 || diff < 0:
		return 1
	default:
		return current
	}
}

// daysBetween returns the whole-day difference between two calendar-day
// strings. Malformed dates count as a broken streak.
func daysBetween(from, to string) int {
	start, err := time.Parse(dayLayout, from)
	if err != nil {
		return -1
	}
	end, err := time.Parse(dayLayout, to)
	if err != nil {
		return -1
	}
	return int(end.Sub(start).Hours() / 24)
}
