package webhook

import "time"

// BackoffStrategy calculates the delay before a retry attempt.
// Implementations must be safe for concurrent use.
type BackoffStrategy interface {
	// NextInterval returns the wait before the given retry.
	// Attempt starts at 1 for the first retry.
	NextInterval(attempt int) time.Duration
}

// ScheduleBackoff walks a fixed interval table: the first retry waits
// Intervals[0], the second Intervals[1], and so on. Retries beyond the table
// reuse the last entry.
type ScheduleBackoff struct {
	Intervals []time.Duration
}

func (s ScheduleBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 || len(s.Intervals) == 0 {
		return 0
	}
	if attempt > len(s.Intervals) {
		return s.Intervals[len(s.Intervals)-1]
	}
	return s.Intervals[attempt-1]
}

// FixedBackoff waits the same interval before every retry.
type FixedBackoff struct {
	Interval time.Duration
}

func (f FixedBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return f.Interval
}

// DefaultBackoffStrategy returns the delivery schedule: 1s before the second
// attempt, 5s before the third, 15s before any further attempt should the
// attempt cap ever be raised.
func DefaultBackoffStrategy() BackoffStrategy {
	return ScheduleBackoff{
		Intervals: []time.Duration{time.Second, 5 * time.Second, 15 * time.Second},
	}
}
