// Package interval provides the closed date interval shared by approvals,
// suspensions and prolongations, plus the calendar arithmetic they rely on.
package interval

import "time"

// Day is the unit of all interval durations.
const Day = 24 * time.Hour

// Span is a closed date interval [StartAt, EndAt]. Both bounds are dates,
// i.e. UTC midnights.
type Span struct {
	StartAt time.Time
	EndAt   time.Time
}

func (s Span) Duration() time.Duration {
	return s.EndAt.Sub(s.StartAt)
}

// InProgress reports whether today falls within the interval, bounds included.
func (s Span) InProgress(today time.Time) bool {
	today = DateOf(today)
	return !today.Before(s.StartAt) && !today.After(s.EndAt)
}

// Overlaps uses closed-closed semantics: two intervals sharing a single day
// overlap.
func (s Span) Overlaps(o Span) bool {
	return !s.StartAt.After(o.EndAt) && !s.EndAt.Before(o.StartAt)
}

// Remaining returns the time left on the interval as seen from today.
// Intervals entirely in the past contribute zero; the not-yet-started part of
// a future interval is clamped out so that a future interval contributes its
// full duration, no more.
func (s Span) Remaining(today time.Time) time.Duration {
	today = DateOf(today)
	untilEnd := s.EndAt.Sub(today)
	if untilEnd < 0 {
		untilEnd = 0
	}
	untilStart := s.StartAt.Sub(today)
	if untilStart < 0 {
		untilStart = 0
	}
	return untilEnd - untilStart
}

// Date returns the UTC midnight for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// AddMonths adds calendar months, clamping to the last day of the target
// month instead of letting Go normalize the overflow (Jan 31 + 1 month must
// be Feb 28/29, not Mar 2/3).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.UTC().Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if last := lastDayOfMonth(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// AddYears clamps the same way: Feb 29 + 1 year is Feb 28.
func AddYears(t time.Time, years int) time.Time {
	return AddMonths(t, years*12)
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Days converts a whole number of days to a duration.
func Days(n int) time.Duration {
	return time.Duration(n) * Day
}

// Years converts a (possibly fractional) number of 365.25-day years to a
// duration. Matches how the reason-dependent prolongation caps are expressed.
func Years(n float64) time.Duration {
	return time.Duration(n * 365.25 * float64(Day))
}
