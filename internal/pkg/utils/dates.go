package utils

import (
	"time"
)

const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t as seen in loc, normalized to
// midnight UTC. All civil dates in the engine use this representation.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// NormalizeDate drops the clock part of a civil date.
func NormalizeDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses "YYYY-MM-DD" into a normalized civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(t), nil
}

func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// At places a civil date and a minute-of-day offset in loc.
func At(date time.Time, minuteOfDay int, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc).
		Add(time.Duration(minuteOfDay) * time.Minute)
}

// InclusiveDays counts calendar days in [from, to]. Zero when to < from.
func InclusiveDays(from, to time.Time) int {
	from, to = NormalizeDate(from), NormalizeDate(to)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// EachDay calls fn for every civil date in [from, to].
func EachDay(from, to time.Time, fn func(day time.Time)) {
	from, to = NormalizeDate(from), NormalizeDate(to)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// WholeMinutes truncates a duration to whole minutes. Negative durations yield 0.
func WholeMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}
