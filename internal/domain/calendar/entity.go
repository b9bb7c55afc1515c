package calendar

import (
	"sort"
	"strings"
	"time"
)

// WorkWeek lists the weekdays on which no attendance is expected.
type WorkWeek struct {
	OffDays   []time.Weekday
	UpdatedAt time.Time
}

func DefaultWorkWeek() WorkWeek {
	return WorkWeek{OffDays: []time.Weekday{time.Saturday, time.Sunday}}
}

func (w WorkWeek) IsOffDay(day time.Weekday) bool {
	for _, d := range w.OffDays {
		if d == day {
			return true
		}
	}
	return false
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func ParseWeekday(s string) (time.Weekday, bool) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	return d, ok
}

// WeekdayNames renders off days in week order, lower-case.
func (w WorkWeek) WeekdayNames() []string {
	days := append([]time.Weekday(nil), w.OffDays...)
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, strings.ToLower(d.String()))
	}
	return names
}

type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	CreatedAt time.Time
}

// Calendar answers working-day questions for a loaded date range.
type Calendar struct {
	WorkWeek WorkWeek
	holidays map[string]Holiday
}

func New(week WorkWeek, holidays []Holiday) Calendar {
	byDate := make(map[string]Holiday, len(holidays))
	for _, h := range holidays {
		byDate[h.Date.Format("2006-01-02")] = h
	}
	return Calendar{WorkWeek: week, holidays: byDate}
}

func (c Calendar) IsWeekOff(date time.Time) bool {
	return c.WorkWeek.IsOffDay(date.Weekday())
}

func (c Calendar) Holiday(date time.Time) (Holiday, bool) {
	h, ok := c.holidays[date.Format("2006-01-02")]
	return h, ok
}

func (c Calendar) IsWorkingDay(date time.Time) bool {
	if c.IsWeekOff(date) {
		return false
	}
	_, holiday := c.Holiday(date)
	return !holiday
}

// WorkingDays counts working days in [from, to].
func (c Calendar) WorkingDays(from, to time.Time) int {
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			n++
		}
	}
	return n
}
