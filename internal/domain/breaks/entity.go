package breaks

import (
	"time"
)

// Kind is the closed set of break variants.
type Kind string

const (
	KindShortBreak  Kind = "short_break"
	KindMealBreak   Kind = "meal_break"
	KindDontDisturb Kind = "dont_disturb"
)

var KindValues = []string{
	string(KindShortBreak),
	string(KindMealBreak),
	string(KindDontDisturb),
}

// Singleton kinds may be configured at most once per organization.
func (k Kind) Singleton() bool {
	return k == KindMealBreak || k == KindDontDisturb
}

type Config struct {
	ID   string
	Kind Kind
	Name string
	// DurationMinutes is advisory; nil for dont_disturb.
	DurationMinutes *int
	Enabled         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Event struct {
	ID              string
	AttendanceID    string
	EmployeeID      string
	Date            time.Time
	Kind            Kind
	ConfigID        *string
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (e Event) IsOpen() bool {
	return e.EndTime == nil
}

// ElapsedMinutes is the closed duration, or the live duration up to now
// while the break is still open.
func (e Event) ElapsedMinutes(now time.Time) int {
	end := now
	if e.EndTime != nil {
		end = *e.EndTime
	}
	d := end.Sub(e.StartTime)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// SumMinutes adds up break time for a day; an open break counts up to now.
func SumMinutes(events []Event, now time.Time) int {
	total := 0
	for _, e := range events {
		total += e.ElapsedMinutes(now)
	}
	return total
}
