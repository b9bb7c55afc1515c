package shift

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type ShiftType string

const (
	ShiftTypeGeneral    ShiftType = "general"
	ShiftTypeNight      ShiftType = "night"
	ShiftTypeRotational ShiftType = "rotational"
)

var ShiftTypeValues = []string{
	string(ShiftTypeGeneral),
	string(ShiftTypeNight),
	string(ShiftTypeRotational),
}

const (
	DefaultHalfDayMinutes = 4 * 60
	DefaultFullDayMinutes = 8 * 60
)

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS"; seconds are dropped.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Policy is an organization's shift definition.
type Policy struct {
	ID                 string
	Name               string
	Type               ShiftType
	CheckIn            TimeOfDay
	CheckOut           TimeOfDay
	GracePeriodMinutes int
	HalfDayMinutes     int
	FullDayMinutes     int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Check enforces half_day < full_day and a non-negative grace period.
func (p Policy) Check() error {
	if p.GracePeriodMinutes < 0 {
		return ErrNegativeGracePeriod
	}
	if p.HalfDayMinutes <= 0 || p.HalfDayMinutes >= p.FullDayMinutes {
		return ErrInvalidThresholds
	}
	return nil
}

func (p Policy) GracePeriod() time.Duration {
	return time.Duration(p.GracePeriodMinutes) * time.Minute
}
