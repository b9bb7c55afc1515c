package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
	StatusWeekend Status = "weekend"
	StatusHoliday Status = "holiday"
)

var StatusValues = []Status{
	StatusPresent, StatusLate, StatusHalfDay, StatusAbsent,
	StatusLeave, StatusWeekend, StatusHoliday,
}

// Attended reports whether the employee is counted as having worked the day.
func (s Status) Attended() bool {
	return s == StatusPresent || s == StatusLate || s == StatusHalfDay
}

// Record is one employee's attendance for one calendar date.
// Date is a civil date at midnight UTC; CheckIn/CheckOut are UTC instants.
type Record struct {
	ID                string
	EmployeeID        string
	ShiftPolicyID     string
	Date              time.Time
	CheckIn           *time.Time
	CheckOut          *time.Time
	IsLate            bool
	LateMinutes       int
	TotalBreakMinutes int
	WorkedMinutes     int
	OvertimeMinutes   int
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (r Record) IsOpen() bool {
	return r.CheckIn != nil && r.CheckOut == nil
}

// LeaveRef marks a date covered by an approved leave request.
type LeaveRef struct {
	RequestID   string
	LeaveTypeID string
	IsPaid      bool
}

// DayContext carries the calendar and leave facts Classify needs for a date.
type DayContext struct {
	Date        time.Time
	Leave       *LeaveRef
	WeekOff     bool
	HolidayName string
	IsHoliday   bool
}

func (d DayContext) IsWorkingDay() bool {
	return !d.WeekOff && !d.IsHoliday
}

// Day is the evaluated attendance of a single date.
type Day struct {
	DayContext
	Status Status
	Record *Record
}
