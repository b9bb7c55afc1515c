package attendance

import (
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/validator"
)

// MaxRangeDays bounds range queries.
const MaxRangeDays = 366

// RangeQuery selects calendar dates [From, To], both YYYY-MM-DD.
type RangeQuery struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (q *RangeQuery) Validate() error {
	var errs validator.ValidationErrors

	from, okFrom := validator.IsValidDate(q.From)
	if !okFrom {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}
	to, okTo := validator.IsValidDate(q.To)
	if !okTo {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be in YYYY-MM-DD format",
		})
	}
	if okFrom && okTo {
		days := utils.InclusiveDays(from, to)
		if days == 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must not be before from",
			})
		} else if days > MaxRangeDays {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "range cannot exceed 366 days",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	ShiftPolicyID     string  `json:"shift_policy_id"`
	Date              string  `json:"date"`
	CheckIn           *string `json:"check_in,omitempty"`
	CheckOut          *string `json:"check_out,omitempty"`
	IsLate            bool    `json:"is_late"`
	LateMinutes       int     `json:"late_minutes"`
	TotalBreakMinutes int     `json:"total_break_minutes"`
	WorkedMinutes     int     `json:"worked_minutes"`
	OvertimeMinutes   int     `json:"overtime_minutes"`
	Status            string  `json:"status"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

type DayResponse struct {
	Date           string              `json:"date"`
	Weekday        string              `json:"weekday"`
	Status         string              `json:"status"`
	IsWorkingDay   bool                `json:"is_working_day"`
	HolidayName    *string             `json:"holiday_name,omitempty"`
	LeaveRequestID *string             `json:"leave_request_id,omitempty"`
	LeaveIsPaid    *bool               `json:"leave_is_paid,omitempty"`
	Record         *AttendanceResponse `json:"record,omitempty"`
}

type AttendanceSummary struct {
	Present         int `json:"present"`
	Late            int `json:"late"`
	HalfDay         int `json:"half_day"`
	Absent          int `json:"absent"`
	Leave           int `json:"leave"`
	Weekend         int `json:"weekend"`
	Holiday         int `json:"holiday"`
	WorkingDays     int `json:"working_days"`
	WorkedMinutes   int `json:"worked_minutes"`
	OvertimeMinutes int `json:"overtime_minutes"`
	LateMinutes     int `json:"late_minutes"`
	BreakMinutes    int `json:"break_minutes"`
}

type AttendanceRangeResponse struct {
	EmployeeID string            `json:"employee_id"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	Days       []DayResponse     `json:"days"`
	Summary    AttendanceSummary `json:"summary"`
}

// Summarize counts statuses and totals durations across evaluated days.
func Summarize(days []Day) AttendanceSummary {
	var s AttendanceSummary
	for _, d := range days {
		switch d.Status {
		case StatusPresent:
			s.Present++
		case StatusLate:
			s.Late++
		case StatusHalfDay:
			s.HalfDay++
		case StatusAbsent:
			s.Absent++
		case StatusLeave:
			s.Leave++
		case StatusWeekend:
			s.Weekend++
		case StatusHoliday:
			s.Holiday++
		}
		if d.IsWorkingDay() {
			s.WorkingDays++
		}
		if d.Record != nil {
			s.WorkedMinutes += d.Record.WorkedMinutes
			s.OvertimeMinutes += d.Record.OvertimeMinutes
			s.BreakMinutes += d.Record.TotalBreakMinutes
			// Lateness only counts on days classified as attended.
			if d.Status.Attended() {
				s.LateMinutes += d.Record.LateMinutes
			}
		}
	}
	return s
}
