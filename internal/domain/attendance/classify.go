package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/utils"
)

// Classify derives a day's status from persisted facts. Precedence is
// leave > weekend > holiday > absent > half_day > late > present.
// A record still open (no check-out) is never half-day; worked time equal
// to the half-day threshold is not half-day.
func Classify(rec *Record, policy shift.Policy, day DayContext) Status {
	switch {
	case day.Leave != nil:
		return StatusLeave
	case day.WeekOff:
		return StatusWeekend
	case day.IsHoliday:
		return StatusHoliday
	case rec == nil || rec.CheckIn == nil:
		return StatusAbsent
	case rec.CheckOut != nil && rec.WorkedMinutes < policy.HalfDayMinutes:
		return StatusHalfDay
	case rec.IsLate:
		return StatusLate
	default:
		return StatusPresent
	}
}

// Lateness reports whether checkIn is strictly after the scheduled check-in
// plus grace, and how many whole minutes after the scheduled time it was.
func Lateness(checkIn time.Time, date time.Time, policy shift.Policy, loc *time.Location) (bool, int) {
	scheduled := utils.At(date, int(policy.CheckIn), loc)
	if !checkIn.After(scheduled.Add(policy.GracePeriod())) {
		return false, 0
	}
	return true, utils.WholeMinutes(checkIn.Sub(scheduled))
}

// WorkedMinutes is the truncated span minus break minutes, floored at zero.
func WorkedMinutes(checkIn, checkOut time.Time, breakMinutes int) int {
	worked := utils.WholeMinutes(checkOut.Sub(checkIn)) - breakMinutes
	if worked < 0 {
		return 0
	}
	return worked
}

func OvertimeMinutes(worked int, policy shift.Policy) int {
	if worked <= policy.FullDayMinutes {
		return 0
	}
	return worked - policy.FullDayMinutes
}
