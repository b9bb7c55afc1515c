package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn   = errors.New("you have already checked in today")
	ErrNotCheckedIn       = errors.New("you have not checked in yet")
	ErrOpenBreakPending   = errors.New("end the active break before checking out")
	ErrInvalidTimestamps  = errors.New("check-out must be after check-in")
	ErrNoShiftAssigned    = errors.New("no shift policy assigned to employee")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidDateRange   = errors.New("invalid date range")
)
