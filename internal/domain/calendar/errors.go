package calendar

import "errors"

var (
	ErrHolidayNotFound  = errors.New("holiday not found")
	ErrHolidayExists    = errors.New("a holiday already exists on this date")
	ErrWorkWeekNotFound = errors.New("work week not configured")
)
