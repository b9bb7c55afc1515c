package calendar

import (
	"context"
	"time"
)

type CalendarService interface {
	GetWorkWeek(ctx context.Context) (WorkWeekResponse, error)
	UpdateWorkWeek(ctx context.Context, req UpdateWorkWeekRequest) (WorkWeekResponse, error)
	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	DeleteHoliday(ctx context.Context, id string) error
	ListHolidays(ctx context.Context, req ListHolidaysRequest) ([]HolidayResponse, error)

	// Load builds the calendar used to classify days in [from, to].
	Load(ctx context.Context, from, to time.Time) (Calendar, error)
}
