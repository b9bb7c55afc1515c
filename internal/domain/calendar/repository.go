package calendar

import (
	"context"
	"time"
)

type CalendarRepository interface {
	// GetWorkWeek returns ErrWorkWeekNotFound until one is saved.
	GetWorkWeek(ctx context.Context) (WorkWeek, error)
	SaveWorkWeek(ctx context.Context, week WorkWeek) error

	CreateHoliday(ctx context.Context, holiday Holiday) (Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
	ListHolidays(ctx context.Context, from, to time.Time) ([]Holiday, error)
}
