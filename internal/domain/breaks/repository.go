package breaks

import (
	"context"
	"time"
)

type BreakConfigRepository interface {
	CreateConfig(ctx context.Context, config Config) (Config, error)
	UpdateConfig(ctx context.Context, config Config) error
	GetConfigByID(ctx context.Context, id string) (Config, error)
	ListConfigs(ctx context.Context) ([]Config, error)
}

type BreakEventRepository interface {
	CreateEvent(ctx context.Context, event Event) (Event, error)
	CloseEvent(ctx context.Context, event Event) error
	// GetOpenEvent returns nil when no break is open for the employee on date.
	GetOpenEvent(ctx context.Context, employeeID string, date time.Time) (*Event, error)
	ListEvents(ctx context.Context, employeeID string, date time.Time) ([]Event, error)
}
