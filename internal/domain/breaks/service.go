package breaks

import (
	"context"
	"time"
)

type BreakService interface {
	StartBreak(ctx context.Context, employeeID string, req StartBreakRequest) (BreakEventResponse, error)
	EndBreak(ctx context.Context, employeeID string, req EndBreakRequest) (BreakEventResponse, error)
	TotalMinutes(ctx context.Context, employeeID string, date time.Time) (int, error)

	CreateConfig(ctx context.Context, req CreateBreakConfigRequest) (BreakConfigResponse, error)
	UpdateConfig(ctx context.Context, req UpdateBreakConfigRequest) (BreakConfigResponse, error)
	ListConfigs(ctx context.Context) ([]BreakConfigResponse, error)
}
