package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, record Record) (Record, error)
	Update(ctx context.Context, record Record) error

	// GetByEmployeeAndDate returns nil when the employee has no record on date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// GetOpenRecord returns the latest record with a check-in and no check-out, or nil.
	GetOpenRecord(ctx context.Context, employeeID string) (*Record, error)

	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
	ListByDate(ctx context.Context, date time.Time) ([]Record, error)
}
