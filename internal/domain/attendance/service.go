package attendance

import (
	"bytes"
	"context"
	"time"
)

// Evaluator classifies stored attendance against shift, calendar and leave facts.
type Evaluator interface {
	// EvaluateRange returns one Day per calendar date in [from, to].
	EvaluateRange(ctx context.Context, employeeID string, from, to time.Time) ([]Day, error)
}

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	Evaluator

	// CheckIn opens today's record for the employee
	CheckIn(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// CheckOut closes the employee's open record
	CheckOut(ctx context.Context, employeeID string) (AttendanceResponse, error)

	GetAttendanceForRange(ctx context.Context, employeeID string, query RangeQuery) (AttendanceRangeResponse, error)

	// CloseDay persists the classified status of every record on date.
	CloseDay(ctx context.Context, date time.Time) (int, error)
	// ExportRange renders every active employee's days in the range as XLSX.
	ExportRange(ctx context.Context, query RangeQuery) (*bytes.Buffer, string, error)
}
