package leave

import (
	"context"
	"time"
)

type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
}

type LeaveBalanceRepository interface {
	// Get returns nil when no balance row exists yet.
	Get(ctx context.Context, employeeID, leaveTypeID string) (*Balance, error)
	// Save inserts or replaces the balance row.
	Save(ctx context.Context, balance Balance) error
	ListByEmployee(ctx context.Context, employeeID string) ([]Balance, error)
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	Update(ctx context.Context, request Request) error
	Delete(ctx context.Context, id string) error

	// FindOverlapping returns Pending or Approved requests of the employee
	// that share at least one date with [from, to].
	FindOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]Request, error)
	ListApprovedInRange(ctx context.Context, employeeID string, from, to time.Time) ([]Request, error)
	List(ctx context.Context, filter RequestFilter) ([]Request, error)
}
