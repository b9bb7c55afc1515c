package leave

import "context"

type LeaveService interface {
	Apply(ctx context.Context, employeeID string, req ApplyLeaveRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, id string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, id string) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, id string) (CancelLeaveResponse, error)

	GetRequest(ctx context.Context, id string) (LeaveRequestResponse, error)
	ListRequests(ctx context.Context, filter RequestFilter) ([]LeaveRequestResponse, error)
	GetLeaveBalances(ctx context.Context, employeeID string) ([]LeaveBalanceResponse, error)

	CreateType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	ListTypes(ctx context.Context) ([]LeaveTypeResponse, error)
}
