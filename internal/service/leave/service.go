package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/utils"
)

type LeaveServiceImpl struct {
	leaveTypeRepo    leave.LeaveTypeRepository
	leaveRequestRepo leave.LeaveRequestRepository
	employeeRepo     employee.EmployeeRepository
	balanceService   *BalanceService
	requestService   *RequestService
}

func NewLeaveService(
	leaveTypeRepo leave.LeaveTypeRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	balanceService *BalanceService,
	requestService *RequestService,
) leave.LeaveService {
	return &LeaveServiceImpl{
		leaveTypeRepo:    leaveTypeRepo,
		leaveRequestRepo: leaveRequestRepo,
		employeeRepo:     employeeRepo,
		balanceService:   balanceService,
		requestService:   requestService,
	}
}

// ========== REQUESTS ==========

func (l *LeaveServiceImpl) Apply(ctx context.Context, employeeID string, req leave.ApplyLeaveRequest) (leave.LeaveRequestResponse, error) {
	request, err := l.requestService.Apply(ctx, employeeID, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return toLeaveRequestResponse(request), nil
}

func (l *LeaveServiceImpl) Approve(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	request, err := l.requestService.Approve(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return toLeaveRequestResponse(request), nil
}

func (l *LeaveServiceImpl) Reject(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	request, err := l.requestService.Reject(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return toLeaveRequestResponse(request), nil
}

func (l *LeaveServiceImpl) Cancel(ctx context.Context, id string) (leave.CancelLeaveResponse, error) {
	return l.requestService.Cancel(ctx, id)
}

func (l *LeaveServiceImpl) GetRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	request, err := l.leaveRequestRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return toLeaveRequestResponse(request), nil
}

func (l *LeaveServiceImpl) ListRequests(ctx context.Context, filter leave.RequestFilter) ([]leave.LeaveRequestResponse, error) {
	requests, err := l.leaveRequestRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, toLeaveRequestResponse(r))
	}
	return responses, nil
}

// ========== BALANCES ==========

// GetLeaveBalances reports one balance per leave type, including types the
// employee has never used.
func (l *LeaveServiceImpl) GetLeaveBalances(ctx context.Context, employeeID string) ([]leave.LeaveBalanceResponse, error) {
	if _, err := l.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	types, err := l.leaveTypeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveBalanceResponse, 0, len(types))
	for _, lt := range types {
		balance, err := l.balanceService.Get(ctx, employeeID, lt)
		if err != nil {
			return nil, err
		}
		responses = append(responses, leave.LeaveBalanceResponse{
			LeaveTypeID:   lt.ID,
			LeaveTypeName: lt.Name,
			IsPaid:        lt.IsPaid,
			Allotted:      balance.Allotted,
			Used:          balance.Used,
			Remaining:     balance.Remaining,
		})
	}
	return responses, nil
}

// ========== TYPES ==========

func (l *LeaveServiceImpl) CreateType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	isPaid := true
	if req.IsPaid != nil {
		isPaid = *req.IsPaid
	}

	created, err := l.leaveTypeRepo.Create(ctx, leave.LeaveType{
		Name:          req.Name,
		AllottedCount: *req.AllottedCount,
		IsPaid:        isPaid,
	})
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return toLeaveTypeResponse(created), nil
}

func (l *LeaveServiceImpl) ListTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	types, err := l.leaveTypeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		responses = append(responses, toLeaveTypeResponse(t))
	}
	return responses, nil
}

func toLeaveTypeResponse(t leave.LeaveType) leave.LeaveTypeResponse {
	return leave.LeaveTypeResponse{
		ID:            t.ID,
		Name:          t.Name,
		AllottedCount: t.AllottedCount,
		IsPaid:        t.IsPaid,
	}
}

func toLeaveRequestResponse(r leave.Request) leave.LeaveRequestResponse {
	resp := leave.LeaveRequestResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		LeaveTypeID: r.LeaveTypeID,
		FromDate:    utils.FormatDate(r.FromDate),
		ToDate:      utils.FormatDate(r.ToDate),
		Days:        r.Days,
		Reason:      r.Reason,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
	if r.DecidedAt != nil {
		decided := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decided
	}
	return resp
}
