package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/lock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/utils"
)

// MaxRequestDays bounds a single leave request.
const MaxRequestDays = 366

// RequestService runs the leave request state machine:
// Pending -> Approved | Rejected, Approved -> Cancelled, Pending -> deleted.
type RequestService struct {
	leaveTypeRepo    leave.LeaveTypeRepository
	leaveRequestRepo leave.LeaveRequestRepository
	employeeRepo     employee.EmployeeRepository
	balances         *BalanceService
	locker           lock.Locker
	gate             payroll.PeriodGate
	clock            clock.Clock
	loc              *time.Location
}

func NewRequestService(
	leaveTypeRepo leave.LeaveTypeRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	balances *BalanceService,
	locker lock.Locker,
	gate payroll.PeriodGate,
	clk clock.Clock,
	loc *time.Location,
) *RequestService {
	return &RequestService{
		leaveTypeRepo:    leaveTypeRepo,
		leaveRequestRepo: leaveRequestRepo,
		employeeRepo:     employeeRepo,
		balances:         balances,
		locker:           locker,
		gate:             gate,
		clock:            clk,
		loc:              loc,
	}
}

func (r *RequestService) Apply(ctx context.Context, employeeID string, req leave.ApplyLeaveRequest) (leave.Request, error) {
	if err := req.Validate(); err != nil {
		return leave.Request{}, err
	}

	from, _ := utils.ParseDate(req.FromDate)
	to, _ := utils.ParseDate(req.ToDate)
	days := utils.InclusiveDays(from, to)
	if days == 0 || days > MaxRequestDays {
		return leave.Request{}, leave.ErrInvalidRange
	}

	if _, err := r.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return leave.Request{}, err
	}
	leaveType, err := r.leaveTypeRepo.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.Request{}, err
	}

	unlock, err := r.locker.Lock(ctx, lock.EmployeeLeaveKey(employeeID))
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to acquire leave lock: %w", err)
	}
	defer unlock()

	request := leave.Request{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveType.ID,
		FromDate:    from,
		ToDate:      to,
		Days:        days,
		Reason:      req.Reason,
		Status:      leave.StatusPending,
	}

	err = r.gate.Within(ctx, request.Dates(), func(ctx context.Context) error {
		overlapping, err := r.leaveRequestRepo.FindOverlapping(ctx, employeeID, from, to)
		if err != nil {
			return fmt.Errorf("failed to check overlapping leave requests: %w", err)
		}
		if len(overlapping) > 0 {
			return leave.ErrOverlapsExistingLeave
		}

		if leaveType.IsPaid {
			balance, err := r.balances.Get(ctx, employeeID, leaveType)
			if err != nil {
				return err
			}
			if days > balance.Remaining {
				return leave.ErrInsufficientBalance
			}
		}

		request, err = r.leaveRequestRepo.Create(ctx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.Request{}, err
	}

	return request, nil
}

func (r *RequestService) Approve(ctx context.Context, id string) (leave.Request, error) {
	return r.transition(ctx, id, func(ctx context.Context, request *leave.Request, leaveType leave.LeaveType) (bool, error) {
		if request.Status != leave.StatusPending {
			return false, leave.ErrNotPending
		}
		if leaveType.IsPaid {
			if err := r.balances.Consume(ctx, request.EmployeeID, leaveType, request.Days); err != nil {
				return false, err
			}
		}
		request.Status = leave.StatusApproved
		return true, nil
	})
}

func (r *RequestService) Reject(ctx context.Context, id string) (leave.Request, error) {
	return r.transition(ctx, id, func(ctx context.Context, request *leave.Request, _ leave.LeaveType) (bool, error) {
		if request.Status != leave.StatusPending {
			return false, leave.ErrNotPending
		}
		request.Status = leave.StatusRejected
		return true, nil
	})
}

// Cancel deletes a pending request, or cancels an approved one that has not
// started yet and gives its days back.
func (r *RequestService) Cancel(ctx context.Context, id string) (leave.CancelLeaveResponse, error) {
	deleted := false
	request, err := r.transition(ctx, id, func(ctx context.Context, request *leave.Request, leaveType leave.LeaveType) (bool, error) {
		switch request.Status {
		case leave.StatusPending:
			if err := r.leaveRequestRepo.Delete(ctx, request.ID); err != nil {
				return false, fmt.Errorf("failed to delete leave request: %w", err)
			}
			deleted = true
			request.Status = leave.StatusCancelled
			return false, nil
		case leave.StatusApproved:
			today := utils.DateOf(r.clock.Now(), r.loc)
			if !request.FromDate.After(today) {
				return false, leave.ErrLeaveAlreadyStarted
			}
			if leaveType.IsPaid {
				if err := r.balances.Restore(ctx, request.EmployeeID, leaveType, request.Days); err != nil {
					return false, err
				}
			}
			request.Status = leave.StatusCancelled
			return true, nil
		default:
			return false, leave.ErrAlreadyTerminal
		}
	})
	if err != nil {
		return leave.CancelLeaveResponse{}, err
	}

	return leave.CancelLeaveResponse{
		ID:      request.ID,
		Deleted: deleted,
		Status:  string(request.Status),
	}, nil
}

// transition re-reads the request under the employee's leave lock and inside
// the payroll period gate, applies fn, and stores the request when fn asks to.
func (r *RequestService) transition(
	ctx context.Context,
	id string,
	fn func(ctx context.Context, request *leave.Request, leaveType leave.LeaveType) (update bool, err error),
) (leave.Request, error) {
	current, err := r.leaveRequestRepo.GetByID(ctx, id)
	if err != nil {
		return leave.Request{}, err
	}

	unlock, err := r.locker.Lock(ctx, lock.EmployeeLeaveKey(current.EmployeeID))
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to acquire leave lock: %w", err)
	}
	defer unlock()

	var request leave.Request
	err = r.gate.Within(ctx, current.Dates(), func(ctx context.Context) error {
		request, err = r.leaveRequestRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		leaveType, err := r.leaveTypeRepo.GetByID(ctx, request.LeaveTypeID)
		if err != nil {
			return err
		}

		previous := request.Status
		update, err := fn(ctx, &request, leaveType)
		if err != nil {
			return err
		}

		slog.Info("leave request status changed",
			"leave_request_id", request.ID,
			"employee_id", request.EmployeeID,
			"from", previous,
			"to", request.Status)

		if !update {
			return nil
		}
		decidedAt := r.clock.Now().UTC()
		request.DecidedAt = &decidedAt
		if err := r.leaveRequestRepo.Update(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.Request{}, err
	}
	return request, nil
}
