package leave

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/lock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/repository/memory"
	payrollService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leaveTestEnv struct {
	svc         leave.LeaveService
	clock       *clock.Manual
	payrollRepo payroll.PayrollRepository
	annualID    string
	unpaidID    string
}

func newLeaveTestEnv(t *testing.T) *leaveTestEnv {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	repo := memory.NewLeaveRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	payrollRepo := memory.NewPayrollRepository(store)
	clk := clock.NewManual(time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC))
	gate := payrollService.NewPeriodGate(lock.NewPeriodGuard(), memory.NewTransactor(), payrollRepo)

	for _, id := range []string{"emp-1", "emp-2"} {
		_, err := employeeRepo.Upsert(ctx, employee.Employee{
			ID:         id,
			FullName:   "Employee " + id,
			BaseSalary: decimal.NewFromInt(30000),
			IsActive:   true,
		})
		require.NoError(t, err)
	}

	balances := NewBalanceService(repo.Balances())
	requests := NewRequestService(repo.LeaveTypes(), repo.Requests(), employeeRepo, balances, lock.NewKeyedMutex(), gate, clk, time.UTC)
	svc := NewLeaveService(repo.LeaveTypes(), repo.Requests(), employeeRepo, balances, requests)

	allotted, zero, unpaid := 5, 0, false
	annual, err := svc.CreateType(ctx, leave.CreateLeaveTypeRequest{Name: "Annual", AllottedCount: &allotted})
	require.NoError(t, err)
	lop, err := svc.CreateType(ctx, leave.CreateLeaveTypeRequest{Name: "Unpaid", AllottedCount: &zero, IsPaid: &unpaid})
	require.NoError(t, err)

	return &leaveTestEnv{
		svc:         svc,
		clock:       clk,
		payrollRepo: payrollRepo,
		annualID:    annual.ID,
		unpaidID:    lop.ID,
	}
}

func (e *leaveTestEnv) apply(t *testing.T, employeeID, leaveTypeID, from, to string) leave.LeaveRequestResponse {
	t.Helper()
	resp, err := e.svc.Apply(context.Background(), employeeID, leave.ApplyLeaveRequest{
		LeaveTypeID: leaveTypeID,
		FromDate:    from,
		ToDate:      to,
		Reason:      "personal",
	})
	require.NoError(t, err)
	return resp
}

func (e *leaveTestEnv) balance(t *testing.T, employeeID, leaveTypeID string) leave.LeaveBalanceResponse {
	t.Helper()
	balances, err := e.svc.GetLeaveBalances(context.Background(), employeeID)
	require.NoError(t, err)
	for _, b := range balances {
		if b.LeaveTypeID == leaveTypeID {
			return b
		}
	}
	t.Fatalf("no balance for leave type %s", leaveTypeID)
	return leave.LeaveBalanceResponse{}
}

// ===== APPLY TESTS =====

func TestLeaveService_Apply_Success(t *testing.T) {
	env := newLeaveTestEnv(t)

	resp := env.apply(t, "emp-1", env.annualID, "2024-06-10", "2024-06-12")

	assert.Equal(t, string(leave.StatusPending), resp.Status)
	assert.Equal(t, 3, resp.Days)
	assert.Equal(t, "2024-06-10", resp.FromDate)

	// Pending requests do not consume balance.
	b := env.balance(t, "emp-1", env.annualID)
	assert.Equal(t, 0, b.Used)
	assert.Equal(t, 5, b.Remaining)
}

func TestLeaveService_Apply_Overlap(t *testing.T) {
	env := newLeaveTestEnv(t)
	env.apply(t, "emp-1", env.annualID, "2024-06-10", "2024-06-12")

	_, err := env.svc.Apply(context.Background(), "emp-1", leave.ApplyLeaveRequest{
		LeaveTypeID: env.annualID,
		FromDate:    "2024-06-11",
		ToDate:      "2024-06-13",
	})

	assert.ErrorIs(t, err, leave.ErrOverlapsExistingLeave)
}

func TestLeaveService_Apply_OverlapBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		wantErr  error
	}{
		{"touches start", "2024-06-05", "2024-06-10", leave.ErrOverlapsExistingLeave},
		{"touches end", "2024-06-12", "2024-06-20", leave.ErrOverlapsExistingLeave},
		{"inside", "2024-06-11", "2024-06-11", leave.ErrOverlapsExistingLeave},
		{"day before", "2024-06-08", "2024-06-09", nil},
		{"day after", "2024-06-13", "2024-06-13", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newLeaveTestEnv(t)
			env.apply(t, "emp-1", env.annualID, "2024-06-10", "2024-06-12")

			_, err := env.svc.Apply(context.Background(), "emp-1", leave.ApplyLeaveRequest{
				LeaveTypeID: env.unpaidID,
				FromDate:    tt.from,
				ToDate:      tt.to,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLeaveService_Apply_OtherEmployeeDoesNotOverlap(t *testing.T) {
	env := newLeaveTestEnv(t)
	env.apply(t, "emp-1", env.annualID, "2024-06-10", "2024-06-12")

	_, err := env.svc.Apply(context.Background(), "emp-2", leave.ApplyLeaveRequest{
		LeaveTypeID: env.annualID,
		FromDate:    "2024-06-10",
		ToDate:      "2024-06-12",
	})

	assert.NoError(t, err)
}

func TestLeaveService_Apply_InvalidRange(t *testing.T) {
	env := newLeaveTestEnv(t)

	_, err := env.svc.Apply(context.Background(), "emp-1", leave.ApplyLeaveRequest{
		LeaveTypeID: env.annualID,
		FromDate:    "2024-06-12",
		ToDate:      "2024-06-10",
	})

	assert.ErrorIs(t, err, leave.ErrInvalidRange)
}

func TestLeaveService_Apply_RangeTooLong(t *testing.T) {
	env := newLeaveTestEnv(t)

	// 367 calendar days, one past MaxRequestDays
	_, err := env.svc.Apply(context.Background(), "emp-1", leave.ApplyLeaveRequest{
		LeaveTypeID: env.annualID,
		FromDate:    "2024-01-01",
		ToDate:      "2025-01-01",
	})

	assert.ErrorIs(t, err, leave.ErrInvalidRange)
}

func TestLeaveService_Apply_InsufficientBalance(t *testing.T) {
	env := newLeaveTestEnv(t)

	_, err := env.svc.Apply(context.Background(), "emp-1", leave.ApplyLeaveRequest{
		LeaveTypeID: env.annualID,
		FromDate:    "2024-06-10",
		ToDate:      "2024-06-15",
	})

	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
}

func TestLeaveService_Apply_UnknownLeaveType(t *testing.T) {
	env := newLeaveTestEnv(t)

	_, err := env.svc.Apply(context.Background(), "emp-1", leave.ApplyLeaveRequest{
		LeaveTypeID: "missing",
		FromDate:    "2024-06-10",
		ToDate:      "2024-06-10",
	})

	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

// ===== TRANSITION TESTS =====

func TestLeaveService_Approve_ConsumesPaidBalance(t *testing.T) {
	env := newLeaveTestEnv(t)
	req := env.apply(t, "emp-1", env.annualID, "2024-06-10", "2024-06-12")

	resp, err := env.svc.Approve(context.Background(), req.ID)

	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusApproved), resp.Status)
	assert.NotNil(t, resp.DecidedAt)
	b := env.balance(t, "emp-1", env.annualID)
	assert.Equal(t, 3, b.Used)
	assert.Equal(t, 2, b.Remaining)
	assert.Equal(t, 5, b.Allotted)
}

func TestLeaveService_Approve_UnpaidLeavesBalanceAlone(t *testing.T) {
	env := newLeaveTestEnv(t)
	req := env.apply(t, "emp-1", env.unpaidID, "2024-06-10", "2024-06-20")

	_, err := env.svc.Approve(context.Background(), req.ID)

	require.NoError(t, err)
	b := env.balance(t, "emp-1", env.unpaidID)
	assert.Equal(t, 0, b.Used)
	assert.Equal(t, 0, b.Remaining)
}

func TestLeaveService_ApproveOrReject_NotPending(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()
	req := env.apply(t, "emp-1", env.annualID, "2024-06-10", "2024-06-10")
	_, err := env.svc.Reject(ctx, req.ID)
	require.NoError(t, err)

	_, err = env.svc.Approve(ctx, req.ID)
	assert.ErrorIs(t, err, leave.ErrNotPending)

	_, err = env.svc.Reject(ctx, req.ID)
	assert.ErrorIs(t, err, leave.ErrNotPending)
}

func TestLeaveService_Reject_FreesRange(t *testing.T) {
	env := newLeaveTestEnv(t)
	req := env.apply(t, "emp-1", env.annualID, "2024-06-10", "2024-06-12")

	_, err := env.svc.Reject(context.Background(), req.ID)
	require.NoError(t, err)

	env.apply(t, "emp-1", env.annualID, "2024-06-11", "2024-06-13")
}

func TestLeaveService_Cancel_PendingDeletes(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()
	req := env.apply(t, "emp-1", env.annualID, "2024-06-10", "2024-06-12")

	resp, err := env.svc.Cancel(ctx, req.ID)

	require.NoError(t, err)
	assert.True(t, resp.Deleted)
	_, err = env.svc.GetRequest(ctx, req.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveService_Cancel_ApprovedRestoresBalance(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()
	req := env.apply(t, "emp-1", env.annualID, "2024-06-10", "2024-06-12")
	_, err := env.svc.Approve(ctx, req.ID)
	require.NoError(t, err)

	resp, err := env.svc.Cancel(ctx, req.ID)

	require.NoError(t, err)
	assert.False(t, resp.Deleted)
	assert.Equal(t, string(leave.StatusCancelled), resp.Status)
	b := env.balance(t, "emp-1", env.annualID)
	assert.Equal(t, 0, b.Used)
	assert.Equal(t, 5, b.Remaining)

	_, err = env.svc.Cancel(ctx, req.ID)
	assert.ErrorIs(t, err, leave.ErrAlreadyTerminal)
}

func TestLeaveService_Cancel_StartedLeave(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()
	req := env.apply(t, "emp-1", env.annualID, "2024-06-10", "2024-06-12")
	_, err := env.svc.Approve(ctx, req.ID)
	require.NoError(t, err)

	env.clock.Set(time.Date(2024, time.June, 11, 8, 0, 0, 0, time.UTC))
	_, err = env.svc.Cancel(ctx, req.ID)

	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyStarted)
}

func TestLeaveService_Cancel_Rejected(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()
	req := env.apply(t, "emp-1", env.annualID, "2024-06-10", "2024-06-12")
	_, err := env.svc.Reject(ctx, req.ID)
	require.NoError(t, err)

	_, err = env.svc.Cancel(ctx, req.ID)

	assert.ErrorIs(t, err, leave.ErrAlreadyTerminal)
}

func TestLeaveService_LockedPeriodRejectsMutations(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()
	req := env.apply(t, "emp-1", env.annualID, "2024-06-10", "2024-06-10")

	batch, err := env.payrollRepo.CreateBatch(ctx, payroll.Batch{Period: "2024-06", Status: payroll.BatchStatusLocked, GeneratedAt: env.clock.Now()})
	require.NoError(t, err)
	require.True(t, batch.IsLocked())

	_, err = env.svc.Approve(ctx, req.ID)
	assert.ErrorIs(t, err, payroll.ErrAlreadyLocked)

	_, err = env.svc.Apply(ctx, "emp-1", leave.ApplyLeaveRequest{LeaveTypeID: env.annualID, FromDate: "2024-06-20", ToDate: "2024-06-20"})
	assert.ErrorIs(t, err, payroll.ErrPeriodLocked)

	// Other periods stay writable.
	env.apply(t, "emp-1", env.annualID, "2024-07-01", "2024-07-01")
}

// ===== INVARIANT TESTS =====

func TestLeaveService_BalanceInvariant_RandomSequence(t *testing.T) {
	env := newLeaveTestEnv(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	var ids []string
	for i := 0; i < 200; i++ {
		switch rng.Intn(4) {
		case 0:
			day := 1 + rng.Intn(27)
			resp, err := env.svc.Apply(ctx, "emp-1", leave.ApplyLeaveRequest{
				LeaveTypeID: env.annualID,
				FromDate:    fmt.Sprintf("2024-08-%02d", day),
				ToDate:      fmt.Sprintf("2024-08-%02d", day+rng.Intn(2)),
			})
			if err == nil {
				ids = append(ids, resp.ID)
			}
		case 1:
			if len(ids) > 0 {
				_, _ = env.svc.Approve(ctx, ids[rng.Intn(len(ids))])
			}
		case 2:
			if len(ids) > 0 {
				_, _ = env.svc.Reject(ctx, ids[rng.Intn(len(ids))])
			}
		case 3:
			if len(ids) > 0 {
				_, _ = env.svc.Cancel(ctx, ids[rng.Intn(len(ids))])
			}
		}

		b := env.balance(t, "emp-1", env.annualID)
		require.Equal(t, b.Allotted, b.Used+b.Remaining, "step %d", i)
		require.GreaterOrEqual(t, b.Remaining, 0)
	}

	// No two active requests overlap.
	active, err := env.svc.ListRequests(ctx, leave.RequestFilter{})
	require.NoError(t, err)
	for i, a := range active {
		for _, b := range active[i+1:] {
			if !isActive(a.Status) || !isActive(b.Status) {
				continue
			}
			assert.False(t, a.FromDate <= b.ToDate && a.ToDate >= b.FromDate, "%s overlaps %s", a.ID, b.ID)
		}
	}
}

func isActive(status string) bool {
	return leave.RequestStatus(status).IsActive()
}
