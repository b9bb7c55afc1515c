package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/lock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/repository/memory"
	breakService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/breaks"
	calendarService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/calendar"
	leaveService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-attendance-engine/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type testEnv struct {
	clock    *clock.Manual
	svc      attendance.AttendanceService
	breaks   breaks.BreakService
	calendar calendar.CalendarService
	leave    leave.LeaveService
	store    *memory.Store
	policyID string
}

// 2024-06-10 is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.June, day, hour, minute, 0, 0, time.UTC)
}

func newTestEnv(t *testing.T, employeeIDs ...string) *testEnv {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	clk := clock.NewManual(at(10, 8, 0))
	loc := time.UTC

	shiftRepo := memory.NewShiftPolicyRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	attendanceRepo := memory.NewAttendanceRepository(store)
	breakRepo := memory.NewBreakRepository(store)
	leaveRepo := memory.NewLeaveRepository(store)
	payrollRepo := memory.NewPayrollRepository(store)

	locker := lock.NewKeyedMutex()
	gate := payrollService.NewPeriodGate(lock.NewPeriodGuard(), memory.NewTransactor(), payrollRepo)
	calendarSvc := calendarService.NewCalendarService(memory.NewCalendarRepository(store))

	policy, err := shiftRepo.Create(ctx, shift.Policy{
		Name:               "General",
		Type:               shift.ShiftTypeGeneral,
		CheckIn:            9 * 60,
		CheckOut:           17 * 60,
		GracePeriodMinutes: 10,
		HalfDayMinutes:     4 * 60,
		FullDayMinutes:     8 * 60,
	})
	require.NoError(t, err)

	for _, id := range employeeIDs {
		_, err := employeeRepo.Upsert(ctx, employee.Employee{
			ID:            id,
			FullName:      "Employee " + id,
			ShiftPolicyID: &policy.ID,
			BaseSalary:    decimal.NewFromInt(30000),
			IsActive:      true,
		})
		require.NoError(t, err)
	}

	balanceSvc := leaveService.NewBalanceService(leaveRepo.Balances())
	requestSvc := leaveService.NewRequestService(leaveRepo.LeaveTypes(), leaveRepo.Requests(), employeeRepo, balanceSvc, locker, gate, clk, loc)

	return &testEnv{
		clock: clk,
		svc: NewAttendanceService(
			attendanceRepo,
			employeeRepo,
			shiftRepo,
			breakRepo,
			leaveRepo.LeaveTypes(),
			leaveRepo.Requests(),
			calendarSvc,
			locker,
			gate,
			clk,
			loc,
		),
		breaks:   breakService.NewBreakService(breakRepo, breakRepo, attendanceRepo, locker, gate, clk, loc),
		calendar: calendarSvc,
		leave:    leaveService.NewLeaveService(leaveRepo.LeaveTypes(), leaveRepo.Requests(), employeeRepo, balanceSvc, requestSvc),
		store:    store,
		policyID: policy.ID,
	}
}

func (e *testEnv) enableBreak(t *testing.T, kind breaks.Kind, minutes int) {
	t.Helper()
	req := breaks.CreateBreakConfigRequest{Kind: string(kind)}
	if kind != breaks.KindDontDisturb {
		req.DurationMinutes = &minutes
	}
	_, err := e.breaks.CreateConfig(context.Background(), req)
	require.NoError(t, err)
}

// ===== CHECK-IN TESTS =====

func TestAttendanceService_CheckIn_WithinGrace(t *testing.T) {
	env := newTestEnv(t, "emp-1")
	env.clock.Set(at(10, 9, 8))

	resp, err := env.svc.CheckIn(context.Background(), "emp-1")

	require.NoError(t, err)
	assert.False(t, resp.IsLate)
	assert.Equal(t, 0, resp.LateMinutes)
	assert.Equal(t, "2024-06-10", resp.Date)
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
}

func TestAttendanceService_CheckIn_AfterGrace(t *testing.T) {
	env := newTestEnv(t, "emp-1")
	env.clock.Set(at(10, 9, 15))

	resp, err := env.svc.CheckIn(context.Background(), "emp-1")

	require.NoError(t, err)
	assert.True(t, resp.IsLate)
	assert.Equal(t, 15, resp.LateMinutes)
	assert.Equal(t, string(attendance.StatusLate), resp.Status)
}

func TestAttendanceService_CheckIn_ExactlyAtGraceBoundary(t *testing.T) {
	env := newTestEnv(t, "emp-1")
	env.clock.Set(at(10, 9, 10))

	resp, err := env.svc.CheckIn(context.Background(), "emp-1")

	require.NoError(t, err)
	assert.False(t, resp.IsLate)
}

func TestAttendanceService_CheckIn_Twice(t *testing.T) {
	env := newTestEnv(t, "emp-1")
	ctx := context.Background()
	env.clock.Set(at(10, 9, 0))

	_, err := env.svc.CheckIn(ctx, "emp-1")
	require.NoError(t, err)

	env.clock.Advance(time.Minute)
	_, err = env.svc.CheckIn(ctx, "emp-1")
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceService_CheckIn_UnknownEmployee(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CheckIn(context.Background(), "ghost")

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceService_CheckIn_Concurrent(t *testing.T) {
	env := newTestEnv(t, "emp-1")
	env.clock.Set(at(10, 9, 0))

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.CheckIn(context.Background(), "emp-1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, attendance.ErrAlreadyCheckedIn):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
}

// ===== CHECK-OUT TESTS =====

func TestAttendanceService_CheckOut_NotCheckedIn(t *testing.T) {
	env := newTestEnv(t, "emp-1")

	_, err := env.svc.CheckOut(context.Background(), "emp-1")

	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestAttendanceService_CheckOut_WithMealBreak(t *testing.T) {
	env := newTestEnv(t, "emp-1")
	env.enableBreak(t, breaks.KindMealBreak, 60)
	ctx := context.Background()

	env.clock.Set(at(10, 9, 0))
	_, err := env.svc.CheckIn(ctx, "emp-1")
	require.NoError(t, err)

	env.clock.Set(at(10, 12, 0))
	_, err = env.breaks.StartBreak(ctx, "emp-1", breaks.StartBreakRequest{Kind: string(breaks.KindMealBreak)})
	require.NoError(t, err)

	env.clock.Set(at(10, 13, 0))
	ended, err := env.breaks.EndBreak(ctx, "emp-1", breaks.EndBreakRequest{Kind: string(breaks.KindMealBreak)})
	require.NoError(t, err)
	require.NotNil(t, ended.DurationMinutes)
	assert.Equal(t, 60, *ended.DurationMinutes)
	assert.Equal(t, 0, ended.ExceededMinutes)

	env.clock.Set(at(10, 17, 0))
	resp, err := env.svc.CheckOut(ctx, "emp-1")

	require.NoError(t, err)
	assert.Equal(t, 60, resp.TotalBreakMinutes)
	assert.Equal(t, 7*60, resp.WorkedMinutes)
	assert.Equal(t, 0, resp.OvertimeMinutes)
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
}

func TestAttendanceService_CheckOut_OpenBreakBlocks(t *testing.T) {
	env := newTestEnv(t, "emp-1")
	env.enableBreak(t, breaks.KindShortBreak, 15)
	ctx := context.Background()

	env.clock.Set(at(10, 9, 0))
	_, err := env.svc.CheckIn(ctx, "emp-1")
	require.NoError(t, err)

	env.clock.Set(at(10, 15, 0))
	_, err = env.breaks.StartBreak(ctx, "emp-1", breaks.StartBreakRequest{Kind: string(breaks.KindShortBreak)})
	require.NoError(t, err)

	env.clock.Set(at(10, 15, 5))
	_, err = env.svc.CheckOut(ctx, "emp-1")
	assert.ErrorIs(t, err, attendance.ErrOpenBreakPending)

	// The record stays open until the break is ended.
	env.clock.Set(at(10, 15, 20))
	_, err = env.breaks.EndBreak(ctx, "emp-1", breaks.EndBreakRequest{Kind: string(breaks.KindShortBreak)})
	require.NoError(t, err)
	env.clock.Set(at(10, 17, 0))
	resp, err := env.svc.CheckOut(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 20, resp.TotalBreakMinutes)
}

func TestAttendanceService_CheckOut_OvertimeAndHalfDay(t *testing.T) {
	tests := []struct {
		name         string
		checkOut     time.Time
		wantWorked   int
		wantOvertime int
		wantStatus   attendance.Status
	}{
		{"overtime", at(10, 18, 30), 570, 90, attendance.StatusPresent},
		{"exactly half day", at(10, 13, 0), 240, 0, attendance.StatusPresent},
		{"below half day", at(10, 12, 59), 239, 0, attendance.StatusHalfDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "emp-1")
			ctx := context.Background()

			env.clock.Set(at(10, 9, 0))
			_, err := env.svc.CheckIn(ctx, "emp-1")
			require.NoError(t, err)

			env.clock.Set(tt.checkOut)
			resp, err := env.svc.CheckOut(ctx, "emp-1")

			require.NoError(t, err)
			assert.Equal(t, tt.wantWorked, resp.WorkedMinutes)
			assert.Equal(t, tt.wantOvertime, resp.OvertimeMinutes)
			assert.Equal(t, string(tt.wantStatus), resp.Status)
		})
	}
}

// ===== RANGE TESTS =====

func TestAttendanceService_GetAttendanceForRange(t *testing.T) {
	env := newTestEnv(t, "emp-1")
	ctx := context.Background()

	_, err := env.calendar.CreateHoliday(ctx, calendar.CreateHolidayRequest{Date: "2024-06-12", Name: "Founders Day"})
	require.NoError(t, err)

	allotted := 12
	leaveType, err := env.leave.CreateType(ctx, leave.CreateLeaveTypeRequest{Name: "Annual", AllottedCount: &allotted})
	require.NoError(t, err)
	request, err := env.leave.Apply(ctx, "emp-1", leave.ApplyLeaveRequest{
		LeaveTypeID: leaveType.ID,
		FromDate:    "2024-06-13",
		ToDate:      "2024-06-13",
	})
	require.NoError(t, err)
	_, err = env.leave.Approve(ctx, request.ID)
	require.NoError(t, err)

	env.clock.Set(at(10, 9, 20))
	_, err = env.svc.CheckIn(ctx, "emp-1")
	require.NoError(t, err)
	env.clock.Set(at(10, 17, 30))
	_, err = env.svc.CheckOut(ctx, "emp-1")
	require.NoError(t, err)

	resp, err := env.svc.GetAttendanceForRange(ctx, "emp-1", attendance.RangeQuery{From: "2024-06-10", To: "2024-06-16"})

	require.NoError(t, err)
	require.Len(t, resp.Days, 7)
	statuses := make([]string, 0, len(resp.Days))
	for _, d := range resp.Days {
		statuses = append(statuses, d.Status)
	}
	assert.Equal(t, []string{"late", "absent", "holiday", "leave", "absent", "weekend", "weekend"}, statuses)
	require.NotNil(t, resp.Days[2].HolidayName)
	assert.Equal(t, "Founders Day", *resp.Days[2].HolidayName)
	require.NotNil(t, resp.Days[3].LeaveIsPaid)
	assert.True(t, *resp.Days[3].LeaveIsPaid)

	assert.Equal(t, 1, resp.Summary.Late)
	assert.Equal(t, 2, resp.Summary.Absent)
	assert.Equal(t, 4, resp.Summary.WorkingDays)
	assert.Equal(t, 490, resp.Summary.WorkedMinutes)
	assert.Equal(t, 10, resp.Summary.OvertimeMinutes)
}

func TestAttendanceService_GetAttendanceForRange_Invalid(t *testing.T) {
	env := newTestEnv(t, "emp-1")

	_, err := env.svc.GetAttendanceForRange(context.Background(), "emp-1", attendance.RangeQuery{From: "2024-06-16", To: "2024-06-10"})

	assert.Error(t, err)
}

func TestAttendanceService_EvaluateRange_Idempotent(t *testing.T) {
	env := newTestEnv(t, "emp-1")
	ctx := context.Background()

	env.clock.Set(at(10, 9, 0))
	_, err := env.svc.CheckIn(ctx, "emp-1")
	require.NoError(t, err)
	env.clock.Set(at(10, 11, 0))
	_, err = env.svc.CheckOut(ctx, "emp-1")
	require.NoError(t, err)

	first, err := env.svc.EvaluateRange(ctx, "emp-1", at(10, 0, 0), at(14, 0, 0))
	require.NoError(t, err)
	second, err := env.svc.EvaluateRange(ctx, "emp-1", at(10, 0, 0), at(14, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, attendance.StatusHalfDay, first[0].Status)
}

// ===== DAY CLOSE TESTS =====

func TestAttendanceService_CloseDay(t *testing.T) {
	env := newTestEnv(t, "emp-1", "emp-2")
	ctx := context.Background()

	env.clock.Set(at(10, 9, 0))
	_, err := env.svc.CheckIn(ctx, "emp-1")
	require.NoError(t, err)
	env.clock.Set(at(10, 17, 0))
	_, err = env.svc.CheckOut(ctx, "emp-1")
	require.NoError(t, err)

	written, err := env.svc.CloseDay(ctx, at(10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	// Closing again finds nothing to change.
	written, err = env.svc.CloseDay(ctx, at(10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, written)

	days, err := env.svc.EvaluateRange(ctx, "emp-2", at(10, 0, 0), at(10, 0, 0))
	require.NoError(t, err)
	require.NotNil(t, days[0].Record)
	assert.Equal(t, attendance.StatusAbsent, days[0].Record.Status)
	assert.Nil(t, days[0].Record.CheckIn)
}

func TestAttendanceService_CheckIn_OverPlaceholder(t *testing.T) {
	env := newTestEnv(t, "emp-1")
	ctx := context.Background()

	written, err := env.svc.CloseDay(ctx, at(10, 0, 0))
	require.NoError(t, err)
	require.Equal(t, 1, written)

	env.clock.Set(at(10, 9, 0))
	resp, err := env.svc.CheckIn(ctx, "emp-1")

	require.NoError(t, err)
	assert.NotNil(t, resp.CheckIn)
	assert.Equal(t, string(attendance.StatusPresent), resp.Status)
}

// ===== EXPORT TESTS =====

func TestAttendanceService_ExportRange(t *testing.T) {
	env := newTestEnv(t, "emp-1")
	ctx := context.Background()

	env.clock.Set(at(10, 9, 0))
	_, err := env.svc.CheckIn(ctx, "emp-1")
	require.NoError(t, err)
	env.clock.Set(at(10, 17, 0))
	_, err = env.svc.CheckOut(ctx, "emp-1")
	require.NoError(t, err)

	buf, name, err := env.svc.ExportRange(ctx, attendance.RangeQuery{From: "2024-06-10", To: "2024-06-10"})
	require.NoError(t, err)
	assert.Equal(t, "attendance_2024-06-10_2024-06-10.xlsx", name)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Attendance 2024-06-10 to 2024-06-10", rows[0][0])
	assert.Equal(t, []string{"emp-1", "Employee emp-1", "2024-06-10", string(attendance.StatusPresent), "09:00", "17:00", "0", "0", "480", "0"}, rows[2])
}

func TestAttendanceService_ExportRange_Invalid(t *testing.T) {
	env := newTestEnv(t, "emp-1")

	_, _, err := env.svc.ExportRange(context.Background(), attendance.RangeQuery{From: "2024-06-10", To: "bad"})

	assert.Error(t, err)
}
