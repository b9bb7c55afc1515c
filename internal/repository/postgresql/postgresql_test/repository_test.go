package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func seedEmployee(t *testing.T, setup *TestDatabaseSetup) (employee.Employee, shift.Policy) {
	t.Helper()
	ctx := context.Background()

	policy, err := postgresql.NewShiftPolicyRepository(setup.DB).Create(ctx, shift.Policy{
		Name:               "General",
		Type:               shift.ShiftTypeGeneral,
		CheckIn:            9 * 60,
		CheckOut:           18 * 60,
		GracePeriodMinutes: 15,
		HalfDayMinutes:     shift.DefaultHalfDayMinutes,
		FullDayMinutes:     shift.DefaultFullDayMinutes,
	})
	require.NoError(t, err)

	emp, err := postgresql.NewEmployeeRepository(setup.DB).Upsert(ctx, employee.Employee{
		ID:            "emp-1",
		FullName:      "Ayu Lestari",
		ShiftPolicyID: &policy.ID,
		BaseSalary:    decimal.NewFromInt(50000),
		EPFEnabled:    true,
		IsActive:      true,
	})
	require.NoError(t, err)
	return emp, policy
}

func TestShiftAndEmployeeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp, policy := seedEmployee(t, setup)

	t.Run("shift policy round trip", func(t *testing.T) {
		got, err := postgresql.NewShiftPolicyRepository(setup.DB).GetByID(ctx, policy.ID)
		require.NoError(t, err)
		assert.Equal(t, shift.TimeOfDay(9*60), got.CheckIn)
		assert.Equal(t, 15, got.GracePeriodMinutes)
	})

	t.Run("missing shift policy", func(t *testing.T) {
		_, err := postgresql.NewShiftPolicyRepository(setup.DB).GetByID(ctx, "0192e0c4-0000-7000-8000-000000000000")
		assert.ErrorIs(t, err, shift.ErrShiftPolicyNotFound)
	})

	t.Run("employee upsert replaces mutable fields", func(t *testing.T) {
		repo := postgresql.NewEmployeeRepository(setup.DB)
		emp.BaseSalary = decimal.NewFromInt(60000)
		emp.IsActive = false
		_, err := repo.Upsert(ctx, emp)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, emp.ID)
		require.NoError(t, err)
		assert.True(t, got.BaseSalary.Equal(decimal.NewFromInt(60000)))

		active, err := repo.ListActive(ctx)
		require.NoError(t, err)
		assert.Empty(t, active)
	})
}

func TestAttendanceRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp, policy := seedEmployee(t, setup)
	repo := postgresql.NewAttendanceRepository(setup.DB)

	checkIn := time.Date(2025, 3, 3, 9, 5, 0, 0, time.UTC)
	created, err := repo.Create(ctx, attendance.Record{
		EmployeeID:    emp.ID,
		ShiftPolicyID: policy.ID,
		Date:          date("2025-03-03"),
		CheckIn:       &checkIn,
		Status:        attendance.StatusPresent,
	})
	require.NoError(t, err)

	t.Run("duplicate day is rejected", func(t *testing.T) {
		_, err := repo.Create(ctx, attendance.Record{
			EmployeeID: emp.ID,
			Date:       date("2025-03-03"),
			Status:     attendance.StatusAbsent,
		})
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	})

	t.Run("open record", func(t *testing.T) {
		open, err := repo.GetOpenRecord(ctx, emp.ID)
		require.NoError(t, err)
		require.NotNil(t, open)
		assert.Equal(t, created.ID, open.ID)
	})

	t.Run("rolled back update is not visible", func(t *testing.T) {
		boom := errors.New("boom")
		err := postgresql.WithTransaction(ctx, setup.DB, func(ctx context.Context) error {
			checkOut := checkIn.Add(8 * time.Hour)
			rec := created
			rec.CheckOut = &checkOut
			if err := repo.Update(ctx, rec); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := repo.GetByEmployeeAndDate(ctx, emp.ID, date("2025-03-03"))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Nil(t, got.CheckOut)
	})

	t.Run("no record on other day", func(t *testing.T) {
		got, err := repo.GetByEmployeeAndDate(ctx, emp.ID, date("2025-03-04"))
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestCalendarRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewCalendarRepository(setup.DB)

	_, err := repo.GetWorkWeek(ctx)
	assert.ErrorIs(t, err, calendar.ErrWorkWeekNotFound)

	require.NoError(t, repo.SaveWorkWeek(ctx, calendar.WorkWeek{OffDays: []time.Weekday{time.Friday}}))
	week, err := repo.GetWorkWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Friday}, week.OffDays)

	_, err = repo.CreateHoliday(ctx, calendar.Holiday{Date: date("2025-03-31"), Name: "Eid"})
	require.NoError(t, err)
	_, err = repo.CreateHoliday(ctx, calendar.Holiday{Date: date("2025-03-31"), Name: "Duplicate"})
	assert.ErrorIs(t, err, calendar.ErrHolidayExists)
}

func TestLeaveRepositories(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp, _ := seedEmployee(t, setup)

	types := postgresql.NewLeaveTypeRepository(setup.DB)
	lt, err := types.Create(ctx, leave.LeaveType{Name: "Annual", AllottedCount: 12, IsPaid: true})
	require.NoError(t, err)

	_, err = types.Create(ctx, leave.LeaveType{Name: "annual", AllottedCount: 5})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNameExists)

	balances := postgresql.NewLeaveBalanceRepository(setup.DB)
	b := leave.NewBalance(emp.ID, lt)
	require.NoError(t, b.Consume(3))
	require.NoError(t, balances.Save(ctx, b))

	got, err := balances.Get(ctx, emp.ID, lt.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Used)
	assert.Equal(t, 9, got.Remaining)

	requests := postgresql.NewLeaveRequestRepository(setup.DB)
	_, err = requests.Create(ctx, leave.Request{
		EmployeeID:  emp.ID,
		LeaveTypeID: lt.ID,
		FromDate:    date("2025-03-10"),
		ToDate:      date("2025-03-12"),
		Days:        3,
		Status:      leave.StatusApproved,
	})
	require.NoError(t, err)

	overlapping, err := requests.FindOverlapping(ctx, emp.ID, date("2025-03-12"), date("2025-03-14"))
	require.NoError(t, err)
	assert.Len(t, overlapping, 1)

	none, err := requests.FindOverlapping(ctx, emp.ID, date("2025-03-13"), date("2025-03-14"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPayrollRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	emp, _ := seedEmployee(t, setup)
	repo := postgresql.NewPayrollRepository(setup.DB)

	batch, err := repo.CreateBatch(ctx, payroll.Batch{
		Period:      "2025-03",
		Status:      payroll.BatchStatusDraft,
		GeneratedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	_, err = repo.CreateBatch(ctx, payroll.Batch{Period: "2025-03", Status: payroll.BatchStatusDraft, GeneratedAt: time.Now()})
	assert.ErrorIs(t, err, payroll.ErrBatchAlreadyExists)

	err = postgresql.WithTransaction(ctx, setup.DB, func(ctx context.Context) error {
		return repo.ReplacePayslips(ctx, batch.ID, []payroll.Payslip{{
			EmployeeID:       emp.ID,
			EmployeeName:     emp.FullName,
			Basic:            decimal.NewFromInt(25000),
			GrossSalary:      decimal.NewFromInt(50000),
			NetPay:           decimal.NewFromInt(47000),
			PF:               decimal.NewFromInt(3000),
			AllowancesDetail: map[string]decimal.Decimal{"Overtime": decimal.RequireFromString("12.50")},
		}})
	})
	require.NoError(t, err)

	slip, err := repo.GetPayslip(ctx, batch.ID, emp.ID)
	require.NoError(t, err)
	assert.True(t, slip.NetPay.Equal(decimal.NewFromInt(47000)))
	assert.True(t, slip.AllowancesDetail["Overtime"].Equal(decimal.RequireFromString("12.5")))
	assert.Empty(t, slip.DeductionsDetail)

	t.Run("shared lock sees draft", func(t *testing.T) {
		err := postgresql.WithTransaction(ctx, setup.DB, func(ctx context.Context) error {
			b, err := repo.LockBatchForShare(ctx, "2025-03")
			require.NoError(t, err)
			require.NotNil(t, b)
			assert.False(t, b.IsLocked())
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("locked batch cannot be updated again", func(t *testing.T) {
		lockedAt := time.Now().UTC()
		batch.Status = payroll.BatchStatusLocked
		batch.LockedAt = &lockedAt
		require.NoError(t, repo.UpdateBatch(ctx, batch))

		err := repo.UpdateBatch(ctx, batch)
		assert.ErrorIs(t, err, payroll.ErrAlreadyLocked)
	})
}
