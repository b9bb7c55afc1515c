package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/lock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/utils"
)

type AttendanceServiceImpl struct {
	attendanceRepo   attendance.AttendanceRepository
	employeeRepo     employee.EmployeeRepository
	shiftRepo        shift.ShiftPolicyRepository
	breakEventRepo   breaks.BreakEventRepository
	leaveTypeRepo    leave.LeaveTypeRepository
	leaveRequestRepo leave.LeaveRequestRepository
	calendarService  calendar.CalendarService
	locker           lock.Locker
	gate             payroll.PeriodGate
	clock            clock.Clock
	loc              *time.Location
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftPolicyRepository,
	breakEventRepo breaks.BreakEventRepository,
	leaveTypeRepo leave.LeaveTypeRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	calendarService calendar.CalendarService,
	locker lock.Locker,
	gate payroll.PeriodGate,
	clk clock.Clock,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo:   attendanceRepo,
		employeeRepo:     employeeRepo,
		shiftRepo:        shiftRepo,
		breakEventRepo:   breakEventRepo,
		leaveTypeRepo:    leaveTypeRepo,
		leaveRequestRepo: leaveRequestRepo,
		calendarService:  calendarService,
		locker:           locker,
		gate:             gate,
		clock:            clk,
		loc:              loc,
	}
}

func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	now := s.clock.Now().UTC()
	today := utils.DateOf(now, s.loc)

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !emp.IsActive {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeInactive
	}
	if emp.ShiftPolicyID == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNoShiftAssigned
	}
	policy, err := s.shiftRepo.GetByID(ctx, *emp.ShiftPolicyID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get shift policy: %w", err)
	}

	unlock, err := s.locker.Lock(ctx, lock.EmployeeDayKey(employeeID, utils.FormatDate(today)))
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to acquire attendance lock: %w", err)
	}
	defer unlock()

	var saved attendance.Record
	err = s.gate.Within(ctx, []time.Time{today}, func(ctx context.Context) error {
		existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today)
		if err != nil {
			return fmt.Errorf("failed to get attendance: %w", err)
		}
		if existing != nil && existing.CheckIn != nil {
			return attendance.ErrAlreadyCheckedIn
		}

		days, err := s.dayContexts(ctx, employeeID, today, today)
		if err != nil {
			return err
		}

		isLate, lateMinutes := attendance.Lateness(now, today, policy, s.loc)
		rec := attendance.Record{
			EmployeeID:    employeeID,
			ShiftPolicyID: policy.ID,
			Date:          today,
			CheckIn:       &now,
			IsLate:        isLate,
			LateMinutes:   lateMinutes,
		}
		rec.Status = attendance.Classify(&rec, policy, days[0])

		if existing != nil {
			// Placeholder written by the day-close job.
			rec.ID = existing.ID
			if err := s.attendanceRepo.Update(ctx, rec); err != nil {
				return fmt.Errorf("failed to update attendance: %w", err)
			}
			saved = rec
			return nil
		}

		saved, err = s.attendanceRepo.Create(ctx, rec)
		if err != nil {
			return fmt.Errorf("failed to create attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("employee checked in",
		"employee_id", employeeID,
		"date", utils.FormatDate(today),
		"is_late", saved.IsLate,
		"late_minutes", saved.LateMinutes)

	return s.toAttendanceResponse(saved), nil
}

func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	open, err := s.attendanceRepo.GetOpenRecord(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open attendance: %w", err)
	}
	if open == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}

	unlock, err := s.locker.Lock(ctx, lock.EmployeeDayKey(employeeID, utils.FormatDate(open.Date)))
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to acquire attendance lock: %w", err)
	}
	defer unlock()

	var saved attendance.Record
	err = s.gate.Within(ctx, []time.Time{open.Date}, func(ctx context.Context) error {
		rec, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, open.Date)
		if err != nil {
			return fmt.Errorf("failed to get attendance: %w", err)
		}
		if rec == nil || !rec.IsOpen() {
			return attendance.ErrNotCheckedIn
		}

		activeBreak, err := s.breakEventRepo.GetOpenEvent(ctx, employeeID, rec.Date)
		if err != nil {
			return fmt.Errorf("failed to get open break: %w", err)
		}
		if activeBreak != nil {
			return attendance.ErrOpenBreakPending
		}

		out := s.clock.Now().UTC()
		if !out.After(*rec.CheckIn) {
			return attendance.ErrInvalidTimestamps
		}

		policy, err := s.shiftRepo.GetByID(ctx, rec.ShiftPolicyID)
		if err != nil {
			return fmt.Errorf("failed to get shift policy: %w", err)
		}
		days, err := s.dayContexts(ctx, employeeID, rec.Date, rec.Date)
		if err != nil {
			return err
		}

		rec.CheckOut = &out
		rec.WorkedMinutes = attendance.WorkedMinutes(*rec.CheckIn, out, rec.TotalBreakMinutes)
		rec.OvertimeMinutes = attendance.OvertimeMinutes(rec.WorkedMinutes, policy)
		rec.Status = attendance.Classify(rec, policy, days[0])

		if err := s.attendanceRepo.Update(ctx, *rec); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		saved = *rec
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return s.toAttendanceResponse(saved), nil
}

// EvaluateRange re-classifies every date from stored facts; stored statuses
// are never trusted.
func (s *AttendanceServiceImpl) EvaluateRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Day, error) {
	from, to = utils.NormalizeDate(from), utils.NormalizeDate(to)
	if to.Before(from) {
		return nil, attendance.ErrInvalidDateRange
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	policies := make(map[string]shift.Policy)
	policyFor := func(id string) (shift.Policy, error) {
		if id == "" {
			return shift.Policy{}, nil
		}
		if p, ok := policies[id]; ok {
			return p, nil
		}
		p, err := s.shiftRepo.GetByID(ctx, id)
		if err != nil {
			return shift.Policy{}, fmt.Errorf("failed to get shift policy: %w", err)
		}
		policies[id] = p
		return p, nil
	}

	defaultPolicyID := ""
	if emp.ShiftPolicyID != nil {
		defaultPolicyID = *emp.ShiftPolicyID
	}

	records, err := s.attendanceRepo.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	byDate := make(map[string]attendance.Record, len(records))
	for _, r := range records {
		byDate[utils.FormatDate(r.Date)] = r
	}

	contexts, err := s.dayContexts(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	days := make([]attendance.Day, 0, len(contexts))
	for _, dc := range contexts {
		day := attendance.Day{DayContext: dc}
		policyID := defaultPolicyID
		if rec, ok := byDate[utils.FormatDate(dc.Date)]; ok {
			rec := rec
			day.Record = &rec
			if rec.ShiftPolicyID != "" {
				policyID = rec.ShiftPolicyID
			}
		}
		policy, err := policyFor(policyID)
		if err != nil {
			return nil, err
		}
		day.Status = attendance.Classify(day.Record, policy, dc)
		days = append(days, day)
	}
	return days, nil
}

func (s *AttendanceServiceImpl) GetAttendanceForRange(ctx context.Context, employeeID string, query attendance.RangeQuery) (attendance.AttendanceRangeResponse, error) {
	if err := query.Validate(); err != nil {
		return attendance.AttendanceRangeResponse{}, err
	}
	from, _ := utils.ParseDate(query.From)
	to, _ := utils.ParseDate(query.To)

	days, err := s.EvaluateRange(ctx, employeeID, from, to)
	if err != nil {
		return attendance.AttendanceRangeResponse{}, err
	}

	resp := attendance.AttendanceRangeResponse{
		EmployeeID: employeeID,
		From:       utils.FormatDate(from),
		To:         utils.FormatDate(to),
		Days:       make([]attendance.DayResponse, 0, len(days)),
		Summary:    attendance.Summarize(days),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, s.toDayResponse(d))
	}
	return resp, nil
}

// CloseDay settles a finished date: existing records get their classified
// status persisted, and active employees without a record get a placeholder
// so absences are visible to reporting. Open records are left untouched.
func (s *AttendanceServiceImpl) CloseDay(ctx context.Context, date time.Time) (int, error) {
	date = utils.NormalizeDate(date)

	emps, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list employees: %w", err)
	}

	written := 0
	for _, emp := range emps {
		changed, err := s.closeEmployeeDay(ctx, emp, date)
		if errors.Is(err, payroll.ErrPeriodLocked) {
			slog.Info("day close skipped, payroll period locked", "date", utils.FormatDate(date))
			return written, nil
		}
		if err != nil {
			slog.Error("failed to close attendance day",
				"employee_id", emp.ID,
				"date", utils.FormatDate(date),
				"error", err)
			continue
		}
		if changed {
			written++
		}
	}
	return written, nil
}

func (s *AttendanceServiceImpl) closeEmployeeDay(ctx context.Context, emp employee.Employee, date time.Time) (bool, error) {
	unlock, err := s.locker.Lock(ctx, lock.EmployeeDayKey(emp.ID, utils.FormatDate(date)))
	if err != nil {
		return false, fmt.Errorf("failed to acquire attendance lock: %w", err)
	}
	defer unlock()

	changed := false
	err = s.gate.Within(ctx, []time.Time{date}, func(ctx context.Context) error {
		days, err := s.EvaluateRange(ctx, emp.ID, date, date)
		if err != nil {
			return err
		}
		day := days[0]

		if day.Record == nil {
			policyID := ""
			if emp.ShiftPolicyID != nil {
				policyID = *emp.ShiftPolicyID
			}
			if _, err := s.attendanceRepo.Create(ctx, attendance.Record{
				EmployeeID:    emp.ID,
				ShiftPolicyID: policyID,
				Date:          date,
				Status:        day.Status,
			}); err != nil {
				return fmt.Errorf("failed to create attendance placeholder: %w", err)
			}
			changed = true
			return nil
		}

		rec := *day.Record
		if rec.IsOpen() || rec.Status == day.Status {
			return nil
		}
		rec.Status = day.Status
		if err := s.attendanceRepo.Update(ctx, rec); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		changed = true
		return nil
	})
	return changed, err
}

// dayContexts resolves calendar and approved-leave facts for [from, to].
func (s *AttendanceServiceImpl) dayContexts(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.DayContext, error) {
	cal, err := s.calendarService.Load(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}

	approved, err := s.leaveRequestRepo.ListApprovedInRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	paid := make(map[string]bool)
	for _, req := range approved {
		if _, ok := paid[req.LeaveTypeID]; ok {
			continue
		}
		lt, err := s.leaveTypeRepo.GetByID(ctx, req.LeaveTypeID)
		if err != nil {
			return nil, fmt.Errorf("failed to get leave type: %w", err)
		}
		paid[lt.ID] = lt.IsPaid
	}

	var contexts []attendance.DayContext
	utils.EachDay(from, to, func(d time.Time) {
		dc := attendance.DayContext{
			Date:    d,
			WeekOff: cal.IsWeekOff(d),
		}
		if h, ok := cal.Holiday(d); ok {
			dc.IsHoliday = true
			dc.HolidayName = h.Name
		}
		for _, req := range approved {
			if req.Covers(d) {
				dc.Leave = &attendance.LeaveRef{
					RequestID:   req.ID,
					LeaveTypeID: req.LeaveTypeID,
					IsPaid:      paid[req.LeaveTypeID],
				}
				break
			}
		}
		contexts = append(contexts, dc)
	})
	return contexts, nil
}

func (s *AttendanceServiceImpl) toAttendanceResponse(r attendance.Record) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		ShiftPolicyID:     r.ShiftPolicyID,
		Date:              utils.FormatDate(r.Date),
		IsLate:            r.IsLate,
		LateMinutes:       r.LateMinutes,
		TotalBreakMinutes: r.TotalBreakMinutes,
		WorkedMinutes:     r.WorkedMinutes,
		OvertimeMinutes:   r.OvertimeMinutes,
		Status:            string(r.Status),
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         r.UpdatedAt.Format(time.RFC3339),
	}
	if r.CheckIn != nil {
		in := r.CheckIn.In(s.loc).Format(time.RFC3339)
		resp.CheckIn = &in
	}
	if r.CheckOut != nil {
		out := r.CheckOut.In(s.loc).Format(time.RFC3339)
		resp.CheckOut = &out
	}
	return resp
}

func (s *AttendanceServiceImpl) toDayResponse(d attendance.Day) attendance.DayResponse {
	resp := attendance.DayResponse{
		Date:         utils.FormatDate(d.Date),
		Weekday:      d.Date.Weekday().String(),
		Status:       string(d.Status),
		IsWorkingDay: d.IsWorkingDay(),
	}
	if d.IsHoliday {
		name := d.HolidayName
		resp.HolidayName = &name
	}
	if d.Leave != nil {
		id, isPaid := d.Leave.RequestID, d.Leave.IsPaid
		resp.LeaveRequestID = &id
		resp.LeaveIsPaid = &isPaid
	}
	if d.Record != nil {
		rec := s.toAttendanceResponse(*d.Record)
		resp.Record = &rec
	}
	return resp
}
