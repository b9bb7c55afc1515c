package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

const (
	labelOvertime      = "Overtime"
	labelIncomeTax     = "Income Tax"
	labelLateDeduction = "Late Deduction"
	labelLossOfPay     = "Loss of Pay"
)

var hundred = decimal.NewFromInt(100)

// payrollInputs is everything shared by the payslips of one period.
type payrollInputs struct {
	period      payroll.Period
	settings    payroll.Settings
	components  []payroll.Component
	taxSlabs    []payroll.TaxSlab
	adjustments map[string][]payroll.Adjustment
}

func (s *PayrollServiceImpl) computeBatch(ctx context.Context, period payroll.Period) ([]payroll.Payslip, error) {
	in, err := s.loadInputs(ctx, period)
	if err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	payslips := make([]payroll.Payslip, 0, len(employees))
	for _, emp := range employees {
		slip, err := s.computePayslip(ctx, in, emp)
		if err != nil {
			var compErr *payroll.ComputationError
			if !errors.As(err, &compErr) {
				err = &payroll.ComputationError{EmployeeID: emp.ID, Err: err}
			}
			slog.Error("payroll computation failed",
				"employee_id", emp.ID,
				"period", period.String(),
				"error", err)
			return nil, err
		}
		payslips = append(payslips, slip)
	}
	return payslips, nil
}

func (s *PayrollServiceImpl) loadInputs(ctx context.Context, period payroll.Period) (payrollInputs, error) {
	settings, err := s.settings(ctx)
	if err != nil {
		return payrollInputs{}, err
	}
	components, err := s.payrollRepo.ListComponents(ctx, true)
	if err != nil {
		return payrollInputs{}, fmt.Errorf("failed to list components: %w", err)
	}
	slabs, err := s.payrollRepo.ListTaxSlabs(ctx)
	if err != nil {
		return payrollInputs{}, fmt.Errorf("failed to list tax slabs: %w", err)
	}
	p := period.String()
	adjustments, err := s.payrollRepo.ListAdjustments(ctx, payroll.AdjustmentFilter{Period: &p})
	if err != nil {
		return payrollInputs{}, fmt.Errorf("failed to list adjustments: %w", err)
	}

	byEmployee := make(map[string][]payroll.Adjustment)
	for _, a := range adjustments {
		byEmployee[a.EmployeeID] = append(byEmployee[a.EmployeeID], a)
	}

	return payrollInputs{
		period:      period,
		settings:    settings,
		components:  components,
		taxSlabs:    slabs,
		adjustments: byEmployee,
	}, nil
}

func (s *PayrollServiceImpl) computePayslip(ctx context.Context, in payrollInputs, emp employee.Employee) (payroll.Payslip, error) {
	if emp.ShiftPolicyID == nil {
		return payroll.Payslip{}, &payroll.ComputationError{EmployeeID: emp.ID, Err: attendance.ErrNoShiftAssigned}
	}
	if !emp.BaseSalary.IsPositive() {
		return payroll.Payslip{}, &payroll.ComputationError{EmployeeID: emp.ID, Err: errors.New("base salary is not set")}
	}

	days, err := s.evaluator.EvaluateRange(ctx, emp.ID, in.period.Start(), in.period.End())
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to evaluate attendance: %w", err)
	}
	summary := attendance.Summarize(days)

	loc := s.opts.Location
	if loc == nil {
		loc = time.UTC
	}
	today := utils.DateOf(s.clock.Now(), loc)

	paidLeave, unpaidLeave, chargedAbsent := 0, 0, 0
	for _, d := range days {
		if d.Status == attendance.StatusAbsent && d.Date.Before(today) {
			chargedAbsent++
			continue
		}
		if d.Status != attendance.StatusLeave || d.Leave == nil || !d.IsWorkingDay() {
			continue
		}
		if d.Leave.IsPaid {
			paidLeave++
		} else {
			unpaidLeave++
		}
	}

	st := in.settings
	salary := emp.BaseSalary
	share := func(percent decimal.Decimal) decimal.Decimal {
		return salary.Mul(percent).Div(hundred).Round(2)
	}

	slip := payroll.Payslip{
		EmployeeID:       emp.ID,
		EmployeeName:     emp.FullName,
		Basic:            share(st.BasicPercent),
		HRA:              share(st.HRAPercent),
		Conveyance:       share(st.ConveyancePercent),
		Medical:          share(st.MedicalPercent),
		SpecialAllowance: share(st.SpecialAllowancePercent),
		ServiceCharges:   share(st.ServiceChargePercent),
		PF:               decimal.Zero,
		AllowancesDetail: make(map[string]decimal.Decimal),
		DeductionsDetail: make(map[string]decimal.Decimal),
		WorkingDays:      summary.WorkingDays,
		PresentDays:      summary.Present + summary.Late + summary.HalfDay,
		PaidLeaveDays:    paidLeave,
		UnpaidLeaveDays:  unpaidLeave,
		AbsentDays:       summary.Absent,
		WorkedMinutes:    summary.WorkedMinutes,
		OvertimeMinutes:  summary.OvertimeMinutes,
		LateMinutes:      summary.LateMinutes,
	}

	// Extra allowances
	if st.OvertimeEnabled && summary.OvertimeMinutes > 0 {
		addLine(slip.AllowancesDetail, labelOvertime, st.OvertimePayPerMinute.Mul(decimal.NewFromInt(int64(summary.OvertimeMinutes))))
	}
	for _, c := range in.components {
		if c.Type == payroll.ComponentTypeAllowance {
			addLine(slip.AllowancesDetail, c.Name, c.Amount)
		}
	}
	for _, a := range in.adjustments[emp.ID] {
		if a.Type == payroll.ComponentTypeAllowance {
			addLine(slip.AllowancesDetail, a.Label, a.Amount)
		}
	}

	// Statutory and extra deductions
	if emp.EPFEnabled {
		slip.PF = slip.Basic.Mul(st.PFRate).Round(2)
	}
	for _, slab := range in.taxSlabs {
		if slab.Matches(salary) {
			addLine(slip.DeductionsDetail, labelIncomeTax, share(slab.Percent))
			break
		}
	}
	for _, c := range in.components {
		if c.Type == payroll.ComponentTypeDeduction {
			addLine(slip.DeductionsDetail, c.Name, c.Amount)
		}
	}
	for _, a := range in.adjustments[emp.ID] {
		if a.Type == payroll.ComponentTypeDeduction {
			addLine(slip.DeductionsDetail, a.Label, a.Amount)
		}
	}
	if st.LateDeductionEnabled && summary.LateMinutes > 0 {
		addLine(slip.DeductionsDetail, labelLateDeduction, st.LateDeductionPerMinute.Mul(decimal.NewFromInt(int64(summary.LateMinutes))))
	}

	slip.ExtraAllowances = sumLines(slip.AllowancesDetail)
	slip.ExtraDeductions = sumLines(slip.DeductionsDetail)
	slip.Totals()

	// Loss of Pay is capped at what is left after every other deduction.
	lop := s.opts.UnpaidLeave.Deduct(payroll.UnpaidLeaveInput{
		EmployeeID:    emp.ID,
		BaseSalary:    salary,
		WorkingDays:   st.WorkingDays,
		UnpaidDays:    unpaidLeave,
		AbsentDays:    chargedAbsent,
		PeriodDays:    in.period.Days(),
		PeriodWorking: summary.WorkingDays,
	})
	if slip.NetPay.IsPositive() {
		addLine(slip.DeductionsDetail, labelLossOfPay, decimal.Min(lop, slip.NetPay))
		slip.ExtraDeductions = sumLines(slip.DeductionsDetail)
		slip.Totals()
	}

	if slip.NetPay.IsNegative() {
		return payroll.Payslip{}, &payroll.ComputationError{
			EmployeeID: emp.ID,
			Err:        fmt.Errorf("net pay is negative (%s)", slip.NetPay.StringFixed(2)),
		}
	}
	return slip, nil
}

// addLine accumulates positive amounts under label, rounded to cents.
func addLine(detail map[string]decimal.Decimal, label string, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	detail[label] = detail[label].Add(amount.Round(2))
}

func sumLines(detail map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range detail {
		total = total.Add(v)
	}
	return total
}
