package payroll

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/export"
	"github.com/shopspring/decimal"
)

// PayslipPDF renders one employee's payslip; returns the document and its file name.
func (s *PayrollServiceImpl) PayslipPDF(ctx context.Context, batchID, employeeID string) (*bytes.Buffer, string, error) {
	batch, err := s.payrollRepo.GetBatchByID(ctx, batchID)
	if err != nil {
		return nil, "", err
	}
	slip, err := s.payrollRepo.GetPayslip(ctx, batchID, employeeID)
	if err != nil {
		return nil, "", err
	}

	doc := export.PayslipDocument{
		Organization: s.opts.OrganizationName,
		Period:       batch.Period,
		EmployeeID:   slip.EmployeeID,
		EmployeeName: slip.EmployeeName,
		Earnings: append([]export.Line{
			{Label: "Basic", Amount: slip.Basic},
			{Label: "HRA", Amount: slip.HRA},
			{Label: "Conveyance", Amount: slip.Conveyance},
			{Label: "Medical", Amount: slip.Medical},
			{Label: "Special Allowance", Amount: slip.SpecialAllowance},
			{Label: "Service Charges", Amount: slip.ServiceCharges},
		}, export.DetailLines(slip.AllowancesDetail)...),
		Deductions: append([]export.Line{
			{Label: "Provident Fund", Amount: slip.PF},
		}, export.DetailLines(slip.DeductionsDetail)...),
		GrossSalary: slip.GrossSalary,
		NetPay:      slip.NetPay,
		Attendance: []export.Line{
			{Label: "Working Days", Amount: decimal.NewFromInt(int64(slip.WorkingDays))},
			{Label: "Present Days", Amount: decimal.NewFromInt(int64(slip.PresentDays))},
			{Label: "Paid Leave Days", Amount: decimal.NewFromInt(int64(slip.PaidLeaveDays))},
			{Label: "Unpaid Leave Days", Amount: decimal.NewFromInt(int64(slip.UnpaidLeaveDays))},
			{Label: "Absent Days", Amount: decimal.NewFromInt(int64(slip.AbsentDays))},
		},
	}

	buf, err := export.PayslipPDF(doc)
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("payslip_%s_%s.pdf", batch.Period, slip.EmployeeID), nil
}

// RegisterXLSX renders the batch as a payroll register spreadsheet.
func (s *PayrollServiceImpl) RegisterXLSX(ctx context.Context, batchID string) (*bytes.Buffer, string, error) {
	batch, err := s.payrollRepo.GetBatchByID(ctx, batchID)
	if err != nil {
		return nil, "", err
	}
	payslips, err := s.payrollRepo.ListPayslips(ctx, batchID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list payslips: %w", err)
	}

	table := export.Table{
		Sheet: "Register",
		Title: fmt.Sprintf("%s payroll register %s (%s)", s.opts.OrganizationName, batch.Period, batch.Status),
		Headers: []string{
			"Employee ID", "Name", "Basic", "HRA", "Conveyance", "Medical",
			"Special Allowance", "Service Charges", "Extra Allowances", "Gross",
			"PF", "Extra Deductions", "Net Pay", "Present Days", "Unpaid Leave Days",
		},
	}
	for _, p := range payslips {
		table.Rows = append(table.Rows, []interface{}{
			p.EmployeeID, p.EmployeeName,
			p.Basic.InexactFloat64(), p.HRA.InexactFloat64(), p.Conveyance.InexactFloat64(),
			p.Medical.InexactFloat64(), p.SpecialAllowance.InexactFloat64(), p.ServiceCharges.InexactFloat64(),
			p.ExtraAllowances.InexactFloat64(), p.GrossSalary.InexactFloat64(),
			p.PF.InexactFloat64(), p.ExtraDeductions.InexactFloat64(), p.NetPay.InexactFloat64(),
			p.PresentDays, p.UnpaidLeaveDays,
		})
	}

	buf, err := export.XLSX(table)
	if err != nil {
		return nil, "", err
	}
	return buf, fmt.Sprintf("payroll_register_%s.xlsx", batch.Period), nil
}

var _ payroll.PayrollService = (*PayrollServiceImpl)(nil)
