package payroll

import (
	"strings"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SETTINGS DTOs ==========

type UpdateSettingsRequest struct {
	BasicPercent            *decimal.Decimal `json:"basic_percent,omitempty"`
	HRAPercent              *decimal.Decimal `json:"hra_percent,omitempty"`
	ConveyancePercent       *decimal.Decimal `json:"conveyance_percent,omitempty"`
	MedicalPercent          *decimal.Decimal `json:"medical_percent,omitempty"`
	SpecialAllowancePercent *decimal.Decimal `json:"special_allowance_percent,omitempty"`
	ServiceChargePercent    *decimal.Decimal `json:"service_charge_percent,omitempty"`
	WorkingDays             *int             `json:"working_days,omitempty"`
	PFRate                  *decimal.Decimal `json:"pf_rate,omitempty"`
	OvertimeEnabled         *bool            `json:"overtime_enabled,omitempty"`
	OvertimePayPerMinute    *decimal.Decimal `json:"overtime_pay_per_minute,omitempty"`
	LateDeductionEnabled    *bool            `json:"late_deduction_enabled,omitempty"`
	LateDeductionPerMinute  *decimal.Decimal `json:"late_deduction_per_minute,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	percents := map[string]*decimal.Decimal{
		"basic_percent":             r.BasicPercent,
		"hra_percent":               r.HRAPercent,
		"conveyance_percent":        r.ConveyancePercent,
		"medical_percent":           r.MedicalPercent,
		"special_allowance_percent": r.SpecialAllowancePercent,
		"service_charge_percent":    r.ServiceChargePercent,
		"overtime_pay_per_minute":   r.OvertimePayPerMinute,
		"late_deduction_per_minute": r.LateDeductionPerMinute,
	}
	for field, v := range percents {
		if v != nil && v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}
	if r.WorkingDays != nil && (*r.WorkingDays < 1 || *r.WorkingDays > 31) {
		errs = append(errs, validator.ValidationError{Field: "working_days", Message: "must be between 1 and 31"})
	}
	if r.PFRate != nil && (r.PFRate.IsNegative() || r.PFRate.GreaterThan(decimal.NewFromInt(1))) {
		errs = append(errs, validator.ValidationError{Field: "pf_rate", Message: "must be between 0 and 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SettingsResponse struct {
	BasicPercent            decimal.Decimal `json:"basic_percent"`
	HRAPercent              decimal.Decimal `json:"hra_percent"`
	ConveyancePercent       decimal.Decimal `json:"conveyance_percent"`
	MedicalPercent          decimal.Decimal `json:"medical_percent"`
	SpecialAllowancePercent decimal.Decimal `json:"special_allowance_percent"`
	ServiceChargePercent    decimal.Decimal `json:"service_charge_percent"`
	WorkingDays             int             `json:"working_days"`
	PFRate                  decimal.Decimal `json:"pf_rate"`
	OvertimeEnabled         bool            `json:"overtime_enabled"`
	OvertimePayPerMinute    decimal.Decimal `json:"overtime_pay_per_minute"`
	LateDeductionEnabled    bool            `json:"late_deduction_enabled"`
	LateDeductionPerMinute  decimal.Decimal `json:"late_deduction_per_minute"`
	UnpaidLeavePolicy       string          `json:"unpaid_leave_policy"`
}

// ========== COMPONENT DTOs ==========

type CreateComponentRequest struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	IsActive *bool           `json:"is_active"`
}

func (r *CreateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if !validator.IsInSlice(r.Type, ComponentTypeValues) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be one of: " + strings.Join(ComponentTypeValues, ", ")})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ComponentResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	IsActive bool            `json:"is_active"`
}

// ========== TAX SLAB DTOs ==========

type CreateTaxSlabRequest struct {
	SalaryFrom decimal.Decimal `json:"salary_from"`
	SalaryTo   decimal.Decimal `json:"salary_to"`
	Percent    decimal.Decimal `json:"percent"`
}

func (r *CreateTaxSlabRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.SalaryFrom.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "salary_from", Message: "must be non-negative"})
	}
	if r.SalaryTo.LessThan(r.SalaryFrom) {
		errs = append(errs, validator.ValidationError{Field: "salary_to", Message: "must not be less than salary_from"})
	}
	if r.Percent.IsNegative() || r.Percent.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, validator.ValidationError{Field: "percent", Message: "must be between 0 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TaxSlabResponse struct {
	ID         string          `json:"id"`
	SalaryFrom decimal.Decimal `json:"salary_from"`
	SalaryTo   decimal.Decimal `json:"salary_to"`
	Percent    decimal.Decimal `json:"percent"`
}

// ========== ADJUSTMENT DTOs ==========

type CreateAdjustmentRequest struct {
	EmployeeID string          `json:"employee_id"`
	Period     string          `json:"period"`
	Type       string          `json:"type"`
	Label      string          `json:"label"`
	Amount     decimal.Decimal `json:"amount"`
}

func (r *CreateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !validator.IsValidPeriod(r.Period) {
		errs = append(errs, validator.ValidationError{Field: "period", Message: "period must be in YYYY-MM format"})
	}
	if !validator.IsInSlice(r.Type, ComponentTypeValues) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be one of: " + strings.Join(ComponentTypeValues, ", ")})
	}
	if validator.IsEmpty(r.Label) {
		errs = append(errs, validator.ValidationError{Field: "label", Message: "label is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than 0"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdjustmentResponse struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	Period     string          `json:"period"`
	Type       string          `json:"type"`
	Label      string          `json:"label"`
	Amount     decimal.Decimal `json:"amount"`
}

// ========== BATCH DTOs ==========

type GeneratePayrollRequest struct {
	Period string `json:"period"`
}

func (r *GeneratePayrollRequest) Validate() error {
	if !validator.IsValidPeriod(r.Period) {
		return validator.ValidationErrors{{Field: "period", Message: "period must be in YYYY-MM format"}}
	}
	return nil
}

type BatchResponse struct {
	ID          string  `json:"id"`
	Period      string  `json:"period"`
	Status      string  `json:"status"`
	GeneratedAt string  `json:"generated_at"`
	LockedAt    *string `json:"locked_at,omitempty"`
}

type PayslipResponse struct {
	EmployeeID       string                     `json:"employee_id"`
	EmployeeName     string                     `json:"employee_name"`
	Basic            decimal.Decimal            `json:"basic"`
	HRA              decimal.Decimal            `json:"hra"`
	Conveyance       decimal.Decimal            `json:"conveyance"`
	Medical          decimal.Decimal            `json:"medical"`
	SpecialAllowance decimal.Decimal            `json:"special_allowance"`
	ServiceCharges   decimal.Decimal            `json:"service_charges"`
	ExtraAllowances  decimal.Decimal            `json:"extra_allowances"`
	PF               decimal.Decimal            `json:"pf"`
	ExtraDeductions  decimal.Decimal            `json:"extra_deductions"`
	GrossSalary      decimal.Decimal            `json:"gross_salary"`
	NetPay           decimal.Decimal            `json:"net_pay"`
	AllowancesDetail map[string]decimal.Decimal `json:"allowances_detail"`
	DeductionsDetail map[string]decimal.Decimal `json:"deductions_detail"`
	WorkingDays      int                        `json:"working_days"`
	PresentDays      int                        `json:"present_days"`
	PaidLeaveDays    int                        `json:"paid_leave_days"`
	UnpaidLeaveDays  int                        `json:"unpaid_leave_days"`
	AbsentDays       int                        `json:"absent_days"`
	WorkedMinutes    int                        `json:"worked_minutes"`
	OvertimeMinutes  int                        `json:"overtime_minutes"`
	LateMinutes      int                        `json:"late_minutes"`
}

type BatchPreviewResponse struct {
	Batch      BatchResponse     `json:"batch"`
	Payslips   []PayslipResponse `json:"payslips"`
	TotalGross decimal.Decimal   `json:"total_gross"`
	TotalNet   decimal.Decimal   `json:"total_net"`
}
