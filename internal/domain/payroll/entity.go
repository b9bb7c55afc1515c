package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings - organization payroll configuration. Component percentages are
// applied to the employee's monthly base salary.
type Settings struct {
	ID                      string
	BasicPercent            decimal.Decimal
	HRAPercent              decimal.Decimal
	ConveyancePercent       decimal.Decimal
	MedicalPercent          decimal.Decimal
	SpecialAllowancePercent decimal.Decimal
	ServiceChargePercent    decimal.Decimal
	WorkingDays             int
	PFRate                  decimal.Decimal
	OvertimeEnabled         bool
	OvertimePayPerMinute    decimal.Decimal
	LateDeductionEnabled    bool
	LateDeductionPerMinute  decimal.Decimal
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultSettings mirrors the classic Indian CTC split with 12% EPF.
func DefaultSettings() Settings {
	return Settings{
		BasicPercent:            decimal.NewFromInt(50),
		HRAPercent:              decimal.NewFromInt(20),
		ConveyancePercent:       decimal.NewFromInt(5),
		MedicalPercent:          decimal.NewFromInt(5),
		SpecialAllowancePercent: decimal.NewFromInt(15),
		ServiceChargePercent:    decimal.NewFromInt(5),
		WorkingDays:             30,
		PFRate:                  decimal.RequireFromString("0.12"),
		OvertimeEnabled:         false,
		OvertimePayPerMinute:    decimal.Zero,
		LateDeductionEnabled:    false,
		LateDeductionPerMinute:  decimal.Zero,
	}
}

func (s Settings) TotalPercent() decimal.Decimal {
	return s.BasicPercent.
		Add(s.HRAPercent).
		Add(s.ConveyancePercent).
		Add(s.MedicalPercent).
		Add(s.SpecialAllowancePercent).
		Add(s.ServiceChargePercent)
}

// ComponentType enum
type ComponentType string

const (
	ComponentTypeAllowance ComponentType = "allowance"
	ComponentTypeDeduction ComponentType = "deduction"
)

var ComponentTypeValues = []string{
	string(ComponentTypeAllowance),
	string(ComponentTypeDeduction),
}

// Component - fixed monthly amount applied to every payslip
type Component struct {
	ID        string
	Name      string
	Type      ComponentType
	Amount    decimal.Decimal
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaxSlab - income tax percent for monthly salaries within [SalaryFrom, SalaryTo]
type TaxSlab struct {
	ID         string
	SalaryFrom decimal.Decimal
	SalaryTo   decimal.Decimal
	Percent    decimal.Decimal
	CreatedAt  time.Time
}

func (t TaxSlab) Matches(salary decimal.Decimal) bool {
	return salary.GreaterThanOrEqual(t.SalaryFrom) && salary.LessThanOrEqual(t.SalaryTo)
}

// Adjustment - manually entered extra allowance or deduction for one employee and period
type Adjustment struct {
	ID         string
	EmployeeID string
	Period     string
	Type       ComponentType
	Label      string
	Amount     decimal.Decimal
	CreatedAt  time.Time
}

type AdjustmentFilter struct {
	EmployeeID *string
	Period     *string
}

// BatchStatus enum
type BatchStatus string

const (
	BatchStatusDraft  BatchStatus = "Draft"
	BatchStatusLocked BatchStatus = "Locked"
)

// Batch - payslips of one period; immutable once Locked
type Batch struct {
	ID          string
	Period      string
	Status      BatchStatus
	GeneratedAt time.Time
	LockedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (b Batch) IsLocked() bool {
	return b.Status == BatchStatusLocked
}

// Payslip - computed pay of one employee inside a batch
type Payslip struct {
	ID               string
	BatchID          string
	EmployeeID       string
	EmployeeName     string
	Basic            decimal.Decimal
	HRA              decimal.Decimal
	Conveyance       decimal.Decimal
	Medical          decimal.Decimal
	SpecialAllowance decimal.Decimal
	ServiceCharges   decimal.Decimal
	ExtraAllowances  decimal.Decimal
	PF               decimal.Decimal
	ExtraDeductions  decimal.Decimal
	GrossSalary      decimal.Decimal
	NetPay           decimal.Decimal
	AllowancesDetail map[string]decimal.Decimal
	DeductionsDetail map[string]decimal.Decimal
	WorkingDays      int
	PresentDays      int
	PaidLeaveDays    int
	UnpaidLeaveDays  int
	AbsentDays       int
	WorkedMinutes    int
	OvertimeMinutes  int
	LateMinutes      int
	CreatedAt        time.Time
}

// Totals recomputes gross and net from the component fields.
func (p *Payslip) Totals() {
	p.GrossSalary = p.Basic.
		Add(p.HRA).
		Add(p.Conveyance).
		Add(p.Medical).
		Add(p.SpecialAllowance).
		Add(p.ServiceCharges).
		Add(p.ExtraAllowances)
	p.NetPay = p.GrossSalary.Sub(p.PF).Sub(p.ExtraDeductions)
}
