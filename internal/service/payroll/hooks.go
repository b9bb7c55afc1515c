package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

const (
	UnpaidLeavePerDay = "per_day"
	UnpaidLeaveNone   = "none"
)

// NewUnpaidLeaveDeduction selects a built-in policy by name.
func NewUnpaidLeaveDeduction(name string) (payroll.UnpaidLeaveDeduction, error) {
	switch name {
	case "", UnpaidLeavePerDay:
		return PerDayDeduction{}, nil
	case UnpaidLeaveNone:
		return NoDeduction{}, nil
	}
	return nil, fmt.Errorf("unknown unpaid leave policy %q", name)
}

// PerDayDeduction charges salary / working_days for each unpaid leave day
// and each absent day, never more than the whole salary.
type PerDayDeduction struct{}

func (PerDayDeduction) Name() string { return UnpaidLeavePerDay }

func (PerDayDeduction) Deduct(in payroll.UnpaidLeaveInput) decimal.Decimal {
	days := in.UnpaidDays + in.AbsentDays
	if days <= 0 || in.WorkingDays <= 0 {
		return decimal.Zero
	}
	if days >= in.WorkingDays {
		return in.BaseSalary
	}
	perDay := in.BaseSalary.Div(decimal.NewFromInt(int64(in.WorkingDays)))
	return perDay.Mul(decimal.NewFromInt(int64(days))).Round(2)
}

// NoDeduction leaves unpaid leave and absences unpriced.
type NoDeduction struct{}

func (NoDeduction) Name() string { return UnpaidLeaveNone }

func (NoDeduction) Deduct(payroll.UnpaidLeaveInput) decimal.Decimal {
	return decimal.Zero
}
