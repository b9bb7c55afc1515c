package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the engine's payroll profile of a person managed by the HR system.
type Employee struct {
	ID            string
	FullName      string
	Email         string
	ShiftPolicyID *string
	// BaseSalary is the monthly salary that salary components are split from.
	BaseSalary decimal.Decimal
	EPFEnabled bool
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
