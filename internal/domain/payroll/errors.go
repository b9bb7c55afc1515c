package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrBatchNotFound      = errors.New("payroll batch not found")
	ErrBatchAlreadyExists = errors.New("a locked payroll batch already exists for this period")
	ErrAlreadyLocked      = errors.New("payroll batch is already locked")
	ErrPeriodLocked       = fmt.Errorf("%w: records of this payroll period are immutable", ErrAlreadyLocked)
	ErrInvalidPeriod      = errors.New("invalid payroll period")
	ErrComputationFailed  = errors.New("payroll computation failed")
	ErrSettingsNotFound   = errors.New("payroll settings not found")
	ErrInvalidSettings    = errors.New("salary component percentages exceed 100")
	ErrComponentNotFound  = errors.New("payroll component not found")
	ErrTaxSlabNotFound    = errors.New("tax slab not found")
	ErrAdjustmentNotFound = errors.New("payroll adjustment not found")
	ErrPayslipNotFound    = errors.New("payslip not found")
)

// ComputationError aborts a batch because one employee's pay could not be computed.
type ComputationError struct {
	EmployeeID string
	Err        error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s for employee %s: %v", ErrComputationFailed, e.EmployeeID, e.Err)
}

func (e *ComputationError) Is(target error) bool {
	return target == ErrComputationFailed
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}
