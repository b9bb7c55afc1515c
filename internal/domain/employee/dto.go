package employee

import (
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpsertEmployeeRequest struct {
	ID            string          `json:"-"`
	FullName      string          `json:"full_name"`
	Email         string          `json:"email"`
	ShiftPolicyID *string         `json:"shift_policy_id"`
	BaseSalary    decimal.Decimal `json:"base_salary"`
	EPFEnabled    bool            `json:"epf_enabled"`
	IsActive      *bool           `json:"is_active"`
}

func (r *UpsertEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	}
	if r.Email != "" && !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is invalid",
		})
	}
	if r.ShiftPolicyID != nil && validator.IsEmpty(*r.ShiftPolicyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_policy_id",
			Message: "shift_policy_id cannot be empty",
		})
	}
	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "base_salary",
			Message: "base_salary cannot be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID            string          `json:"id"`
	FullName      string          `json:"full_name"`
	Email         string          `json:"email"`
	ShiftPolicyID *string         `json:"shift_policy_id,omitempty"`
	BaseSalary    decimal.Decimal `json:"base_salary"`
	EPFEnabled    bool            `json:"epf_enabled"`
	IsActive      bool            `json:"is_active"`
}
