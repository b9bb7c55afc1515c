package leave

import (
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/validator"
)

type ApplyLeaveRequest struct {
	LeaveTypeID string `json:"leave_type_id"`
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
	Reason      string `json:"reason"`
}

// Validate checks formats; an inverted range is reported by the service as
// ErrInvalidRange.
func (r *ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.FromDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "from_date",
			Message: "from_date must be in YYYY-MM-DD format",
		})
	}
	if _, ok := validator.IsValidDate(r.ToDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "to_date must be in YYYY-MM-DD format",
		})
	}
	if len(r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateLeaveTypeRequest struct {
	Name          string `json:"name"`
	AllottedCount *int   `json:"allotted_count"`
	IsPaid        *bool  `json:"is_paid"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if r.AllottedCount == nil || *r.AllottedCount < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "allotted_count",
			Message: "allotted_count must be a non-negative number",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveTypeResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AllottedCount int    `json:"allotted_count"`
	IsPaid        bool   `json:"is_paid"`
}

type LeaveRequestResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	LeaveTypeID string  `json:"leave_type_id"`
	FromDate    string  `json:"from_date"`
	ToDate      string  `json:"to_date"`
	Days        int     `json:"days"`
	Reason      string  `json:"reason"`
	Status      string  `json:"status"`
	DecidedAt   *string `json:"decided_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type CancelLeaveResponse struct {
	ID string `json:"id"`
	// Deleted is true when a pending request was removed outright.
	Deleted bool   `json:"deleted"`
	Status  string `json:"status"`
}

type LeaveBalanceResponse struct {
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name"`
	IsPaid        bool   `json:"is_paid"`
	Allotted      int    `json:"allotted_count"`
	Used          int    `json:"used_count"`
	Remaining     int    `json:"remaining_count"`
}
