package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/validator"
)

type errorClass struct {
	status  int
	code    string
	targets []error
}

// errorClasses is checked in order; the first errors.Is match wins.
var errorClasses = []errorClass{
	{http.StatusUnauthorized, "UNAUTHORIZED", []error{
		auth.ErrInvalidToken,
		auth.ErrEmployeeIDRequired,
	}},
	{http.StatusForbidden, "FORBIDDEN", []error{
		auth.ErrManagerAccessRequired,
		auth.ErrNotRequestOwner,
	}},
	{http.StatusNotFound, "NOT_FOUND", []error{
		employee.ErrEmployeeNotFound,
		shift.ErrShiftPolicyNotFound,
		breaks.ErrBreakConfigNotFound,
		calendar.ErrHolidayNotFound,
		attendance.ErrAttendanceNotFound,
		leave.ErrLeaveTypeNotFound,
		leave.ErrLeaveRequestNotFound,
		payroll.ErrBatchNotFound,
		payroll.ErrPayslipNotFound,
		payroll.ErrComponentNotFound,
		payroll.ErrTaxSlabNotFound,
		payroll.ErrAdjustmentNotFound,
	}},
	{http.StatusConflict, "CONFLICT", []error{
		attendance.ErrAlreadyCheckedIn,
		attendance.ErrNotCheckedIn,
		attendance.ErrOpenBreakPending,
		breaks.ErrBreakAlreadyActive,
		breaks.ErrNoActiveBreak,
		breaks.ErrBreakKindExists,
		calendar.ErrHolidayExists,
		leave.ErrNotPending,
		leave.ErrAlreadyTerminal,
		leave.ErrLeaveAlreadyStarted,
		leave.ErrLeaveTypeNameExists,
		payroll.ErrAlreadyLocked, // covers ErrPeriodLocked
		payroll.ErrBatchAlreadyExists,
	}},
	{http.StatusBadRequest, "BAD_REQUEST", []error{
		attendance.ErrNoShiftAssigned,
		attendance.ErrInvalidTimestamps,
		attendance.ErrInvalidDateRange,
		breaks.ErrBreakKindDisabled,
		shift.ErrInvalidThresholds,
		shift.ErrNegativeGracePeriod,
		employee.ErrEmployeeInactive,
		leave.ErrInvalidRange,
		leave.ErrOverlapsExistingLeave,
		leave.ErrInsufficientBalance,
		payroll.ErrInvalidPeriod,
		payroll.ErrInvalidSettings,
	}},
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fail(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", validationErrs.ToMap())
		return
	}

	var computationErr *payroll.ComputationError
	if errors.As(err, &computationErr) {
		slog.Error("payroll computation failed", "employee_id", computationErr.EmployeeID, "error", computationErr.Err)
		fail(w, http.StatusUnprocessableEntity, "COMPUTATION_FAILED", err.Error(), nil)
		return
	}

	for _, class := range errorClasses {
		for _, target := range class.targets {
			if errors.Is(err, target) {
				fail(w, class.status, class.code, err.Error(), nil)
				return
			}
		}
	}

	slog.Error("unhandled error", "error", err)
	fail(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An unexpected error occurred", nil)
}
