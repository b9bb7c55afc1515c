package leave

import "errors"

var (
	ErrInvalidRange          = errors.New("leave end date is before start date")
	ErrOverlapsExistingLeave = errors.New("leave overlaps an existing pending or approved request")
	ErrNotPending            = errors.New("leave request is not pending")
	ErrAlreadyTerminal       = errors.New("leave request is already rejected or cancelled")
	ErrLeaveAlreadyStarted   = errors.New("approved leave cannot be cancelled once it has started")
	ErrInsufficientBalance   = errors.New("insufficient leave balance")
	ErrBalanceInvariant      = errors.New("leave balance is inconsistent")
	ErrLeaveTypeNotFound     = errors.New("leave type not found")
	ErrLeaveTypeNameExists   = errors.New("leave type name already exists")
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
)
