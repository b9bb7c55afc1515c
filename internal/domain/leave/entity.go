package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/utils"
)

type LeaveType struct {
	ID            string
	Name          string
	AllottedCount int
	IsPaid        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Balance is the running allotment of one leave type for one employee.
// Used + Remaining == Allotted at all times.
type Balance struct {
	EmployeeID  string
	LeaveTypeID string
	Allotted    int
	Used        int
	Remaining   int
	UpdatedAt   time.Time
}

func NewBalance(employeeID string, leaveType LeaveType) Balance {
	return Balance{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveType.ID,
		Allotted:    leaveType.AllottedCount,
		Used:        0,
		Remaining:   leaveType.AllottedCount,
	}
}

func (b Balance) Check() error {
	if b.Used < 0 || b.Remaining < 0 || b.Used+b.Remaining != b.Allotted {
		return ErrBalanceInvariant
	}
	return nil
}

// Consume moves days from remaining to used.
func (b *Balance) Consume(days int) error {
	if days > b.Remaining {
		return ErrInsufficientBalance
	}
	b.Remaining -= days
	b.Used += days
	return b.Check()
}

// Restore moves days back from used to remaining.
func (b *Balance) Restore(days int) error {
	if days > b.Used {
		return ErrBalanceInvariant
	}
	b.Used -= days
	b.Remaining += days
	return b.Check()
}

type RequestStatus string

const (
	StatusPending   RequestStatus = "Pending"
	StatusApproved  RequestStatus = "Approved"
	StatusRejected  RequestStatus = "Rejected"
	StatusCancelled RequestStatus = "Cancelled"
)

var RequestStatusValues = []string{
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
	string(StatusCancelled),
}

// IsActive reports whether the request still blocks its date range.
func (s RequestStatus) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

type Request struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	FromDate    time.Time
	ToDate      time.Time
	Days        int
	Reason      string
	Status      RequestStatus
	DecidedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overlaps uses inclusive bounds: r.from <= to && r.to >= from.
func (r Request) Overlaps(from, to time.Time) bool {
	return !r.FromDate.After(to) && !r.ToDate.Before(from)
}

func (r Request) Covers(date time.Time) bool {
	return r.Overlaps(date, date)
}

// Dates lists every calendar date of the request.
func (r Request) Dates() []time.Time {
	var dates []time.Time
	utils.EachDay(r.FromDate, r.ToDate, func(d time.Time) {
		dates = append(dates, d)
	})
	return dates
}

type RequestFilter struct {
	EmployeeID *string
	Status     *RequestStatus
}
