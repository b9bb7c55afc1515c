// Package memory keeps every repository in process memory. It backs the
// STORAGE_DRIVER=memory mode and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	"github.com/google/uuid"
)

// =============================================================================
// STORE - shared state behind all memory repositories
// =============================================================================

type Store struct {
	mu sync.RWMutex

	shifts       map[string]shift.Policy
	workWeek     *calendar.WorkWeek
	holidays     map[string]calendar.Holiday
	breakConfigs map[string]breaks.Config
	breakEvents  map[string]breaks.Event
	records      map[string]attendance.Record
	leaveTypes   map[string]leave.LeaveType
	balances     map[balanceKey]leave.Balance
	requests     map[string]leave.Request
	employees    map[string]employee.Employee
	settings     *payroll.Settings
	components   map[string]payroll.Component
	taxSlabs     map[string]payroll.TaxSlab
	adjustments  map[string]payroll.Adjustment
	batches      map[string]payroll.Batch
	payslips     map[string][]payroll.Payslip
}

type balanceKey struct {
	EmployeeID  string
	LeaveTypeID string
}

func NewStore() *Store {
	return &Store{
		shifts:       make(map[string]shift.Policy),
		holidays:     make(map[string]calendar.Holiday),
		breakConfigs: make(map[string]breaks.Config),
		breakEvents:  make(map[string]breaks.Event),
		records:      make(map[string]attendance.Record),
		leaveTypes:   make(map[string]leave.LeaveType),
		balances:     make(map[balanceKey]leave.Balance),
		requests:     make(map[string]leave.Request),
		employees:    make(map[string]employee.Employee),
		components:   make(map[string]payroll.Component),
		taxSlabs:     make(map[string]payroll.TaxSlab),
		adjustments:  make(map[string]payroll.Adjustment),
		batches:      make(map[string]payroll.Batch),
		payslips:     make(map[string][]payroll.Payslip),
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func now() time.Time {
	return time.Now().UTC()
}

// =============================================================================
// TRANSACTOR
// =============================================================================

// Transactor runs fn directly. Each repository call is atomic on its own;
// multi-step writes are serialized by the service-level locks, and writes
// that must land together (payslip replacement) are single calls.
type Transactor struct{}

func NewTransactor() Transactor {
	return Transactor{}
}

func (Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
