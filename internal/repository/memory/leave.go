package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
)

// LeaveRepository serves leave types, balances and requests.
type LeaveRepository struct {
	s *Store
}

func NewLeaveRepository(s *Store) *LeaveRepository {
	return &LeaveRepository{s: s}
}

// LeaveTypes, Balances and Requests expose the repository under each
// interface; method names overlap between them.
func (r *LeaveRepository) LeaveTypes() leave.LeaveTypeRepository {
	return leaveTypeRepository{r}
}

func (r *LeaveRepository) Balances() leave.LeaveBalanceRepository {
	return leaveBalanceRepository{r}
}

func (r *LeaveRepository) Requests() leave.LeaveRequestRepository {
	return leaveRequestRepository{r}
}

// ---------- leave types ----------

type leaveTypeRepository struct{ *LeaveRepository }

func (r leaveTypeRepository) Create(_ context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.leaveTypes {
		if strings.EqualFold(t.Name, leaveType.Name) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
	}
	if leaveType.ID == "" {
		leaveType.ID = newID()
	}
	leaveType.CreatedAt = now()
	leaveType.UpdatedAt = leaveType.CreatedAt
	r.s.leaveTypes[leaveType.ID] = leaveType
	return leaveType, nil
}

func (r leaveTypeRepository) GetByID(_ context.Context, id string) (leave.LeaveType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.leaveTypes[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (r leaveTypeRepository) List(_ context.Context) ([]leave.LeaveType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	types := make([]leave.LeaveType, 0, len(r.s.leaveTypes))
	for _, t := range r.s.leaveTypes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, nil
}

// ---------- balances ----------

type leaveBalanceRepository struct{ *LeaveRepository }

func (r leaveBalanceRepository) Get(_ context.Context, employeeID, leaveTypeID string) (*leave.Balance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.balances[balanceKey{EmployeeID: employeeID, LeaveTypeID: leaveTypeID}]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r leaveBalanceRepository) Save(_ context.Context, balance leave.Balance) error {
	if err := balance.Check(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	balance.UpdatedAt = now()
	r.s.balances[balanceKey{EmployeeID: balance.EmployeeID, LeaveTypeID: balance.LeaveTypeID}] = balance
	return nil
}

func (r leaveBalanceRepository) ListByEmployee(_ context.Context, employeeID string) ([]leave.Balance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var balances []leave.Balance
	for k, b := range r.s.balances {
		if k.EmployeeID == employeeID {
			balances = append(balances, b)
		}
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].LeaveTypeID < balances[j].LeaveTypeID })
	return balances, nil
}

// ---------- requests ----------

type leaveRequestRepository struct{ *LeaveRepository }

func (r leaveRequestRepository) Create(_ context.Context, request leave.Request) (leave.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if request.ID == "" {
		request.ID = newID()
	}
	request.CreatedAt = now()
	request.UpdatedAt = request.CreatedAt
	r.s.requests[request.ID] = request
	return request, nil
}

func (r leaveRequestRepository) GetByID(_ context.Context, id string) (leave.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r leaveRequestRepository) Update(_ context.Context, request leave.Request) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.requests[request.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	request.CreatedAt = existing.CreatedAt
	request.UpdatedAt = now()
	r.s.requests[request.ID] = request
	return nil
}

func (r leaveRequestRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.requests[id]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	delete(r.s.requests, id)
	return nil
}

func (r leaveRequestRepository) FindOverlapping(_ context.Context, employeeID string, from, to time.Time) ([]leave.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []leave.Request
	for _, req := range r.s.requests {
		if req.EmployeeID == employeeID && req.Status.IsActive() && req.Overlaps(from, to) {
			out = append(out, req)
		}
	}
	sortRequests(out)
	return out, nil
}

func (r leaveRequestRepository) ListApprovedInRange(_ context.Context, employeeID string, from, to time.Time) ([]leave.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []leave.Request
	for _, req := range r.s.requests {
		if req.EmployeeID == employeeID && req.Status == leave.StatusApproved && req.Overlaps(from, to) {
			out = append(out, req)
		}
	}
	sortRequests(out)
	return out, nil
}

func (r leaveRequestRepository) List(_ context.Context, filter leave.RequestFilter) ([]leave.Request, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []leave.Request
	for _, req := range r.s.requests {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		out = append(out, req)
	}
	sortRequests(out)
	return out, nil
}

func sortRequests(reqs []leave.Request) {
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].FromDate.Equal(reqs[j].FromDate) {
			return reqs[i].ID < reqs[j].ID
		}
		return reqs[i].FromDate.Before(reqs[j].FromDate)
	})
}
