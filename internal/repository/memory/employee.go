package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
)

type employeeRepository struct {
	s *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (r *employeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	emp, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *employeeRepository) List(_ context.Context) ([]employee.Employee, error) {
	return r.list(false), nil
}

func (r *employeeRepository) ListActive(_ context.Context) ([]employee.Employee, error) {
	return r.list(true), nil
}

func (r *employeeRepository) list(activeOnly bool) []employee.Employee {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	emps := make([]employee.Employee, 0, len(r.s.employees))
	for _, e := range r.s.employees {
		if activeOnly && !e.IsActive {
			continue
		}
		emps = append(emps, e)
	}
	sort.Slice(emps, func(i, j int) bool { return emps[i].ID < emps[j].ID })
	return emps
}

func (r *employeeRepository) Upsert(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ts := now()
	if existing, ok := r.s.employees[emp.ID]; ok {
		emp.CreatedAt = existing.CreatedAt
	} else {
		emp.CreatedAt = ts
	}
	emp.UpdatedAt = ts
	r.s.employees[emp.ID] = emp
	return emp, nil
}
