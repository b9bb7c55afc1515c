package employee

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	shiftRepo    shift.ShiftPolicyRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, shiftRepo shift.ShiftPolicyRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		shiftRepo:    shiftRepo,
	}
}

func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return toEmployeeResponse(emp), nil
}

func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	emps, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(emps))
	for _, e := range emps {
		responses = append(responses, toEmployeeResponse(e))
	}
	return responses, nil
}

// Upsert stores the payroll profile of an employee managed by the HR system.
func (s *EmployeeServiceImpl) Upsert(ctx context.Context, req employee.UpsertEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.ShiftPolicyID != nil {
		if _, err := s.shiftRepo.GetByID(ctx, *req.ShiftPolicyID); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	saved, err := s.employeeRepo.Upsert(ctx, employee.Employee{
		ID:            req.ID,
		FullName:      req.FullName,
		Email:         req.Email,
		ShiftPolicyID: req.ShiftPolicyID,
		BaseSalary:    req.BaseSalary,
		EPFEnabled:    req.EPFEnabled,
		IsActive:      isActive,
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to save employee: %w", err)
	}
	return toEmployeeResponse(saved), nil
}

func toEmployeeResponse(e employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:            e.ID,
		FullName:      e.FullName,
		Email:         e.Email,
		ShiftPolicyID: e.ShiftPolicyID,
		BaseSalary:    e.BaseSalary,
		EPFEnabled:    e.EPFEnabled,
		IsActive:      e.IsActive,
	}
}
