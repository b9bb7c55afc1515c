package employee

import "context"

type EmployeeService interface {
	Get(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context) ([]EmployeeResponse, error)
	Upsert(ctx context.Context, req UpsertEmployeeRequest) (EmployeeResponse, error)
}
