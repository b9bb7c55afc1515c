package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	// Upsert creates the profile or replaces the mutable fields of an existing one.
	Upsert(ctx context.Context, employee Employee) (Employee, error)
}
