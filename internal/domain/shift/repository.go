package shift

import "context"

type ShiftPolicyRepository interface {
	Create(ctx context.Context, policy Policy) (Policy, error)
	Update(ctx context.Context, policy Policy) error
	GetByID(ctx context.Context, id string) (Policy, error)
	List(ctx context.Context) ([]Policy, error)
}
