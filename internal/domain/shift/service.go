package shift

import "context"

type ShiftPolicyService interface {
	Create(ctx context.Context, req CreateShiftPolicyRequest) (ShiftPolicyResponse, error)
	Update(ctx context.Context, req UpdateShiftPolicyRequest) (ShiftPolicyResponse, error)
	Get(ctx context.Context, id string) (ShiftPolicyResponse, error)
	List(ctx context.Context) ([]ShiftPolicyResponse, error)
}
