package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
)

type shiftPolicyRepository struct {
	s *Store
}

func NewShiftPolicyRepository(s *Store) shift.ShiftPolicyRepository {
	return &shiftPolicyRepository{s: s}
}

func (r *shiftPolicyRepository) Create(_ context.Context, policy shift.Policy) (shift.Policy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if policy.ID == "" {
		policy.ID = newID()
	}
	policy.CreatedAt = now()
	policy.UpdatedAt = policy.CreatedAt
	r.s.shifts[policy.ID] = policy
	return policy, nil
}

func (r *shiftPolicyRepository) Update(_ context.Context, policy shift.Policy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.shifts[policy.ID]
	if !ok {
		return shift.ErrShiftPolicyNotFound
	}
	policy.CreatedAt = existing.CreatedAt
	policy.UpdatedAt = now()
	r.s.shifts[policy.ID] = policy
	return nil
}

func (r *shiftPolicyRepository) GetByID(_ context.Context, id string) (shift.Policy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	policy, ok := r.s.shifts[id]
	if !ok {
		return shift.Policy{}, shift.ErrShiftPolicyNotFound
	}
	return policy, nil
}

func (r *shiftPolicyRepository) List(_ context.Context) ([]shift.Policy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	policies := make([]shift.Policy, 0, len(r.s.shifts))
	for _, p := range r.s.shifts {
		policies = append(policies, p)
	}
	sort.Slice(policies, func(i, j int) bool { return policies[i].Name < policies[j].Name })
	return policies, nil
}
