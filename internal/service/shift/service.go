package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
)

type ShiftPolicyServiceImpl struct {
	shiftRepo shift.ShiftPolicyRepository
}

func NewShiftPolicyService(shiftRepo shift.ShiftPolicyRepository) shift.ShiftPolicyService {
	return &ShiftPolicyServiceImpl{shiftRepo: shiftRepo}
}

func (s *ShiftPolicyServiceImpl) Create(ctx context.Context, req shift.CreateShiftPolicyRequest) (shift.ShiftPolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftPolicyResponse{}, err
	}

	checkIn, err := shift.ParseTimeOfDay(req.CheckIn)
	if err != nil {
		return shift.ShiftPolicyResponse{}, err
	}
	checkOut, err := shift.ParseTimeOfDay(req.CheckOut)
	if err != nil {
		return shift.ShiftPolicyResponse{}, err
	}

	policy := shift.Policy{
		Name:               req.Name,
		Type:               shift.ShiftType(req.Type),
		CheckIn:            checkIn,
		CheckOut:           checkOut,
		GracePeriodMinutes: *req.GracePeriodMinutes,
		HalfDayMinutes:     shift.DefaultHalfDayMinutes,
		FullDayMinutes:     shift.DefaultFullDayMinutes,
	}
	if req.HalfDayMinutes != nil {
		policy.HalfDayMinutes = *req.HalfDayMinutes
	}
	if req.FullDayMinutes != nil {
		policy.FullDayMinutes = *req.FullDayMinutes
	}
	if err := policy.Check(); err != nil {
		return shift.ShiftPolicyResponse{}, err
	}

	created, err := s.shiftRepo.Create(ctx, policy)
	if err != nil {
		return shift.ShiftPolicyResponse{}, fmt.Errorf("failed to create shift policy: %w", err)
	}
	return toShiftPolicyResponse(created), nil
}

func (s *ShiftPolicyServiceImpl) Update(ctx context.Context, req shift.UpdateShiftPolicyRequest) (shift.ShiftPolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftPolicyResponse{}, err
	}

	policy, err := s.shiftRepo.GetByID(ctx, req.ID)
	if err != nil {
		return shift.ShiftPolicyResponse{}, err
	}

	if req.Name != nil {
		policy.Name = *req.Name
	}
	if req.Type != nil {
		policy.Type = shift.ShiftType(*req.Type)
	}
	if req.CheckIn != nil {
		if policy.CheckIn, err = shift.ParseTimeOfDay(*req.CheckIn); err != nil {
			return shift.ShiftPolicyResponse{}, err
		}
	}
	if req.CheckOut != nil {
		if policy.CheckOut, err = shift.ParseTimeOfDay(*req.CheckOut); err != nil {
			return shift.ShiftPolicyResponse{}, err
		}
	}
	if req.GracePeriodMinutes != nil {
		policy.GracePeriodMinutes = *req.GracePeriodMinutes
	}
	if req.HalfDayMinutes != nil {
		policy.HalfDayMinutes = *req.HalfDayMinutes
	}
	if req.FullDayMinutes != nil {
		policy.FullDayMinutes = *req.FullDayMinutes
	}
	if err := policy.Check(); err != nil {
		return shift.ShiftPolicyResponse{}, err
	}

	if err := s.shiftRepo.Update(ctx, policy); err != nil {
		return shift.ShiftPolicyResponse{}, fmt.Errorf("failed to update shift policy: %w", err)
	}

	updated, err := s.shiftRepo.GetByID(ctx, policy.ID)
	if err != nil {
		return shift.ShiftPolicyResponse{}, err
	}
	return toShiftPolicyResponse(updated), nil
}

func (s *ShiftPolicyServiceImpl) Get(ctx context.Context, id string) (shift.ShiftPolicyResponse, error) {
	policy, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftPolicyResponse{}, err
	}
	return toShiftPolicyResponse(policy), nil
}

func (s *ShiftPolicyServiceImpl) List(ctx context.Context) ([]shift.ShiftPolicyResponse, error) {
	policies, err := s.shiftRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift policies: %w", err)
	}

	responses := make([]shift.ShiftPolicyResponse, 0, len(policies))
	for _, p := range policies {
		responses = append(responses, toShiftPolicyResponse(p))
	}
	return responses, nil
}

func toShiftPolicyResponse(p shift.Policy) shift.ShiftPolicyResponse {
	return shift.ShiftPolicyResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Type:               string(p.Type),
		CheckIn:            p.CheckIn.String(),
		CheckOut:           p.CheckOut.String(),
		GracePeriodMinutes: p.GracePeriodMinutes,
		HalfDayMinutes:     p.HalfDayMinutes,
		FullDayMinutes:     p.FullDayMinutes,
		CreatedAt:          p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          p.UpdatedAt.Format(time.RFC3339),
	}
}
