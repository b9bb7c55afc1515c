package leave

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
)

// BalanceService keeps Used + Remaining == Allotted on every write.
// Balances are created lazily from the leave type's allotment.
type BalanceService struct {
	balanceRepo leave.LeaveBalanceRepository
}

func NewBalanceService(balanceRepo leave.LeaveBalanceRepository) *BalanceService {
	return &BalanceService{balanceRepo: balanceRepo}
}

func (b *BalanceService) Get(ctx context.Context, employeeID string, leaveType leave.LeaveType) (leave.Balance, error) {
	balance, err := b.balanceRepo.Get(ctx, employeeID, leaveType.ID)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	if balance == nil {
		return leave.NewBalance(employeeID, leaveType), nil
	}
	return *balance, nil
}

func (b *BalanceService) Consume(ctx context.Context, employeeID string, leaveType leave.LeaveType, days int) error {
	balance, err := b.Get(ctx, employeeID, leaveType)
	if err != nil {
		return err
	}
	if err := balance.Consume(days); err != nil {
		return err
	}
	if err := b.balanceRepo.Save(ctx, balance); err != nil {
		return fmt.Errorf("failed to save leave balance: %w", err)
	}
	return nil
}

func (b *BalanceService) Restore(ctx context.Context, employeeID string, leaveType leave.LeaveType, days int) error {
	balance, err := b.Get(ctx, employeeID, leaveType)
	if err != nil {
		return err
	}
	if err := balance.Restore(days); err != nil {
		return err
	}
	if err := b.balanceRepo.Save(ctx, balance); err != nil {
		return fmt.Errorf("failed to save leave balance: %w", err)
	}
	return nil
}
