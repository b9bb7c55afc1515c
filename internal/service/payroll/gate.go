package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/lock"
)

type periodGate struct {
	guard       *lock.PeriodGuard
	transactor  database.Transactor
	payrollRepo payroll.PayrollRepository
}

func NewPeriodGate(guard *lock.PeriodGuard, transactor database.Transactor, payrollRepo payroll.PayrollRepository) payroll.PeriodGate {
	return &periodGate{
		guard:       guard,
		transactor:  transactor,
		payrollRepo: payrollRepo,
	}
}

func (g *periodGate) Within(ctx context.Context, dates []time.Time, fn func(ctx context.Context) error) error {
	periods := payroll.PeriodsOf(dates...)

	release := g.guard.Shared(periods...)
	defer release()

	return g.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, period := range periods {
			batch, err := g.payrollRepo.LockBatchForShare(ctx, period)
			if err != nil {
				return fmt.Errorf("failed to read payroll batch for %s: %w", period, err)
			}
			if batch != nil && batch.IsLocked() {
				return fmt.Errorf("%w (%s)", payroll.ErrPeriodLocked, period)
			}
		}
		return fn(ctx)
	})
}
