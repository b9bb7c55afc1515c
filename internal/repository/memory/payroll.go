package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	s *Store
}

func NewPayrollRepository(s *Store) payroll.PayrollRepository {
	return &payrollRepository{s: s}
}

// ========== SETTINGS ==========

func (r *payrollRepository) GetSettings(_ context.Context) (payroll.Settings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.s.settings == nil {
		return payroll.Settings{}, payroll.ErrSettingsNotFound
	}
	return *r.s.settings, nil
}

func (r *payrollRepository) UpsertSettings(_ context.Context, settings payroll.Settings) (payroll.Settings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ts := now()
	if r.s.settings == nil {
		settings.ID = newID()
		settings.CreatedAt = ts
	} else {
		settings.ID = r.s.settings.ID
		settings.CreatedAt = r.s.settings.CreatedAt
	}
	settings.UpdatedAt = ts
	r.s.settings = &settings
	return settings, nil
}

// ========== COMPONENTS ==========

func (r *payrollRepository) CreateComponent(_ context.Context, component payroll.Component) (payroll.Component, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	component.ID = newID()
	component.CreatedAt = now()
	component.UpdatedAt = component.CreatedAt
	r.s.components[component.ID] = component
	return component, nil
}

func (r *payrollRepository) ListComponents(_ context.Context, activeOnly bool) ([]payroll.Component, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []payroll.Component
	for _, c := range r.s.components {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *payrollRepository) DeleteComponent(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.components[id]; !ok {
		return payroll.ErrComponentNotFound
	}
	delete(r.s.components, id)
	return nil
}

// ========== TAX SLABS ==========

func (r *payrollRepository) CreateTaxSlab(_ context.Context, slab payroll.TaxSlab) (payroll.TaxSlab, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	slab.ID = newID()
	slab.CreatedAt = now()
	r.s.taxSlabs[slab.ID] = slab
	return slab, nil
}

func (r *payrollRepository) ListTaxSlabs(_ context.Context) ([]payroll.TaxSlab, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]payroll.TaxSlab, 0, len(r.s.taxSlabs))
	for _, t := range r.s.taxSlabs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SalaryFrom.LessThan(out[j].SalaryFrom) })
	return out, nil
}

func (r *payrollRepository) DeleteTaxSlab(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.taxSlabs[id]; !ok {
		return payroll.ErrTaxSlabNotFound
	}
	delete(r.s.taxSlabs, id)
	return nil
}

// ========== ADJUSTMENTS ==========

func (r *payrollRepository) CreateAdjustment(_ context.Context, adjustment payroll.Adjustment) (payroll.Adjustment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	adjustment.ID = newID()
	adjustment.CreatedAt = now()
	r.s.adjustments[adjustment.ID] = adjustment
	return adjustment, nil
}

func (r *payrollRepository) GetAdjustment(_ context.Context, id string) (payroll.Adjustment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	adj, ok := r.s.adjustments[id]
	if !ok {
		return payroll.Adjustment{}, payroll.ErrAdjustmentNotFound
	}
	return adj, nil
}

func (r *payrollRepository) ListAdjustments(_ context.Context, filter payroll.AdjustmentFilter) ([]payroll.Adjustment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []payroll.Adjustment
	for _, a := range r.s.adjustments {
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Period != nil && a.Period != *filter.Period {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *payrollRepository) DeleteAdjustment(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.adjustments[id]; !ok {
		return payroll.ErrAdjustmentNotFound
	}
	delete(r.s.adjustments, id)
	return nil
}

// ========== BATCHES ==========

func (r *payrollRepository) CreateBatch(_ context.Context, batch payroll.Batch) (payroll.Batch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.batches {
		if b.Period == batch.Period {
			return payroll.Batch{}, payroll.ErrBatchAlreadyExists
		}
	}
	batch.ID = newID()
	batch.CreatedAt = now()
	batch.UpdatedAt = batch.CreatedAt
	r.s.batches[batch.ID] = batch
	return batch, nil
}

func (r *payrollRepository) UpdateBatch(_ context.Context, batch payroll.Batch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.batches[batch.ID]
	if !ok {
		return payroll.ErrBatchNotFound
	}
	if existing.IsLocked() {
		return payroll.ErrAlreadyLocked
	}
	batch.CreatedAt = existing.CreatedAt
	batch.UpdatedAt = now()
	r.s.batches[batch.ID] = batch
	return nil
}

func (r *payrollRepository) GetBatchByID(_ context.Context, id string) (payroll.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.batches[id]
	if !ok {
		return payroll.Batch{}, payroll.ErrBatchNotFound
	}
	return b, nil
}

func (r *payrollRepository) GetBatchByPeriod(_ context.Context, period string) (*payroll.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, b := range r.s.batches {
		if b.Period == period {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

// LockBatchForShare has no row lock to take in memory; the period guard
// already excludes a concurrent finalize.
func (r *payrollRepository) LockBatchForShare(ctx context.Context, period string) (*payroll.Batch, error) {
	return r.GetBatchByPeriod(ctx, period)
}

func (r *payrollRepository) ListBatches(_ context.Context) ([]payroll.Batch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]payroll.Batch, 0, len(r.s.batches))
	for _, b := range r.s.batches {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period > out[j].Period })
	return out, nil
}

// ========== PAYSLIPS ==========

func (r *payrollRepository) ReplacePayslips(_ context.Context, batchID string, payslips []payroll.Payslip) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	batch, ok := r.s.batches[batchID]
	if !ok {
		return payroll.ErrBatchNotFound
	}
	if batch.IsLocked() {
		return payroll.ErrAlreadyLocked
	}
	ts := now()
	stored := make([]payroll.Payslip, len(payslips))
	for i, p := range payslips {
		p.ID = newID()
		p.BatchID = batchID
		p.CreatedAt = ts
		p.AllowancesDetail = copyDetail(p.AllowancesDetail)
		p.DeductionsDetail = copyDetail(p.DeductionsDetail)
		stored[i] = p
	}
	r.s.payslips[batchID] = stored
	return nil
}

func (r *payrollRepository) ListPayslips(_ context.Context, batchID string) ([]payroll.Payslip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]payroll.Payslip, len(r.s.payslips[batchID]))
	copy(out, r.s.payslips[batchID])
	return out, nil
}

func (r *payrollRepository) GetPayslip(_ context.Context, batchID, employeeID string) (payroll.Payslip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.payslips[batchID] {
		if p.EmployeeID == employeeID {
			return p, nil
		}
	}
	return payroll.Payslip{}, payroll.ErrPayslipNotFound
}

func copyDetail(in map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
