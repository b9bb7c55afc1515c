package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/lock"
	"github.com/shopspring/decimal"
)

// Options tunes payroll defaults that come from configuration.
type Options struct {
	OrganizationName string
	// DefaultPFRate applies until payroll settings are saved.
	DefaultPFRate decimal.Decimal
	UnpaidLeave   payroll.UnpaidLeaveDeduction
	// Location decides which absent days have already elapsed; nil means UTC.
	Location *time.Location
}

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	evaluator    attendance.Evaluator
	guard        *lock.PeriodGuard
	gate         payroll.PeriodGate
	transactor   database.Transactor
	clock        clock.Clock
	opts         Options
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	evaluator attendance.Evaluator,
	guard *lock.PeriodGuard,
	gate payroll.PeriodGate,
	transactor database.Transactor,
	clk clock.Clock,
	opts Options,
) payroll.PayrollService {
	if opts.UnpaidLeave == nil {
		opts.UnpaidLeave = PerDayDeduction{}
	}
	if opts.OrganizationName == "" {
		opts.OrganizationName = "Payroll"
	}
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		evaluator:    evaluator,
		guard:        guard,
		gate:         gate,
		transactor:   transactor,
		clock:        clk,
		opts:         opts,
	}
}

// ========== SETTINGS ==========

func (s *PayrollServiceImpl) GetSettings(ctx context.Context) (payroll.SettingsResponse, error) {
	settings, err := s.settings(ctx)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}
	return s.toSettingsResponse(settings), nil
}

func (s *PayrollServiceImpl) UpdateSettings(ctx context.Context, req payroll.UpdateSettingsRequest) (payroll.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SettingsResponse{}, err
	}

	settings, err := s.settings(ctx)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	setDecimal(&settings.BasicPercent, req.BasicPercent)
	setDecimal(&settings.HRAPercent, req.HRAPercent)
	setDecimal(&settings.ConveyancePercent, req.ConveyancePercent)
	setDecimal(&settings.MedicalPercent, req.MedicalPercent)
	setDecimal(&settings.SpecialAllowancePercent, req.SpecialAllowancePercent)
	setDecimal(&settings.ServiceChargePercent, req.ServiceChargePercent)
	setDecimal(&settings.PFRate, req.PFRate)
	setDecimal(&settings.OvertimePayPerMinute, req.OvertimePayPerMinute)
	setDecimal(&settings.LateDeductionPerMinute, req.LateDeductionPerMinute)
	if req.WorkingDays != nil {
		settings.WorkingDays = *req.WorkingDays
	}
	if req.OvertimeEnabled != nil {
		settings.OvertimeEnabled = *req.OvertimeEnabled
	}
	if req.LateDeductionEnabled != nil {
		settings.LateDeductionEnabled = *req.LateDeductionEnabled
	}

	if settings.TotalPercent().GreaterThan(decimal.NewFromInt(100)) {
		return payroll.SettingsResponse{}, payroll.ErrInvalidSettings
	}

	saved, err := s.payrollRepo.UpsertSettings(ctx, settings)
	if err != nil {
		return payroll.SettingsResponse{}, fmt.Errorf("failed to save payroll settings: %w", err)
	}
	return s.toSettingsResponse(saved), nil
}

func (s *PayrollServiceImpl) settings(ctx context.Context) (payroll.Settings, error) {
	settings, err := s.payrollRepo.GetSettings(ctx)
	if errors.Is(err, payroll.ErrSettingsNotFound) {
		settings = payroll.DefaultSettings()
		if !s.opts.DefaultPFRate.IsZero() {
			settings.PFRate = s.opts.DefaultPFRate
		}
		return settings, nil
	}
	if err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}
	return settings, nil
}

func setDecimal(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}

// ========== COMPONENTS ==========

func (s *PayrollServiceImpl) CreateComponent(ctx context.Context, req payroll.CreateComponentRequest) (payroll.ComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ComponentResponse{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	created, err := s.payrollRepo.CreateComponent(ctx, payroll.Component{
		Name:     req.Name,
		Type:     payroll.ComponentType(req.Type),
		Amount:   req.Amount,
		IsActive: isActive,
	})
	if err != nil {
		return payroll.ComponentResponse{}, fmt.Errorf("failed to create component: %w", err)
	}
	return toComponentResponse(created), nil
}

func (s *PayrollServiceImpl) ListComponents(ctx context.Context) ([]payroll.ComponentResponse, error) {
	components, err := s.payrollRepo.ListComponents(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}

	responses := make([]payroll.ComponentResponse, 0, len(components))
	for _, c := range components {
		responses = append(responses, toComponentResponse(c))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) DeleteComponent(ctx context.Context, id string) error {
	return s.payrollRepo.DeleteComponent(ctx, id)
}

// ========== TAX SLABS ==========

func (s *PayrollServiceImpl) CreateTaxSlab(ctx context.Context, req payroll.CreateTaxSlabRequest) (payroll.TaxSlabResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.TaxSlabResponse{}, err
	}

	created, err := s.payrollRepo.CreateTaxSlab(ctx, payroll.TaxSlab{
		SalaryFrom: req.SalaryFrom,
		SalaryTo:   req.SalaryTo,
		Percent:    req.Percent,
	})
	if err != nil {
		return payroll.TaxSlabResponse{}, fmt.Errorf("failed to create tax slab: %w", err)
	}
	return toTaxSlabResponse(created), nil
}

func (s *PayrollServiceImpl) ListTaxSlabs(ctx context.Context) ([]payroll.TaxSlabResponse, error) {
	slabs, err := s.payrollRepo.ListTaxSlabs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax slabs: %w", err)
	}

	responses := make([]payroll.TaxSlabResponse, 0, len(slabs))
	for _, t := range slabs {
		responses = append(responses, toTaxSlabResponse(t))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) DeleteTaxSlab(ctx context.Context, id string) error {
	return s.payrollRepo.DeleteTaxSlab(ctx, id)
}

// ========== ADJUSTMENTS ==========

func (s *PayrollServiceImpl) CreateAdjustment(ctx context.Context, req payroll.CreateAdjustmentRequest) (payroll.AdjustmentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.AdjustmentResponse{}, err
	}
	period, err := payroll.ParsePeriod(req.Period)
	if err != nil {
		return payroll.AdjustmentResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.AdjustmentResponse{}, err
	}

	var created payroll.Adjustment
	err = s.gate.Within(ctx, []time.Time{period.Start()}, func(ctx context.Context) error {
		created, err = s.payrollRepo.CreateAdjustment(ctx, payroll.Adjustment{
			EmployeeID: req.EmployeeID,
			Period:     period.String(),
			Type:       payroll.ComponentType(req.Type),
			Label:      req.Label,
			Amount:     req.Amount,
		})
		return err
	})
	if err != nil {
		return payroll.AdjustmentResponse{}, fmt.Errorf("failed to create adjustment: %w", err)
	}
	return toAdjustmentResponse(created), nil
}

func (s *PayrollServiceImpl) ListAdjustments(ctx context.Context, filter payroll.AdjustmentFilter) ([]payroll.AdjustmentResponse, error) {
	adjustments, err := s.payrollRepo.ListAdjustments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}

	responses := make([]payroll.AdjustmentResponse, 0, len(adjustments))
	for _, a := range adjustments {
		responses = append(responses, toAdjustmentResponse(a))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) DeleteAdjustment(ctx context.Context, id string) error {
	adjustment, err := s.payrollRepo.GetAdjustment(ctx, id)
	if err != nil {
		return err
	}
	period, err := payroll.ParsePeriod(adjustment.Period)
	if err != nil {
		return err
	}

	return s.gate.Within(ctx, []time.Time{period.Start()}, func(ctx context.Context) error {
		return s.payrollRepo.DeleteAdjustment(ctx, id)
	})
}

// ========== BATCHES ==========

// Generate computes a payslip for every active employee and stores them as
// the period's Draft batch. Nothing is written unless every payslip computes.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.GeneratePayrollRequest) (payroll.BatchPreviewResponse, error) {
	period, err := payroll.ParsePeriod(req.Period)
	if err != nil {
		return payroll.BatchPreviewResponse{}, err
	}

	release := s.guard.Exclusive(period.String())
	defer release()

	existing, err := s.payrollRepo.GetBatchByPeriod(ctx, period.String())
	if err != nil {
		return payroll.BatchPreviewResponse{}, fmt.Errorf("failed to get payroll batch: %w", err)
	}
	if existing != nil && existing.IsLocked() {
		return payroll.BatchPreviewResponse{}, payroll.ErrBatchAlreadyExists
	}

	payslips, err := s.computeBatch(ctx, period)
	if err != nil {
		return payroll.BatchPreviewResponse{}, err
	}

	var batch payroll.Batch
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		generatedAt := s.clock.Now().UTC()
		if existing != nil {
			batch = *existing
			batch.GeneratedAt = generatedAt
			if err := s.payrollRepo.UpdateBatch(ctx, batch); err != nil {
				return fmt.Errorf("failed to update payroll batch: %w", err)
			}
		} else {
			batch, err = s.payrollRepo.CreateBatch(ctx, payroll.Batch{
				Period:      period.String(),
				Status:      payroll.BatchStatusDraft,
				GeneratedAt: generatedAt,
			})
			if err != nil {
				return fmt.Errorf("failed to create payroll batch: %w", err)
			}
		}
		if err := s.payrollRepo.ReplacePayslips(ctx, batch.ID, payslips); err != nil {
			return fmt.Errorf("failed to store payslips: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.BatchPreviewResponse{}, err
	}

	slog.Info("payroll batch generated",
		"batch_id", batch.ID,
		"period", batch.Period,
		"payslips", len(payslips),
		"regenerated", existing != nil)

	return s.preview(ctx, batch)
}

// Finalize locks a Draft batch. The period's mutations are held off while
// the status flips, so no attendance or leave write straddles the lock.
func (s *PayrollServiceImpl) Finalize(ctx context.Context, batchID string) (payroll.BatchResponse, error) {
	batch, err := s.payrollRepo.GetBatchByID(ctx, batchID)
	if err != nil {
		return payroll.BatchResponse{}, err
	}

	release := s.guard.Exclusive(batch.Period)
	defer release()

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		batch, err = s.payrollRepo.GetBatchByID(ctx, batchID)
		if err != nil {
			return err
		}
		if batch.IsLocked() {
			return payroll.ErrAlreadyLocked
		}

		lockedAt := s.clock.Now().UTC()
		batch.Status = payroll.BatchStatusLocked
		batch.LockedAt = &lockedAt
		return s.payrollRepo.UpdateBatch(ctx, batch)
	})
	if err != nil {
		return payroll.BatchResponse{}, err
	}

	slog.Info("payroll batch finalized", "batch_id", batch.ID, "period", batch.Period)
	return toBatchResponse(batch), nil
}

func (s *PayrollServiceImpl) GetPayslipPreview(ctx context.Context, batchID string) (payroll.BatchPreviewResponse, error) {
	batch, err := s.payrollRepo.GetBatchByID(ctx, batchID)
	if err != nil {
		return payroll.BatchPreviewResponse{}, err
	}
	return s.preview(ctx, batch)
}

func (s *PayrollServiceImpl) ListBatches(ctx context.Context) ([]payroll.BatchResponse, error) {
	batches, err := s.payrollRepo.ListBatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll batches: %w", err)
	}

	responses := make([]payroll.BatchResponse, 0, len(batches))
	for _, b := range batches {
		responses = append(responses, toBatchResponse(b))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) preview(ctx context.Context, batch payroll.Batch) (payroll.BatchPreviewResponse, error) {
	payslips, err := s.payrollRepo.ListPayslips(ctx, batch.ID)
	if err != nil {
		return payroll.BatchPreviewResponse{}, fmt.Errorf("failed to list payslips: %w", err)
	}

	resp := payroll.BatchPreviewResponse{
		Batch:      toBatchResponse(batch),
		Payslips:   make([]payroll.PayslipResponse, 0, len(payslips)),
		TotalGross: decimal.Zero,
		TotalNet:   decimal.Zero,
	}
	for _, p := range payslips {
		resp.Payslips = append(resp.Payslips, toPayslipResponse(p))
		resp.TotalGross = resp.TotalGross.Add(p.GrossSalary)
		resp.TotalNet = resp.TotalNet.Add(p.NetPay)
	}
	return resp, nil
}

func (s *PayrollServiceImpl) toSettingsResponse(st payroll.Settings) payroll.SettingsResponse {
	return payroll.SettingsResponse{
		BasicPercent:            st.BasicPercent,
		HRAPercent:              st.HRAPercent,
		ConveyancePercent:       st.ConveyancePercent,
		MedicalPercent:          st.MedicalPercent,
		SpecialAllowancePercent: st.SpecialAllowancePercent,
		ServiceChargePercent:    st.ServiceChargePercent,
		WorkingDays:             st.WorkingDays,
		PFRate:                  st.PFRate,
		OvertimeEnabled:         st.OvertimeEnabled,
		OvertimePayPerMinute:    st.OvertimePayPerMinute,
		LateDeductionEnabled:    st.LateDeductionEnabled,
		LateDeductionPerMinute:  st.LateDeductionPerMinute,
		UnpaidLeavePolicy:       s.opts.UnpaidLeave.Name(),
	}
}

func toComponentResponse(c payroll.Component) payroll.ComponentResponse {
	return payroll.ComponentResponse{
		ID:       c.ID,
		Name:     c.Name,
		Type:     string(c.Type),
		Amount:   c.Amount,
		IsActive: c.IsActive,
	}
}

func toTaxSlabResponse(t payroll.TaxSlab) payroll.TaxSlabResponse {
	return payroll.TaxSlabResponse{
		ID:         t.ID,
		SalaryFrom: t.SalaryFrom,
		SalaryTo:   t.SalaryTo,
		Percent:    t.Percent,
	}
}

func toAdjustmentResponse(a payroll.Adjustment) payroll.AdjustmentResponse {
	return payroll.AdjustmentResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Period:     a.Period,
		Type:       string(a.Type),
		Label:      a.Label,
		Amount:     a.Amount,
	}
}

func toBatchResponse(b payroll.Batch) payroll.BatchResponse {
	resp := payroll.BatchResponse{
		ID:          b.ID,
		Period:      b.Period,
		Status:      string(b.Status),
		GeneratedAt: b.GeneratedAt.Format(time.RFC3339),
	}
	if b.LockedAt != nil {
		lockedAt := b.LockedAt.Format(time.RFC3339)
		resp.LockedAt = &lockedAt
	}
	return resp
}

func toPayslipResponse(p payroll.Payslip) payroll.PayslipResponse {
	return payroll.PayslipResponse{
		EmployeeID:       p.EmployeeID,
		EmployeeName:     p.EmployeeName,
		Basic:            p.Basic,
		HRA:              p.HRA,
		Conveyance:       p.Conveyance,
		Medical:          p.Medical,
		SpecialAllowance: p.SpecialAllowance,
		ServiceCharges:   p.ServiceCharges,
		ExtraAllowances:  p.ExtraAllowances,
		PF:               p.PF,
		ExtraDeductions:  p.ExtraDeductions,
		GrossSalary:      p.GrossSalary,
		NetPay:           p.NetPay,
		AllowancesDetail: p.AllowancesDetail,
		DeductionsDetail: p.DeductionsDetail,
		WorkingDays:      p.WorkingDays,
		PresentDays:      p.PresentDays,
		PaidLeaveDays:    p.PaidLeaveDays,
		UnpaidLeaveDays:  p.UnpaidLeaveDays,
		AbsentDays:       p.AbsentDays,
		WorkedMinutes:    p.WorkedMinutes,
		OvertimeMinutes:  p.OvertimeMinutes,
		LateMinutes:      p.LateMinutes,
	}
}
