package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

// ========== SETTINGS ==========

const settingsColumns = `id, basic_percent, hra_percent, conveyance_percent, medical_percent,
	special_allowance_percent, service_charge_percent, working_days, pf_rate,
	overtime_enabled, overtime_pay_per_minute, late_deduction_enabled, late_deduction_per_minute,
	created_at, updated_at`

func scanSettings(row pgx.Row) (payroll.Settings, error) {
	var s payroll.Settings
	err := row.Scan(
		&s.ID, &s.BasicPercent, &s.HRAPercent, &s.ConveyancePercent, &s.MedicalPercent,
		&s.SpecialAllowancePercent, &s.ServiceChargePercent, &s.WorkingDays, &s.PFRate,
		&s.OvertimeEnabled, &s.OvertimePayPerMinute, &s.LateDeductionEnabled, &s.LateDeductionPerMinute,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *payrollRepositoryImpl) GetSettings(ctx context.Context) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)
	s, err := scanSettings(q.QueryRow(ctx, `SELECT `+settingsColumns+` FROM payroll_settings WHERE singleton`))
	if err != nil {
		return payroll.Settings{}, notFound(err, payroll.ErrSettingsNotFound)
	}
	return s, nil
}

func (r *payrollRepositoryImpl) UpsertSettings(ctx context.Context, s payroll.Settings) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO payroll_settings (
			id, basic_percent, hra_percent, conveyance_percent, medical_percent,
			special_allowance_percent, service_charge_percent, working_days, pf_rate,
			overtime_enabled, overtime_pay_per_minute, late_deduction_enabled, late_deduction_per_minute
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (singleton) DO UPDATE SET
			basic_percent = EXCLUDED.basic_percent,
			hra_percent = EXCLUDED.hra_percent,
			conveyance_percent = EXCLUDED.conveyance_percent,
			medical_percent = EXCLUDED.medical_percent,
			special_allowance_percent = EXCLUDED.special_allowance_percent,
			service_charge_percent = EXCLUDED.service_charge_percent,
			working_days = EXCLUDED.working_days,
			pf_rate = EXCLUDED.pf_rate,
			overtime_enabled = EXCLUDED.overtime_enabled,
			overtime_pay_per_minute = EXCLUDED.overtime_pay_per_minute,
			late_deduction_enabled = EXCLUDED.late_deduction_enabled,
			late_deduction_per_minute = EXCLUDED.late_deduction_per_minute,
			updated_at = now()
		RETURNING ` + settingsColumns

	saved, err := scanSettings(q.QueryRow(ctx, query,
		newID(), s.BasicPercent, s.HRAPercent, s.ConveyancePercent, s.MedicalPercent,
		s.SpecialAllowancePercent, s.ServiceChargePercent, s.WorkingDays, s.PFRate,
		s.OvertimeEnabled, s.OvertimePayPerMinute, s.LateDeductionEnabled, s.LateDeductionPerMinute,
	))
	if err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to save payroll settings: %w", err)
	}
	return saved, nil
}

// ========== COMPONENTS ==========

func (r *payrollRepositoryImpl) CreateComponent(ctx context.Context, c payroll.Component) (payroll.Component, error) {
	q := GetQuerier(ctx, r.db)
	c.ID = newID()

	query := `
		INSERT INTO payroll_components (id, name, type, amount, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	if err := q.QueryRow(ctx, query, c.ID, c.Name, c.Type, c.Amount, c.IsActive).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return payroll.Component{}, fmt.Errorf("failed to create payroll component: %w", err)
	}
	return c, nil
}

func (r *payrollRepositoryImpl) ListComponents(ctx context.Context, activeOnly bool) ([]payroll.Component, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, name, type, amount, is_active, created_at, updated_at
		FROM payroll_components
		WHERE ($1::boolean = false OR is_active)
		ORDER BY name
	`
	rows, err := q.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll components: %w", err)
	}
	defer rows.Close()

	var components []payroll.Component
	for rows.Next() {
		var c payroll.Component
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Amount, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

func (r *payrollRepositoryImpl) DeleteComponent(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "payroll_components", id, payroll.ErrComponentNotFound)
}

// ========== TAX SLABS ==========

func (r *payrollRepositoryImpl) CreateTaxSlab(ctx context.Context, t payroll.TaxSlab) (payroll.TaxSlab, error) {
	q := GetQuerier(ctx, r.db)
	t.ID = newID()

	query := `
		INSERT INTO tax_slabs (id, salary_from, salary_to, percent)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	if err := q.QueryRow(ctx, query, t.ID, t.SalaryFrom, t.SalaryTo, t.Percent).Scan(&t.CreatedAt); err != nil {
		return payroll.TaxSlab{}, fmt.Errorf("failed to create tax slab: %w", err)
	}
	return t, nil
}

func (r *payrollRepositoryImpl) ListTaxSlabs(ctx context.Context) ([]payroll.TaxSlab, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT id, salary_from, salary_to, percent, created_at FROM tax_slabs ORDER BY salary_from`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax slabs: %w", err)
	}
	defer rows.Close()

	var slabs []payroll.TaxSlab
	for rows.Next() {
		var t payroll.TaxSlab
		if err := rows.Scan(&t.ID, &t.SalaryFrom, &t.SalaryTo, &t.Percent, &t.CreatedAt); err != nil {
			return nil, err
		}
		slabs = append(slabs, t)
	}
	return slabs, rows.Err()
}

func (r *payrollRepositoryImpl) DeleteTaxSlab(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "tax_slabs", id, payroll.ErrTaxSlabNotFound)
}

// ========== ADJUSTMENTS ==========

const adjustmentColumns = `id, employee_id, period, type, label, amount, created_at`

func scanAdjustment(row pgx.Row) (payroll.Adjustment, error) {
	var a payroll.Adjustment
	err := row.Scan(&a.ID, &a.EmployeeID, &a.Period, &a.Type, &a.Label, &a.Amount, &a.CreatedAt)
	return a, err
}

func (r *payrollRepositoryImpl) CreateAdjustment(ctx context.Context, a payroll.Adjustment) (payroll.Adjustment, error) {
	q := GetQuerier(ctx, r.db)
	a.ID = newID()

	query := `
		INSERT INTO payroll_adjustments (id, employee_id, period, type, label, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	if err := q.QueryRow(ctx, query, a.ID, a.EmployeeID, a.Period, a.Type, a.Label, a.Amount).Scan(&a.CreatedAt); err != nil {
		return payroll.Adjustment{}, fmt.Errorf("failed to create payroll adjustment: %w", err)
	}
	return a, nil
}

func (r *payrollRepositoryImpl) GetAdjustment(ctx context.Context, id string) (payroll.Adjustment, error) {
	q := GetQuerier(ctx, r.db)
	a, err := scanAdjustment(q.QueryRow(ctx, `SELECT `+adjustmentColumns+` FROM payroll_adjustments WHERE id = $1`, id))
	if err != nil {
		return payroll.Adjustment{}, notFound(err, payroll.ErrAdjustmentNotFound)
	}
	return a, nil
}

func (r *payrollRepositoryImpl) ListAdjustments(ctx context.Context, filter payroll.AdjustmentFilter) ([]payroll.Adjustment, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argIndex))
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if filter.Period != nil {
		conditions = append(conditions, fmt.Sprintf("period = $%d", argIndex))
		args = append(args, *filter.Period)
		argIndex++
	}

	query := `SELECT ` + adjustmentColumns + ` FROM payroll_adjustments`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []payroll.Adjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

func (r *payrollRepositoryImpl) DeleteAdjustment(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "payroll_adjustments", id, payroll.ErrAdjustmentNotFound)
}

func (r *payrollRepositoryImpl) deleteByID(ctx context.Context, table, id string, notFoundErr error) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return notFoundErr
	}
	return nil
}

// ========== BATCHES ==========

const batchColumns = `id, period, status, generated_at, locked_at, created_at, updated_at`

func scanBatch(row pgx.Row) (payroll.Batch, error) {
	var b payroll.Batch
	err := row.Scan(&b.ID, &b.Period, &b.Status, &b.GeneratedAt, &b.LockedAt, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *payrollRepositoryImpl) CreateBatch(ctx context.Context, b payroll.Batch) (payroll.Batch, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO payroll_batches (id, period, status, generated_at, locked_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + batchColumns

	created, err := scanBatch(q.QueryRow(ctx, query, newID(), b.Period, b.Status, b.GeneratedAt, b.LockedAt))
	if err != nil {
		if isUniqueViolation(err, "") {
			return payroll.Batch{}, payroll.ErrBatchAlreadyExists
		}
		return payroll.Batch{}, fmt.Errorf("failed to create payroll batch: %w", err)
	}
	return created, nil
}

// UpdateBatch only touches Draft rows. The row lock it takes waits for
// transactions holding the batch FOR SHARE.
func (r *payrollRepositoryImpl) UpdateBatch(ctx context.Context, b payroll.Batch) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE payroll_batches
		SET status = $2, generated_at = $3, locked_at = $4, updated_at = now()
		WHERE id = $1 AND status = 'Draft'
	`
	tag, err := q.Exec(ctx, query, b.ID, b.Status, b.GeneratedAt, b.LockedAt)
	if err != nil {
		return fmt.Errorf("failed to update payroll batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetBatchByID(ctx, b.ID); err != nil {
			return err
		}
		return payroll.ErrAlreadyLocked
	}
	return nil
}

func (r *payrollRepositoryImpl) GetBatchByID(ctx context.Context, id string) (payroll.Batch, error) {
	q := GetQuerier(ctx, r.db)
	b, err := scanBatch(q.QueryRow(ctx, `SELECT `+batchColumns+` FROM payroll_batches WHERE id = $1`, id))
	if err != nil {
		return payroll.Batch{}, notFound(err, payroll.ErrBatchNotFound)
	}
	return b, nil
}

func (r *payrollRepositoryImpl) GetBatchByPeriod(ctx context.Context, period string) (*payroll.Batch, error) {
	return r.batchByPeriod(ctx, `SELECT `+batchColumns+` FROM payroll_batches WHERE period = $1`, period)
}

func (r *payrollRepositoryImpl) LockBatchForShare(ctx context.Context, period string) (*payroll.Batch, error) {
	return r.batchByPeriod(ctx, `SELECT `+batchColumns+` FROM payroll_batches WHERE period = $1 FOR SHARE`, period)
}

func (r *payrollRepositoryImpl) batchByPeriod(ctx context.Context, query, period string) (*payroll.Batch, error) {
	q := GetQuerier(ctx, r.db)
	b, err := scanBatch(q.QueryRow(ctx, query, period))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payroll batch: %w", err)
	}
	return &b, nil
}

func (r *payrollRepositoryImpl) ListBatches(ctx context.Context) ([]payroll.Batch, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+batchColumns+` FROM payroll_batches ORDER BY period DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll batches: %w", err)
	}
	defer rows.Close()

	var batches []payroll.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// ========== PAYSLIPS ==========

const payslipColumns = `id, batch_id, employee_id, employee_name,
	basic, hra, conveyance, medical, special_allowance, service_charges,
	extra_allowances, pf, extra_deductions, gross_salary, net_pay,
	allowances_detail, deductions_detail,
	working_days, present_days, paid_leave_days, unpaid_leave_days, absent_days,
	worked_minutes, overtime_minutes, late_minutes, created_at`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var p payroll.Payslip
	var allowancesJSON, deductionsJSON []byte
	err := row.Scan(
		&p.ID, &p.BatchID, &p.EmployeeID, &p.EmployeeName,
		&p.Basic, &p.HRA, &p.Conveyance, &p.Medical, &p.SpecialAllowance, &p.ServiceCharges,
		&p.ExtraAllowances, &p.PF, &p.ExtraDeductions, &p.GrossSalary, &p.NetPay,
		&allowancesJSON, &deductionsJSON,
		&p.WorkingDays, &p.PresentDays, &p.PaidLeaveDays, &p.UnpaidLeaveDays, &p.AbsentDays,
		&p.WorkedMinutes, &p.OvertimeMinutes, &p.LateMinutes, &p.CreatedAt,
	)
	if err != nil {
		return payroll.Payslip{}, err
	}
	if err := json.Unmarshal(allowancesJSON, &p.AllowancesDetail); err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to decode allowances detail: %w", err)
	}
	if err := json.Unmarshal(deductionsJSON, &p.DeductionsDetail); err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to decode deductions detail: %w", err)
	}
	return p, nil
}

func encodeDetail(detail map[string]decimal.Decimal) ([]byte, error) {
	if detail == nil {
		detail = map[string]decimal.Decimal{}
	}
	return json.Marshal(detail)
}

// ReplacePayslips swaps the batch's payslips. Callers run it inside a
// transaction together with the batch write.
func (r *payrollRepositoryImpl) ReplacePayslips(ctx context.Context, batchID string, payslips []payroll.Payslip) error {
	q := GetQuerier(ctx, r.db)

	batch, err := r.GetBatchByID(ctx, batchID)
	if err != nil {
		return err
	}
	if batch.IsLocked() {
		return payroll.ErrAlreadyLocked
	}
	if _, err := q.Exec(ctx, `DELETE FROM payslips WHERE batch_id = $1`, batchID); err != nil {
		return fmt.Errorf("failed to clear payslips: %w", err)
	}

	query := `
		INSERT INTO payslips (` + payslipColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, now())
	`
	for _, p := range payslips {
		allowances, err := encodeDetail(p.AllowancesDetail)
		if err != nil {
			return err
		}
		deductions, err := encodeDetail(p.DeductionsDetail)
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, query,
			newID(), batchID, p.EmployeeID, p.EmployeeName,
			p.Basic, p.HRA, p.Conveyance, p.Medical, p.SpecialAllowance, p.ServiceCharges,
			p.ExtraAllowances, p.PF, p.ExtraDeductions, p.GrossSalary, p.NetPay,
			allowances, deductions,
			p.WorkingDays, p.PresentDays, p.PaidLeaveDays, p.UnpaidLeaveDays, p.AbsentDays,
			p.WorkedMinutes, p.OvertimeMinutes, p.LateMinutes,
		); err != nil {
			return fmt.Errorf("failed to insert payslip for %s: %w", p.EmployeeID, err)
		}
	}
	return nil
}

func (r *payrollRepositoryImpl) ListPayslips(ctx context.Context, batchID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+payslipColumns+` FROM payslips WHERE batch_id = $1 ORDER BY employee_id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		payslips = append(payslips, p)
	}
	return payslips, rows.Err()
}

func (r *payrollRepositoryImpl) GetPayslip(ctx context.Context, batchID, employeeID string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)
	p, err := scanPayslip(q.QueryRow(ctx,
		`SELECT `+payslipColumns+` FROM payslips WHERE batch_id = $1 AND employee_id = $2`, batchID, employeeID))
	if err != nil {
		return payroll.Payslip{}, notFound(err, payroll.ErrPayslipNotFound)
	}
	return p, nil
}
