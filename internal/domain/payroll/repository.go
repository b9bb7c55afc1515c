package payroll

import "context"

// PayrollRepository defines data access methods for payroll.
type PayrollRepository interface {
	// Settings
	GetSettings(ctx context.Context) (Settings, error)
	UpsertSettings(ctx context.Context, settings Settings) (Settings, error)

	// Components
	CreateComponent(ctx context.Context, component Component) (Component, error)
	ListComponents(ctx context.Context, activeOnly bool) ([]Component, error)
	DeleteComponent(ctx context.Context, id string) error

	// Tax slabs
	CreateTaxSlab(ctx context.Context, slab TaxSlab) (TaxSlab, error)
	ListTaxSlabs(ctx context.Context) ([]TaxSlab, error)
	DeleteTaxSlab(ctx context.Context, id string) error

	// Adjustments
	CreateAdjustment(ctx context.Context, adjustment Adjustment) (Adjustment, error)
	GetAdjustment(ctx context.Context, id string) (Adjustment, error)
	ListAdjustments(ctx context.Context, filter AdjustmentFilter) ([]Adjustment, error)
	DeleteAdjustment(ctx context.Context, id string) error

	// Batches
	CreateBatch(ctx context.Context, batch Batch) (Batch, error)
	UpdateBatch(ctx context.Context, batch Batch) error
	GetBatchByID(ctx context.Context, id string) (Batch, error)
	// GetBatchByPeriod returns nil when no batch exists for period.
	GetBatchByPeriod(ctx context.Context, period string) (*Batch, error)
	// LockBatchForShare reads the period's batch and, inside a transaction,
	// holds a shared row lock until commit. Returns nil when absent.
	LockBatchForShare(ctx context.Context, period string) (*Batch, error)
	ListBatches(ctx context.Context) ([]Batch, error)

	// Payslips
	ReplacePayslips(ctx context.Context, batchID string, payslips []Payslip) error
	ListPayslips(ctx context.Context, batchID string) ([]Payslip, error)
	GetPayslip(ctx context.Context, batchID, employeeID string) (Payslip, error)
}
