package payroll

import (
	"bytes"
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PayrollService interface {
	// Settings
	GetSettings(ctx context.Context) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)

	// Components
	CreateComponent(ctx context.Context, req CreateComponentRequest) (ComponentResponse, error)
	ListComponents(ctx context.Context) ([]ComponentResponse, error)
	DeleteComponent(ctx context.Context, id string) error

	// Tax slabs
	CreateTaxSlab(ctx context.Context, req CreateTaxSlabRequest) (TaxSlabResponse, error)
	ListTaxSlabs(ctx context.Context) ([]TaxSlabResponse, error)
	DeleteTaxSlab(ctx context.Context, id string) error

	// Adjustments
	CreateAdjustment(ctx context.Context, req CreateAdjustmentRequest) (AdjustmentResponse, error)
	ListAdjustments(ctx context.Context, filter AdjustmentFilter) ([]AdjustmentResponse, error)
	DeleteAdjustment(ctx context.Context, id string) error

	// Batches
	Generate(ctx context.Context, req GeneratePayrollRequest) (BatchPreviewResponse, error)
	Finalize(ctx context.Context, batchID string) (BatchResponse, error)
	GetPayslipPreview(ctx context.Context, batchID string) (BatchPreviewResponse, error)
	ListBatches(ctx context.Context) ([]BatchResponse, error)

	// Exports
	PayslipPDF(ctx context.Context, batchID, employeeID string) (*bytes.Buffer, string, error)
	RegisterXLSX(ctx context.Context, batchID string) (*bytes.Buffer, string, error)
}

// PeriodGate makes dated mutations respect payroll locks.
type PeriodGate interface {
	// Within runs fn in a transaction while finalization of every period
	// covering dates is held off. It fails with ErrPeriodLocked when any of
	// those periods is already locked.
	Within(ctx context.Context, dates []time.Time, fn func(ctx context.Context) error) error
}

// UnpaidLeaveInput is what an UnpaidLeaveDeduction sees for one payslip.
// AbsentDays counts only elapsed working days with no attendance or leave.
type UnpaidLeaveInput struct {
	EmployeeID    string
	BaseSalary    decimal.Decimal
	WorkingDays   int
	UnpaidDays    int
	AbsentDays    int
	PeriodDays    int
	PeriodWorking int
}

// UnpaidLeaveDeduction prices unpaid leave and absences as Loss of Pay.
type UnpaidLeaveDeduction interface {
	Name() string
	Deduct(in UnpaidLeaveInput) decimal.Decimal
}
