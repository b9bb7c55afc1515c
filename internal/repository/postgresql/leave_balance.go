package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceColumns = `employee_id, leave_type_id, allotted, used, remaining, updated_at`

func scanLeaveBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	err := row.Scan(&b.EmployeeID, &b.LeaveTypeID, &b.Allotted, &b.Used, &b.Remaining, &b.UpdatedAt)
	return b, err
}

// Get reads the balance row FOR UPDATE so a consume or restore inside the
// caller's transaction cannot interleave with another.
func (l *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID, leaveTypeID string) (*leave.Balance, error) {
	q := GetQuerier(ctx, l.db)
	query := `SELECT ` + leaveBalanceColumns + ` FROM leave_balances WHERE employee_id = $1 AND leave_type_id = $2`
	if _, inTx := q.(pgx.Tx); inTx {
		query += ` FOR UPDATE`
	}

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return &b, nil
}

func (l *leaveBalanceRepositoryImpl) Save(ctx context.Context, balance leave.Balance) error {
	if err := balance.Check(); err != nil {
		return err
	}

	q := GetQuerier(ctx, l.db)
	query := `
		INSERT INTO leave_balances (employee_id, leave_type_id, allotted, used, remaining, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (employee_id, leave_type_id) DO UPDATE SET
			allotted = EXCLUDED.allotted,
			used = EXCLUDED.used,
			remaining = EXCLUDED.remaining,
			updated_at = now()
	`
	if _, err := q.Exec(ctx, query,
		balance.EmployeeID, balance.LeaveTypeID, balance.Allotted, balance.Used, balance.Remaining,
	); err != nil {
		return fmt.Errorf("failed to save leave balance: %w", err)
	}
	return nil
}

func (l *leaveBalanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Balance, error) {
	q := GetQuerier(ctx, l.db)
	rows, err := q.Query(ctx, `SELECT `+leaveBalanceColumns+` FROM leave_balances WHERE employee_id = $1 ORDER BY leave_type_id`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.Balance
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}
