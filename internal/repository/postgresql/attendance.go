package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `id, employee_id, shift_policy_id, date, check_in, check_out,
	is_late, late_minutes, total_break_minutes, worked_minutes, overtime_minutes,
	status, created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var r attendance.Record
	var shiftPolicyID *string
	err := row.Scan(
		&r.ID, &r.EmployeeID, &shiftPolicyID, &r.Date, &r.CheckIn, &r.CheckOut,
		&r.IsLate, &r.LateMinutes, &r.TotalBreakMinutes, &r.WorkedMinutes, &r.OvertimeMinutes,
		&r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if shiftPolicyID != nil {
		r.ShiftPolicyID = *shiftPolicyID
	}
	return r, err
}

func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)
	if record.ID == "" {
		record.ID = newID()
	}

	query := `
		INSERT INTO attendance_records (
			id, employee_id, shift_policy_id, date, check_in, check_out,
			is_late, late_minutes, total_break_minutes, worked_minutes, overtime_minutes, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, nullableID(record.ShiftPolicyID), record.Date,
		record.CheckIn, record.CheckOut, record.IsLate, record.LateMinutes,
		record.TotalBreakMinutes, record.WorkedMinutes, record.OvertimeMinutes, record.Status,
	))
	if err != nil {
		if isUniqueViolation(err, "") {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

func (a *attendanceRepository) Update(ctx context.Context, record attendance.Record) error {
	q := GetQuerier(ctx, a.db)
	query := `
		UPDATE attendance_records
		SET shift_policy_id = $2, check_in = $3, check_out = $4, is_late = $5,
			late_minutes = $6, total_break_minutes = $7, worked_minutes = $8,
			overtime_minutes = $9, status = $10, updated_at = now()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		record.ID, nullableID(record.ShiftPolicyID), record.CheckIn, record.CheckOut, record.IsLate,
		record.LateMinutes, record.TotalBreakMinutes, record.WorkedMinutes,
		record.OvertimeMinutes, record.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)
	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE employee_id = $1 AND date = $2`

	r, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &r, nil
}

func (a *attendanceRepository) GetOpenRecord(ctx context.Context, employeeID string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND check_in IS NOT NULL AND check_out IS NULL
		ORDER BY date DESC
		LIMIT 1
	`
	r, err := scanAttendance(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open attendance: %w", err)
	}
	return &r, nil
}

func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`
	return a.list(ctx, query, employeeID, from, to)
}

func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE date = $1
		ORDER BY employee_id
	`
	return a.list(ctx, query, date)
}

func (a *attendanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		r, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
