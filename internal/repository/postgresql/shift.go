package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftPolicyRepositoryImpl struct {
	db *database.DB
}

func NewShiftPolicyRepository(db *database.DB) shift.ShiftPolicyRepository {
	return &shiftPolicyRepositoryImpl{db: db}
}

const shiftPolicyColumns = `id, name, type, check_in_minute, check_out_minute,
	grace_period_minutes, half_day_minutes, full_day_minutes, created_at, updated_at`

func scanShiftPolicy(row pgx.Row) (shift.Policy, error) {
	var p shift.Policy
	var checkIn, checkOut int
	err := row.Scan(
		&p.ID, &p.Name, &p.Type, &checkIn, &checkOut,
		&p.GracePeriodMinutes, &p.HalfDayMinutes, &p.FullDayMinutes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	p.CheckIn = shift.TimeOfDay(checkIn)
	p.CheckOut = shift.TimeOfDay(checkOut)
	return p, err
}

func (r *shiftPolicyRepositoryImpl) Create(ctx context.Context, policy shift.Policy) (shift.Policy, error) {
	q := GetQuerier(ctx, r.db)
	if policy.ID == "" {
		policy.ID = newID()
	}

	query := `
		INSERT INTO shift_policies (id, name, type, check_in_minute, check_out_minute,
			grace_period_minutes, half_day_minutes, full_day_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + shiftPolicyColumns

	created, err := scanShiftPolicy(q.QueryRow(ctx, query,
		policy.ID, policy.Name, policy.Type, int(policy.CheckIn), int(policy.CheckOut),
		policy.GracePeriodMinutes, policy.HalfDayMinutes, policy.FullDayMinutes,
	))
	if err != nil {
		return shift.Policy{}, fmt.Errorf("failed to create shift policy: %w", err)
	}
	return created, nil
}

func (r *shiftPolicyRepositoryImpl) Update(ctx context.Context, policy shift.Policy) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE shift_policies
		SET name = $2, type = $3, check_in_minute = $4, check_out_minute = $5,
			grace_period_minutes = $6, half_day_minutes = $7, full_day_minutes = $8,
			updated_at = now()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		policy.ID, policy.Name, policy.Type, int(policy.CheckIn), int(policy.CheckOut),
		policy.GracePeriodMinutes, policy.HalfDayMinutes, policy.FullDayMinutes,
	)
	if err != nil {
		return fmt.Errorf("failed to update shift policy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftPolicyNotFound
	}
	return nil
}

func (r *shiftPolicyRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Policy, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + shiftPolicyColumns + ` FROM shift_policies WHERE id = $1`

	p, err := scanShiftPolicy(q.QueryRow(ctx, query, id))
	if err != nil {
		return shift.Policy{}, notFound(err, shift.ErrShiftPolicyNotFound)
	}
	return p, nil
}

func (r *shiftPolicyRepositoryImpl) List(ctx context.Context) ([]shift.Policy, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + shiftPolicyColumns + ` FROM shift_policies ORDER BY name, id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift policies: %w", err)
	}
	defer rows.Close()

	var policies []shift.Policy
	for rows.Next() {
		p, err := scanShiftPolicy(rows)
		if err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}
