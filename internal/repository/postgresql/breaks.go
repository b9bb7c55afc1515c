package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// BreakRepository stores break configurations and break events.
type BreakRepository struct {
	db *database.DB
}

func NewBreakRepository(db *database.DB) *BreakRepository {
	return &BreakRepository{db: db}
}

var (
	_ breaks.BreakConfigRepository = (*BreakRepository)(nil)
	_ breaks.BreakEventRepository  = (*BreakRepository)(nil)
)

// ========== Configs ==========

const breakConfigColumns = `id, kind, name, duration_minutes, enabled, created_at, updated_at`

func scanBreakConfig(row pgx.Row) (breaks.Config, error) {
	var c breaks.Config
	err := row.Scan(&c.ID, &c.Kind, &c.Name, &c.DurationMinutes, &c.Enabled, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *BreakRepository) CreateConfig(ctx context.Context, config breaks.Config) (breaks.Config, error) {
	q := GetQuerier(ctx, r.db)
	if config.ID == "" {
		config.ID = newID()
	}

	query := `
		INSERT INTO break_configs (id, kind, name, duration_minutes, enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + breakConfigColumns

	created, err := scanBreakConfig(q.QueryRow(ctx, query,
		config.ID, config.Kind, config.Name, config.DurationMinutes, config.Enabled,
	))
	if err != nil {
		if isUniqueViolation(err, "uq_break_configs_singleton") {
			return breaks.Config{}, breaks.ErrBreakKindExists
		}
		return breaks.Config{}, fmt.Errorf("failed to create break config: %w", err)
	}
	return created, nil
}

func (r *BreakRepository) UpdateConfig(ctx context.Context, config breaks.Config) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE break_configs
		SET name = $2, duration_minutes = $3, enabled = $4, updated_at = now()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, config.ID, config.Name, config.DurationMinutes, config.Enabled)
	if err != nil {
		return fmt.Errorf("failed to update break config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return breaks.ErrBreakConfigNotFound
	}
	return nil
}

func (r *BreakRepository) GetConfigByID(ctx context.Context, id string) (breaks.Config, error) {
	q := GetQuerier(ctx, r.db)
	c, err := scanBreakConfig(q.QueryRow(ctx, `SELECT `+breakConfigColumns+` FROM break_configs WHERE id = $1`, id))
	if err != nil {
		return breaks.Config{}, notFound(err, breaks.ErrBreakConfigNotFound)
	}
	return c, nil
}

func (r *BreakRepository) ListConfigs(ctx context.Context) ([]breaks.Config, error) {
	q := GetQuerier(ctx, r.db)
	rows, err := q.Query(ctx, `SELECT `+breakConfigColumns+` FROM break_configs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list break configs: %w", err)
	}
	defer rows.Close()

	var configs []breaks.Config
	for rows.Next() {
		c, err := scanBreakConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// ========== Events ==========

const breakEventColumns = `id, attendance_id, employee_id, date, kind, config_id,
	start_time, end_time, duration_minutes, created_at, updated_at`

func scanBreakEvent(row pgx.Row) (breaks.Event, error) {
	var e breaks.Event
	err := row.Scan(
		&e.ID, &e.AttendanceID, &e.EmployeeID, &e.Date, &e.Kind, &e.ConfigID,
		&e.StartTime, &e.EndTime, &e.DurationMinutes, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *BreakRepository) CreateEvent(ctx context.Context, event breaks.Event) (breaks.Event, error) {
	q := GetQuerier(ctx, r.db)
	if event.ID == "" {
		event.ID = newID()
	}

	query := `
		INSERT INTO break_events (id, attendance_id, employee_id, date, kind, config_id, start_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + breakEventColumns

	created, err := scanBreakEvent(q.QueryRow(ctx, query,
		event.ID, event.AttendanceID, event.EmployeeID, event.Date, event.Kind, event.ConfigID, event.StartTime,
	))
	if err != nil {
		if isUniqueViolation(err, "uq_break_events_open") {
			return breaks.Event{}, breaks.ErrBreakAlreadyActive
		}
		return breaks.Event{}, fmt.Errorf("failed to create break event: %w", err)
	}
	return created, nil
}

func (r *BreakRepository) CloseEvent(ctx context.Context, event breaks.Event) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE break_events
		SET end_time = $2, duration_minutes = $3, updated_at = now()
		WHERE id = $1 AND end_time IS NULL
	`
	tag, err := q.Exec(ctx, query, event.ID, event.EndTime, event.DurationMinutes)
	if err != nil {
		return fmt.Errorf("failed to close break event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return breaks.ErrNoActiveBreak
	}
	return nil
}

func (r *BreakRepository) GetOpenEvent(ctx context.Context, employeeID string, date time.Time) (*breaks.Event, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + breakEventColumns + `
		FROM break_events
		WHERE employee_id = $1 AND date = $2 AND end_time IS NULL
		LIMIT 1
	`
	e, err := scanBreakEvent(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open break: %w", err)
	}
	return &e, nil
}

func (r *BreakRepository) ListEvents(ctx context.Context, employeeID string, date time.Time) ([]breaks.Event, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + breakEventColumns + `
		FROM break_events
		WHERE employee_id = $1 AND date = $2
		ORDER BY start_time
	`
	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list break events: %w", err)
	}
	defer rows.Close()

	var events []breaks.Event
	for rows.Next() {
		e, err := scanBreakEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
