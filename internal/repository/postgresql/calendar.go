package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/database"
)

type calendarRepositoryImpl struct {
	db *database.DB
}

func NewCalendarRepository(db *database.DB) calendar.CalendarRepository {
	return &calendarRepositoryImpl{db: db}
}

func (r *calendarRepositoryImpl) GetWorkWeek(ctx context.Context) (calendar.WorkWeek, error) {
	q := GetQuerier(ctx, r.db)

	var days []int16
	var week calendar.WorkWeek
	err := q.QueryRow(ctx, `SELECT off_days, updated_at FROM work_week WHERE id = 1`).Scan(&days, &week.UpdatedAt)
	if err != nil {
		return calendar.WorkWeek{}, notFound(err, calendar.ErrWorkWeekNotFound)
	}
	for _, d := range days {
		week.OffDays = append(week.OffDays, time.Weekday(d))
	}
	return week, nil
}

func (r *calendarRepositoryImpl) SaveWorkWeek(ctx context.Context, week calendar.WorkWeek) error {
	q := GetQuerier(ctx, r.db)

	days := make([]int16, 0, len(week.OffDays))
	for _, d := range week.OffDays {
		days = append(days, int16(d))
	}
	query := `
		INSERT INTO work_week (id, off_days, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET off_days = EXCLUDED.off_days, updated_at = now()
	`
	if _, err := q.Exec(ctx, query, days); err != nil {
		return fmt.Errorf("failed to save work week: %w", err)
	}
	return nil
}

func (r *calendarRepositoryImpl) CreateHoliday(ctx context.Context, holiday calendar.Holiday) (calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	if holiday.ID == "" {
		holiday.ID = newID()
	}

	query := `INSERT INTO holidays (id, date, name) VALUES ($1, $2, $3) RETURNING created_at`
	err := q.QueryRow(ctx, query, holiday.ID, holiday.Date, holiday.Name).Scan(&holiday.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return calendar.Holiday{}, calendar.ErrHolidayExists
		}
		return calendar.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return holiday, nil
}

func (r *calendarRepositoryImpl) DeleteHoliday(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return calendar.ErrHolidayNotFound
	}
	return nil
}

func (r *calendarRepositoryImpl) ListHolidays(ctx context.Context, from, to time.Time) ([]calendar.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, date, name, created_at
		FROM holidays
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`
	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []calendar.Holiday
	for rows.Next() {
		var h calendar.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.CreatedAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}
