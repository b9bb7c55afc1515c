package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
)

type calendarRepository struct {
	s *Store
}

func NewCalendarRepository(s *Store) calendar.CalendarRepository {
	return &calendarRepository{s: s}
}

func (r *calendarRepository) GetWorkWeek(_ context.Context) (calendar.WorkWeek, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.s.workWeek == nil {
		return calendar.WorkWeek{}, calendar.ErrWorkWeekNotFound
	}
	week := *r.s.workWeek
	week.OffDays = append([]time.Weekday(nil), week.OffDays...)
	return week, nil
}

func (r *calendarRepository) SaveWorkWeek(_ context.Context, week calendar.WorkWeek) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	week.OffDays = append([]time.Weekday(nil), week.OffDays...)
	week.UpdatedAt = now()
	r.s.workWeek = &week
	return nil
}

func (r *calendarRepository) CreateHoliday(_ context.Context, holiday calendar.Holiday) (calendar.Holiday, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, h := range r.s.holidays {
		if h.Date.Equal(holiday.Date) {
			return calendar.Holiday{}, calendar.ErrHolidayExists
		}
	}
	if holiday.ID == "" {
		holiday.ID = newID()
	}
	holiday.CreatedAt = now()
	r.s.holidays[holiday.ID] = holiday
	return holiday, nil
}

func (r *calendarRepository) DeleteHoliday(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.holidays[id]; !ok {
		return calendar.ErrHolidayNotFound
	}
	delete(r.s.holidays, id)
	return nil
}

func (r *calendarRepository) ListHolidays(_ context.Context, from, to time.Time) ([]calendar.Holiday, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var holidays []calendar.Holiday
	for _, h := range r.s.holidays {
		if !h.Date.Before(from) && !h.Date.After(to) {
			holidays = append(holidays, h)
		}
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date.Before(holidays[j].Date) })
	return holidays, nil
}
