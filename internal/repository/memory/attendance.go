package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
)

type attendanceRepository struct {
	s *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (r *attendanceRepository) Create(_ context.Context, record attendance.Record) (attendance.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rec := range r.s.records {
		if rec.EmployeeID == record.EmployeeID && rec.Date.Equal(record.Date) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
	}
	if record.ID == "" {
		record.ID = newID()
	}
	record.CreatedAt = now()
	record.UpdatedAt = record.CreatedAt
	r.s.records[record.ID] = record
	return record, nil
}

func (r *attendanceRepository) Update(_ context.Context, record attendance.Record) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.records[record.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = now()
	r.s.records[record.ID] = record
	return nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.records {
		if rec.EmployeeID == employeeID && rec.Date.Equal(date) {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

func (r *attendanceRepository) GetOpenRecord(_ context.Context, employeeID string) (*attendance.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var open *attendance.Record
	for _, rec := range r.s.records {
		if rec.EmployeeID != employeeID || !rec.IsOpen() {
			continue
		}
		if open == nil || rec.Date.After(open.Date) {
			found := rec
			open = &found
		}
	}
	return open, nil
}

func (r *attendanceRepository) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var records []attendance.Record
	for _, rec := range r.s.records {
		if rec.EmployeeID == employeeID && !rec.Date.Before(from) && !rec.Date.After(to) {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records, nil
}

func (r *attendanceRepository) ListByDate(_ context.Context, date time.Time) ([]attendance.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var records []attendance.Record
	for _, rec := range r.s.records {
		if rec.Date.Equal(date) {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].EmployeeID < records[j].EmployeeID })
	return records, nil
}
