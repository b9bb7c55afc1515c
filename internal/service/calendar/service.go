package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/utils"
)

type CalendarServiceImpl struct {
	calendarRepo calendar.CalendarRepository
}

func NewCalendarService(calendarRepo calendar.CalendarRepository) calendar.CalendarService {
	return &CalendarServiceImpl{calendarRepo: calendarRepo}
}

func (s *CalendarServiceImpl) GetWorkWeek(ctx context.Context) (calendar.WorkWeekResponse, error) {
	week, err := s.workWeek(ctx)
	if err != nil {
		return calendar.WorkWeekResponse{}, err
	}
	return calendar.WorkWeekResponse{OffDays: week.WeekdayNames()}, nil
}

func (s *CalendarServiceImpl) UpdateWorkWeek(ctx context.Context, req calendar.UpdateWorkWeekRequest) (calendar.WorkWeekResponse, error) {
	if err := req.Validate(); err != nil {
		return calendar.WorkWeekResponse{}, err
	}

	seen := make(map[time.Weekday]bool)
	var week calendar.WorkWeek
	for _, name := range req.OffDays {
		d, _ := calendar.ParseWeekday(name)
		if seen[d] {
			continue
		}
		seen[d] = true
		week.OffDays = append(week.OffDays, d)
	}

	if err := s.calendarRepo.SaveWorkWeek(ctx, week); err != nil {
		return calendar.WorkWeekResponse{}, fmt.Errorf("failed to save work week: %w", err)
	}
	return calendar.WorkWeekResponse{OffDays: week.WeekdayNames()}, nil
}

func (s *CalendarServiceImpl) CreateHoliday(ctx context.Context, req calendar.CreateHolidayRequest) (calendar.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return calendar.HolidayResponse{}, err
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return calendar.HolidayResponse{}, err
	}

	created, err := s.calendarRepo.CreateHoliday(ctx, calendar.Holiday{Date: date, Name: req.Name})
	if err != nil {
		return calendar.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return toHolidayResponse(created), nil
}

func (s *CalendarServiceImpl) DeleteHoliday(ctx context.Context, id string) error {
	if err := s.calendarRepo.DeleteHoliday(ctx, id); err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

func (s *CalendarServiceImpl) ListHolidays(ctx context.Context, req calendar.ListHolidaysRequest) ([]calendar.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	from, _ := utils.ParseDate(req.From)
	to, _ := utils.ParseDate(req.To)

	holidays, err := s.calendarRepo.ListHolidays(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]calendar.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, toHolidayResponse(h))
	}
	return responses, nil
}

func (s *CalendarServiceImpl) Load(ctx context.Context, from, to time.Time) (calendar.Calendar, error) {
	week, err := s.workWeek(ctx)
	if err != nil {
		return calendar.Calendar{}, err
	}
	holidays, err := s.calendarRepo.ListHolidays(ctx, from, to)
	if err != nil {
		return calendar.Calendar{}, fmt.Errorf("failed to list holidays: %w", err)
	}
	return calendar.New(week, holidays), nil
}

// workWeek falls back to a Saturday/Sunday weekend until one is configured.
func (s *CalendarServiceImpl) workWeek(ctx context.Context) (calendar.WorkWeek, error) {
	week, err := s.calendarRepo.GetWorkWeek(ctx)
	if errors.Is(err, calendar.ErrWorkWeekNotFound) {
		return calendar.DefaultWorkWeek(), nil
	}
	if err != nil {
		return calendar.WorkWeek{}, fmt.Errorf("failed to get work week: %w", err)
	}
	return week, nil
}

func toHolidayResponse(h calendar.Holiday) calendar.HolidayResponse {
	return calendar.HolidayResponse{
		ID:   h.ID,
		Date: utils.FormatDate(h.Date),
		Name: h.Name,
	}
}
