package breaks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/lock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/validator"
)

type BreakServiceImpl struct {
	configRepo     breaks.BreakConfigRepository
	eventRepo      breaks.BreakEventRepository
	attendanceRepo attendance.AttendanceRepository
	locker         lock.Locker
	gate           payroll.PeriodGate
	clock          clock.Clock
	loc            *time.Location
}

func NewBreakService(
	configRepo breaks.BreakConfigRepository,
	eventRepo breaks.BreakEventRepository,
	attendanceRepo attendance.AttendanceRepository,
	locker lock.Locker,
	gate payroll.PeriodGate,
	clk clock.Clock,
	loc *time.Location,
) breaks.BreakService {
	return &BreakServiceImpl{
		configRepo:     configRepo,
		eventRepo:      eventRepo,
		attendanceRepo: attendanceRepo,
		locker:         locker,
		gate:           gate,
		clock:          clk,
		loc:            loc,
	}
}

func (s *BreakServiceImpl) StartBreak(ctx context.Context, employeeID string, req breaks.StartBreakRequest) (breaks.BreakEventResponse, error) {
	if err := req.Validate(); err != nil {
		return breaks.BreakEventResponse{}, err
	}
	kind := breaks.Kind(req.Kind)

	open, err := s.attendanceRepo.GetOpenRecord(ctx, employeeID)
	if err != nil {
		return breaks.BreakEventResponse{}, fmt.Errorf("failed to get open attendance: %w", err)
	}
	if open == nil {
		return breaks.BreakEventResponse{}, attendance.ErrNotCheckedIn
	}

	unlock, err := s.locker.Lock(ctx, lock.EmployeeDayKey(employeeID, utils.FormatDate(open.Date)))
	if err != nil {
		return breaks.BreakEventResponse{}, fmt.Errorf("failed to acquire attendance lock: %w", err)
	}
	defer unlock()

	var (
		event  breaks.Event
		config breaks.Config
	)
	err = s.gate.Within(ctx, []time.Time{open.Date}, func(ctx context.Context) error {
		rec, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, open.Date)
		if err != nil {
			return fmt.Errorf("failed to get attendance: %w", err)
		}
		if rec == nil || !rec.IsOpen() {
			return attendance.ErrNotCheckedIn
		}

		active, err := s.eventRepo.GetOpenEvent(ctx, employeeID, rec.Date)
		if err != nil {
			return fmt.Errorf("failed to get open break: %w", err)
		}
		if active != nil {
			return breaks.ErrBreakAlreadyActive
		}

		config, err = s.resolveConfig(ctx, kind, req.ConfigID)
		if err != nil {
			return err
		}

		configID := config.ID
		event, err = s.eventRepo.CreateEvent(ctx, breaks.Event{
			AttendanceID: rec.ID,
			EmployeeID:   employeeID,
			Date:         rec.Date,
			Kind:         kind,
			ConfigID:     &configID,
			StartTime:    s.clock.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to create break: %w", err)
		}
		return nil
	})
	if err != nil {
		return breaks.BreakEventResponse{}, err
	}

	return s.toBreakEventResponse(event, &config), nil
}

func (s *BreakServiceImpl) EndBreak(ctx context.Context, employeeID string, req breaks.EndBreakRequest) (breaks.BreakEventResponse, error) {
	if err := req.Validate(); err != nil {
		return breaks.BreakEventResponse{}, err
	}
	kind := breaks.Kind(req.Kind)

	open, err := s.attendanceRepo.GetOpenRecord(ctx, employeeID)
	if err != nil {
		return breaks.BreakEventResponse{}, fmt.Errorf("failed to get open attendance: %w", err)
	}
	if open == nil {
		return breaks.BreakEventResponse{}, breaks.ErrNoActiveBreak
	}

	unlock, err := s.locker.Lock(ctx, lock.EmployeeDayKey(employeeID, utils.FormatDate(open.Date)))
	if err != nil {
		return breaks.BreakEventResponse{}, fmt.Errorf("failed to acquire attendance lock: %w", err)
	}
	defer unlock()

	var event breaks.Event
	err = s.gate.Within(ctx, []time.Time{open.Date}, func(ctx context.Context) error {
		active, err := s.eventRepo.GetOpenEvent(ctx, employeeID, open.Date)
		if err != nil {
			return fmt.Errorf("failed to get open break: %w", err)
		}
		if active == nil || active.Kind != kind {
			return breaks.ErrNoActiveBreak
		}

		end := s.clock.Now().UTC()
		minutes := utils.WholeMinutes(end.Sub(active.StartTime))
		active.EndTime = &end
		active.DurationMinutes = &minutes
		if err := s.eventRepo.CloseEvent(ctx, *active); err != nil {
			return fmt.Errorf("failed to close break: %w", err)
		}

		rec, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, open.Date)
		if err != nil {
			return fmt.Errorf("failed to get attendance: %w", err)
		}
		if rec == nil {
			return attendance.ErrAttendanceNotFound
		}
		rec.TotalBreakMinutes += minutes
		if err := s.attendanceRepo.Update(ctx, *rec); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}

		event = *active
		return nil
	})
	if err != nil {
		return breaks.BreakEventResponse{}, err
	}

	var config *breaks.Config
	if event.ConfigID != nil {
		if c, err := s.configRepo.GetConfigByID(ctx, *event.ConfigID); err == nil {
			config = &c
		}
	}
	resp := s.toBreakEventResponse(event, config)
	if resp.ExceededMinutes > 0 {
		slog.Info("break exceeded configured duration",
			"employee_id", employeeID,
			"kind", event.Kind,
			"exceeded_minutes", resp.ExceededMinutes)
	}
	return resp, nil
}

func (s *BreakServiceImpl) TotalMinutes(ctx context.Context, employeeID string, date time.Time) (int, error) {
	events, err := s.eventRepo.ListEvents(ctx, employeeID, utils.NormalizeDate(date))
	if err != nil {
		return 0, fmt.Errorf("failed to list breaks: %w", err)
	}
	return breaks.SumMinutes(events, s.clock.Now()), nil
}

// resolveConfig picks the named config, or the first enabled config of kind.
func (s *BreakServiceImpl) resolveConfig(ctx context.Context, kind breaks.Kind, configID *string) (breaks.Config, error) {
	if configID != nil {
		config, err := s.configRepo.GetConfigByID(ctx, *configID)
		if errors.Is(err, breaks.ErrBreakConfigNotFound) {
			return breaks.Config{}, breaks.ErrBreakKindDisabled
		}
		if err != nil {
			return breaks.Config{}, fmt.Errorf("failed to get break config: %w", err)
		}
		if config.Kind != kind || !config.Enabled {
			return breaks.Config{}, breaks.ErrBreakKindDisabled
		}
		return config, nil
	}

	configs, err := s.configRepo.ListConfigs(ctx)
	if err != nil {
		return breaks.Config{}, fmt.Errorf("failed to list break configs: %w", err)
	}
	for _, c := range configs {
		if c.Kind == kind && c.Enabled {
			return c, nil
		}
	}
	return breaks.Config{}, breaks.ErrBreakKindDisabled
}

// ========== CONFIG ==========

func (s *BreakServiceImpl) CreateConfig(ctx context.Context, req breaks.CreateBreakConfigRequest) (breaks.BreakConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return breaks.BreakConfigResponse{}, err
	}

	kind := breaks.Kind(req.Kind)
	name := req.Name
	if name == "" {
		name = string(kind)
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	created, err := s.configRepo.CreateConfig(ctx, breaks.Config{
		Kind:            kind,
		Name:            name,
		DurationMinutes: req.DurationMinutes,
		Enabled:         enabled,
	})
	if err != nil {
		return breaks.BreakConfigResponse{}, fmt.Errorf("failed to create break config: %w", err)
	}
	return toBreakConfigResponse(created), nil
}

func (s *BreakServiceImpl) UpdateConfig(ctx context.Context, req breaks.UpdateBreakConfigRequest) (breaks.BreakConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return breaks.BreakConfigResponse{}, err
	}

	config, err := s.configRepo.GetConfigByID(ctx, req.ID)
	if err != nil {
		return breaks.BreakConfigResponse{}, err
	}

	if req.Name != nil {
		config.Name = *req.Name
	}
	if req.DurationMinutes != nil {
		if config.Kind == breaks.KindDontDisturb {
			return breaks.BreakConfigResponse{}, validator.ValidationErrors{{
				Field:   "duration_minutes",
				Message: "dont_disturb has no fixed duration",
			}}
		}
		config.DurationMinutes = req.DurationMinutes
	}
	if req.Enabled != nil {
		config.Enabled = *req.Enabled
	}

	if err := s.configRepo.UpdateConfig(ctx, config); err != nil {
		return breaks.BreakConfigResponse{}, fmt.Errorf("failed to update break config: %w", err)
	}
	return toBreakConfigResponse(config), nil
}

func (s *BreakServiceImpl) ListConfigs(ctx context.Context) ([]breaks.BreakConfigResponse, error) {
	configs, err := s.configRepo.ListConfigs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list break configs: %w", err)
	}

	responses := make([]breaks.BreakConfigResponse, 0, len(configs))
	for _, c := range configs {
		responses = append(responses, toBreakConfigResponse(c))
	}
	return responses, nil
}

func (s *BreakServiceImpl) toBreakEventResponse(e breaks.Event, config *breaks.Config) breaks.BreakEventResponse {
	resp := breaks.BreakEventResponse{
		ID:              e.ID,
		EmployeeID:      e.EmployeeID,
		Date:            utils.FormatDate(e.Date),
		Kind:            string(e.Kind),
		ConfigID:        e.ConfigID,
		StartTime:       e.StartTime.In(s.loc).Format(time.RFC3339),
		DurationMinutes: e.DurationMinutes,
	}
	if e.EndTime != nil {
		end := e.EndTime.In(s.loc).Format(time.RFC3339)
		resp.EndTime = &end
	}
	if config != nil && config.DurationMinutes != nil {
		if over := e.ElapsedMinutes(s.clock.Now()) - *config.DurationMinutes; over > 0 {
			resp.ExceededMinutes = over
		}
	}
	return resp
}

func toBreakConfigResponse(c breaks.Config) breaks.BreakConfigResponse {
	return breaks.BreakConfigResponse{
		ID:              c.ID,
		Kind:            string(c.Kind),
		Name:            c.Name,
		DurationMinutes: c.DurationMinutes,
		Enabled:         c.Enabled,
	}
}
