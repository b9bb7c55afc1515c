package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/breaks"
)

type BreakRepository struct {
	s *Store
}

// NewBreakRepository serves both break configs and break events.
func NewBreakRepository(s *Store) *BreakRepository {
	return &BreakRepository{s: s}
}

var (
	_ breaks.BreakConfigRepository = (*BreakRepository)(nil)
	_ breaks.BreakEventRepository  = (*BreakRepository)(nil)
)

func (r *BreakRepository) CreateConfig(_ context.Context, config breaks.Config) (breaks.Config, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if config.Kind.Singleton() {
		for _, c := range r.s.breakConfigs {
			if c.Kind == config.Kind {
				return breaks.Config{}, breaks.ErrBreakKindExists
			}
		}
	}
	if config.ID == "" {
		config.ID = newID()
	}
	config.CreatedAt = now()
	config.UpdatedAt = config.CreatedAt
	r.s.breakConfigs[config.ID] = config
	return config, nil
}

func (r *BreakRepository) UpdateConfig(_ context.Context, config breaks.Config) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.breakConfigs[config.ID]
	if !ok {
		return breaks.ErrBreakConfigNotFound
	}
	config.CreatedAt = existing.CreatedAt
	config.UpdatedAt = now()
	r.s.breakConfigs[config.ID] = config
	return nil
}

func (r *BreakRepository) GetConfigByID(_ context.Context, id string) (breaks.Config, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	config, ok := r.s.breakConfigs[id]
	if !ok {
		return breaks.Config{}, breaks.ErrBreakConfigNotFound
	}
	return config, nil
}

// ListConfigs returns configs in creation order.
func (r *BreakRepository) ListConfigs(_ context.Context) ([]breaks.Config, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	configs := make([]breaks.Config, 0, len(r.s.breakConfigs))
	for _, c := range r.s.breakConfigs {
		configs = append(configs, c)
	}
	sort.Slice(configs, func(i, j int) bool {
		if configs[i].CreatedAt.Equal(configs[j].CreatedAt) {
			return configs[i].ID < configs[j].ID
		}
		return configs[i].CreatedAt.Before(configs[j].CreatedAt)
	})
	return configs, nil
}

func (r *BreakRepository) CreateEvent(_ context.Context, event breaks.Event) (breaks.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.breakEvents {
		if e.EmployeeID == event.EmployeeID && e.Date.Equal(event.Date) && e.IsOpen() {
			return breaks.Event{}, breaks.ErrBreakAlreadyActive
		}
	}
	if event.ID == "" {
		event.ID = newID()
	}
	event.CreatedAt = now()
	event.UpdatedAt = event.CreatedAt
	r.s.breakEvents[event.ID] = event
	return event, nil
}

func (r *BreakRepository) CloseEvent(_ context.Context, event breaks.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.breakEvents[event.ID]
	if !ok || !existing.IsOpen() {
		return breaks.ErrNoActiveBreak
	}
	existing.EndTime = event.EndTime
	existing.DurationMinutes = event.DurationMinutes
	existing.UpdatedAt = now()
	r.s.breakEvents[event.ID] = existing
	return nil
}

func (r *BreakRepository) GetOpenEvent(_ context.Context, employeeID string, date time.Time) (*breaks.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.breakEvents {
		if e.EmployeeID == employeeID && e.Date.Equal(date) && e.IsOpen() {
			event := e
			return &event, nil
		}
	}
	return nil, nil
}

func (r *BreakRepository) ListEvents(_ context.Context, employeeID string, date time.Time) ([]breaks.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var events []breaks.Event
	for _, e := range r.s.breakEvents {
		if e.EmployeeID == employeeID && e.Date.Equal(date) {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartTime.Before(events[j].StartTime) })
	return events, nil
}
