package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/utils"
)

// DayCloser persists the final status of every employee's day.
type DayCloser interface {
	CloseDay(ctx context.Context, date time.Time) (int, error)
}

const maxCatchUpDays = 31

// DayCloseJob closes each elapsed local calendar day exactly once per process.
type DayCloseJob struct {
	closer DayCloser
	clock  clock.Clock
	loc    *time.Location

	mu         sync.Mutex
	lastClosed time.Time
}

func NewDayCloseJob(closer DayCloser, clk clock.Clock, loc *time.Location) *DayCloseJob {
	return &DayCloseJob{closer: closer, clock: clk, loc: loc}
}

func (j *DayCloseJob) Register(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("close_attendance_day", interval, j.Run)
}

// Run closes every day after the last closed one up to yesterday, at most
// maxCatchUpDays at a time. The first run after start closes only yesterday.
func (j *DayCloseJob) Run(ctx context.Context) error {
	yesterday := utils.DateOf(j.clock.Now(), j.loc).AddDate(0, 0, -1)

	j.mu.Lock()
	defer j.mu.Unlock()

	from := yesterday
	if !j.lastClosed.IsZero() {
		from = j.lastClosed.AddDate(0, 0, 1)
	}
	if earliest := yesterday.AddDate(0, 0, -(maxCatchUpDays - 1)); from.Before(earliest) {
		from = earliest
	}

	for day := from; !day.After(yesterday); day = day.AddDate(0, 0, 1) {
		written, err := j.closer.CloseDay(ctx, day)
		if err != nil {
			return fmt.Errorf("failed to close day %s: %w", utils.FormatDate(day), err)
		}
		j.lastClosed = day
		slog.Info("attendance day closed", "date", utils.FormatDate(day), "records_written", written)
	}
	return nil
}
