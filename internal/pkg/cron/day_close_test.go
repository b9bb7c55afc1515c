package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCloser struct {
	dates []time.Time
	err   error
}

func (r *recordingCloser) CloseDay(_ context.Context, date time.Time) (int, error) {
	r.dates = append(r.dates, date)
	return 1, r.err
}

func TestDayCloseJob_ClosesYesterdayOnce(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	clk := clock.NewManual(time.Date(2025, 3, 4, 18, 30, 0, 0, time.UTC)) // 01:30 on the 5th in WIB
	closer := &recordingCloser{}
	job := NewDayCloseJob(closer, clk, loc)

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))

	require.Len(t, closer.dates, 1)
	assert.True(t, closer.dates[0].Equal(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)))

	clk.Advance(24 * time.Hour)
	require.NoError(t, job.Run(context.Background()))
	assert.Len(t, closer.dates, 2)
}

func TestDayCloseJob_RetriesAfterFailure(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC))
	closer := &recordingCloser{err: errors.New("db down")}
	job := NewDayCloseJob(closer, clk, time.UTC)

	assert.Error(t, job.Run(context.Background()))
	closer.err = nil
	assert.NoError(t, job.Run(context.Background()))
	assert.Len(t, closer.dates, 2)
}

func TestDayCloseJob_CatchesUpMissedDays(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC))
	closer := &recordingCloser{}
	job := NewDayCloseJob(closer, clk, time.UTC)

	require.NoError(t, job.Run(context.Background()))
	clk.Advance(3 * 24 * time.Hour)
	require.NoError(t, job.Run(context.Background()))

	require.Len(t, closer.dates, 4)
	for i, want := range []int{3, 4, 5, 6} {
		assert.True(t, closer.dates[i].Equal(time.Date(2025, 3, want, 0, 0, 0, 0, time.UTC)), "close %d", i)
	}
}

func TestDayCloseJob_ResumesAfterPartialFailure(t *testing.T) {
	clk := clock.NewManual(time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC))
	closer := &failingOnCloser{failOn: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)}
	job := NewDayCloseJob(closer, clk, time.UTC)

	require.NoError(t, job.Run(context.Background()))
	clk.Advance(3 * 24 * time.Hour)
	assert.Error(t, job.Run(context.Background()))

	closer.failOn = time.Time{}
	require.NoError(t, job.Run(context.Background()))

	var closed []int
	for _, d := range closer.closed {
		closed = append(closed, d.Day())
	}
	assert.Equal(t, []int{3, 4, 5, 6}, closed)
}

type failingOnCloser struct {
	failOn time.Time
	closed []time.Time
}

func (f *failingOnCloser) CloseDay(_ context.Context, date time.Time) (int, error) {
	if date.Equal(f.failOn) {
		return 0, errors.New("db down")
	}
	f.closed = append(f.closed, date)
	return 1, nil
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.AddJob("a", time.Hour, func(context.Context) error { order = append(order, "a"); return nil })
	s.AddJob("b", time.Hour, func(context.Context) error { order = append(order, "b"); return errors.New("x") })

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"a", "b"}, order)
}
