package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(day int) time.Time {
	return time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC)
}

func TestBalance_ConsumeAndRestore(t *testing.T) {
	b := NewBalance("emp-1", LeaveType{ID: "lt-1", AllottedCount: 5})
	require.NoError(t, b.Check())

	require.NoError(t, b.Consume(3))
	assert.Equal(t, 3, b.Used)
	assert.Equal(t, 2, b.Remaining)

	assert.ErrorIs(t, b.Consume(3), ErrInsufficientBalance)
	assert.Equal(t, 3, b.Used, "failed consume must not change the balance")

	require.NoError(t, b.Restore(3))
	assert.Equal(t, 0, b.Used)
	assert.Equal(t, 5, b.Remaining)

	assert.ErrorIs(t, b.Restore(1), ErrBalanceInvariant)
}

func TestBalance_Check(t *testing.T) {
	assert.ErrorIs(t, Balance{Allotted: 5, Used: 3, Remaining: 3}.Check(), ErrBalanceInvariant)
	assert.ErrorIs(t, Balance{Allotted: 0, Used: -1, Remaining: 1}.Check(), ErrBalanceInvariant)
	assert.NoError(t, Balance{Allotted: 5, Used: 5, Remaining: 0}.Check())
}

func TestRequest_Overlaps(t *testing.T) {
	r := Request{FromDate: date(10), ToDate: date(12)}

	tests := []struct {
		name     string
		from, to int
		want     bool
	}{
		{"ends the day before", 7, 9, false},
		{"ends on first day", 8, 10, true},
		{"inside", 11, 11, true},
		{"starts on last day", 12, 14, true},
		{"starts the day after", 13, 15, false},
		{"surrounds", 1, 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Overlaps(date(tt.from), date(tt.to)))
		})
	}
}

func TestRequest_Dates(t *testing.T) {
	r := Request{FromDate: date(29), ToDate: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)}

	dates := r.Dates()

	require.Len(t, dates, 3)
	assert.Equal(t, date(29), dates[0])
	assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), dates[2])
	assert.True(t, r.Covers(date(30)))
	assert.False(t, r.Covers(date(28)))
}

func TestRequestStatus_IsActive(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusApproved.IsActive())
	assert.False(t, StatusRejected.IsActive())
	assert.False(t, StatusCancelled.IsActive())
}
