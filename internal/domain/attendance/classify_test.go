package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-engine/internal/domain/shift"
	"github.com/stretchr/testify/assert"
)

var generalShift = shift.Policy{
	CheckIn:            9 * 60,
	CheckOut:           17 * 60,
	GracePeriodMinutes: 10,
	HalfDayMinutes:     240,
	FullDayMinutes:     480,
}

func ts(hour, minute int) *time.Time {
	t := time.Date(2024, time.June, 10, hour, minute, 0, 0, time.UTC)
	return &t
}

func TestClassify(t *testing.T) {
	leave := &LeaveRef{RequestID: "lr-1", IsPaid: true}
	closed := &Record{CheckIn: ts(9, 0), CheckOut: ts(17, 0), WorkedMinutes: 480}
	short := &Record{CheckIn: ts(9, 0), CheckOut: ts(12, 0), WorkedMinutes: 180}
	lateClosed := &Record{CheckIn: ts(9, 30), CheckOut: ts(18, 0), WorkedMinutes: 510, IsLate: true}
	open := &Record{CheckIn: ts(9, 0)}
	placeholder := &Record{}

	tests := []struct {
		name string
		rec  *Record
		day  DayContext
		want Status
	}{
		{"leave beats weekend", nil, DayContext{Leave: leave, WeekOff: true}, StatusLeave},
		{"leave beats a worked day", closed, DayContext{Leave: leave}, StatusLeave},
		{"weekend beats holiday", nil, DayContext{WeekOff: true, IsHoliday: true}, StatusWeekend},
		{"holiday", nil, DayContext{IsHoliday: true}, StatusHoliday},
		{"no record", nil, DayContext{}, StatusAbsent},
		{"placeholder record", placeholder, DayContext{}, StatusAbsent},
		{"short closed day", short, DayContext{}, StatusHalfDay},
		{"open record is never half day", open, DayContext{}, StatusPresent},
		{"late", lateClosed, DayContext{}, StatusLate},
		{"present", closed, DayContext{}, StatusPresent},
		{"worked exactly half day", &Record{CheckIn: ts(9, 0), CheckOut: ts(13, 0), WorkedMinutes: 240}, DayContext{}, StatusPresent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.rec, generalShift, tt.day))
		})
	}
}

func TestLateness(t *testing.T) {
	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		checkIn     *time.Time
		wantLate    bool
		wantMinutes int
	}{
		{"early", ts(8, 45), false, 0},
		{"inside grace", ts(9, 8), false, 0},
		{"on grace boundary", ts(9, 10), false, 0},
		{"after grace counts from schedule", ts(9, 11), true, 11},
		{"an hour late", ts(10, 0), true, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			late, minutes := Lateness(*tt.checkIn, date, generalShift, time.UTC)
			assert.Equal(t, tt.wantLate, late)
			assert.Equal(t, tt.wantMinutes, minutes)
		})
	}
}

func TestLateness_RespectsLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	date := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	// 09:20 in Jakarta is 02:20 UTC.
	checkIn := time.Date(2024, time.June, 10, 2, 20, 0, 0, time.UTC)
	late, minutes := Lateness(checkIn, date, generalShift, jakarta)

	assert.True(t, late)
	assert.Equal(t, 20, minutes)
}

func TestWorkedAndOvertimeMinutes(t *testing.T) {
	assert.Equal(t, 420, WorkedMinutes(*ts(9, 0), *ts(17, 0), 60))
	assert.Equal(t, 0, WorkedMinutes(*ts(9, 0), *ts(9, 30), 45))

	// Seconds are truncated.
	in := time.Date(2024, time.June, 10, 9, 0, 30, 0, time.UTC)
	out := time.Date(2024, time.June, 10, 9, 10, 29, 0, time.UTC)
	assert.Equal(t, 9, WorkedMinutes(in, out, 0))

	assert.Equal(t, 0, OvertimeMinutes(480, generalShift))
	assert.Equal(t, 90, OvertimeMinutes(570, generalShift))
}

func TestSummarize(t *testing.T) {
	days := []Day{
		{Status: StatusPresent, Record: &Record{WorkedMinutes: 500, OvertimeMinutes: 20}},
		{Status: StatusLate, Record: &Record{WorkedMinutes: 470, LateMinutes: 15, TotalBreakMinutes: 30}},
		{Status: StatusAbsent},
		{DayContext: DayContext{IsHoliday: true}, Status: StatusHoliday},
		{DayContext: DayContext{WeekOff: true}, Status: StatusWeekend, Record: &Record{LateMinutes: 120}},
		{DayContext: DayContext{Leave: &LeaveRef{}}, Status: StatusLeave, Record: &Record{LateMinutes: 45}},
	}

	s := Summarize(days)

	assert.Equal(t, 1, s.Present)
	assert.Equal(t, 1, s.Late)
	assert.Equal(t, 1, s.Absent)
	assert.Equal(t, 1, s.Holiday)
	assert.Equal(t, 1, s.Weekend)
	assert.Equal(t, 1, s.Leave)
	assert.Equal(t, 4, s.WorkingDays)
	assert.Equal(t, 970, s.WorkedMinutes)
	assert.Equal(t, 20, s.OvertimeMinutes)
	assert.Equal(t, 15, s.LateMinutes)
	assert.Equal(t, 30, s.BreakMinutes)
}
