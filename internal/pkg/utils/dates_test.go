package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOf_UsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)

	// 20:00 UTC is already the next day in IST.
	ts := time.Date(2024, 6, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-11", FormatDate(DateOf(ts, ist)))
	assert.Equal(t, "2024-06-10", FormatDate(DateOf(ts, time.UTC)))
}

func TestInclusiveDays(t *testing.T) {
	from := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, InclusiveDays(from, from))
	assert.Equal(t, 3, InclusiveDays(from, from.AddDate(0, 0, 2)))
	assert.Equal(t, 0, InclusiveDays(from, from.AddDate(0, 0, -1)))
	// Crosses a month boundary.
	assert.Equal(t, 31, InclusiveDays(
		time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
	))
}

func TestEachDay(t *testing.T) {
	var got []string
	EachDay(
		time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		func(d time.Time) { got = append(got, FormatDate(d)) },
	)
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01"}, got)
}

func TestAt(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	got := At(date, 9*60+10, ist)
	assert.True(t, time.Date(2024, 6, 10, 9, 10, 0, 0, ist).Equal(got))
}

func TestWholeMinutes(t *testing.T) {
	assert.Equal(t, 0, WholeMinutes(-time.Minute))
	assert.Equal(t, 0, WholeMinutes(59*time.Second))
	assert.Equal(t, 60, WholeMinutes(time.Hour+59*time.Second))
}
