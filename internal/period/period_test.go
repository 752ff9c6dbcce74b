package period

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitloop/habitloop-backend/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFor_Daily(t *testing.T) {
	t.Parallel()

	p, err := For(time.Date(2025, 3, 14, 17, 45, 3, 0, time.UTC), domain.TimeModeDaily, 0)
	require.NoError(t, err)

	want := date(2025, 3, 14)
	assert.Equal(t, want, p.TrackingDate)
	assert.Equal(t, want, p.Start)
	assert.Equal(t, want, p.End)
}

func TestFor_Weekly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		day        time.Time
		weekStart  int
		wantAnchor time.Time
	}{
		// 2025-03-14 is a Friday.
		{"sunday start", date(2025, 3, 14), 0, date(2025, 3, 9)},
		{"monday start", date(2025, 3, 14), 1, date(2025, 3, 10)},
		{"date on anchor day", date(2025, 3, 10), 1, date(2025, 3, 10)},
		{"anchor crosses month", date(2025, 3, 1), 1, date(2025, 2, 24)},
		{"anchor crosses year", date(2025, 1, 2), 1, date(2024, 12, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := For(tt.day, domain.TimeModeWeekly, tt.weekStart)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAnchor, p.TrackingDate)
			assert.Equal(t, tt.wantAnchor, p.Start)
			assert.Equal(t, tt.wantAnchor.AddDate(0, 0, 6), p.End)
		})
	}
}

func TestFor_Monthly(t *testing.T) {
	t.Parallel()

	p, err := For(date(2024, 2, 15), domain.TimeModeMonthly, 0)
	require.NoError(t, err)

	assert.Equal(t, date(2024, 2, 1), p.TrackingDate)
	assert.Equal(t, date(2024, 2, 1), p.Start)
	// 2024 is a leap year.
	assert.Equal(t, date(2024, 2, 29), p.End)
}

func TestFor_InvalidTimeMode(t *testing.T) {
	t.Parallel()

	_, err := For(date(2025, 1, 1), domain.TimeMode("HOURLY"), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestFor_InvalidWeekStart(t *testing.T) {
	t.Parallel()

	_, err := For(date(2025, 1, 1), domain.TimeModeWeekly, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestPrevNext_Roundtrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode domain.TimeMode
		from time.Time
		prev time.Time
	}{
		{domain.TimeModeDaily, date(2025, 3, 1), date(2025, 2, 28)},
		{domain.TimeModeWeekly, date(2025, 1, 6), date(2024, 12, 30)},
		{domain.TimeModeMonthly, date(2025, 1, 1), date(2024, 12, 1)},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.prev, Prev(tt.from, tt.mode))
			assert.Equal(t, tt.from, Next(tt.prev, tt.mode))
		})
	}
}

func TestToday_TimezoneBoundary(t *testing.T) {
	t.Parallel()

	// 2025-03-14 01:30 UTC is still 2025-03-13 in New York.
	now := time.Date(2025, 3, 14, 1, 30, 0, 0, time.UTC)
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	assert.Equal(t, date(2025, 3, 13), Today(now, ny))
	assert.Equal(t, date(2025, 3, 14), Today(now, time.UTC))
}

func TestParseTimezone_FallsBackToUTC(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.UTC, ParseTimezone("Not/AZone"))
	assert.Equal(t, "America/New_York", ParseTimezone("America/New_York").String())
}
