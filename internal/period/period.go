// Package period converts calendar dates into tracker period boundaries.
// All functions are pure: dates go in, dates come out, nothing is stored.
// Dates are normalized to UTC midnight of the civil date; timezone-aware
// "today" resolution happens once at the boundary via Today.
package period

import (
	"fmt"
	"time"

	"github.com/habitloop/habitloop-backend/internal/domain"
)

// Period is the resolved time window for one tracker instance.
// TrackingDate is the period anchor used for uniqueness: the date itself
// for DAILY, the week's start day for WEEKLY, the first of the month for
// MONTHLY.
type Period struct {
	Start        time.Time
	End          time.Time
	TrackingDate time.Time
}

// For resolves the period containing date for the given time mode.
// weekStart (0=Sunday..6=Saturday) only affects WEEKLY trackers.
func For(date time.Time, mode domain.TimeMode, weekStart int) (Period, error) {
	if weekStart < 0 || weekStart > 6 {
		return Period{}, domain.NewValidationError("week_start", "must be between 0 and 6")
	}

	d := DateOnly(date)

	switch mode {
	case domain.TimeModeDaily:
		return Period{Start: d, End: d, TrackingDate: d}, nil

	case domain.TimeModeWeekly:
		back := (int(d.Weekday()) - weekStart + 7) % 7
		anchor := d.AddDate(0, 0, -back)
		return Period{
			Start:        anchor,
			End:          anchor.AddDate(0, 0, 6),
			TrackingDate: anchor,
		}, nil

	case domain.TimeModeMonthly:
		first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return Period{Start: first, End: last, TrackingDate: first}, nil

	default:
		return Period{}, domain.NewValidationError("time_mode",
			fmt.Sprintf("unrecognized time mode %q", mode))
	}
}

// Prev returns the tracking date of the period immediately before the
// period anchored at trackingDate.
func Prev(trackingDate time.Time, mode domain.TimeMode) time.Time {
	d := DateOnly(trackingDate)
	switch mode {
	case domain.TimeModeWeekly:
		return d.AddDate(0, 0, -7)
	case domain.TimeModeMonthly:
		return d.AddDate(0, -1, 0)
	default:
		return d.AddDate(0, 0, -1)
	}
}

// Next returns the tracking date of the period immediately after the
// period anchored at trackingDate.
func Next(trackingDate time.Time, mode domain.TimeMode) time.Time {
	d := DateOnly(trackingDate)
	switch mode {
	case domain.TimeModeWeekly:
		return d.AddDate(0, 0, 7)
	case domain.TimeModeMonthly:
		return d.AddDate(0, 1, 0)
	default:
		return d.AddDate(0, 0, 1)
	}
}

// DateOnly strips the time-of-day component, keeping the civil date as
// UTC midnight. The civil date is taken from t's own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current civil date in the user's timezone as a
// UTC-midnight date.
func Today(now time.Time, tz *time.Location) time.Time {
	return DateOnly(now.In(tz))
}

// ParseTimezone parses an IANA timezone name, returning UTC as fallback.
func ParseTimezone(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
