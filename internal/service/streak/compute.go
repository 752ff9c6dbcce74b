package streak

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/internal/period"
	"github.com/habitloop/habitloop-backend/pkg/ctxutil"
)

// Compute derives the current and longest streaks of a tracker from its
// completion history, anchored at asOf. A zero asOf means today in the
// user's timezone; a thresholdPct of zero or less falls back to the
// user's configured threshold.
//
// A period counts toward a streak when its completion rate meets the
// threshold. Periods whose instance has zero tasks neither count nor
// break: the walk steps over them. A missing instance or a past
// sub-threshold period breaks the run. The anchor period itself is
// exempt from breaking while it is still in progress; it simply does not
// count until it meets the threshold.
func (s *Service) Compute(ctx context.Context, trackerID uuid.UUID, asOf time.Time, thresholdPct int) (*domain.Streak, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	tracker, err := s.trackers.GetByID(ctx, userID, trackerID)
	if err != nil {
		return nil, fmt.Errorf("get tracker: %w", err)
	}

	threshold, weekStart, tz := s.settingsFor(ctx, userID)
	if thresholdPct > 0 {
		threshold = thresholdPct
	}

	anchor := asOf
	if anchor.IsZero() {
		anchor = period.Today(s.now(), tz)
	}
	currentPeriod, err := period.For(period.DateOnly(anchor), tracker.TimeMode, weekStart)
	if err != nil {
		return nil, err
	}

	history, err := s.instances.CompletionHistory(ctx, trackerID, currentPeriod.TrackingDate, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("completion history: %w", err)
	}

	// The anchor period only gets its grace while it is still running;
	// a fully elapsed anchor is judged like any other period.
	today := period.Today(s.now(), tz)
	inProgress := !currentPeriod.End.Before(today)

	streak := s.walk(history, tracker.TimeMode, currentPeriod.TrackingDate, threshold, inProgress)

	// Historical queries must not re-announce milestones.
	if s.events != nil && asOf.IsZero() && milestones[streak.Current] {
		s.events.Dispatch(domain.Event{
			Type:     domain.EventTypeStreakMilestone,
			UserID:   userID,
			EntityID: trackerID,
			Payload: map[string]any{
				"current": streak.Current,
				"longest": streak.Longest,
			},
			OccurredAt: s.now(),
		})
	}

	return streak, nil
}

// settingsFor resolves the threshold, week start and timezone from the
// user's preferences, falling back to engine defaults.
func (s *Service) settingsFor(ctx context.Context, userID uuid.UUID) (int, int, *time.Location) {
	p, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return s.defaultThreshold, s.defaultWeekStart, time.UTC
	}
	return p.StreakThreshold, p.WeekStart, period.ParseTimezone(p.Timezone)
}

// walk derives both streaks in one pass over the newest-first history.
func (s *Service) walk(history []domain.InstanceCompletion, mode domain.TimeMode, currentAnchor time.Time, threshold int, inProgress bool) *domain.Streak {
	byDate := make(map[time.Time]domain.InstanceCompletion, len(history))
	oldest := currentAnchor
	var last *time.Time
	for _, c := range history {
		d := period.DateOnly(c.TrackingDate)
		byDate[d] = c
		if d.Before(oldest) {
			oldest = d
		}
		if c.TotalCount > 0 && meets(c, threshold) && (last == nil || d.After(*last)) {
			dd := d
			last = &dd
		}
	}

	streak := &domain.Streak{LastMeetingDate: last}
	if len(history) == 0 {
		return streak
	}

	// current streak: walk backwards from the current period
	current := 0
	for anchor := currentAnchor; !anchor.Before(oldest); anchor = period.Prev(anchor, mode) {
		c, present := byDate[anchor]
		if !present || c.TotalCount == 0 {
			if (inProgress && anchor.Equal(currentAnchor)) || (present && c.TotalCount == 0) {
				// in-progress or empty period: step over
				continue
			}
			break
		}
		if !meets(c, threshold) {
			if inProgress && anchor.Equal(currentAnchor) {
				// the running period is not finished yet
				continue
			}
			break
		}
		current++
	}
	streak.Current = current

	// longest streak: scan every run in the history
	longest := 0
	run := 0
	for anchor := oldest; !anchor.After(currentAnchor); anchor = period.Next(anchor, mode) {
		c, present := byDate[anchor]
		switch {
		case present && c.TotalCount == 0:
			// empty period: run survives
		case present && meets(c, threshold):
			run++
			if run > longest {
				longest = run
			}
		default:
			run = 0
		}
	}
	streak.Longest = longest

	return streak
}

func meets(c domain.InstanceCompletion, threshold int) bool {
	return c.Rate() >= float64(threshold)
}
