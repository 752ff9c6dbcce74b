package instance

import (
	"context"
	"fmt"
	"time"

	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/internal/period"
	"github.com/habitloop/habitloop-backend/pkg/ctxutil"
)

// GenerateRange materializes every missing instance whose period overlaps
// [from, to]. With MarkMissedForPast, tasks of periods already fully in
// the past are created as MISSED rather than TODO so historical backfills
// do not look like open work. Existing instances are left untouched.
func (s *Service) GenerateRange(ctx context.Context, input GenerateRangeInput) (*GenerateResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	from := period.DateOnly(input.From)
	to := period.DateOnly(input.To)
	if int(to.Sub(from).Hours()/24) > s.maxGenerateRangeDays {
		return nil, domain.NewValidationError("range",
			fmt.Sprintf("span exceeds %d days", s.maxGenerateRangeDays))
	}

	tracker, err := s.trackers.GetByID(ctx, userID, input.TrackerID)
	if err != nil {
		return nil, fmt.Errorf("get tracker: %w", err)
	}
	if !tracker.IsActive() {
		return nil, fmt.Errorf("tracker %s is not active: %w", tracker.ID, domain.ErrConflict)
	}

	weekStart := s.weekStartFor(ctx, userID)
	first, err := period.For(from, tracker.TimeMode, weekStart)
	if err != nil {
		return nil, err
	}
	last, err := period.For(to, tracker.TimeMode, weekStart)
	if err != nil {
		return nil, err
	}

	// collect the wanted period anchors, walking period by period
	var wanted []period.Period
	for anchor := first.TrackingDate; !anchor.After(last.TrackingDate); anchor = period.Next(anchor, tracker.TimeMode) {
		p, err := period.For(anchor, tracker.TimeMode, weekStart)
		if err != nil {
			return nil, err
		}
		wanted = append(wanted, p)
	}

	existing, err := s.instances.ListTrackingDatesBetween(ctx, tracker.ID, first.TrackingDate, last.TrackingDate)
	if err != nil {
		return nil, fmt.Errorf("list existing dates: %w", err)
	}
	present := make(map[time.Time]bool, len(existing))
	for _, d := range existing {
		present[period.DateOnly(d)] = true
	}

	today := period.Today(s.now(), s.timezoneFor(ctx, userID))

	result := &GenerateResult{}
	for _, p := range wanted {
		if present[p.TrackingDate] {
			result.Skipped++
			continue
		}

		status := domain.TaskStatusTodo
		if input.MarkMissedForPast && p.End.Before(today) {
			status = domain.TaskStatusMissed
		}

		if _, err := s.materializeWithStatus(ctx, tracker.ID, p, status); err != nil {
			return nil, err
		}
		result.Created++
	}

	s.log.Info("range generated",
		"tracker_id", tracker.ID,
		"created", result.Created,
		"skipped", result.Skipped,
	)
	return result, nil
}
