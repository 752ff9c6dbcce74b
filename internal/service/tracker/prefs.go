package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/pkg/ctxutil"
)

// GetPreferences returns the current user's preferences, falling back to
// engine defaults when none were ever saved.
func (s *Service) GetPreferences(ctx context.Context) (*domain.UserPreferences, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	p, err := s.prefs.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		defaults := domain.DefaultUserPreferences(userID)
		defaults.StreakThreshold = s.defaultThreshold
		defaults.WeekStart = s.defaultWeekStart
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return p, nil
}

// UpdatePreferences saves the current user's preferences.
func (s *Service) UpdatePreferences(ctx context.Context, input UpdatePreferencesInput) (*domain.UserPreferences, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.prefs.Upsert(ctx, &domain.UserPreferences{
		UserID:          userID,
		StreakThreshold: input.StreakThreshold,
		WeekStart:       input.WeekStart,
		Timezone:        input.Timezone,
	})
	if err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	return saved, nil
}
