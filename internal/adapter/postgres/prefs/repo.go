// Package prefs implements the UserPreferences repository using PostgreSQL.
package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/habitloop/habitloop-backend/internal/adapter/postgres"
	"github.com/habitloop/habitloop-backend/internal/domain"
)

// Repo provides user preference persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new preferences repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getSQL = `
SELECT user_id, streak_threshold, week_start, timezone, updated_at
FROM user_preferences
WHERE user_id = $1`

const upsertSQL = `
INSERT INTO user_preferences (user_id, streak_threshold, week_start, timezone, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (user_id) DO UPDATE
SET streak_threshold = EXCLUDED.streak_threshold,
    week_start = EXCLUDED.week_start,
    timezone = EXCLUDED.timezone,
    updated_at = now()
RETURNING user_id, streak_threshold, week_start, timezone, updated_at`

// Get returns the stored preferences of a user. Users that never saved
// preferences get domain.ErrNotFound; callers fall back to defaults.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID) (*domain.UserPreferences, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var p domain.UserPreferences
	if err := pgxscan.Get(ctx, querier, &p, getSQL, userID); err != nil {
		return nil, mapError(err, userID)
	}
	return &p, nil
}

// Upsert writes the preferences row, creating it on first save.
func (r *Repo) Upsert(ctx context.Context, p *domain.UserPreferences) (*domain.UserPreferences, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var saved domain.UserPreferences
	err := pgxscan.Get(ctx, querier, &saved, upsertSQL,
		p.UserID, p.StreakThreshold, p.WeekStart, p.Timezone,
	)
	if err != nil {
		return nil, mapError(err, p.UserID)
	}
	return &saved, nil
}

// mapError converts pgx/pgconn errors to domain errors.
func mapError(err error, userID uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("preferences %s: %w", userID, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("preferences %s: %w", userID, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return fmt.Errorf("preferences %s: %w", userID, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("preferences %s: %w", userID, domain.ErrValidation)
		}
	}

	return fmt.Errorf("preferences %s: %w", userID, err)
}
