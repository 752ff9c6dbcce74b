// Package template implements the TaskTemplate repository using PostgreSQL.
package template

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/habitloop/habitloop-backend/internal/adapter/postgres"
	"github.com/habitloop/habitloop-backend/internal/domain"
)

// Repo provides task template persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new template repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const templateColumns = `id, tracker_id, description, category, weight, points,
       include_in_goal, time_of_day, created_at, updated_at, deleted_at`

const createSQL = `
INSERT INTO task_templates (id, tracker_id, description, category, weight, points, include_in_goal, time_of_day, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
RETURNING ` + templateColumns

const getByIDSQL = `
SELECT ` + templateColumns + `
FROM task_templates
WHERE id = $1 AND deleted_at IS NULL`

const listActiveByTrackerSQL = `
SELECT ` + templateColumns + `
FROM task_templates
WHERE tracker_id = $1 AND deleted_at IS NULL
ORDER BY created_at ASC`

const updateSQL = `
UPDATE task_templates
SET description = $2, category = $3, weight = $4, points = $5,
    include_in_goal = $6, time_of_day = $7, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + templateColumns

const softDeleteSQL = `
UPDATE task_templates
SET deleted_at = $2, updated_at = $2
WHERE id = $1 AND deleted_at IS NULL`

const softDeleteByTrackerSQL = `
UPDATE task_templates
SET deleted_at = $2, updated_at = $2
WHERE tracker_id = $1 AND deleted_at IS NULL`

// GetByID returns a live template by primary key.
func (r *Repo) GetByID(ctx context.Context, templateID uuid.UUID) (*domain.TaskTemplate, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var t domain.TaskTemplate
	if err := pgxscan.Get(ctx, querier, &t, getByIDSQL, templateID); err != nil {
		return nil, mapError(err, templateID)
	}
	return &t, nil
}

// ListActiveByTracker returns the live templates of a tracker. These are
// the rows snapshotted into a fresh tracker instance.
func (r *Repo) ListActiveByTracker(ctx context.Context, trackerID uuid.UUID) ([]domain.TaskTemplate, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var templates []domain.TaskTemplate
	if err := pgxscan.Select(ctx, querier, &templates, listActiveByTrackerSQL, trackerID); err != nil {
		return nil, fmt.Errorf("list templates by tracker: %w", err)
	}
	if templates == nil {
		templates = []domain.TaskTemplate{}
	}
	return templates, nil
}

// Create inserts a template and returns the persisted row.
func (r *Repo) Create(ctx context.Context, t *domain.TaskTemplate) (*domain.TaskTemplate, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var created domain.TaskTemplate
	err := pgxscan.Get(ctx, querier, &created, createSQL,
		t.ID, t.TrackerID, t.Description, t.Category, t.Weight, t.Points, t.IncludeInGoal, t.TimeOfDay,
	)
	if err != nil {
		return nil, mapError(err, t.ID)
	}
	return &created, nil
}

// Update rewrites the mutable template fields. Existing task instances keep
// their snapshots; only future instances see the new values.
func (r *Repo) Update(ctx context.Context, t *domain.TaskTemplate) (*domain.TaskTemplate, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var updated domain.TaskTemplate
	err := pgxscan.Get(ctx, querier, &updated, updateSQL,
		t.ID, t.Description, t.Category, t.Weight, t.Points, t.IncludeInGoal, t.TimeOfDay,
	)
	if err != nil {
		return nil, mapError(err, t.ID)
	}
	return &updated, nil
}

// SoftDelete marks the template deleted. Instances generated earlier keep
// their snapshot rows untouched.
func (r *Repo) SoftDelete(ctx context.Context, templateID uuid.UUID, now time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, softDeleteSQL, templateID, now)
	if err != nil {
		return mapError(err, templateID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", templateID, domain.ErrNotFound)
	}
	return nil
}

// SoftDeleteByTracker marks all live templates of a tracker deleted.
// Part of the tracker delete cascade.
func (r *Repo) SoftDeleteByTracker(ctx context.Context, trackerID uuid.UUID, now time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, softDeleteByTrackerSQL, trackerID, now)
	if err != nil {
		return 0, fmt.Errorf("soft delete templates of tracker %s: %w", trackerID, err)
	}
	return tag.RowsAffected(), nil
}

// mapError converts pgx/pgconn errors to domain errors.
func mapError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("template %s: %w", id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("template %s: %w", id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("template %s: %w", id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("template %s: %w", id, err)
}
