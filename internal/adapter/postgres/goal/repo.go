// Package goal implements the Goal and GoalTaskMapping repositories using
// PostgreSQL.
package goal

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/habitloop/habitloop-backend/internal/adapter/postgres"
	"github.com/habitloop/habitloop-backend/internal/domain"
)

// Repo provides goal persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new goal repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const goalColumns = `id, owner_id, title, target_value, current_value, unit, status,
       start_date, target_date, priority, created_at, updated_at, deleted_at`

const createSQL = `
INSERT INTO goals (id, owner_id, title, target_value, current_value, unit, status, start_date, target_date, priority, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
RETURNING ` + goalColumns

const getByIDSQL = `
SELECT ` + goalColumns + `
FROM goals
WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`

const listByOwnerSQL = `
SELECT ` + goalColumns + `
FROM goals
WHERE owner_id = $1 AND deleted_at IS NULL
ORDER BY priority DESC, created_at ASC`

const updateSQL = `
UPDATE goals
SET title = $3, target_value = $4, unit = $5, status = $6,
    start_date = $7, target_date = $8, priority = $9, updated_at = now()
WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
RETURNING ` + goalColumns

const updateProgressSQL = `
UPDATE goals
SET current_value = $2, status = $3, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + goalColumns

const softDeleteSQL = `
UPDATE goals
SET deleted_at = $3, updated_at = $3
WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`

const hardDeleteOldSQL = `
DELETE FROM goals
WHERE deleted_at IS NOT NULL AND deleted_at < $1`

const attachSQL = `
INSERT INTO goal_task_mappings (goal_id, template_id, contribution_weight, created_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (goal_id, template_id) DO NOTHING`

const detachSQL = `
DELETE FROM goal_task_mappings
WHERE goal_id = $1 AND template_id = $2`

// listActiveMappingsSQL skips mappings whose template has been soft-deleted
// or opted out of goal contribution.
const listActiveMappingsSQL = `
SELECT m.goal_id, m.template_id, m.contribution_weight, m.created_at
FROM goal_task_mappings m
JOIN task_templates t ON t.id = m.template_id
WHERE m.goal_id = $1 AND t.deleted_at IS NULL AND t.include_in_goal
ORDER BY m.created_at ASC`

// listGoalIDsByTemplateSQL keeps ACHIEVED and PAUSED goals in scope: their
// current_value must follow task edits, and an achieved goal can revert.
const listGoalIDsByTemplateSQL = `
SELECT m.goal_id
FROM goal_task_mappings m
JOIN goals g ON g.id = m.goal_id
WHERE m.template_id = $1 AND g.deleted_at IS NULL`

// GetByID returns a live goal scoped to its owner.
func (r *Repo) GetByID(ctx context.Context, ownerID, goalID uuid.UUID) (*domain.Goal, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var g domain.Goal
	if err := pgxscan.Get(ctx, querier, &g, getByIDSQL, goalID, ownerID); err != nil {
		return nil, mapError(err)
	}
	return &g, nil
}

// ListByOwner returns the live goals of a user, highest priority first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Goal, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var goals []domain.Goal
	if err := pgxscan.Select(ctx, querier, &goals, listByOwnerSQL, ownerID); err != nil {
		return nil, fmt.Errorf("list goals by owner: %w", err)
	}
	if goals == nil {
		goals = []domain.Goal{}
	}
	return goals, nil
}

// ListChangedSince returns every goal of the owner (soft-deleted rows
// included) updated strictly after since. Used by the sync gather.
func (r *Repo) ListChangedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]domain.Goal, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query := psql.Select("id", "owner_id", "title", "target_value", "current_value", "unit",
		"status", "start_date", "target_date", "priority", "created_at", "updated_at", "deleted_at").
		From("goals").
		Where(sq.Eq{"owner_id": ownerID}).
		Where(sq.Gt{"updated_at": since}).
		OrderBy("updated_at ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build changed-since query: %w", err)
	}

	var goals []domain.Goal
	if err := pgxscan.Select(ctx, querier, &goals, sql, args...); err != nil {
		return nil, fmt.Errorf("list changed goals: %w", err)
	}
	return goals, nil
}

// Create inserts a goal and returns the persisted row.
func (r *Repo) Create(ctx context.Context, g *domain.Goal) (*domain.Goal, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var created domain.Goal
	err := pgxscan.Get(ctx, querier, &created, createSQL,
		g.ID, g.OwnerID, g.Title, g.TargetValue, g.CurrentValue, g.Unit,
		string(g.Status), g.StartDate, g.TargetDate, g.Priority,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

// Update rewrites the caller-editable goal fields. current_value is
// deliberately excluded; it only moves through UpdateProgress.
func (r *Repo) Update(ctx context.Context, g *domain.Goal) (*domain.Goal, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var updated domain.Goal
	err := pgxscan.Get(ctx, querier, &updated, updateSQL,
		g.ID, g.OwnerID, g.Title, g.TargetValue, g.Unit, string(g.Status),
		g.StartDate, g.TargetDate, g.Priority,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &updated, nil
}

// UpdateProgress writes a recomputed current value and status.
func (r *Repo) UpdateProgress(ctx context.Context, goalID uuid.UUID, currentValue float64, status domain.GoalStatus) (*domain.Goal, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var updated domain.Goal
	if err := pgxscan.Get(ctx, querier, &updated, updateProgressSQL, goalID, currentValue, string(status)); err != nil {
		return nil, mapError(err)
	}
	return &updated, nil
}

// ApplyFields performs a field-group update used by sync reconciliation,
// setting updated_at to the winning client timestamp.
func (r *Repo) ApplyFields(ctx context.Context, ownerID, goalID uuid.UUID, fields map[string]any, updatedAt time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	update := psql.Update("goals").
		SetMap(fields).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": goalID, "owner_id": ownerID}).
		Where("deleted_at IS NULL")

	sql, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build apply-fields query: %w", err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("goal %s: %w", goalID, domain.ErrNotFound)
	}
	return nil
}

// SoftDelete marks the goal deleted. Mappings stay in place so a restore
// keeps its template links.
func (r *Repo) SoftDelete(ctx context.Context, ownerID, goalID uuid.UUID, now time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, softDeleteSQL, goalID, ownerID, now)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("goal %s: %w", goalID, domain.ErrNotFound)
	}
	return nil
}

// HardDeleteOld removes soft-deleted goals older than threshold.
func (r *Repo) HardDeleteOld(ctx context.Context, threshold time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, hardDeleteOldSQL, threshold)
	if err != nil {
		return 0, fmt.Errorf("hard delete old goals: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Attach links a template to a goal. Attaching an already linked template
// is a no-op.
func (r *Repo) Attach(ctx context.Context, goalID, templateID uuid.UUID, weight float64) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, attachSQL, goalID, templateID, weight); err != nil {
		return mapError(err)
	}
	return nil
}

// Detach removes a goal-template link.
func (r *Repo) Detach(ctx context.Context, goalID, templateID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, detachSQL, goalID, templateID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("mapping %s/%s: %w", goalID, templateID, domain.ErrNotFound)
	}
	return nil
}

// ListActiveMappings returns the mappings of a goal whose template is alive
// and still opted into goal contribution.
func (r *Repo) ListActiveMappings(ctx context.Context, goalID uuid.UUID) ([]domain.GoalTaskMapping, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var mappings []domain.GoalTaskMapping
	if err := pgxscan.Select(ctx, querier, &mappings, listActiveMappingsSQL, goalID); err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	if mappings == nil {
		mappings = []domain.GoalTaskMapping{}
	}
	return mappings, nil
}

// ListGoalIDsByTemplate returns every live goal fed by a template, whatever
// its status. The toggle path recomputes exactly these.
func (r *Repo) ListGoalIDsByTemplate(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listGoalIDsByTemplateSQL, templateID)
	if err != nil {
		return nil, fmt.Errorf("list goal ids by template: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan goal id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goal ids: %w", err)
	}
	return ids, nil
}

// mapError converts pgx/pgconn errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("goal: %w", err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("goal: %w", domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("goal: %w", domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("goal: %w", domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("goal: %w", domain.ErrValidation)
		}
	}

	return fmt.Errorf("goal: %w", err)
}
