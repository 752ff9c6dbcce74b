// Package tracker implements the Tracker repository using PostgreSQL.
// Static queries use raw SQL consts; the sync gather and field-group
// updates are built dynamically with squirrel.
package tracker

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

// Repo provides tracker persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tracker repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const trackerColumns = `id, owner_id, name, time_mode, status, goal_period, goal_start_day,
       created_at, updated_at, deleted_at`

const createSQL = `
INSERT INTO trackers (id, owner_id, name, time_mode, status, goal_period, goal_start_day, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
RETURNING ` + trackerColumns

const getByIDSQL = `
SELECT ` + trackerColumns + `
FROM trackers
WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`

const listByOwnerSQL = `
SELECT ` + trackerColumns + `
FROM trackers
WHERE owner_id = $1 AND deleted_at IS NULL
ORDER BY created_at ASC`

const updateSQL = `
UPDATE trackers
SET name = $3, status = $4, goal_period = $5, goal_start_day = $6, updated_at = now()
WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
RETURNING ` + trackerColumns

const softDeleteSQL = `
UPDATE trackers
SET deleted_at = $3, updated_at = $3
WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`

const restoreSQL = `
UPDATE trackers
SET deleted_at = NULL, updated_at = now()
WHERE id = $1 AND owner_id = $2 AND deleted_at IS NOT NULL
RETURNING ` + trackerColumns

const hardDeleteOldSQL = `
DELETE FROM trackers
WHERE deleted_at IS NOT NULL AND deleted_at < $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a tracker by primary key scoped to its owner.
// Soft-deleted trackers are treated as missing.
func (r *Repo) GetByID(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var t domain.Tracker
	if err := pgxscan.Get(ctx, querier, &t, getByIDSQL, trackerID, ownerID); err != nil {
		return nil, mapError(err, "tracker", trackerID)
	}
	return &t, nil
}

// ListByOwner returns all live trackers of a user.
func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Tracker, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var trackers []domain.Tracker
	if err := pgxscan.Select(ctx, querier, &trackers, listByOwnerSQL, ownerID); err != nil {
		return nil, fmt.Errorf("list trackers by owner: %w", err)
	}
	if trackers == nil {
		trackers = []domain.Tracker{}
	}
	return trackers, nil
}

// ListChangedSince returns every tracker of the owner (soft-deleted rows
// included) whose updated_at is strictly after since. Used by the sync gather.
func (r *Repo) ListChangedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]domain.Tracker, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query := psql.Select("id", "owner_id", "name", "time_mode", "status", "goal_period",
		"goal_start_day", "created_at", "updated_at", "deleted_at").
		From("trackers").
		Where(sq.Eq{"owner_id": ownerID}).
		Where(sq.Gt{"updated_at": since}).
		OrderBy("updated_at ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build changed-since query: %w", err)
	}

	var trackers []domain.Tracker
	if err := pgxscan.Select(ctx, querier, &trackers, sql, args...); err != nil {
		return nil, fmt.Errorf("list changed trackers: %w", err)
	}
	return trackers, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new tracker and returns the persisted row.
func (r *Repo) Create(ctx context.Context, t *domain.Tracker) (*domain.Tracker, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var created domain.Tracker
	err := pgxscan.Get(ctx, querier, &created, createSQL,
		t.ID, t.OwnerID, t.Name, string(t.TimeMode), string(t.Status), t.GoalPeriod, t.GoalStartDay,
	)
	if err != nil {
		return nil, mapError(err, "tracker", t.ID)
	}
	return &created, nil
}

// Update rewrites the mutable tracker fields and returns the fresh row.
func (r *Repo) Update(ctx context.Context, t *domain.Tracker) (*domain.Tracker, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var updated domain.Tracker
	err := pgxscan.Get(ctx, querier, &updated, updateSQL,
		t.ID, t.OwnerID, t.Name, string(t.Status), t.GoalPeriod, t.GoalStartDay,
	)
	if err != nil {
		return nil, mapError(err, "tracker", t.ID)
	}
	return &updated, nil
}

// ApplyFields performs a field-group update used by sync reconciliation:
// only the whitelisted fields are written and updated_at is set to the
// winning client timestamp.
func (r *Repo) ApplyFields(ctx context.Context, ownerID, trackerID uuid.UUID, fields map[string]any, updatedAt time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	update := psql.Update("trackers").
		SetMap(fields).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": trackerID, "owner_id": ownerID}).
		Where("deleted_at IS NULL")

	sql, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build apply-fields query: %w", err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, "tracker", trackerID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tracker %s: %w", trackerID, domain.ErrNotFound)
	}
	return nil
}

// SoftDelete marks the tracker deleted at the given time. The cascade to
// instances and task instances is the tracker service's responsibility.
func (r *Repo) SoftDelete(ctx context.Context, ownerID, trackerID uuid.UUID, now time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, softDeleteSQL, trackerID, ownerID, now)
	if err != nil {
		return mapError(err, "tracker", trackerID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("tracker %s: %w", trackerID, domain.ErrNotFound)
	}
	return nil
}

// Restore clears the soft-delete mark.
func (r *Repo) Restore(ctx context.Context, ownerID, trackerID uuid.UUID) (*domain.Tracker, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var restored domain.Tracker
	if err := pgxscan.Get(ctx, querier, &restored, restoreSQL, trackerID, ownerID); err != nil {
		return nil, mapError(err, "tracker", trackerID)
	}
	return &restored, nil
}

// HardDeleteOld removes soft-deleted trackers older than threshold.
// Dependent rows go away through ON DELETE CASCADE.
func (r *Repo) HardDeleteOld(ctx context.Context, threshold time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, hardDeleteOldSQL, threshold)
	if err != nil {
		return 0, fmt.Errorf("hard delete old trackers: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors to domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
