// Package instance implements the TrackerInstance repository using PostgreSQL.
package instance

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

// Repo provides tracker instance persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new instance repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const instanceColumns = `id, tracker_id, tracking_date, period_start, period_end,
       created_at, updated_at, deleted_at`

const createSQL = `
INSERT INTO tracker_instances (id, tracker_id, tracking_date, period_start, period_end, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
RETURNING ` + instanceColumns

const getByIDSQL = `
SELECT ` + instanceColumns + `
FROM tracker_instances
WHERE id = $1 AND deleted_at IS NULL`

const getByTrackingDateSQL = `
SELECT ` + instanceColumns + `
FROM tracker_instances
WHERE tracker_id = $1 AND tracking_date = $2 AND deleted_at IS NULL`

const listBetweenSQL = `
SELECT ` + instanceColumns + `
FROM tracker_instances
WHERE tracker_id = $1 AND tracking_date >= $2 AND tracking_date <= $3 AND deleted_at IS NULL
ORDER BY tracking_date ASC`

const listTrackingDatesBetweenSQL = `
SELECT tracking_date
FROM tracker_instances
WHERE tracker_id = $1 AND tracking_date >= $2 AND tracking_date <= $3 AND deleted_at IS NULL
ORDER BY tracking_date ASC`

// completionHistorySQL aggregates the per-instance task counts walked by the
// streak computation, newest tracking date first. Zero-task instances come
// back with total_count = 0; the soft-delete filter applies to both levels.
const completionHistorySQL = `
SELECT i.tracking_date,
       count(t.id) FILTER (WHERE t.status = 'DONE') AS done_count,
       count(t.id) AS total_count
FROM tracker_instances i
LEFT JOIN task_instances t ON t.instance_id = i.id AND t.deleted_at IS NULL
WHERE i.tracker_id = $1 AND i.tracking_date <= $2 AND i.deleted_at IS NULL
GROUP BY i.tracking_date
ORDER BY i.tracking_date DESC
LIMIT $3`

const softDeleteByTrackerSQL = `
UPDATE tracker_instances
SET deleted_at = $2, updated_at = $2
WHERE tracker_id = $1 AND deleted_at IS NULL`

const hardDeleteOldSQL = `
DELETE FROM tracker_instances
WHERE deleted_at IS NOT NULL AND deleted_at < $1`

// GetByID returns a live instance by primary key.
func (r *Repo) GetByID(ctx context.Context, instanceID uuid.UUID) (*domain.TrackerInstance, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var inst domain.TrackerInstance
	if err := pgxscan.Get(ctx, querier, &inst, getByIDSQL, instanceID); err != nil {
		return nil, mapError(err)
	}
	return &inst, nil
}

// GetByTrackingDate returns the instance of a tracker for one tracking date.
func (r *Repo) GetByTrackingDate(ctx context.Context, trackerID uuid.UUID, trackingDate time.Time) (*domain.TrackerInstance, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var inst domain.TrackerInstance
	if err := pgxscan.Get(ctx, querier, &inst, getByTrackingDateSQL, trackerID, trackingDate); err != nil {
		return nil, mapError(err)
	}
	return &inst, nil
}

// ListBetween returns the instances of a tracker whose tracking date falls in
// [from, to], oldest first.
func (r *Repo) ListBetween(ctx context.Context, trackerID uuid.UUID, from, to time.Time) ([]domain.TrackerInstance, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var instances []domain.TrackerInstance
	if err := pgxscan.Select(ctx, querier, &instances, listBetweenSQL, trackerID, from, to); err != nil {
		return nil, fmt.Errorf("list instances between: %w", err)
	}
	if instances == nil {
		instances = []domain.TrackerInstance{}
	}
	return instances, nil
}

// ListTrackingDatesBetween returns just the tracking dates present in
// [from, to]. The range generator diffs these against the wanted periods.
func (r *Repo) ListTrackingDatesBetween(ctx context.Context, trackerID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listTrackingDatesBetweenSQL, trackerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list tracking dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan tracking date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracking dates: %w", err)
	}
	return dates, nil
}

// CompletionHistory returns per-instance completion counts for tracking
// dates at or before the given date, newest first, capped at limit rows.
func (r *Repo) CompletionHistory(ctx context.Context, trackerID uuid.UUID, before time.Time, limit int) ([]domain.InstanceCompletion, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var history []domain.InstanceCompletion
	if err := pgxscan.Select(ctx, querier, &history, completionHistorySQL, trackerID, before, limit); err != nil {
		return nil, fmt.Errorf("completion history: %w", err)
	}
	return history, nil
}

// Create inserts a new instance row. A concurrent insert for the same
// (tracker, tracking date) surfaces as domain.ErrAlreadyExists; the caller
// re-fetches the winning row.
func (r *Repo) Create(ctx context.Context, inst *domain.TrackerInstance) (*domain.TrackerInstance, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var created domain.TrackerInstance
	err := pgxscan.Get(ctx, querier, &created, createSQL,
		inst.ID, inst.TrackerID, inst.TrackingDate, inst.PeriodStart, inst.PeriodEnd,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

// SoftDeleteByTracker marks all live instances of a tracker deleted.
// Part of the tracker delete cascade.
func (r *Repo) SoftDeleteByTracker(ctx context.Context, trackerID uuid.UUID, now time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, softDeleteByTrackerSQL, trackerID, now)
	if err != nil {
		return 0, fmt.Errorf("soft delete instances of tracker %s: %w", trackerID, err)
	}
	return tag.RowsAffected(), nil
}

// HardDeleteOld removes soft-deleted instances older than threshold.
func (r *Repo) HardDeleteOld(ctx context.Context, threshold time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, hardDeleteOldSQL, threshold)
	if err != nil {
		return 0, fmt.Errorf("hard delete old instances: %w", err)
	}
	return tag.RowsAffected(), nil
}

// mapError converts pgx/pgconn errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("tracker instance: %w", err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("tracker instance: %w", domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("tracker instance: %w", domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("tracker instance: %w", domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("tracker instance: %w", domain.ErrValidation)
		}
	}

	return fmt.Errorf("tracker instance: %w", err)
}
