// Package taskinstance implements the TaskInstance repository using
// PostgreSQL. Rows are scanned by hand because the snapshot columns map
// onto a nested value object.
package taskinstance

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/habitloop/habitloop-backend/internal/adapter/postgres"
	"github.com/habitloop/habitloop-backend/internal/domain"
)

// Repo provides task instance persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new task instance repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// TaskWithTracker is a task instance joined with the tracker it belongs to.
// The toggle path needs the tracker identity for ownership checks and for
// resolving affected goals.
type TaskWithTracker struct {
	Task      domain.TaskInstance
	TrackerID uuid.UUID
	OwnerID   uuid.UUID
}

const taskColumns = `t.id, t.instance_id, t.template_id, t.status,
       t.snap_description, t.snap_points, t.snap_weight, t.notes,
       t.first_completed_at, t.completed_at,
       t.created_at, t.updated_at, t.deleted_at`

const createSQL = `
INSERT INTO task_instances (id, instance_id, template_id, status, snap_description, snap_points, snap_weight, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`

const getByIDSQL = `
SELECT ` + taskColumns + `, i.tracker_id, tr.owner_id
FROM task_instances t
JOIN tracker_instances i ON i.id = t.instance_id
JOIN trackers tr ON tr.id = i.tracker_id
WHERE t.id = $1 AND t.deleted_at IS NULL`

const listByInstanceSQL = `
SELECT ` + taskColumns + `
FROM task_instances t
WHERE t.instance_id = $1 AND t.deleted_at IS NULL
ORDER BY t.created_at ASC`

const updateSQL = `
UPDATE task_instances
SET status = $2, notes = $3, first_completed_at = $4, completed_at = $5, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL`

const countDoneInWindowSQL = `
SELECT count(*)
FROM task_instances
WHERE template_id = $1 AND status = 'DONE' AND deleted_at IS NULL
  AND completed_at >= $2 AND completed_at <= $3`

const softDeleteByTrackerSQL = `
UPDATE task_instances t
SET deleted_at = $2, updated_at = $2
FROM tracker_instances i
WHERE i.id = t.instance_id AND i.tracker_id = $1 AND t.deleted_at IS NULL`

const listChangedSinceSQL = `
SELECT ` + taskColumns + `, i.tracker_id, tr.owner_id
FROM task_instances t
JOIN tracker_instances i ON i.id = t.instance_id
JOIN trackers tr ON tr.id = i.tracker_id
WHERE tr.owner_id = $1 AND t.updated_at > $2
ORDER BY t.updated_at ASC`

const hardDeleteOldSQL = `
DELETE FROM task_instances
WHERE deleted_at IS NOT NULL AND deleted_at < $1`

// GetByID returns a live task instance together with its tracker identity.
func (r *Repo) GetByID(ctx context.Context, taskID uuid.UUID) (*TaskWithTracker, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, taskID)
	twt, err := scanTaskWithTracker(row)
	if err != nil {
		return nil, mapError(err)
	}
	return twt, nil
}

// ListByInstance returns the task instances of one tracker instance,
// oldest first.
func (r *Repo) ListByInstance(ctx context.Context, instanceID uuid.UUID) ([]domain.TaskInstance, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByInstanceSQL, instanceID)
	if err != nil {
		return nil, fmt.Errorf("list tasks by instance: %w", err)
	}
	defer rows.Close()

	tasks := []domain.TaskInstance{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task instance: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task instances: %w", err)
	}
	return tasks, nil
}

// ListChangedSince returns every task instance under the owner's trackers
// (soft-deleted rows included) updated strictly after since.
func (r *Repo) ListChangedSince(ctx context.Context, ownerID uuid.UUID, since time.Time) ([]TaskWithTracker, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listChangedSinceSQL, ownerID, since)
	if err != nil {
		return nil, fmt.Errorf("list changed tasks: %w", err)
	}
	defer rows.Close()

	var changed []TaskWithTracker
	for rows.Next() {
		twt, err := scanTaskWithTracker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan changed task: %w", err)
		}
		changed = append(changed, *twt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changed tasks: %w", err)
	}
	return changed, nil
}

// CountDoneInWindow counts DONE task instances of a template whose
// completed_at falls inside [from, to]. Feeds the goal recompute.
func (r *Repo) CountDoneInWindow(ctx context.Context, templateID uuid.UUID, from, to time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countDoneInWindowSQL, templateID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count done in window: %w", err)
	}
	return count, nil
}

// CreateBatch inserts the snapshot task rows of a freshly materialized
// instance in one round trip.
func (r *Repo) CreateBatch(ctx context.Context, tasks []domain.TaskInstance) error {
	if len(tasks) == 0 {
		return nil
	}
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	batch := &pgx.Batch{}
	for _, t := range tasks {
		batch.Queue(createSQL,
			t.ID, t.InstanceID, t.TemplateID, string(t.Status),
			t.Snapshot.Description, t.Snapshot.Points, t.Snapshot.Weight,
		)
	}

	results := querier.SendBatch(ctx, batch)
	defer results.Close()

	for range tasks {
		if _, err := results.Exec(); err != nil {
			return mapError(err)
		}
	}
	return nil
}

// Update rewrites the mutable task fields: status, notes and the two
// completion timestamps.
func (r *Repo) Update(ctx context.Context, t *domain.TaskInstance) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, updateSQL,
		t.ID, string(t.Status), t.Notes, t.FirstCompletedAt, t.CompletedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("task instance %s: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

// ApplyFields performs a field-group update used by sync reconciliation,
// setting updated_at to the winning client timestamp.
func (r *Repo) ApplyFields(ctx context.Context, taskID uuid.UUID, fields map[string]any, updatedAt time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	update := psql.Update("task_instances").
		SetMap(fields).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": taskID}).
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
		return fmt.Errorf("task instance %s: %w", taskID, domain.ErrNotFound)
	}
	return nil
}

// SoftDeleteByTracker marks all live task instances under a tracker
// deleted. Part of the tracker delete cascade.
func (r *Repo) SoftDeleteByTracker(ctx context.Context, trackerID uuid.UUID, now time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, softDeleteByTrackerSQL, trackerID, now)
	if err != nil {
		return 0, fmt.Errorf("soft delete tasks of tracker %s: %w", trackerID, err)
	}
	return tag.RowsAffected(), nil
}

// HardDeleteOld removes soft-deleted task instances older than threshold.
func (r *Repo) HardDeleteOld(ctx context.Context, threshold time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, hardDeleteOldSQL, threshold)
	if err != nil {
		return 0, fmt.Errorf("hard delete old tasks: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanTask(row pgx.Row) (*domain.TaskInstance, error) {
	var t domain.TaskInstance
	var status string
	err := row.Scan(
		&t.ID, &t.InstanceID, &t.TemplateID, &status,
		&t.Snapshot.Description, &t.Snapshot.Points, &t.Snapshot.Weight, &t.Notes,
		&t.FirstCompletedAt, &t.CompletedAt,
		&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	return &t, nil
}

func scanTaskWithTracker(row pgx.Row) (*TaskWithTracker, error) {
	var twt TaskWithTracker
	var status string
	err := row.Scan(
		&twt.Task.ID, &twt.Task.InstanceID, &twt.Task.TemplateID, &status,
		&twt.Task.Snapshot.Description, &twt.Task.Snapshot.Points, &twt.Task.Snapshot.Weight, &twt.Task.Notes,
		&twt.Task.FirstCompletedAt, &twt.Task.CompletedAt,
		&twt.Task.CreatedAt, &twt.Task.UpdatedAt, &twt.Task.DeletedAt,
		&twt.TrackerID, &twt.OwnerID,
	)
	if err != nil {
		return nil, err
	}
	twt.Task.Status = domain.TaskStatus(status)
	return &twt, nil
}

// mapError converts pgx/pgconn errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("task instance: %w", err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("task instance: %w", domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("task instance: %w", domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("task instance: %w", domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("task instance: %w", domain.ErrValidation)
		}
	}

	return fmt.Errorf("task instance: %w", err)
}
