// Package sharelink implements the ShareLink repository using PostgreSQL.
// Consumption is a single conditional UPDATE so concurrent redeemers can
// never push use_count past max_uses.
package sharelink

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

// Repo provides share link persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new share link repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const linkColumns = `id, tracker_id, code, max_uses, use_count, expires_at, created_at`

const createSQL = `
INSERT INTO share_links (id, tracker_id, code, max_uses, use_count, expires_at, created_at)
VALUES ($1, $2, $3, $4, 0, $5, now())
RETURNING ` + linkColumns

const getByCodeSQL = `
SELECT ` + linkColumns + `
FROM share_links
WHERE code = $1`

const listByTrackerSQL = `
SELECT ` + linkColumns + `
FROM share_links
WHERE tracker_id = $1
ORDER BY created_at ASC`

// consumeSQL increments use_count only while the link is below its cap and
// not expired. Zero max_uses means no cap.
const consumeSQL = `
UPDATE share_links
SET use_count = use_count + 1
WHERE code = $1
  AND (max_uses = 0 OR use_count < max_uses)
  AND (expires_at IS NULL OR expires_at > $2)
RETURNING ` + linkColumns

const deleteSQL = `
DELETE FROM share_links
WHERE id = $1`

// GetByCode returns the link with the given opaque code.
func (r *Repo) GetByCode(ctx context.Context, code string) (*domain.ShareLink, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var l domain.ShareLink
	if err := pgxscan.Get(ctx, querier, &l, getByCodeSQL, code); err != nil {
		return nil, mapError(err)
	}
	return &l, nil
}

// ListByTracker returns all links of a tracker.
func (r *Repo) ListByTracker(ctx context.Context, trackerID uuid.UUID) ([]domain.ShareLink, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var links []domain.ShareLink
	if err := pgxscan.Select(ctx, querier, &links, listByTrackerSQL, trackerID); err != nil {
		return nil, fmt.Errorf("list share links: %w", err)
	}
	if links == nil {
		links = []domain.ShareLink{}
	}
	return links, nil
}

// Create inserts a link and returns the persisted row.
func (r *Repo) Create(ctx context.Context, l *domain.ShareLink) (*domain.ShareLink, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var created domain.ShareLink
	err := pgxscan.Get(ctx, querier, &created, createSQL,
		l.ID, l.TrackerID, l.Code, l.MaxUses, l.ExpiresAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

// Consume atomically redeems one use of the link. When the conditional
// update matches no row the link is re-read to tell an unknown code apart
// from an exhausted or expired one.
func (r *Repo) Consume(ctx context.Context, code string, now time.Time) (*domain.ShareLink, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var consumed domain.ShareLink
	err := pgxscan.Get(ctx, querier, &consumed, consumeSQL, code, now)
	if err == nil {
		return &consumed, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, mapError(err)
	}

	link, err := r.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if link.IsExpired(now) {
		return nil, fmt.Errorf("share link %s expired: %w", code, domain.ErrExhausted)
	}
	return nil, fmt.Errorf("share link %s used up: %w", code, domain.ErrExhausted)
}

// Delete removes a link permanently. Share links are not soft-deleted.
func (r *Repo) Delete(ctx context.Context, linkID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, linkID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("share link %s: %w", linkID, domain.ErrNotFound)
	}
	return nil
}

// mapError converts pgx/pgconn errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("share link: %w", err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("share link: %w", domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("share link: %w", domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("share link: %w", domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("share link: %w", domain.ErrValidation)
		}
	}

	return fmt.Errorf("share link: %w", err)
}
