package tracker

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/pkg/ctxutil"
)

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// newLinkCode returns an opaque 26-character share code.
func newLinkCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate share code: %w", err)
	}
	return codeEncoding.EncodeToString(buf), nil
}

// CreateShareLink creates a redeemable link for a tracker of the current
// user.
func (s *Service) CreateShareLink(ctx context.Context, input CreateShareLinkInput) (*domain.ShareLink, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.trackers.GetByID(ctx, userID, input.TrackerID); err != nil {
		return nil, fmt.Errorf("get tracker: %w", err)
	}

	code, err := newLinkCode()
	if err != nil {
		return nil, err
	}

	created, err := s.links.Create(ctx, &domain.ShareLink{
		ID:        uuid.New(),
		TrackerID: input.TrackerID,
		Code:      code,
		MaxUses:   input.MaxUses,
		ExpiresAt: input.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create share link: %w", err)
	}

	s.log.Info("share link created", "tracker_id", input.TrackerID, "link_id", created.ID)
	return created, nil
}

// ListShareLinks returns the links of a tracker of the current user.
func (s *Service) ListShareLinks(ctx context.Context, trackerID uuid.UUID) ([]domain.ShareLink, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.trackers.GetByID(ctx, userID, trackerID); err != nil {
		return nil, fmt.Errorf("get tracker: %w", err)
	}

	links, err := s.links.ListByTracker(ctx, trackerID)
	if err != nil {
		return nil, fmt.Errorf("list share links: %w", err)
	}
	return links, nil
}

// RedeemShareLink consumes one use of a link and returns its tracker ID.
// Consumption is atomic in storage: concurrent redeemers beyond the use
// cap get domain.ErrExhausted.
func (s *Service) RedeemShareLink(ctx context.Context, code string) (uuid.UUID, error) {
	if code == "" {
		return uuid.Nil, domain.NewValidationError("code", "required")
	}

	link, err := s.links.Consume(ctx, code, time.Now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("redeem share link: %w", err)
	}

	s.log.Info("share link redeemed", "link_id", link.ID, "use_count", link.UseCount)
	return link.TrackerID, nil
}

// DeleteShareLink removes a link of the current user.
func (s *Service) DeleteShareLink(ctx context.Context, linkID uuid.UUID, trackerID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if _, err := s.trackers.GetByID(ctx, userID, trackerID); err != nil {
		return fmt.Errorf("get tracker: %w", err)
	}

	if err := s.links.Delete(ctx, linkID); err != nil {
		return fmt.Errorf("delete share link: %w", err)
	}
	return nil
}
