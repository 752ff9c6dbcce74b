package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop-backend/internal/domain"
	"github.com/habitloop/habitloop-backend/pkg/ctxutil"
)

// AddTemplate creates a task template under a tracker of the current user.
// Existing instances are not backfilled; the template shows up in the next
// materialized period.
func (s *Service) AddTemplate(ctx context.Context, input CreateTemplateInput) (*domain.TaskTemplate, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	// ownership check
	if _, err := s.trackers.GetByID(ctx, userID, input.TrackerID); err != nil {
		return nil, fmt.Errorf("get tracker: %w", err)
	}

	created, err := s.templates.Create(ctx, &domain.TaskTemplate{
		ID:            uuid.New(),
		TrackerID:     input.TrackerID,
		Description:   input.Description,
		Category:      input.Category,
		Weight:        input.Weight,
		Points:        input.Points,
		IncludeInGoal: input.IncludeInGoal,
		TimeOfDay:     input.TimeOfDay,
	})
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return created, nil
}

// ListTemplates returns the live templates of a tracker.
func (s *Service) ListTemplates(ctx context.Context, trackerID uuid.UUID) ([]domain.TaskTemplate, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.trackers.GetByID(ctx, userID, trackerID); err != nil {
		return nil, fmt.Errorf("get tracker: %w", err)
	}

	templates, err := s.templates.ListActiveByTracker(ctx, trackerID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// UpdateTemplate applies the provided field changes to a template.
// Task instances created from it keep their frozen snapshots.
func (s *Service) UpdateTemplate(ctx context.Context, input UpdateTemplateInput) (*domain.TaskTemplate, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	tpl, err := s.ownedTemplate(ctx, userID, input.TemplateID)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		tpl.Description = *input.Description
	}
	if input.Category != nil {
		tpl.Category = input.Category
	}
	if input.Weight != nil {
		tpl.Weight = *input.Weight
	}
	if input.Points != nil {
		tpl.Points = *input.Points
	}
	if input.IncludeInGoal != nil {
		tpl.IncludeInGoal = *input.IncludeInGoal
	}
	if input.TimeOfDay != nil {
		tpl.TimeOfDay = input.TimeOfDay
	}

	updated, err := s.templates.Update(ctx, tpl)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return updated, nil
}

// RemoveTemplate soft-deletes a template. Historical task instances keep
// their snapshots; future instance generation skips it.
func (s *Service) RemoveTemplate(ctx context.Context, templateID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if _, err := s.ownedTemplate(ctx, userID, templateID); err != nil {
		return err
	}

	if err := s.templates.SoftDelete(ctx, templateID, time.Now().UTC()); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// ownedTemplate loads a template and verifies its tracker belongs to userID.
func (s *Service) ownedTemplate(ctx context.Context, userID, templateID uuid.UUID) (*domain.TaskTemplate, error) {
	tpl, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if _, err := s.trackers.GetByID(ctx, userID, tpl.TrackerID); err != nil {
		return nil, fmt.Errorf("get tracker: %w", err)
	}
	return tpl, nil
}
