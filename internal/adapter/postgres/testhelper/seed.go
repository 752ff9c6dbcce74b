package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/habitloop/habitloop-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with default preferences. Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:          uuid.New(),
		Email:       "testuser-" + suffix + "@example.com",
		DisplayName: "Test User " + suffix,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, display_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.DisplayName, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	prefs := domain.DefaultUserPreferences(user.ID)
	_, err = pool.Exec(ctx,
		`INSERT INTO user_preferences (user_id, streak_threshold, week_start, timezone, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		prefs.UserID, prefs.StreakThreshold, prefs.WeekStart, prefs.Timezone, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user_preferences: %v", err)
	}

	return user
}

// SeedTracker creates an active tracker for the given owner.
func SeedTracker(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID, mode domain.TimeMode) domain.Tracker {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	tracker := domain.Tracker{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      "Tracker " + uniqueSuffix(),
		TimeMode:  mode,
		Status:    domain.TrackerStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO trackers (id, owner_id, name, time_mode, status, goal_start_day, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tracker.ID, tracker.OwnerID, tracker.Name, string(tracker.TimeMode),
		string(tracker.Status), tracker.GoalStartDay, tracker.CreatedAt, tracker.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTracker: %v", err)
	}

	return tracker
}

// SeedTemplate creates an active task template under the given tracker.
func SeedTemplate(t *testing.T, pool *pgxpool.Pool, trackerID uuid.UUID) domain.TaskTemplate {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	tpl := domain.TaskTemplate{
		ID:            uuid.New(),
		TrackerID:     trackerID,
		Description:   "Task " + uniqueSuffix(),
		Weight:        1,
		Points:        1,
		IncludeInGoal: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO task_templates (id, tracker_id, description, weight, points, include_in_goal, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tpl.ID, tpl.TrackerID, tpl.Description, tpl.Weight, tpl.Points, tpl.IncludeInGoal, tpl.CreatedAt, tpl.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTemplate: %v", err)
	}

	return tpl
}

// SeedInstance creates a tracker instance for the given tracking date
// (daily period: start = end = tracking date).
func SeedInstance(t *testing.T, pool *pgxpool.Pool, trackerID uuid.UUID, trackingDate time.Time) domain.TrackerInstance {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	inst := domain.TrackerInstance{
		ID:           uuid.New(),
		TrackerID:    trackerID,
		TrackingDate: trackingDate,
		PeriodStart:  trackingDate,
		PeriodEnd:    trackingDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO tracker_instances (id, tracker_id, tracking_date, period_start, period_end, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inst.ID, inst.TrackerID, inst.TrackingDate, inst.PeriodStart, inst.PeriodEnd, inst.CreatedAt, inst.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedInstance: %v", err)
	}

	return inst
}

// SeedTaskInstance creates a task instance with the given status under an
// instance, snapshotting the template fields.
func SeedTaskInstance(t *testing.T, pool *pgxpool.Pool, inst domain.TrackerInstance, tpl domain.TaskTemplate, status domain.TaskStatus) domain.TaskInstance {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	task := domain.TaskInstance{
		ID:         uuid.New(),
		InstanceID: inst.ID,
		TemplateID: tpl.ID,
		Status:     status,
		Snapshot:   tpl.Snapshot(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if status == domain.TaskStatusDone {
		task.CompletedAt = &now
		task.FirstCompletedAt = &now
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO task_instances
		 (id, instance_id, template_id, status, snap_description, snap_points, snap_weight,
		  first_completed_at, completed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		task.ID, task.InstanceID, task.TemplateID, string(task.Status),
		task.Snapshot.Description, task.Snapshot.Points, task.Snapshot.Weight,
		task.FirstCompletedAt, task.CompletedAt, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTaskInstance: %v", err)
	}

	return task
}

// SeedGoal creates an active goal for the given owner.
func SeedGoal(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID, target float64) domain.Goal {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	goal := domain.Goal{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       "Goal " + uniqueSuffix(),
		TargetValue: target,
		Status:      domain.GoalStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO goals (id, owner_id, title, target_value, current_value, status, priority, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 0, $5, 0, $6, $7)`,
		goal.ID, goal.OwnerID, goal.Title, goal.TargetValue, string(goal.Status), goal.CreatedAt, goal.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedGoal: %v", err)
	}

	return goal
}

// SeedMapping links a goal to a template with the given contribution weight.
func SeedMapping(t *testing.T, pool *pgxpool.Pool, goalID, templateID uuid.UUID, weight float64) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO goal_task_mappings (goal_id, template_id, contribution_weight)
		 VALUES ($1, $2, $3)`,
		goalID, templateID, weight,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMapping: %v", err)
	}
}

// SeedShareLink creates a share link for the tracker with the given use cap.
func SeedShareLink(t *testing.T, pool *pgxpool.Pool, trackerID uuid.UUID, maxUses int) domain.ShareLink {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	link := domain.ShareLink{
		ID:        uuid.New(),
		TrackerID: trackerID,
		Code:      "code-" + uniqueSuffix(),
		MaxUses:   maxUses,
		CreatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO share_links (id, tracker_id, code, max_uses, use_count, created_at)
		 VALUES ($1, $2, $3, $4, 0, $5)`,
		link.ID, link.TrackerID, link.Code, link.MaxUses, link.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedShareLink: %v", err)
	}

	return link
}
