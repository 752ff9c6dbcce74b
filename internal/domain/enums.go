package domain

// TimeMode defines the recurrence granularity of a tracker.
type TimeMode string

const (
	TimeModeDaily   TimeMode = "DAILY"
	TimeModeWeekly  TimeMode = "WEEKLY"
	TimeModeMonthly TimeMode = "MONTHLY"
)

func (m TimeMode) String() string { return string(m) }

func (m TimeMode) IsValid() bool {
	switch m {
	case TimeModeDaily, TimeModeWeekly, TimeModeMonthly:
		return true
	}
	return false
}

// TrackerStatus represents the lifecycle state of a tracker.
type TrackerStatus string

const (
	TrackerStatusActive   TrackerStatus = "ACTIVE"
	TrackerStatusPaused   TrackerStatus = "PAUSED"
	TrackerStatusArchived TrackerStatus = "ARCHIVED"
)

func (s TrackerStatus) String() string { return string(s) }

func (s TrackerStatus) IsValid() bool {
	switch s {
	case TrackerStatusActive, TrackerStatusPaused, TrackerStatusArchived:
		return true
	}
	return false
}

// TaskStatus represents the completion state of a task instance.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusMissed     TaskStatus = "MISSED"
	TaskStatusSkipped    TaskStatus = "SKIPPED"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
)

func (s TaskStatus) String() string { return string(s) }

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone,
		TaskStatusMissed, TaskStatusSkipped, TaskStatusBlocked:
		return true
	}
	return false
}

// GoalStatus represents the lifecycle state of a goal.
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "ACTIVE"
	GoalStatusAchieved  GoalStatus = "ACHIEVED"
	GoalStatusPaused    GoalStatus = "PAUSED"
	GoalStatusAbandoned GoalStatus = "ABANDONED"
)

func (s GoalStatus) String() string { return string(s) }

func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalStatusActive, GoalStatusAchieved, GoalStatusPaused, GoalStatusAbandoned:
		return true
	}
	return false
}

// SyncEntityType identifies the kind of entity a sync change targets.
type SyncEntityType string

const (
	SyncEntityTracker      SyncEntityType = "TRACKER"
	SyncEntityTaskInstance SyncEntityType = "TASK_INSTANCE"
	SyncEntityGoal         SyncEntityType = "GOAL"
)

func (t SyncEntityType) String() string { return string(t) }

func (t SyncEntityType) IsValid() bool {
	switch t {
	case SyncEntityTracker, SyncEntityTaskInstance, SyncEntityGoal:
		return true
	}
	return false
}

// EventType identifies the kind of notification event emitted by the engine.
type EventType string

const (
	EventTypeGoalAchieved    EventType = "GOAL_ACHIEVED"
	EventTypeStreakMilestone EventType = "STREAK_MILESTONE"
)

func (e EventType) String() string { return string(e) }
