package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Engine.validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := c.Sync.validate(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if c.Notify.QueueSize <= 0 {
		return fmt.Errorf("notify: queue_size must be > 0 (got %d)", c.Notify.QueueSize)
	}
	if c.Cleanup.HardDeleteRetentionDays < 0 {
		return fmt.Errorf("cleanup: hard_delete_retention_days must be >= 0 (got %d)", c.Cleanup.HardDeleteRetentionDays)
	}
	return nil
}

func (e *EngineConfig) validate() error {
	if e.DefaultStreakThreshold < 1 || e.DefaultStreakThreshold > 100 {
		return fmt.Errorf("default_streak_threshold must be between 1 and 100 (got %d)", e.DefaultStreakThreshold)
	}
	if e.DefaultWeekStart < 0 || e.DefaultWeekStart > 6 {
		return fmt.Errorf("default_week_start must be between 0 and 6 (got %d)", e.DefaultWeekStart)
	}
	if e.MaxGenerateRangeDays <= 0 {
		return fmt.Errorf("max_generate_range_days must be > 0 (got %d)", e.MaxGenerateRangeDays)
	}
	if e.StreakHistoryLimit <= 0 {
		return fmt.Errorf("streak_history_limit must be > 0 (got %d)", e.StreakHistoryLimit)
	}
	return nil
}

func (s *SyncConfig) validate() error {
	if s.MaxBatchSize <= 0 {
		return fmt.Errorf("max_batch_size must be > 0 (got %d)", s.MaxBatchSize)
	}
	if s.ClockSkewTolerance < 0 {
		return fmt.Errorf("clock_skew_tolerance must be >= 0 (got %v)", s.ClockSkewTolerance)
	}
	return nil
}
