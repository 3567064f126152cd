package service

import (
	"context"
	"fmt"
	"time"

	"newsdesk/pkg/models"
)

// ShouldRun reports whether a task has not yet claimed the given date. It is
// a read-only check for dashboards; the entry points themselves claim the day
// atomically via the store's compare-and-swap.
func (s *Service) ShouldRun(ctx context.Context, taskKey, date string) (bool, error) {
	if _, err := time.Parse(models.DateOnly, date); err != nil {
		return false, fmt.Errorf("%w: bad date %q", ErrValidation, date)
	}
	last, err := s.store.LastRun(ctx, taskKey)
	if err != nil {
		return false, err
	}
	return last != date, nil
}

// ResetTask rewinds a task key so the next guarded run proceeds regardless of
// when it actually last ran. Administrative override.
func (s *Service) ResetTask(ctx context.Context, taskKey string) error {
	if taskKey == "" {
		return fmt.Errorf("%w: task key required", ErrValidation)
	}
	if err := s.store.ResetRun(ctx, taskKey); err != nil {
		return err
	}
	s.logger.Info("task guard reset", "task", taskKey)
	return nil
}
