package store

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/nhle/release-planner/internal/api"
	"github.com/nhle/release-planner/internal/model"
)

// LoadAllCompletedTasks returns the completed tasks due within the trailing
// window ending today. The task list in State is not touched.
func (s *Store) LoadAllCompletedTasks(ctx context.Context) ([]model.Task, error) {
	return s.loadCompleted(ctx, model.TrailingDates(s.now(), s.window))
}

// MaxCompletedRangeDays bounds LoadCompletedInRange, which sends one request
// per day.
const MaxCompletedRangeDays = 92

// LoadCompletedInRange returns the completed tasks due between start and
// end inclusive. The range may span at most MaxCompletedRangeDays days.
func (s *Store) LoadCompletedInRange(ctx context.Context, start, end string) ([]model.Task, error) {
	dates, err := model.DatesBetween(start, end)
	if err != nil {
		return nil, api.NewValidationError("%v", err)
	}
	if len(dates) == 0 {
		return nil, api.NewValidationError("range end %s is before start %s", end, start)
	}
	if len(dates) > MaxCompletedRangeDays {
		return nil, api.NewValidationError("range %s..%s spans %d days; at most %d allowed",
			start, end, len(dates), MaxCompletedRangeDays)
	}
	return s.loadCompleted(ctx, dates)
}

// WeeklyComparison loads the completed-task window and counts completions
// per weekday for this week and last week.
func (s *Store) WeeklyComparison(ctx context.Context) ([]model.WeeklyEntry, error) {
	tasks, err := s.LoadAllCompletedTasks(ctx)
	if err != nil {
		return nil, err
	}
	return model.WeeklyComparison(tasks, s.now()), nil
}

// loadCompleted fetches each day concurrently, at most s.fanout at a time.
// A failed day is logged and skipped; the call fails only when every day
// fails. Results keep date order.
func (s *Store) loadCompleted(ctx context.Context, dates []string) ([]model.Task, error) {
	if !s.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if len(dates) == 0 {
		return nil, nil
	}

	t := s.begin(keyCreate)
	defer s.finish(t, nil)

	perDay := make([][]model.Task, len(dates))
	errs := make([]error, len(dates))

	var g errgroup.Group
	g.SetLimit(s.fanout)
	for i, date := range dates {
		g.Go(func() error {
			tasks, err := s.tasks.ListByDate(ctx, date)
			if err != nil {
				log.Printf("[store] loading tasks for %s: %v", date, err)
				errs[i] = err
				return nil
			}
			perDay[i] = tasks
			return nil
		})
	}
	_ = g.Wait()

	var (
		completed []model.Task
		failed    int
		firstErr  error
	)
	for i := range dates {
		if errs[i] != nil {
			failed++
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		for _, task := range perDay[i] {
			if task.Completed {
				completed = append(completed, task)
			}
		}
	}

	if failed == len(dates) {
		return nil, fmt.Errorf("loading completed tasks: all %d days failed: %w", failed, firstErr)
	}
	if failed > 0 {
		log.Printf("[store] completed tasks: skipped %d of %d days", failed, len(dates))
	}
	return completed, nil
}
