package store

import (
	"context"
	"strings"

	"github.com/nhle/release-planner/internal/api"
	"github.com/nhle/release-planner/internal/model"
)

// LoadByDate replaces the task list with the tasks due on date. Without an
// access token it empties the list and returns ErrNotAuthenticated without
// any request. On failure the list is left as it was.
func (s *Store) LoadByDate(ctx context.Context, date string) error {
	if !model.ValidDate(date) {
		return s.reject(actLoadTasks, api.NewValidationError("invalid date %q", date))
	}
	if !s.session.IsAuthenticated() {
		s.mu.Lock()
		s.state.Tasks = nil
		s.mu.Unlock()
		s.publish()
		return ErrNotAuthenticated
	}

	t := s.begin(keyTaskList)
	tasks, err := s.tasks.ListByDate(ctx, date)
	if err != nil {
		s.finish(t, nil)
		s.fail(actLoadTasks, err)
		return err
	}

	s.finish(t, func(st *State) {
		st.Tasks = append([]model.Task(nil), tasks...)
	})
	return nil
}

// LoadDashboard replaces the dashboard snapshot. A failed load keeps the
// previous snapshot.
func (s *Store) LoadDashboard(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	t := s.begin(keyDashboard)
	snap, err := s.tasks.Dashboard(ctx)
	if err != nil {
		s.finish(t, nil)
		s.fail(actLoadDashboard, err)
		return err
	}

	s.finish(t, func(st *State) {
		st.Dashboard = &snap
	})
	return nil
}

// AddTask creates a task and appends the server's copy to the list.
func (s *Store) AddTask(ctx context.Context, text string, priority model.Priority, dueDate string) (model.Task, error) {
	text = strings.TrimSpace(text)
	if err := validateTask(text, priority); err != nil {
		return model.Task{}, s.reject(actAddTask, err)
	}
	if !model.ValidDate(dueDate) {
		return model.Task{}, s.reject(actAddTask, api.NewValidationError("invalid due date %q", dueDate))
	}

	t := s.begin(keyCreate)
	task, err := s.tasks.Create(ctx, api.CreateTaskRequest{Text: text, Priority: priority, DueDate: dueDate})
	if err != nil {
		s.finish(t, nil)
		s.fail(actAddTask, err)
		return model.Task{}, err
	}

	s.finish(t, func(st *State) {
		st.Tasks = append(st.Tasks, task)
	})
	s.succeed(actAddTask)
	return task, nil
}

// UpdateTask changes a task's text and priority and replaces the matching
// list entry with the server's copy.
func (s *Store) UpdateTask(ctx context.Context, id int64, text string, priority model.Priority) (model.Task, error) {
	text = strings.TrimSpace(text)
	if err := validateTask(text, priority); err != nil {
		return model.Task{}, s.reject(actUpdateTask, err)
	}

	t := s.begin(taskKey(id))
	task, err := s.tasks.Update(ctx, id, api.UpdateTaskRequest{Text: text, Priority: priority})
	if err != nil {
		s.finish(t, nil)
		s.fail(actUpdateTask, err)
		return model.Task{}, err
	}

	s.finish(t, func(st *State) {
		replaceTask(st.Tasks, id, task)
	})
	s.succeed(actUpdateTask)
	return task, nil
}

// DeleteTask removes a task remotely, then drops it from the list keeping
// the order of the others.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	t := s.beginRemove(taskKey(id))
	if err := s.tasks.Delete(ctx, id); err != nil {
		s.finish(t, nil)
		s.fail(actDeleteTask, err)
		return err
	}

	s.finish(t, func(st *State) {
		st.Tasks = removeTask(st.Tasks, id)
	})
	s.succeed(actDeleteTask)
	return nil
}

// ToggleTask flips completion on the server and stores the server's copy.
// The local flag is never flipped ahead of the response.
func (s *Store) ToggleTask(ctx context.Context, id int64) (model.Task, error) {
	t := s.begin(taskKey(id))
	task, err := s.tasks.Toggle(ctx, id)
	if err != nil {
		s.finish(t, nil)
		s.fail(actToggleTask, err)
		return model.Task{}, err
	}

	s.finish(t, func(st *State) {
		replaceTask(st.Tasks, id, task)
	})
	return task, nil
}

func validateTask(text string, priority model.Priority) error {
	if text == "" {
		return api.NewValidationError("task text is required")
	}
	if !priority.Valid() {
		return api.NewValidationError("invalid priority %q", priority)
	}
	return nil
}

func replaceTask(tasks []model.Task, id int64, task model.Task) {
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i] = task
			return
		}
	}
}

func removeTask(tasks []model.Task, id int64) []model.Task {
	out := tasks[:0:0]
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
