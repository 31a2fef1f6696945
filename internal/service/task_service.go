package service

import (
	"context"
	"errors"
	"time"

	"todo_app/internal/domain"
	"todo_app/internal/logger"
	"todo_app/internal/repository"
)

// EventPublisher receives task events after a mutation has been committed.
type EventPublisher interface {
	Publish(event domain.TaskEvent)
}

// UpdateTaskInput is a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
}

// Empty reports whether the input changes nothing.
func (in UpdateTaskInput) Empty() bool {
	return in.Title == nil && in.Description == nil
}

// TaskService is the only writer of the task store.
type TaskService struct {
	store     repository.TaskStore
	publisher EventPublisher
	now       func() time.Time
}

type TaskServiceOption func(*TaskService)

// WithPublisher sets where task events are sent.
func WithPublisher(p EventPublisher) TaskServiceOption {
	return func(s *TaskService) { s.publisher = p }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *TaskService) { s.now = now }
}

// NewTaskService creates a task service on top of store
func NewTaskService(store repository.TaskStore, opts ...TaskServiceOption) *TaskService {
	s := &TaskService{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp returns the current time in the persisted resolution.
func (s *TaskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// touch moves UpdatedAt forward, never backwards.
func (s *TaskService) touch(t *domain.Task) {
	now := s.timestamp()
	if now.Before(t.UpdatedAt) {
		now = t.UpdatedAt
	}
	t.UpdatedAt = now
}

// CreateTask validates input and stores a new pending task
func (s *TaskService) CreateTask(ctx context.Context, title, description string) (*domain.Task, error) {
	title, err := domain.NormalizeTitle(title)
	if err != nil {
		observe(opCreate, err)
		return nil, err
	}
	if err := domain.ValidateDescription(description); err != nil {
		observe(opCreate, err)
		return nil, err
	}

	now := s.timestamp()
	task, err := s.store.Insert(ctx, domain.NewTask{
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, s.fail(ctx, opCreate, err)
	}

	observe(opCreate, nil)
	logger.WithContext(ctx).Info("task created", "task_id", task.ID)
	s.publish(domain.TaskEventCreated, task)
	return task, nil
}

// GetTask returns a single task
func (s *TaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, opGet, err)
	}
	observe(opGet, nil)
	return task, nil
}

// ListTasks returns tasks in insertion order, optionally filtered by completion
func (s *TaskService) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	tasks, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, s.fail(ctx, opList, err)
	}
	observe(opList, nil)
	return tasks, nil
}

// UpdateTask changes the supplied fields and refreshes updated_at.
// An input without fields returns the current task unchanged.
func (s *TaskService) UpdateTask(ctx context.Context, id int64, in UpdateTaskInput) (*domain.Task, error) {
	var title string
	if in.Title != nil {
		var err error
		if title, err = domain.NormalizeTitle(*in.Title); err != nil {
			observe(opUpdate, err)
			return nil, err
		}
	}
	if in.Description != nil {
		if err := domain.ValidateDescription(*in.Description); err != nil {
			observe(opUpdate, err)
			return nil, err
		}
	}

	if in.Empty() {
		return s.GetTask(ctx, id)
	}

	task, err := s.store.Update(ctx, id, func(t *domain.Task) (bool, error) {
		if in.Title != nil {
			t.Title = title
		}
		if in.Description != nil {
			t.Description = *in.Description
		}
		s.touch(t)
		return true, nil
	})
	if err != nil {
		return nil, s.fail(ctx, opUpdate, err)
	}

	observe(opUpdate, nil)
	logger.WithContext(ctx).Info("task updated", "task_id", task.ID)
	s.publish(domain.TaskEventUpdated, task)
	return task, nil
}

// ToggleComplete flips the completion state
func (s *TaskService) ToggleComplete(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.store.Update(ctx, id, func(t *domain.Task) (bool, error) {
		t.Completed = !t.Completed
		s.touch(t)
		return true, nil
	})
	if err != nil {
		return nil, s.fail(ctx, opToggle, err)
	}

	observe(opToggle, nil)
	logger.WithContext(ctx).Info("task toggled", "task_id", task.ID, "state", task.State())
	s.publish(completionEvent(task), task)
	return task, nil
}

// SetCompleted moves the task to the requested state. Asking for the state the
// task is already in is a successful no-op and leaves updated_at alone.
func (s *TaskService) SetCompleted(ctx context.Context, id int64, completed bool) (*domain.Task, error) {
	changed := false
	task, err := s.store.Update(ctx, id, func(t *domain.Task) (bool, error) {
		if t.Completed == completed {
			return false, nil
		}
		t.Completed = completed
		s.touch(t)
		changed = true
		return true, nil
	})
	if err != nil {
		return nil, s.fail(ctx, opSetCompleted, err)
	}

	observe(opSetCompleted, nil)
	if changed {
		logger.WithContext(ctx).Info("task state changed", "task_id", task.ID, "state", task.State())
		s.publish(completionEvent(task), task)
	}
	return task, nil
}

// DeleteTask removes the task permanently
func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.fail(ctx, opDelete, err)
	}

	observe(opDelete, nil)
	logger.WithContext(ctx).Info("task deleted", "task_id", id)
	if s.publisher != nil {
		s.publisher.Publish(domain.TaskEvent{Type: domain.TaskEventDeleted, TaskID: id, At: s.timestamp()})
	}
	return nil
}

// fail maps err onto a domain error kind, records it and logs storage failures.
func (s *TaskService) fail(ctx context.Context, op string, err error) error {
	err = domain.NewStorageError(op, err)
	observe(op, err)
	if errors.Is(err, domain.ErrStorage) {
		logger.WithContext(ctx).Error("task storage failure", "op", op, "error", err)
	}
	return err
}

func (s *TaskService) publish(eventType string, task *domain.Task) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(domain.TaskEvent{
		Type:   eventType,
		TaskID: task.ID,
		Task:   task.Clone(),
		At:     task.UpdatedAt,
	})
}

func completionEvent(t *domain.Task) string {
	if t.Completed {
		return domain.TaskEventCompleted
	}
	return domain.TaskEventReopened
}
