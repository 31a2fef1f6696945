package repository

import (
	"context"

	"todo_app/internal/domain"
)

// TaskStore is the durable task collection. Implementations serialize
// conflicting writes and never expose a partially written record.
type TaskStore interface {
	Insert(ctx context.Context, t domain.NewTask) (*domain.Task, error)
	Get(ctx context.Context, id int64) (*domain.Task, error)
	List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, id int64, mutate domain.TaskMutator) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ TaskStore = (*TaskRepository)(nil)
	_ TaskStore = (*SQLiteTaskRepository)(nil)
)
