package domain

import "time"

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// Task is a single to-do item.
type Task struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Completed   bool      `db:"completed" json:"completed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// State returns the lifecycle state name of the task.
func (t *Task) State() string {
	if t.Completed {
		return TaskStateCompleted
	}
	return TaskStatePending
}

// Clone returns a copy that can be mutated without touching t.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

const (
	TaskStatePending   = "pending"
	TaskStateCompleted = "completed"
)

// NewTask is a task record that has not been assigned an id yet.
type NewTask struct {
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows a task listing. A nil Completed matches every task.
type TaskFilter struct {
	Completed *bool
}

// Matches reports whether t passes the filter.
func (f TaskFilter) Matches(t *Task) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	return true
}

// TaskMutator changes a task in place while the store holds its write lock.
// It reports whether anything changed; an error aborts the whole update.
type TaskMutator func(t *Task) (changed bool, err error)
