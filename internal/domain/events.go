package domain

import "time"

// Task event types
const (
	TaskEventCreated   = "task.created"
	TaskEventUpdated   = "task.updated"
	TaskEventCompleted = "task.completed"
	TaskEventReopened  = "task.reopened"
	TaskEventDeleted   = "task.deleted"
)

// TaskEvent is published after a task mutation has been committed.
type TaskEvent struct {
	Type   string    `json:"type"`
	TaskID int64     `json:"task_id"`
	Task   *Task     `json:"task,omitempty"`
	At     time.Time `json:"at"`
}
