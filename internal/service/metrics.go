package service

import (
	"errors"

	"todo_app/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opCreate       = "create"
	opGet          = "get"
	opList         = "list"
	opUpdate       = "update"
	opToggle       = "toggle"
	opSetCompleted = "set_completed"
	opDelete       = "delete"
)

var (
	TaskOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_task_operations_total",
			Help: "Task service calls by operation and result",
		},
		[]string{"operation", "result"},
	)
)

func init() {
	prometheus.MustRegister(TaskOperations)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "storage_error"
	}
}

func observe(op string, err error) {
	TaskOperations.WithLabelValues(op, resultLabel(err)).Inc()
}
