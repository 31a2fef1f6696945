package repository

import (
	"context"
	"fmt"

	"todo_app/internal/db"
)

// OpenTaskStore opens the store for driver ("sqlite" or "postgres").
// The returned store owns its handle; callers must Close it.
func OpenTaskStore(ctx context.Context, driver, dataPath, databaseURL string) (TaskStore, error) {
	switch driver {
	case "sqlite":
		conn, err := db.OpenSQLite(ctx, dataPath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteTaskRepository(conn), nil
	case "postgres":
		pool, err := db.Connect(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return &TaskRepository{db: pool, ownsPool: true}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
