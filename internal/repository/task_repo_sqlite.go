package repository

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"todo_app/internal/domain"
)

// SQLiteTaskRepository stores tasks in an embedded sqlite file.
// Writers hold mu exclusively; readers share it.
type SQLiteTaskRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteTaskRepository takes ownership of db; Close closes it.
func NewSQLiteTaskRepository(db *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db}
}

type sqlRow interface {
	Scan(dest ...any) error
}

func scanSQLiteTask(row sqlRow) (*domain.Task, error) {
	var (
		t                domain.Task
		created, updated int64
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &created, &updated); err != nil {
		return nil, err
	}
	t.CreatedAt = time.UnixMicro(created).UTC()
	t.UpdatedAt = time.UnixMicro(updated).UTC()
	return &t, nil
}

func (r *SQLiteTaskRepository) Insert(ctx context.Context, nt domain.NewTask) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		nt.Title, nt.Description, nt.Completed, nt.CreatedAt.UnixMicro(), nt.UpdatedAt.UnixMicro(),
	)
	if err != nil {
		return nil, domain.NewStorageError("insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, domain.NewStorageError("insert", err)
	}

	return &domain.Task{
		ID:          id,
		Title:       nt.Title,
		Description: nt.Description,
		Completed:   nt.Completed,
		CreatedAt:   time.UnixMicro(nt.CreatedAt.UnixMicro()).UTC(),
		UpdatedAt:   time.UnixMicro(nt.UpdatedAt.UnixMicro()).UTC(),
	}, nil
}

func (r *SQLiteTaskRepository) Get(ctx context.Context, id int64) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, err := scanSQLiteTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("get", err)
	}
	return t, nil
}

// List returns tasks in insertion (id) order.
func (r *SQLiteTaskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if filter.Completed != nil {
		query += ` WHERE completed = ?`
		args = append(args, *filter.Completed)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError("list", err)
	}
	defer rows.Close()

	res := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, domain.NewStorageError("list", err)
		}
		res = append(res, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list", err)
	}
	return res, nil
}

func (r *SQLiteTaskRepository) Update(ctx context.Context, id int64, mutate domain.TaskMutator) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.NewStorageError("update", err)
	}
	defer func() { _ = tx.Rollback() }()

	t, err := scanSQLiteTask(tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("update", err)
	}

	stored := t.Clone()
	changed, err := mutate(t)
	if err != nil {
		return nil, err
	}
	if !changed {
		return stored, nil
	}
	t.ID = stored.ID
	t.CreatedAt = stored.CreatedAt
	t.UpdatedAt = time.UnixMicro(t.UpdatedAt.UnixMicro()).UTC()

	_, err = tx.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, description = ?, completed = ?, updated_at = ?
		 WHERE id = ?`,
		t.Title, t.Description, t.Completed, t.UpdatedAt.UnixMicro(), id,
	)
	if err != nil {
		return nil, domain.NewStorageError("update", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, domain.NewStorageError("update", err)
	}
	return t, nil
}

func (r *SQLiteTaskRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return domain.NewStorageError("delete", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return domain.NewStorageError("delete", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SQLiteTaskRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteTaskRepository) Close() error {
	return r.db.Close()
}
