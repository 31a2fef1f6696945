package repository

import (
	"context"
	"errors"

	"todo_app/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, title, description, completed, created_at, updated_at`

// TaskRepository stores tasks in Postgres.
type TaskRepository struct {
	db       *pgxpool.Pool
	ownsPool bool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func (r *TaskRepository) Insert(ctx context.Context, nt domain.NewTask) (*domain.Task, error) {
	t := &domain.Task{
		Title:       nt.Title,
		Description: nt.Description,
		Completed:   nt.Completed,
		CreatedAt:   nt.CreatedAt,
		UpdatedAt:   nt.UpdatedAt,
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (title, description, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		t.Title, t.Description, t.Completed, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		return nil, domain.NewStorageError("insert", err)
	}
	return t, nil
}

func (r *TaskRepository) Get(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStorageError("get", err)
	}
	return t, nil
}

// List returns tasks in insertion (id) order.
func (r *TaskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if filter.Completed != nil {
		query += ` WHERE completed = $1`
		args = append(args, *filter.Completed)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError("list", err)
	}
	defer rows.Close()

	res := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
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

// Update locks the row, applies mutate and writes the result in one transaction.
func (r *TaskRepository) Update(ctx context.Context, id int64, mutate domain.TaskMutator) (*domain.Task, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, domain.NewStorageError("update", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	t, err := scanTask(tx.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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

	_, err = tx.Exec(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, completed = $3, updated_at = $4
		 WHERE id = $5`,
		t.Title, t.Description, t.Completed, t.UpdatedAt, id,
	)
	if err != nil {
		return nil, domain.NewStorageError("update", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, domain.NewStorageError("update", err)
	}
	return t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return domain.NewStorageError("delete", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close releases the pool only when the repository opened it itself.
func (r *TaskRepository) Close() error {
	if r.ownsPool {
		r.db.Close()
	}
	return nil
}
