package repository

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"todo_app/internal/db"
	"todo_app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) (*SQLiteTaskRepository, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tasks.db")
	conn, err := db.OpenSQLite(context.Background(), path)
	require.NoError(t, err)

	repo := NewSQLiteTaskRepository(conn)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, path
}

func newTask(title string) domain.NewTask {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.NewTask{Title: title, CreatedAt: now, UpdatedAt: now}
}

func TestSQLiteTaskRepository_InsertGet(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	nt := newTask("Buy milk")
	nt.Description = "2 litres"
	created, err := repo.Insert(ctx, nt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.True(t, got.CreatedAt.Equal(nt.CreatedAt))
	assert.Equal(t, "2 litres", got.Description)

	_, err = repo.Get(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSQLiteTaskRepository_ListOrderAndFilter(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C"} {
		_, err := repo.Insert(ctx, newTask(title))
		require.NoError(t, err)
	}

	_, err := repo.Update(ctx, 2, func(t *domain.Task) (bool, error) {
		t.Completed = true
		return true, nil
	})
	require.NoError(t, err)

	all, err := repo.List(ctx, domain.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].Title)
	assert.Equal(t, "B", all[1].Title)
	assert.Equal(t, "C", all[2].Title)

	done := true
	completed, err := repo.List(ctx, domain.TaskFilter{Completed: &done})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "B", completed[0].Title)

	pending := false
	open, err := repo.List(ctx, domain.TaskFilter{Completed: &pending})
	require.NoError(t, err)
	assert.Len(t, open, 2)
}

func TestSQLiteTaskRepository_ListEmpty(t *testing.T) {
	repo, _ := newSQLiteRepo(t)

	tasks, err := repo.List(context.Background(), domain.TaskFilter{})
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestSQLiteTaskRepository_UpdateMutatorError(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, newTask("keep me"))
	require.NoError(t, err)

	boom := errors.New("rejected")
	_, err = repo.Update(ctx, created.ID, func(t *domain.Task) (bool, error) {
		t.Title = "half written"
		return true, boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Title)
}

func TestSQLiteTaskRepository_UpdateUnchangedSkipsWrite(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, newTask("same"))
	require.NoError(t, err)

	got, err := repo.Update(ctx, created.ID, func(t *domain.Task) (bool, error) {
		t.Title = "ignored"
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "same", got.Title)

	stored, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestSQLiteTaskRepository_UpdateKeepsImmutableFields(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, newTask("orig"))
	require.NoError(t, err)

	later := created.UpdatedAt.Add(time.Second)
	updated, err := repo.Update(ctx, created.ID, func(t *domain.Task) (bool, error) {
		t.ID = 42
		t.CreatedAt = t.CreatedAt.Add(-time.Hour)
		t.Title = "renamed"
		t.UpdatedAt = later
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	stored, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", stored.Title)
	assert.True(t, stored.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, stored.UpdatedAt.Equal(later))
}

func TestSQLiteTaskRepository_DeleteAndIDsNotReused(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	first, err := repo.Insert(ctx, newTask("first"))
	require.NoError(t, err)
	second, err := repo.Insert(ctx, newTask("second"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, second.ID))
	assert.ErrorIs(t, repo.Delete(ctx, second.ID), domain.ErrNotFound)

	_, err = repo.Get(ctx, second.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.Update(ctx, second.ID, func(t *domain.Task) (bool, error) { return true, nil })
	assert.ErrorIs(t, err, domain.ErrNotFound)

	third, err := repo.Insert(ctx, newTask("third"))
	require.NoError(t, err)
	assert.Greater(t, third.ID, second.ID)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestSQLiteTaskRepository_PersistsAcrossReopen(t *testing.T) {
	repo, path := newSQLiteRepo(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, newTask("durable"))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	conn, err := db.OpenSQLite(ctx, path)
	require.NoError(t, err)
	reopened := NewSQLiteTaskRepository(conn)
	defer reopened.Close()

	got, err := reopened.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "durable", got.Title)
	assert.True(t, got.UpdatedAt.Equal(created.UpdatedAt))
}

func TestSQLiteTaskRepository_ConcurrentUpdatesSerialize(t *testing.T) {
	repo, _ := newSQLiteRepo(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, newTask("counter"))
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, created.ID, func(t *domain.Task) (bool, error) {
				t.Completed = !t.Completed
				t.UpdatedAt = t.UpdatedAt.Add(time.Microsecond)
				return true, nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	// an even number of flips lands back on the initial state
	assert.False(t, got.Completed)
	assert.True(t, got.UpdatedAt.Equal(created.UpdatedAt.Add(workers*time.Microsecond)))
}

func TestOpenTaskStore(t *testing.T) {
	ctx := context.Background()

	store, err := OpenTaskStore(ctx, "sqlite", filepath.Join(t.TempDir(), "nested", "tasks.db"), "")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Ping(ctx))

	_, err = OpenTaskStore(ctx, "mongo", "", "")
	assert.Error(t, err)
}
