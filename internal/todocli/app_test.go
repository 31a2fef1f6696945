package todocli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"todo_app/internal/domain"
	"todo_app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*App, *bytes.Buffer, string) {
	t.Helper()

	out := &bytes.Buffer{}
	path := filepath.Join(t.TempDir(), "todos.db")
	app := &App{
		Out: out,
		OpenStore: func(ctx context.Context, dataPath string) (repository.TaskStore, error) {
			return repository.OpenTaskStore(ctx, "sqlite", dataPath, "")
		},
	}
	return app, out, path
}

func run(t *testing.T, app *App, path string, args ...string) error {
	t.Helper()
	argv := append([]string{"todo", "--data", path}, args...)
	return app.Command().Run(context.Background(), argv)
}

func TestApp_Lifecycle(t *testing.T) {
	app, out, path := newTestApp(t)

	require.NoError(t, run(t, app, path, "add", "--description", "2 litres", "Buy milk"))
	assert.Contains(t, out.String(), "Created task 1: Buy milk")

	out.Reset()
	require.NoError(t, run(t, app, path, "show", "1"))
	assert.Contains(t, out.String(), "Buy milk")
	assert.Contains(t, out.String(), "2 litres")
	assert.Contains(t, out.String(), domain.TaskStatePending)

	out.Reset()
	require.NoError(t, run(t, app, path, "toggle", "1"))
	assert.Contains(t, out.String(), "Task 1 is now "+domain.TaskStateCompleted)

	out.Reset()
	require.NoError(t, run(t, app, path, "edit", "--title", "Buy oat milk", "1"))
	assert.Contains(t, out.String(), "Buy oat milk")

	out.Reset()
	require.NoError(t, run(t, app, path, "list", "--done"))
	assert.Contains(t, out.String(), "Buy oat milk")

	out.Reset()
	require.NoError(t, run(t, app, path, "list", "--pending"))
	assert.Contains(t, out.String(), "No tasks found.")

	out.Reset()
	require.NoError(t, run(t, app, path, "rm", "1"))
	assert.Contains(t, out.String(), "Deleted task 1")

	err := run(t, app, path, "show", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApp_Done(t *testing.T) {
	app, out, path := newTestApp(t)

	require.NoError(t, run(t, app, path, "add", "Write report"))
	require.NoError(t, run(t, app, path, "done", "1"))
	require.NoError(t, run(t, app, path, "done", "1"))
	assert.Contains(t, out.String(), "Task 1 is now "+domain.TaskStateCompleted)
}

func TestApp_Errors(t *testing.T) {
	app, _, path := newTestApp(t)

	err := run(t, app, path, "add", "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = run(t, app, path, "show", "abc")
	assert.ErrorContains(t, err, "invalid task id")

	err = run(t, app, path, "toggle")
	assert.ErrorContains(t, err, "usage")

	err = run(t, app, path, "edit", "1")
	assert.ErrorContains(t, err, "nothing to change")

	err = run(t, app, path, "list", "--done", "--pending")
	assert.ErrorContains(t, err, "mutually exclusive")
}
