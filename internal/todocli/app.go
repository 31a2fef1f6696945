package todocli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"todo_app/internal/config"
	"todo_app/internal/domain"
	"todo_app/internal/repository"
	"todo_app/internal/service"

	"github.com/urfave/cli/v3"
)

// StoreOpener opens the task store; dataPath is empty unless --data was given.
type StoreOpener func(ctx context.Context, dataPath string) (repository.TaskStore, error)

// App is the todo command-line client.
type App struct {
	Out       io.Writer
	OpenStore StoreOpener
}

// New returns an App writing to stdout and opening the store from the environment.
func New() *App {
	return &App{Out: os.Stdout, OpenStore: OpenFromEnv}
}

// OpenFromEnv opens the store described by the environment, with dataPath
// overriding DATA_PATH when set.
func OpenFromEnv(ctx context.Context, dataPath string) (repository.TaskStore, error) {
	cfg, err := config.FromLookup(os.Getenv)
	if err != nil {
		return nil, err
	}
	if dataPath != "" {
		cfg.DataPath = dataPath
		cfg.StorageDriver = config.DriverSQLite
	}
	return repository.OpenTaskStore(ctx, cfg.StorageDriver, cfg.DataPath, cfg.DatabaseURL)
}

// Command builds the root command.
func (a *App) Command() *cli.Command {
	return &cli.Command{
		Name:  "todo",
		Usage: "Manage your todo list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "data",
				Usage: "Path to the sqlite data file (overrides DATA_PATH)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Create a task",
				ArgsUsage: "<title>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Task description"},
				},
				Action: a.runAdd,
			},
			{
				Name:  "list",
				Usage: "List tasks",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "done", Usage: "Only completed tasks"},
					&cli.BoolFlag{Name: "pending", Usage: "Only pending tasks"},
				},
				Action: a.runList,
			},
			{
				Name:      "show",
				Usage:     "Show task details",
				ArgsUsage: "<id>",
				Action:    a.runShow,
			},
			{
				Name:      "edit",
				Usage:     "Change a task's title or description",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New description"},
				},
				Action: a.runEdit,
			},
			{
				Name:      "toggle",
				Usage:     "Flip a task between pending and completed",
				ArgsUsage: "<id>",
				Action:    a.runToggle,
			},
			{
				Name:      "done",
				Usage:     "Mark a task completed",
				ArgsUsage: "<id>",
				Action:    a.runDone,
			},
			{
				Name:      "rm",
				Usage:     "Delete a task",
				ArgsUsage: "<id>",
				Action:    a.runRemove,
			},
		},
		DefaultCommand: "list",
	}
}

func (a *App) withService(ctx context.Context, cmd *cli.Command, fn func(*service.TaskService) error) error {
	store, err := a.OpenStore(ctx, cmd.String("data"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	return fn(service.NewTaskService(store))
}

func taskID(cmd *cli.Command) (int64, error) {
	arg := cmd.Args().First()
	if arg == "" {
		return 0, fmt.Errorf("usage: todo %s <id>", cmd.Name)
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

func (a *App) runAdd(ctx context.Context, cmd *cli.Command) error {
	title := cmd.Args().First()
	return a.withService(ctx, cmd, func(svc *service.TaskService) error {
		t, err := svc.CreateTask(ctx, title, cmd.String("description"))
		if err != nil {
			return fmt.Errorf("add task: %w", err)
		}
		fmt.Fprintf(a.Out, "Created task %d: %s\n", t.ID, t.Title)
		return nil
	})
}

func (a *App) runList(ctx context.Context, cmd *cli.Command) error {
	var filter domain.TaskFilter
	switch {
	case cmd.Bool("done") && cmd.Bool("pending"):
		return fmt.Errorf("--done and --pending are mutually exclusive")
	case cmd.Bool("done"):
		completed := true
		filter.Completed = &completed
	case cmd.Bool("pending"):
		completed := false
		filter.Completed = &completed
	}

	return a.withService(ctx, cmd, func(svc *service.TaskService) error {
		tasks, err := svc.ListTasks(ctx, filter)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		if len(tasks) == 0 {
			fmt.Fprintln(a.Out, "No tasks found.")
			return nil
		}

		w := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tUPDATED\tTITLE")
		for _, t := range tasks {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				t.ID,
				t.State(),
				t.UpdatedAt.Local().Format("2006-01-02 15:04"),
				t.Title,
			)
		}
		return w.Flush()
	})
}

func (a *App) runShow(ctx context.Context, cmd *cli.Command) error {
	id, err := taskID(cmd)
	if err != nil {
		return err
	}
	return a.withService(ctx, cmd, func(svc *service.TaskService) error {
		t, err := svc.GetTask(ctx, id)
		if err != nil {
			return fmt.Errorf("get task: %w", err)
		}
		a.printTask(t)
		return nil
	})
}

func (a *App) runEdit(ctx context.Context, cmd *cli.Command) error {
	id, err := taskID(cmd)
	if err != nil {
		return err
	}

	var in service.UpdateTaskInput
	if cmd.IsSet("title") {
		title := cmd.String("title")
		in.Title = &title
	}
	if cmd.IsSet("description") {
		desc := cmd.String("description")
		in.Description = &desc
	}
	if in.Empty() {
		return fmt.Errorf("nothing to change: pass --title and/or --description")
	}

	return a.withService(ctx, cmd, func(svc *service.TaskService) error {
		t, err := svc.UpdateTask(ctx, id, in)
		if err != nil {
			return fmt.Errorf("edit task: %w", err)
		}
		a.printTask(t)
		return nil
	})
}

func (a *App) runToggle(ctx context.Context, cmd *cli.Command) error {
	id, err := taskID(cmd)
	if err != nil {
		return err
	}
	return a.withService(ctx, cmd, func(svc *service.TaskService) error {
		t, err := svc.ToggleComplete(ctx, id)
		if err != nil {
			return fmt.Errorf("toggle task: %w", err)
		}
		fmt.Fprintf(a.Out, "Task %d is now %s\n", t.ID, t.State())
		return nil
	})
}

func (a *App) runDone(ctx context.Context, cmd *cli.Command) error {
	id, err := taskID(cmd)
	if err != nil {
		return err
	}
	return a.withService(ctx, cmd, func(svc *service.TaskService) error {
		t, err := svc.SetCompleted(ctx, id, true)
		if err != nil {
			return fmt.Errorf("complete task: %w", err)
		}
		fmt.Fprintf(a.Out, "Task %d is now %s\n", t.ID, t.State())
		return nil
	})
}

func (a *App) runRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := taskID(cmd)
	if err != nil {
		return err
	}
	return a.withService(ctx, cmd, func(svc *service.TaskService) error {
		if err := svc.DeleteTask(ctx, id); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		fmt.Fprintf(a.Out, "Deleted task %d\n", id)
		return nil
	})
}

func (a *App) printTask(t *domain.Task) {
	fmt.Fprintf(a.Out, "ID:          %d\n", t.ID)
	fmt.Fprintf(a.Out, "Title:       %s\n", t.Title)
	fmt.Fprintf(a.Out, "Status:      %s\n", t.State())
	fmt.Fprintf(a.Out, "Created:     %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(a.Out, "Updated:     %s\n", t.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	if t.Description != "" {
		fmt.Fprintf(a.Out, "\nDescription:\n%s\n", t.Description)
	}
}
