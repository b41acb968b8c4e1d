package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/release-planner/internal/api"
	"github.com/nhle/release-planner/internal/app"
	"github.com/nhle/release-planner/internal/model"
	"github.com/nhle/release-planner/internal/ui"
)

var todoCmd = &cobra.Command{
	Use:     "todo",
	Short:   "Manage todos",
	Aliases: []string{"todos", "t"},
}

// todo list
var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the todos due on a date",
	Args:  cobra.NoArgs,
	RunE:  runTodoList,
}

// todo add
var todoAddCmd = &cobra.Command{
	Use:   "add <text>...",
	Short: "Add a todo",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodoAdd,
}

// todo edit
var todoEditCmd = &cobra.Command{
	Use:     "edit <id>",
	Short:   "Change a todo's text or priority",
	Aliases: []string{"update"},
	Args:    cobra.ExactArgs(1),
	RunE:    runTodoEdit,
}

// todo toggle
var todoToggleCmd = &cobra.Command{
	Use:     "toggle <id>",
	Short:   "Mark a todo done, or open again",
	Aliases: []string{"done"},
	Args:    cobra.ExactArgs(1),
	RunE:    runTodoToggle,
}

// todo rm
var todoRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Short:   "Delete a todo",
	Aliases: []string{"delete"},
	Args:    cobra.ExactArgs(1),
	RunE:    runTodoRemove,
}

// todo completed
var todoCompletedCmd = &cobra.Command{
	Use:   "completed",
	Short: "List completed todos, grouped by date",
	Args:  cobra.NoArgs,
	RunE:  runTodoCompleted,
}

// todo weekly
var todoWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Compare completed todos per weekday, this week against last week",
	Args:  cobra.NoArgs,
	RunE:  runTodoWeekly,
}

var (
	todoDate      string
	todoPriority  string
	addPriority   string
	todoText      string
	todoImportant bool
	todoFrom      string
	todoTo        string
)

func init() {
	rootCmd.AddCommand(todoCmd)
	todoCmd.AddCommand(todoListCmd, todoAddCmd, todoEditCmd, todoToggleCmd, todoRemoveCmd, todoCompletedCmd, todoWeeklyCmd)

	todoListCmd.Flags().StringVarP(&todoDate, "date", "d", "", "due date YYYY-MM-DD (default today)")
	todoListCmd.Flags().BoolVar(&todoImportant, "important", false, "only open critical and high todos, critical first")

	todoAddCmd.Flags().StringVarP(&todoDate, "date", "d", "", "due date YYYY-MM-DD (default today)")
	todoAddCmd.Flags().StringVarP(&addPriority, "priority", "p", string(model.PriorityMedium), "critical, high, medium or low")

	todoEditCmd.Flags().StringVar(&todoText, "text", "", "new text")
	todoEditCmd.Flags().StringVarP(&todoPriority, "priority", "p", "", "new priority")
	todoEditCmd.Flags().StringVarP(&todoDate, "date", "d", "", "date the todo is due, used to look up unchanged fields (default today)")

	todoCompletedCmd.Flags().StringVar(&todoFrom, "from", "", "first date YYYY-MM-DD (default: trailing window)")
	todoCompletedCmd.Flags().StringVar(&todoTo, "to", "", "last date YYYY-MM-DD (default today)")
}

// withApp opens the app, checks the session, and runs fn.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Session.IsAuthenticated() {
		return errNotLoggedIn
	}
	return fn(a)
}

func parsePriorityFlag(s string) model.Priority {
	return model.Priority(strings.ToUpper(strings.TrimSpace(s)))
}

func runTodoList(cmd *cobra.Command, args []string) error {
	date, err := dateFlag(todoDate)
	if err != nil {
		return err
	}

	return withApp(cmd, func(a *app.App) error {
		if err := a.Store.LoadByDate(cmd.Context(), date); err != nil {
			return err
		}

		tasks := a.Store.Snapshot().Tasks
		if todoImportant {
			tasks = model.ImportantTasks(tasks)
		}

		layout := ui.NewLayout(0)
		fmt.Fprintln(cmd.OutOrStdout(), layout.RenderWithFrame(
			layout.RenderHeader(date, fmt.Sprintf("%d todos", len(tasks))),
			ui.TaskTable(tasks),
			layout.RenderHints("todo add <text>", "todo toggle <id>", "todo rm <id>"),
		))
		return nil
	})
}

func runTodoAdd(cmd *cobra.Command, args []string) error {
	date, err := dateFlag(todoDate)
	if err != nil {
		return err
	}

	return withApp(cmd, func(a *app.App) error {
		task, err := a.Store.AddTask(cmd.Context(), strings.Join(args, " "), parsePriorityFlag(addPriority), date)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.TaskLine(task))
		return nil
	})
}

func runTodoEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if todoText == "" && todoPriority == "" {
		return api.NewValidationError("nothing to change: pass --text and/or --priority")
	}
	date, err := dateFlag(todoDate)
	if err != nil {
		return err
	}

	return withApp(cmd, func(a *app.App) error {
		text, priority := todoText, parsePriorityFlag(todoPriority)

		if text == "" || priority == "" {
			if err := a.Store.LoadByDate(cmd.Context(), date); err != nil {
				return err
			}
			current, ok := findTask(a.Store.Snapshot().Tasks, id)
			if !ok {
				return fmt.Errorf("todo #%d is not due on %s; pass --date, or both --text and --priority", id, date)
			}
			if text == "" {
				text = current.Text
			}
			if priority == "" {
				priority = current.Priority
			}
		}

		task, err := a.Store.UpdateTask(cmd.Context(), id, text, priority)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.TaskLine(task))
		return nil
	})
}

func runTodoToggle(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return withApp(cmd, func(a *app.App) error {
		task, err := a.Store.ToggleTask(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.TaskLine(task))
		return nil
	})
}

func runTodoRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return withApp(cmd, func(a *app.App) error {
		return a.Store.DeleteTask(cmd.Context(), id)
	})
}

func runTodoCompleted(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app.App) error {
		var (
			tasks []model.Task
			err   error
		)
		if todoFrom == "" && todoTo == "" {
			tasks, err = a.Store.LoadAllCompletedTasks(cmd.Context())
		} else {
			to, derr := dateFlag(todoTo)
			if derr != nil {
				return derr
			}
			from := todoFrom
			if from == "" {
				from = to
			}
			tasks, err = a.Store.LoadCompletedInRange(cmd.Context(), from, to)
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.CompletedGroups(model.GroupCompletedByDate(tasks)))
		return nil
	})
}

func runTodoWeekly(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app.App) error {
		entries, err := a.Store.WeeklyComparison(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.WeeklyChart(entries))
		return nil
	})
}

func findTask(tasks []model.Task, id int64) (model.Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}
