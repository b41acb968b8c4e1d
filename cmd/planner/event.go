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

var eventCmd = &cobra.Command{
	Use:     "event",
	Short:   "Manage calendar events",
	Aliases: []string{"events", "cal"},
}

// event list
var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List calendar events",
	Args:  cobra.NoArgs,
	RunE:  runEventList,
}

// event add
var eventAddCmd = &cobra.Command{
	Use:   "add <date> <title>...",
	Short: "Add a calendar event",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEventAdd,
}

// event edit
var eventEditCmd = &cobra.Command{
	Use:     "edit <id>",
	Short:   "Change an event's title or type",
	Aliases: []string{"update"},
	Args:    cobra.ExactArgs(1),
	RunE:    runEventEdit,
}

// event rm
var eventRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Short:   "Delete a calendar event",
	Aliases: []string{"delete"},
	Args:    cobra.ExactArgs(1),
	RunE:    runEventRemove,
}

var (
	eventMonth   string
	eventAddType string
	eventType    string
	eventTitle   string
)

func init() {
	rootCmd.AddCommand(eventCmd)
	eventCmd.AddCommand(eventListCmd, eventAddCmd, eventEditCmd, eventRemoveCmd)

	eventListCmd.Flags().StringVarP(&eventMonth, "month", "m", "", "only events in this month (YYYY-MM)")
	eventAddCmd.Flags().StringVarP(&eventAddType, "type", "t", string(model.EventTypeEvent), "event, holiday or meeting")
	eventEditCmd.Flags().StringVar(&eventTitle, "title", "", "new title")
	eventEditCmd.Flags().StringVarP(&eventType, "type", "t", "", "new type")
}

func parseEventTypeFlag(s string) model.EventType {
	return model.EventType(strings.ToLower(strings.TrimSpace(s)))
}

func runEventList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app.App) error {
		if err := a.Store.LoadEvents(cmd.Context()); err != nil {
			return err
		}

		events := a.Store.Snapshot().Events
		if eventMonth != "" {
			var inMonth []model.CalendarEvent
			for _, e := range events {
				if strings.HasPrefix(e.Date, eventMonth+"-") {
					inMonth = append(inMonth, e)
				}
			}
			events = inMonth
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.EventTable(events))
		return nil
	})
}

func runEventAdd(cmd *cobra.Command, args []string) error {
	date := args[0]
	if !model.ValidDate(date) {
		return api.NewValidationError("invalid date %q (want YYYY-MM-DD)", date)
	}

	return withApp(cmd, func(a *app.App) error {
		event, err := a.Store.AddEvent(cmd.Context(), date, strings.Join(args[1:], " "), parseEventTypeFlag(eventAddType))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.EventTable([]model.CalendarEvent{event}))
		return nil
	})
}

func runEventEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if eventTitle == "" && eventType == "" {
		return api.NewValidationError("nothing to change: pass --title and/or --type")
	}

	return withApp(cmd, func(a *app.App) error {
		title, typ := eventTitle, parseEventTypeFlag(eventType)

		if title == "" || typ == "" {
			if err := a.Store.LoadEvents(cmd.Context()); err != nil {
				return err
			}
			current, ok := findEvent(a.Store.Snapshot().Events, id)
			if !ok {
				return fmt.Errorf("event #%d not found", id)
			}
			if title == "" {
				title = current.Title
			}
			if typ == "" {
				typ = current.Type
			}
		}

		event, err := a.Store.UpdateEvent(cmd.Context(), id, title, typ)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.EventTable([]model.CalendarEvent{event}))
		return nil
	})
}

func runEventRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return withApp(cmd, func(a *app.App) error {
		return a.Store.DeleteEvent(cmd.Context(), id)
	})
}

func findEvent(events []model.CalendarEvent, id int64) (model.CalendarEvent, bool) {
	for _, e := range events {
		if e.ID == id {
			return e, true
		}
	}
	return model.CalendarEvent{}, false
}
