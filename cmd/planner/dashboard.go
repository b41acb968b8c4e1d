package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/release-planner/internal/app"
	"github.com/nhle/release-planner/internal/model"
	appsync "github.com/nhle/release-planner/internal/sync"
	"github.com/nhle/release-planner/internal/ui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Short:   "Show today's progress and the weekly comparison",
	Aliases: []string{"dash"},
	Args:    cobra.NoArgs,
	RunE:    runDashboard,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the dashboard, today's todos and the calendar fresh",
	Long: `Watch refreshes the dashboard, today's todos and the calendar every
display.poll_interval_sec seconds and prints the dashboard after each
successful refresh. Stop it with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchCount int

func init() {
	rootCmd.AddCommand(dashboardCmd, watchCmd)
	watchCmd.Flags().IntVarP(&watchCount, "count", "n", 0, "stop after this many refresh results (0 runs until interrupted)")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app.App) error {
		if err := a.Store.LoadDashboard(cmd.Context()); err != nil {
			return err
		}
		printDashboard(cmd, a.Store.Snapshot().UserName, a.Store.Snapshot().Dashboard, "")
		return nil
	})
}

func runWatch(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app.App) error {
		p := a.NewPoller()
		p.Start()
		defer p.Stop()

		seen := 0
		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case r := <-p.Results():
				seen++
				if r.AuthError {
					return fmt.Errorf("%s: %w", r.Message, errNotLoggedIn)
				}
				if r.Error == nil && r.Target == appsync.TargetDashboard {
					st := a.Store.Snapshot()
					printDashboard(cmd, st.UserName, st.Dashboard, ui.SyncStatus(p.GetStatuses(), time.Now()))
				}
				if watchCount > 0 && seen >= watchCount {
					return nil
				}
			}
		}
	})
}

func printDashboard(cmd *cobra.Command, userName string, snap *model.DashboardSnapshot, status string) {
	if snap == nil {
		return
	}
	layout := ui.NewLayout(0)
	fmt.Fprintln(cmd.OutOrStdout(), layout.RenderWithFrame(
		layout.RenderHeader(userName+"님의 대시보드", status),
		ui.Dashboard(*snap),
		"",
	))
}
