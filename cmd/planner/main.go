// Package main implements the planner CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nhle/release-planner/internal/api"
	"github.com/nhle/release-planner/internal/app"
	"github.com/nhle/release-planner/internal/auth"
	"github.com/nhle/release-planner/internal/model"
	"github.com/nhle/release-planner/internal/store"
	"github.com/nhle/release-planner/internal/theme"
)

// Exit codes beyond the generic failure.
const (
	exitValidation = 2
	exitAuth       = 3
)

var errNotLoggedIn = errors.New("not logged in; run 'planner login <provider>'")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, theme.LevelStyle(model.LevelError).Render("error")+" "+err.Error())
		os.Exit(exitCode(err))
	}
}

var (
	configPath string
	verbose    bool

	cfg *model.AppConfig
)

var rootCmd = &cobra.Command{
	Use:               "planner",
	Short:             "Release planner: todos, calendar and dashboard from the terminal",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/planner/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	log.SetOutput(io.Discard)
	if verbose {
		log.SetOutput(cmd.ErrOrStderr())
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if configPath == "" {
		configPath = model.DefaultConfigPath()
	}
	c, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg = c
	theme.Apply(cfg.Display.Theme)
	return nil
}

// openApp assembles the client for one command invocation.
func openApp(cmd *cobra.Command) (*app.App, error) {
	out := cmd.OutOrStdout()
	return app.New(cfg, app.Options{
		Out: out,
		Navigator: auth.NavigatorFunc(func(route string) {
			if route == auth.RouteSignup {
				fmt.Fprintln(out, theme.HelpStyle.Render("Finish registration with 'planner signup'."))
			}
		}),
	})
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, errNotLoggedIn),
		errors.Is(err, store.ErrNotAuthenticated),
		api.IsKind(err, api.KindUnauthorized),
		errors.Is(err, auth.ErrNoTempToken):
		return exitAuth
	case api.IsKind(err, api.KindValidation):
		return exitValidation
	default:
		return 1
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, api.NewValidationError("invalid id %q", s)
	}
	return id, nil
}

// dateFlag returns the flag value or today's date, validated.
func dateFlag(value string) (string, error) {
	if value == "" {
		return model.FormatDate(time.Now()), nil
	}
	if !model.ValidDate(value) {
		return "", api.NewValidationError("invalid date %q (want YYYY-MM-DD)", value)
	}
	return value, nil
}
