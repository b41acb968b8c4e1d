// Package app wires configuration, storage, the session, the API clients,
// the application store and the login flow into one App.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/nhle/release-planner/internal/api"
	"github.com/nhle/release-planner/internal/auth"
	"github.com/nhle/release-planner/internal/credential"
	"github.com/nhle/release-planner/internal/model"
	"github.com/nhle/release-planner/internal/notify"
	"github.com/nhle/release-planner/internal/session"
	"github.com/nhle/release-planner/internal/store"
	appsync "github.com/nhle/release-planner/internal/sync"
)

// Options overrides collaborators New would otherwise build from config.
type Options struct {
	// Out receives user-visible notifications. Nil discards them.
	Out io.Writer

	// Storage replaces the configured session backend.
	Storage credential.Storage

	// Launcher replaces the system browser.
	Launcher auth.Launcher

	// Navigator observes the routes the login flow navigates to.
	Navigator auth.Navigator

	// Now is the store clock.
	Now func() time.Time
}

// App is the assembled client. Close releases it.
type App struct {
	Config *model.AppConfig

	Session  *session.Store
	Client   *api.Client
	Todos    *api.TodoClient
	Calendar *api.CalendarClient
	Accounts *api.AccountClient
	Store    *store.Store
	Flow     *auth.Flow
	Callback *auth.CallbackServer
	Notifier notify.Notifier

	closeStorage func() error
}

// New builds an App from cfg.
func New(cfg *model.AppConfig, opts Options) (*App, error) {
	storage := opts.Storage
	closeStorage := func() error { return nil }
	if storage == nil {
		var err error
		storage, closeStorage, err = credential.Open(cfg.Session.Backend, cfg.Session.Path)
		if err != nil {
			return nil, fmt.Errorf("opening %s session storage: %w", cfg.Session.Backend, err)
		}
	}

	var notifier notify.Notifier = notify.Log{}
	if opts.Out != nil {
		notifier = notify.Multi{notify.NewPrinter(opts.Out), notify.Log{}}
	}

	launcher := opts.Launcher
	if launcher == nil {
		launcher = auth.NewBrowserLauncher(cfg.LoginTimeout())
	}

	sess := session.New(storage)
	client := api.NewClient(cfg.API.BaseURL, sess, cfg.Timeout())
	todos := api.NewTodoClient(client)
	calendar := api.NewCalendarClient(client)
	accounts := api.NewAccountClient(client)
	callback := auth.NewCallbackServer(cfg.ExpectedOrigin())

	st := store.New(todos, calendar, sess, store.Options{
		CompletedWindowDays: cfg.Store.CompletedWindowDays,
		Fanout:              cfg.Store.Fanout,
		Notifier:            notifier,
		Now:                 opts.Now,
	})

	flow := auth.NewFlow(sess, accounts, auth.Options{
		BaseURL:       cfg.API.BaseURL,
		Origin:        cfg.ExpectedOrigin(),
		PollInterval:  time.Duration(cfg.Auth.PollIntervalMs) * time.Millisecond,
		RedirectDelay: time.Duration(cfg.Auth.RedirectDelayMs) * time.Millisecond,
		Launcher:      launcher,
		Messages:      callback,
		Navigator:     opts.Navigator,
		Notifier:      notifier,
	})

	return &App{
		Config:       cfg,
		Session:      sess,
		Client:       client,
		Todos:        todos,
		Calendar:     calendar,
		Accounts:     accounts,
		Store:        st,
		Flow:         flow,
		Callback:     callback,
		Notifier:     notifier,
		closeStorage: closeStorage,
	}, nil
}

// Close detaches the store and releases the session storage.
func (a *App) Close() error {
	a.Store.Close()
	return a.closeStorage()
}

// Login serves the callback endpoint for the duration of one login
// attempt with provider p. The attempt is abandoned after the configured
// login timeout.
func (a *App) Login(ctx context.Context, p auth.Provider) (auth.Result, error) {
	if err := a.Callback.Start(a.Config.Auth.CallbackAddr); err != nil {
		return auth.Result{State: auth.StateFailed}, err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.Callback.Shutdown(shutdownCtx); err != nil {
			log.Printf("[auth] %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, a.Config.LoginTimeout())
	defer cancel()

	res, err := a.Flow.Login(ctx, p)
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: no login message within %s", auth.ErrAbandoned, a.Config.LoginTimeout())
	}
	return res, err
}

// NewPoller returns a poller refreshing the given targets through the
// store at the configured interval.
func (a *App) NewPoller(targets ...appsync.Target) *appsync.Poller {
	interval := time.Duration(a.Config.Display.PollIntervalSec) * time.Second
	return appsync.New(a.Store, interval, targets...)
}
