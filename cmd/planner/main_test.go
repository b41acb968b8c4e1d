package main

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/nhle/release-planner/internal/credential"
	"github.com/nhle/release-planner/internal/model"
	"github.com/nhle/release-planner/internal/session"
	"github.com/nhle/release-planner/tests/testutil"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"planner": main,
	})
}

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "planner" {
		t.Fatalf("expected root command name planner, got %q", rootCmd.Use)
	}
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			backend := testutil.NewBackend(t, "access-token")
			env.Values["backend"] = backend

			env.Setenv("HOME", env.WorkDir)
			env.Setenv("PLANNER_API_BASE_URL", backend.URL())
			env.Setenv("PLANNER_SESSION_BACKEND", "sqlite")
			env.Setenv("PLANNER_SESSION_PATH", filepath.Join(env.WorkDir, "session.db"))
			env.Setenv("PLANNER_DISPLAY_THEME", "plain")
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"session": cmdSession,
			"seed":    cmdSeed,
			"backend": cmdBackend,
		},
	})
}

func scriptBackend(ts *testscript.TestScript) *testutil.Backend {
	return ts.Value("backend").(*testutil.Backend)
}

// withSession opens the script's sqlite session store.
func withSession(ts *testscript.TestScript, fn func(s *session.Store) error) {
	storage, err := credential.OpenSQLite(ts.Getenv("PLANNER_SESSION_PATH"))
	ts.Check(err)
	defer storage.Close()
	ts.Check(fn(session.New(storage)))
}

// session access <token>
// session temp <token>
// session profile <nickname> <email> <loginType>
func cmdSession(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("unsupported: ! session")
	}
	if len(args) < 2 {
		ts.Fatalf("usage: session access|temp|profile args...")
	}

	withSession(ts, func(s *session.Store) error {
		switch args[0] {
		case "access":
			return s.SetToken(session.AccessToken, args[1])
		case "temp":
			return s.SetToken(session.TempToken, args[1])
		case "profile":
			if len(args) != 4 {
				ts.Fatalf("usage: session profile <nickname> <email> <loginType>")
			}
			return s.SetProfile(model.Profile{
				Nickname:  args[1],
				Email:     args[2],
				LoginType: model.LoginType(args[3]),
				IsNewUser: true,
			})
		}
		ts.Fatalf("unknown session subcommand %q", args[0])
		return nil
	})
}

// seed todo <date> <priority> <done|open> <text>...
// seed event <date> <type> <title>...
func cmdSeed(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("unsupported: ! seed")
	}
	b := scriptBackend(ts)

	switch {
	case len(args) >= 5 && args[0] == "todo":
		b.Seed(model.Task{
			DueDate:   args[1],
			Priority:  model.Priority(args[2]),
			Completed: args[3] == "done",
			Text:      strings.Join(args[4:], " "),
		})
	case len(args) >= 4 && args[0] == "event":
		b.SeedEvents(model.CalendarEvent{
			Date:  args[1],
			Type:  model.EventType(args[2]),
			Title: strings.Join(args[3:], " "),
		})
	default:
		ts.Fatalf("usage: seed todo <date> <priority> <done|open> <text>... | seed event <date> <type> <title>...")
	}
}

// backend temp <token>
// backend fail <method> <path> <status>
// backend nickname <want>
func cmdBackend(ts *testscript.TestScript, neg bool, args []string) {
	b := scriptBackend(ts)
	if len(args) < 2 {
		ts.Fatalf("usage: backend temp|fail|nickname args...")
	}

	switch args[0] {
	case "temp":
		b.AddTempToken(args[1])
	case "fail":
		if len(args) != 4 {
			ts.Fatalf("usage: backend fail <method> <path> <status>")
		}
		status, err := strconv.Atoi(args[3])
		ts.Check(err)
		b.Fail(args[1], args[2], status)
	case "nickname":
		got := b.Nickname()
		if (got == args[1]) == neg {
			ts.Fatalf("backend nickname is %q", got)
		}
		return
	default:
		ts.Fatalf("unknown backend subcommand %q", args[0])
	}
	if neg {
		ts.Fatalf("unsupported: ! backend %s", args[0])
	}
}
