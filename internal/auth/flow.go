package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/release-planner/internal/api"
	"github.com/nhle/release-planner/internal/model"
	"github.com/nhle/release-planner/internal/notify"
	"github.com/nhle/release-planner/internal/session"
)

var (
	// ErrPopupBlocked means the login popup could not be opened.
	ErrPopupBlocked = errors.New("login popup blocked")

	// ErrAbandoned means the popup was closed before any login message.
	ErrAbandoned = errors.New("login popup closed before completing")

	// ErrNoTempToken means SignUp was called outside a new-user login.
	ErrNoTempToken = errors.New("no temp token: log in with a provider first")

	// ErrLoginRejected means the backend reported a failed provider login.
	ErrLoginRejected = errors.New("provider login failed")
)

// State is a step of the popup login state machine.
type State string

const (
	StateIdle            State = "idle"
	StatePopupOpen       State = "popup_open"
	StateAwaitingMessage State = "awaiting_message"
	StateResolved        State = "resolved"
	StateFailed          State = "failed"
	StateAbandoned       State = "abandoned"
)

// Result is the outcome of one login attempt.
type Result struct {
	State State

	// NewUser is set when the account still needs signup completion.
	NewUser bool

	// Route is where the flow navigated, if anywhere.
	Route string

	Profile model.Profile
}

// Session is the part of the session store the flow writes to.
type Session interface {
	TempToken() (string, bool)
	SetToken(kind session.TokenKind, value string) error
	RemoveToken(kind session.TokenKind) error
	SetProfile(p model.Profile) error
	Profile() (model.Profile, bool, error)
	Clear() error
}

// AccountAPI is the account client used for signup and profile changes.
type AccountAPI interface {
	SignUp(ctx context.Context, req api.SignUpRequest) (api.SignUpResponse, error)
	UpdateNickname(ctx context.Context, nickname string) error
	DeleteAccount(ctx context.Context) error
}

// Options configures a Flow. Zero durations select defaults.
type Options struct {
	// BaseURL is the backend root used to build provider login URLs.
	BaseURL string

	// Origin is the only origin whose messages are accepted. Defaults to
	// the origin of BaseURL.
	Origin string

	// PollInterval is how often the popup is checked for closure.
	// Default one second.
	PollInterval time.Duration

	// RedirectDelay separates the session broadcast from navigation on a
	// successful existing-user login. Default 100ms.
	RedirectDelay time.Duration

	Screen Screen

	Launcher  Launcher
	Messages  MessageSource
	Navigator Navigator
	Notifier  notify.Notifier

	// OnState, if set, observes every state the login flow enters.
	OnState func(State)
}

// Flow drives social login, signup completion and account changes.
type Flow struct {
	baseURL       string
	origin        string
	pollInterval  time.Duration
	redirectDelay time.Duration
	screen        Screen

	session   Session
	accounts  AccountAPI
	launcher  Launcher
	messages  MessageSource
	navigator Navigator
	notifier  notify.Notifier
	onState   func(State)
}

// NewFlow returns a Flow writing to sess and calling accounts.
func NewFlow(sess Session, accounts AccountAPI, opts Options) *Flow {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	if opts.RedirectDelay <= 0 {
		opts.RedirectDelay = 100 * time.Millisecond
	}
	if opts.Screen == (Screen{}) {
		opts.Screen = DefaultScreen
	}
	if opts.Navigator == nil {
		opts.Navigator = NavigatorFunc(func(string) {})
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard{}
	}
	if opts.OnState == nil {
		opts.OnState = func(State) {}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if opts.Origin == "" {
		opts.Origin = OriginOf(baseURL)
	}

	return &Flow{
		baseURL:       baseURL,
		origin:        opts.Origin,
		pollInterval:  opts.PollInterval,
		redirectDelay: opts.RedirectDelay,
		screen:        opts.Screen,
		session:       sess,
		accounts:      accounts,
		launcher:      opts.Launcher,
		messages:      opts.Messages,
		navigator:     opts.Navigator,
		notifier:      opts.Notifier,
		onState:       opts.OnState,
	}
}

// LoginURL returns the URL the popup for p is opened at.
func (f *Flow) LoginURL(p Provider) string {
	return f.baseURL + p.LoginPath()
}

// Login runs one popup login attempt for p and blocks until it resolves,
// fails, is abandoned, or ctx ends. Exactly one login message is consumed;
// messages from any origin other than the configured one are ignored.
func (f *Flow) Login(ctx context.Context, p Provider) (Result, error) {
	attempt := uuid.NewString()
	f.onState(StateIdle)
	log.Printf("[auth] %s: opening %s login", attempt, p)

	spec := CenteredSpec(f.LoginURL(p), string(p)+"Login", f.screen)
	win, err := f.launcher.Open(spec)
	if err == nil && win == nil {
		err = ErrPopupBlocked
	}
	if err != nil {
		f.onState(StateFailed)
		log.Printf("[auth] %s: opening popup: %v", attempt, err)
		f.notifier.Notify(notify.New(model.LevelError, "팝업 차단", "브라우저 설정에서 팝업을 허용해주세요."))
		if !errors.Is(err, ErrPopupBlocked) {
			err = fmt.Errorf("%w: %v", ErrPopupBlocked, err)
		}
		return Result{State: StateFailed}, err
	}
	f.onState(StatePopupOpen)

	msgs, stop := f.messages.Listen()
	defer stop()
	f.onState(StateAwaitingMessage)
	log.Printf("[auth] %s: awaiting message from %s", attempt, f.origin)

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[auth] %s: gave up waiting: %v", attempt, ctx.Err())
			return f.end(Result{State: StateAbandoned}, ctx.Err())

		case <-ticker.C:
			if !win.Closed() {
				continue
			}
			log.Printf("[auth] %s: popup closed without a login message", attempt)
			f.notifier.Notify(notify.New(model.LevelWarning, "로그인 취소", "로그인이 완료되지 않았습니다. 다시 시도해주세요."))
			return f.end(Result{State: StateAbandoned}, ErrAbandoned)

		case m, ok := <-msgs:
			if !ok {
				return f.end(Result{State: StateFailed}, errors.New("message source closed"))
			}
			if m.Origin != f.origin {
				log.Printf("[auth] %s: ignoring message from origin %q", attempt, m.Origin)
				continue
			}

			tagged, success, known := providerForTag(m.Type)
			if !known {
				continue
			}

			if !success {
				var ep errorPayload
				_ = json.Unmarshal(m.Data, &ep)
				win.Close()
				log.Printf("[auth] %s: %s login rejected: %s", attempt, tagged, ep.Error)
				f.notifier.Notify(notify.New(model.LevelError, "로그인 실패", "소셜 로그인에 실패했습니다. 다시 시도해주세요."))
				return f.end(Result{State: StateFailed}, fmt.Errorf("%w: %s", ErrLoginRejected, ep.Error))
			}

			var payload LoginPayload
			if err := json.Unmarshal(m.Data, &payload); err != nil || payload.token() == "" {
				log.Printf("[auth] %s: ignoring malformed %s payload", attempt, m.Type)
				continue
			}

			return f.end(f.resolve(ctx, attempt, tagged, payload, win))
		}
	}
}

func (f *Flow) end(r Result, err error) (Result, error) {
	f.onState(r.State)
	return r, err
}

// resolve persists the login outcome, closes the popup and navigates.
func (f *Flow) resolve(ctx context.Context, attempt string, p Provider, payload LoginPayload, win Window) (Result, error) {
	profile := model.Profile{
		Nickname:  payload.Nickname,
		Email:     payload.Email,
		LoginType: p.LoginType(),
		IsNewUser: payload.IsNewUser,
	}

	kind := session.AccessToken
	if payload.IsNewUser {
		kind = session.TempToken
	}
	if err := f.session.SetToken(kind, payload.token()); err != nil {
		win.Close()
		return Result{State: StateFailed}, fmt.Errorf("storing token: %w", err)
	}
	if err := f.session.SetProfile(profile); err != nil {
		win.Close()
		return Result{State: StateFailed}, fmt.Errorf("storing profile: %w", err)
	}
	win.Close()

	if payload.IsNewUser {
		log.Printf("[auth] %s: new %s user, signup required", attempt, p)
		f.navigator.Navigate(RouteSignup)
		return Result{State: StateResolved, NewUser: true, Route: RouteSignup, Profile: profile}, nil
	}

	log.Printf("[auth] %s: logged in with %s", attempt, p)
	select {
	case <-time.After(f.redirectDelay):
	case <-ctx.Done():
	}
	f.navigator.Navigate(RouteHome)
	return Result{State: StateResolved, Route: RouteHome, Profile: profile}, nil
}

// SignUp exchanges the temp token for an access token. On success the temp
// token is removed, the profile cache updated, and the flow navigates home.
func (f *Flow) SignUp(ctx context.Context, nickname, email string, loginType model.LoginType) (model.Profile, error) {
	nickname = strings.TrimSpace(nickname)
	email = strings.TrimSpace(email)

	if _, ok := f.session.TempToken(); !ok {
		return model.Profile{}, ErrNoTempToken
	}
	if nickname == "" {
		return model.Profile{}, api.NewValidationError("nickname is required")
	}
	if email == "" {
		return model.Profile{}, api.NewValidationError("email is required")
	}
	if _, err := model.ParseLoginType(string(loginType)); err != nil {
		return model.Profile{}, api.NewValidationError("%v", err)
	}

	resp, err := f.accounts.SignUp(ctx, api.SignUpRequest{Nickname: nickname, Email: email, LoginType: loginType})
	if err != nil {
		return model.Profile{}, fmt.Errorf("signing up: %w", err)
	}
	if !resp.Success || resp.Data.UserToken == "" {
		msg := resp.Message
		if msg == "" {
			msg = "회원가입에 실패했습니다."
		}
		return model.Profile{}, &api.Error{Kind: api.KindApplication, Method: "POST", Path: "/account/signup", Message: msg}
	}

	if err := f.session.SetToken(session.AccessToken, resp.Data.UserToken); err != nil {
		return model.Profile{}, fmt.Errorf("storing access token: %w", err)
	}
	if err := f.session.RemoveToken(session.TempToken); err != nil {
		return model.Profile{}, fmt.Errorf("removing temp token: %w", err)
	}

	profile := model.Profile{
		ID:        resp.Data.ID,
		Nickname:  resp.Data.Nickname,
		Email:     resp.Data.Email,
		LoginType: loginType,
	}
	if err := f.session.SetProfile(profile); err != nil {
		return model.Profile{}, fmt.Errorf("storing profile: %w", err)
	}

	f.navigator.Navigate(RouteHome)
	f.notifier.Notify(notify.New(model.LevelSuccess, "회원가입 완료! 🎉", "환영합니다! 서비스를 이용해보세요."))
	return profile, nil
}

// Logout clears the session and navigates home.
func (f *Flow) Logout() error {
	if err := f.session.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	f.navigator.Navigate(RouteHome)
	return nil
}

// UpdateNickname renames the account and refreshes the cached profile.
func (f *Flow) UpdateNickname(ctx context.Context, nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		f.notifier.Notify(notify.New(model.LevelError, "입력 오류", "닉네임을 입력해주세요."))
		return api.NewValidationError("nickname is required")
	}

	if err := f.accounts.UpdateNickname(ctx, nickname); err != nil {
		log.Printf("[auth] updating nickname: %v", err)
		f.notifier.Notify(notify.New(model.LevelError, "변경 실패", "닉네임 변경에 실패했습니다."))
		return err
	}

	profile, _, err := f.session.Profile()
	if err != nil {
		log.Printf("[auth] reading cached profile: %v", err)
	}
	profile.Nickname = nickname
	if err := f.session.SetProfile(profile); err != nil {
		return fmt.Errorf("storing profile: %w", err)
	}

	f.notifier.Notify(notify.New(model.LevelSuccess, "변경 완료", "닉네임이 성공적으로 변경되었습니다."))
	return nil
}

// DeleteAccount removes the account remotely, then clears the session.
func (f *Flow) DeleteAccount(ctx context.Context) error {
	if err := f.accounts.DeleteAccount(ctx); err != nil {
		log.Printf("[auth] deleting account: %v", err)
		f.notifier.Notify(notify.New(model.LevelError, "삭제 실패", "계정 삭제에 실패했습니다."))
		return err
	}

	if err := f.session.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	f.navigator.Navigate(RouteHome)
	f.notifier.Notify(notify.New(model.LevelSuccess, "삭제 완료", "계정이 성공적으로 삭제되었습니다."))
	return nil
}
