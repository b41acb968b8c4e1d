package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nhle/release-planner/internal/api"
	"github.com/nhle/release-planner/internal/auth"
	"github.com/nhle/release-planner/internal/model"
	"github.com/nhle/release-planner/internal/store"
	"github.com/nhle/release-planner/internal/theme"
)

var loginCmd = &cobra.Command{
	Use:       "login <kakao|google|naver>",
	Short:     "Log in with a social account",
	Long:      "Login opens the provider's login page in the browser and waits for the backend to post the result to the local callback address (auth.callback_addr).",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(auth.Kakao), string(auth.Google), string(auth.Naver)},
	RunE:      runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Finish registration after a first social login",
	Args:  cobra.NoArgs,
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored tokens and profile",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

// Agreement keys offered on signup.
const (
	agreeTerms     = "terms"
	agreePrivacy   = "privacy"
	agreeMarketing = "marketing"
)

var (
	signupNickname string
	signupEmail    string
	signupAgree    []string
)

func init() {
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)

	signupCmd.Flags().StringVar(&signupNickname, "nickname", "", "nickname (default: from the social profile)")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "email (default: from the social profile)")
	signupCmd.Flags().StringSliceVar(&signupAgree, "agree", nil, "agreements to accept: terms, privacy (required), marketing")
}

// interactive reports whether forms can be shown.
func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func runLogin(cmd *cobra.Command, args []string) error {
	provider, err := auth.ParseProvider(args[0])
	if err != nil {
		return api.NewValidationError("%v", err)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, theme.HelpStyle.Render(fmt.Sprintf(
		"Opening %s in your browser. Waiting for the login result on %s ...",
		a.Flow.LoginURL(provider), cfg.Auth.CallbackAddr)))

	res, err := a.Login(cmd.Context(), provider)
	if err != nil {
		return err
	}

	if res.NewUser {
		return nil
	}
	fmt.Fprintf(out, "Logged in as %s (%s)\n", displayName(res.Profile), res.Profile.LoginType)
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, ok := a.Session.TempToken(); !ok {
		return auth.ErrNoTempToken
	}

	cached, _, err := a.Session.Profile()
	if err != nil {
		return err
	}

	nickname, email, agreed := signupNickname, signupEmail, signupAgree
	if nickname == "" {
		nickname = cached.Nickname
	}
	if email == "" {
		email = cached.Email
	}

	if len(agreed) == 0 && interactive() {
		if err := signupForm(&nickname, &email, &agreed); err != nil {
			return err
		}
	}

	if strings.TrimSpace(nickname) == "" || strings.TrimSpace(email) == "" {
		return api.NewValidationError("닉네임과 이메일을 모두 입력해주세요.")
	}
	if !contains(agreed, agreeTerms) || !contains(agreed, agreePrivacy) {
		return api.NewValidationError("필수 동의 항목을 모두 체크해주세요.")
	}

	loginType := cached.LoginType
	if loginType == "" {
		return errors.New("cached profile has no login type; run 'planner login <provider>' again")
	}

	profile, err := a.Flow.SignUp(cmd.Context(), nickname, email, loginType)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s!\n", displayName(profile))
	return nil
}

func signupForm(nickname, email *string, agreed *[]string) error {
	required := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("필수 입력 항목입니다")
		}
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("닉네임").Value(nickname).Validate(required),
			huh.NewInput().Title("이메일").Value(email).Validate(required),
			huh.NewMultiSelect[string]().
				Title("약관 동의").
				Options(
					huh.NewOption("[필수] 서비스 이용약관", agreeTerms),
					huh.NewOption("[필수] 개인정보 처리방침", agreePrivacy),
					huh.NewOption("[선택] 마케팅 정보 수신 동의", agreeMarketing),
				).
				Value(agreed),
		),
	).Run()
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	keys, err := a.Session.StoredKeys()
	if err != nil {
		log.Printf("[auth] %v", err)
	}
	if err := a.Flow.Logout(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Logged out.")
	if len(keys) > 0 {
		fmt.Fprintln(out, theme.HelpStyle.Render("cleared: "+strings.Join(keys, ", ")))
	}
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Session.IsAuthenticated() {
		if _, pending := a.Session.TempToken(); pending {
			return fmt.Errorf("registration pending; run 'planner signup': %w", errNotLoggedIn)
		}
		return errNotLoggedIn
	}

	out := cmd.OutOrStdout()
	profile, ok, err := a.Session.Profile()
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(out, "%s <%s> via %s\n", displayName(profile), profile.Email, profile.LoginType)
	} else {
		fmt.Fprintln(out, displayName(model.Profile{}))
	}

	claims, err := a.Session.Claims()
	if err != nil {
		fmt.Fprintln(out, theme.HelpStyle.Render("token: "+err.Error()))
		return nil
	}
	if claims.Subject != "" {
		fmt.Fprintf(out, "subject: %s\n", claims.Subject)
	}
	if !claims.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "expires: %s\n", claims.ExpiresAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func displayName(p model.Profile) string {
	if p.Nickname == "" {
		return store.DefaultUserName
	}
	return p.Nickname
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), want) {
			return true
		}
	}
	return false
}
