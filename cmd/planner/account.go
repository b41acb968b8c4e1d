package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/release-planner/internal/app"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage your account",
}

// account nickname
var accountNicknameCmd = &cobra.Command{
	Use:   "nickname <name>...",
	Short: "Change your nickname",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAccountNickname,
}

// account delete
var accountDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your account and all of its data",
	Args:  cobra.NoArgs,
	RunE:  runAccountDelete,
}

var accountDeleteYes bool

var errDeleteCancelled = errors.New("account deletion cancelled")

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountNicknameCmd, accountDeleteCmd)

	accountDeleteCmd.Flags().BoolVarP(&accountDeleteYes, "yes", "y", false, "skip the confirmation prompts")
}

func runAccountNickname(cmd *cobra.Command, args []string) error {
	nickname := strings.Join(args, " ")
	return withApp(cmd, func(a *app.App) error {
		return a.Flow.UpdateNickname(cmd.Context(), nickname)
	})
}

func runAccountDelete(cmd *cobra.Command, args []string) error {
	if !accountDeleteYes {
		if !interactive() {
			return errors.New("refusing to delete the account without a terminal; pass --yes")
		}
		ok, err := confirmDelete()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), errDeleteCancelled.Error())
			return nil
		}
	}

	return withApp(cmd, func(a *app.App) error {
		return a.Flow.DeleteAccount(cmd.Context())
	})
}

// confirmDelete asks twice, as deletion cannot be undone.
func confirmDelete() (bool, error) {
	prompts := []struct{ title, description string }{
		{"⚠️ 계정 삭제 경고", "계정을 삭제하면 모든 데이터가 영구적으로 삭제됩니다.\n정말로 계정을 삭제하시겠습니까?"},
		{"마지막 확인", "계정 삭제를 진행하시겠습니까?\n이 작업은 되돌릴 수 없습니다."},
	}

	for _, p := range prompts {
		var ok bool
		err := huh.NewConfirm().
			Title(p.title).
			Description(p.description).
			Affirmative("삭제").
			Negative("취소").
			Value(&ok).
			Run()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
