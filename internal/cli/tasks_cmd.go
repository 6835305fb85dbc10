package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/cobra"
)

func newTasksCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Work with member task lists",
	}
	cmd.AddCommand(newTasksListCmd(a), newTasksCompleteCmd(a))
	return cmd
}

func newTasksListCmd(a *App) *cobra.Command {
	var (
		memberID string
		from, to time.Time
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a member's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if from.IsZero() {
				from = domain.DateOnly(time.Now())
			}
			if to.IsZero() {
				to = from.AddDate(0, 0, 6)
			}
			tasks, err := a.Completion.ListMemberTasks(context.Background(), a.Tenant, memberID, from, to)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMemberTasks(tasks))
			return nil
		},
	}
	cmd.Flags().StringVar(&memberID, "member", "", "Member ID")
	dateFlag(cmd.Flags(), &from, "from", "First day (default today)")
	dateFlag(cmd.Flags(), &to, "to", "Last day (default a week after --from)")
	_ = cmd.MarkFlagRequired("member")
	return cmd
}

func newTasksCompleteCmd(a *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "complete TASK_ID",
		Short: "Mark a member task done, or not done with --undo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Completion.SetTaskCompletion(context.Background(), a.Tenant, args[0], !undo)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCompletion(res))
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task as not done")
	return cmd
}
