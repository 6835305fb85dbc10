package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/cobra"
)

func newSyncCmd(a *App) *cobra.Command {
	var (
		programID, cohortID, mode string
		date, from, to            time.Time
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Write planned tasks to member task lists",
		Long: `Write the tasks planned for a cohort day to every member's list.
Use --date for one day or --from and --to for a range. Tasks a member
already has are never changed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			flags := cmd.Flags()
			syncMode := domain.SyncMode(mode)
			switch {
			case flags.Changed("date") && (flags.Changed("from") || flags.Changed("to")):
				return fmt.Errorf("use either --date or --from/--to")
			case flags.Changed("date"):
				res, err := a.Sync.SyncToMembers(ctx, a.Tenant, programID, cohortID, date, syncMode)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSyncResult(res))
			case flags.Changed("from") && flags.Changed("to"):
				res, err := a.Sync.SyncRange(ctx, a.Tenant, programID, cohortID, from, to, syncMode)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSyncRange(res))
			default:
				return fmt.Errorf("--date or both --from and --to are required")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&programID, "program", "", "Program ID")
	cmd.Flags().StringVar(&cohortID, "cohort", "", "Cohort ID")
	cmd.Flags().StringVar(&mode, "mode", string(domain.SyncFillEmpty), "Sync mode")
	dateFlag(cmd.Flags(), &date, "date", "Day to sync")
	dateFlag(cmd.Flags(), &from, "from", "First day of the range")
	dateFlag(cmd.Flags(), &to, "to", "Last day of the range")
	_ = cmd.MarkFlagRequired("program")
	_ = cmd.MarkFlagRequired("cohort")
	return cmd
}
