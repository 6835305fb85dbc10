package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newProgramCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "program",
		Short: "Import and inspect programs",
	}
	cmd.AddCommand(
		newProgramImportCmd(a),
		newProgramListCmd(a),
		newProgramShowCmd(a),
	)
	return cmd
}

func newProgramImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a program from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Import.ImportProgram(context.Background(), a.Tenant, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportResult(res))
			return nil
		},
	}
}

func newProgramListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			programs, err := a.Programs.List(context.Background(), a.Tenant)
			if err != nil {
				return err
			}
			if len(programs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No programs found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgramList(programs))
			return nil
		},
	}
}

func newProgramShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROGRAM_ID",
		Short: "Show a program and its weeks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := a.Programs.Get(context.Background(), a.Tenant, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgramDetail(detail))
			return nil
		},
	}
}

func newCalendarCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Preview program calendars",
	}

	var start time.Time
	preview := &cobra.Command{
		Use:   "preview PROGRAM_ID",
		Short: "Show the calendar a cohort starting on --start would follow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.Programs.CalendarPreview(context.Background(), a.Tenant, args[0], start)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCalendarPreview(p))
			return nil
		},
	}
	dateFlag(preview.Flags(), &start, "start", "Cohort start date (YYYY-MM-DD)")
	_ = preview.MarkFlagRequired("start")

	cmd.AddCommand(preview)
	return cmd
}
