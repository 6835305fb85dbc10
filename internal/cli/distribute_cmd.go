package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/cobra"
)

func newDistributeCmd(a *App) *cobra.Command {
	var (
		programID, weekID, cohortID, policy string
		overwrite                           bool
	)

	cmd := &cobra.Command{
		Use:   "distribute",
		Short: "Lay a week template onto a cohort's calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.Distribute.Distribute(context.Background(), a.Tenant, programID, weekID, cohortID, app.DistributeOptions{
				OverwriteExisting: overwrite,
				ResourcePolicy:    domain.ResourcePolicy(policy),
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDistribution(s))
			return nil
		},
	}

	cmd.Flags().StringVar(&programID, "program", "", "Program ID")
	cmd.Flags().StringVar(&weekID, "week", "", "Week template ID")
	cmd.Flags().StringVar(&cohortID, "cohort", "", "Cohort ID")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace template entries already planned")
	cmd.Flags().StringVar(&policy, "policy", "", "Placement of resource tasks: first-day, last-day or even")
	for _, f := range []string{"program", "week", "cohort"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newPlanCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Inspect and extend cohort day plans",
	}
	cmd.AddCommand(newPlanShowCmd(a), newPlanAddCmd(a))
	return cmd
}

func newPlanShowCmd(a *App) *cobra.Command {
	var weekID, cohortID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a cohort's day plan for one week",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.Distribute.DayPlan(context.Background(), a.Tenant, cohortID, weekID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDayPlan(p))
			return nil
		},
	}
	cmd.Flags().StringVar(&weekID, "week", "", "Week template ID")
	cmd.Flags().StringVar(&cohortID, "cohort", "", "Cohort ID")
	_ = cmd.MarkFlagRequired("week")
	_ = cmd.MarkFlagRequired("cohort")
	return cmd
}

func newPlanAddCmd(a *App) *cobra.Command {
	var (
		weekID, cohortID, label string
		date                    time.Time
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a coach task to one day of a cohort week",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.Distribute.AddManualEntry(context.Background(), a.Tenant, app.ManualEntryRequest{
				CohortID:       cohortID,
				WeekTemplateID: weekID,
				Date:           date,
				Label:          label,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDayPlan(p))
			return nil
		},
	}
	cmd.Flags().StringVar(&weekID, "week", "", "Week template ID")
	cmd.Flags().StringVar(&cohortID, "cohort", "", "Cohort ID")
	cmd.Flags().StringVar(&label, "label", "", "Task label")
	dateFlag(cmd.Flags(), &date, "date", "Day of the week (YYYY-MM-DD)")
	for _, f := range []string{"week", "cohort", "label", "date"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}
