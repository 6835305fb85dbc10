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

func newCohortCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cohort",
		Short: "Manage cohorts",
	}
	cmd.AddCommand(
		newCohortCreateCmd(a),
		newCohortListCmd(a),
		newCohortShowCmd(a),
		newCohortMemberCmd(a, "add-member", "Add a member to a cohort", func(ctx context.Context, tenantID, cohortID, memberID string) (*domain.Cohort, error) {
			return a.Cohorts.AddMember(ctx, tenantID, cohortID, memberID)
		}),
		newCohortMemberCmd(a, "remove-member", "Remove a member from a cohort", func(ctx context.Context, tenantID, cohortID, memberID string) (*domain.Cohort, error) {
			return a.Cohorts.RemoveMember(ctx, tenantID, cohortID, memberID)
		}),
		newCohortStatusCmd(a),
	)
	return cmd
}

func newCohortCreateCmd(a *App) *cobra.Command {
	var (
		programID, name, status string
		members                 []string
		start                   time.Time
		threshold               float64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a cohort following a program",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.CreateCohortRequest{
				TenantID:  a.Tenant,
				ProgramID: programID,
				Name:      name,
				StartDate: start,
				Members:   members,
				Status:    domain.CohortStatus(status),
			}
			if cmd.Flags().Changed("threshold") {
				req.ThresholdOverridePct = &threshold
			}
			c, err := a.Cohorts.Create(context.Background(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created cohort %s (%s)\n", formatter.Bold(c.Name), c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&programID, "program", "", "Program ID")
	cmd.Flags().StringVar(&name, "name", "", "Cohort name")
	dateFlag(cmd.Flags(), &start, "start", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&members, "member", nil, "Member ID (repeatable or comma-separated)")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (default upcoming)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Completion threshold override in percent")
	_ = cmd.MarkFlagRequired("program")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newCohortListCmd(a *App) *cobra.Command {
	var programID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cohorts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cohorts, err := a.Cohorts.List(context.Background(), a.Tenant, programID)
			if err != nil {
				return err
			}
			if len(cohorts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cohorts found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCohortList(cohorts))
			return nil
		},
	}
	cmd.Flags().StringVar(&programID, "program", "", "Only cohorts of this program")
	return cmd
}

func newCohortShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show COHORT_ID",
		Short: "Show cohort details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.Cohorts.Get(context.Background(), a.Tenant, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCohort(c))
			return nil
		},
	}
}

type memberEdit func(ctx context.Context, tenantID, cohortID, memberID string) (*domain.Cohort, error)

func newCohortMemberCmd(a *App, use, short string, edit memberEdit) *cobra.Command {
	return &cobra.Command{
		Use:   use + " COHORT_ID MEMBER_ID",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := edit(context.Background(), a.Tenant, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cohort %s now has %s\n", c.Name, formatter.Plural(len(c.Members), "member"))
			return nil
		},
	}
}

func newCohortStatusCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status COHORT_ID STATUS",
		Short: "Move a cohort to upcoming, active, completed or archived",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.Cohorts.SetStatus(context.Background(), a.Tenant, args[0], domain.CohortStatus(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cohort %s is %s\n", c.Name, formatter.CohortStatusPill(c.Status))
			return nil
		},
	}
}
