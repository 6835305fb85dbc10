package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/cobra"
)

func newWeekCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Inspect and edit week templates",
	}
	cmd.AddCommand(newWeekShowCmd(a), newWeekUpdateCmd(a))
	return cmd
}

func newWeekShowCmd(a *App) *cobra.Command {
	var cohortID string

	cmd := &cobra.Command{
		Use:   "show PROGRAM_ID WEEK_ID",
		Short: "Show a week template, or its cohort completion with --cohort",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if cohortID != "" {
				view, err := a.Completion.WeekView(ctx, a.Tenant, args[0], args[1], cohortID)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeekView(view))
				return nil
			}
			w, err := a.Curriculum.GetWeek(ctx, a.Tenant, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeek(w))
			return nil
		},
	}
	cmd.Flags().StringVar(&cohortID, "cohort", "", "Show completion for this cohort")
	return cmd
}

// readWeekPatch decodes a JSON patch document. Keys left out stay
// unchanged and null clears a field.
func readWeekPatch(path string) (app.WeekPatch, error) {
	var patch app.WeekPatch
	data, err := os.ReadFile(path)
	if err != nil {
		return patch, fmt.Errorf("reading patch file: %w", err)
	}
	if err := json.Unmarshal(data, &patch); err != nil {
		return patch, fmt.Errorf("parsing patch file %s: %w", path, err)
	}
	return patch, nil
}

func newWeekUpdateCmd(a *App) *cobra.Command {
	var (
		patchFile, label, description, policy string
		distribute, overwrite                 bool
	)

	cmd := &cobra.Command{
		Use:   "update PROGRAM_ID WEEK_ID",
		Short: "Edit a week template and optionally distribute it to cohorts",
		Long: `Edit a week template. --patch reads a JSON document with any of
label, description, tasks, habits and linkedResources; absent keys are left
unchanged and null clears them. Flags override the document.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch app.WeekPatch
			if patchFile != "" {
				var err error
				if patch, err = readWeekPatch(patchFile); err != nil {
					return err
				}
			}
			flags := cmd.Flags()
			if flags.Changed("label") {
				patch.Label = domain.SetTo(label)
			}
			if flags.Changed("description") {
				patch.Description = domain.SetTo(description)
			}
			if flags.Changed("distribute") {
				patch.DistributeTasksNow = distribute
			}
			if flags.Changed("overwrite") {
				patch.OverwriteExistingTasks = overwrite
			}
			if flags.Changed("policy") {
				patch.ResourcePolicy = domain.ResourcePolicy(policy)
			}

			res, err := a.Curriculum.UpdateWeek(context.Background(), a.Tenant, args[0], args[1], patch)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeekUpdate(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&patchFile, "patch", "", "JSON patch document")
	cmd.Flags().StringVar(&label, "label", "", "Week label")
	cmd.Flags().StringVar(&description, "description", "", "Week description")
	cmd.Flags().BoolVar(&distribute, "distribute", false, "Distribute the week to every schedulable cohort")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace template entries already planned")
	cmd.Flags().StringVar(&policy, "policy", "", "Placement of resource tasks: first-day, last-day or even")
	return cmd
}
