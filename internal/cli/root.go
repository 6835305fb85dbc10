package cli

import (
	"errors"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// App holds the use cases CLI commands run against.
type App struct {
	Programs   app.ProgramUseCase
	Cohorts    app.CohortUseCase
	Curriculum app.CurriculumUseCase
	Distribute app.DistributeUseCase
	Sync       app.MemberSyncUseCase
	Completion app.CompletionUseCase
	Import     app.ImportProgramUseCase

	// Tenant is used when --tenant is not given.
	Tenant string
	// IsInteractive reports whether output goes to a terminal.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "cadence" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	var noColor bool

	root := &cobra.Command{
		Use:           "cadence",
		Short:         "Cohort program scheduling and task distribution",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			color := !noColor && a.IsInteractive != nil && a.IsInteractive()
			formatter.SetColor(color)
		},
	}
	root.PersistentFlags().StringVar(&a.Tenant, "tenant", a.Tenant, "Tenant to act for")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newProgramCmd(a),
		newCalendarCmd(a),
		newWeekCmd(a),
		newCohortCmd(a),
		newDistributeCmd(a),
		newPlanCmd(a),
		newSyncCmd(a),
		newTasksCmd(a),
	)
	return root
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *app.Error
	if !errors.As(err, &appErr) {
		return 1
	}
	switch appErr.Code {
	case app.ErrInvalidInput:
		return 2
	case app.ErrNotFound:
		return 3
	case app.ErrDistributionFailed:
		return 4
	default:
		return 1
	}
}
