package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/cadence/internal/cli"
	"github.com/alexanderramin/cadence/internal/config"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/notify"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	programRepo := repository.NewSQLiteProgramRepo(database)
	weekRepo := repository.NewSQLiteWeekTemplateRepo(database)
	cohortRepo := repository.NewSQLiteCohortRepo(database)
	planRepo := repository.NewSQLiteDayPlanRepo(database)
	taskRepo := repository.NewSQLiteMemberTaskRepo(database)
	stateRepo := repository.NewSQLiteTaskStateRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewLogUseCaseObserver(logger)

	notifier, closeNotifier, err := newNotifier(cfg, logger)
	if err != nil {
		return err
	}
	defer closeNotifier()

	// Wire services
	distributionSvc := service.NewDistributionService(programRepo, weekRepo, cohortRepo, planRepo, uow, cfg.DistributionTimeout, logger, observer)
	syncSvc := service.NewMemberSyncService(cohortRepo, planRepo, uow, service.MemberSyncConfig{
		Parallelism:   cfg.SyncParallelism,
		MemberTimeout: cfg.SyncMemberTimeout,
	}, logger, observer)

	app := &cli.App{
		Programs:   service.NewProgramService(programRepo, weekRepo),
		Cohorts:    service.NewCohortService(programRepo, cohortRepo, uow, cfg.DefaultThresholdPct, observer),
		Curriculum: service.NewCurriculumService(weekRepo, cohortRepo, uow, distributionSvc, syncSvc, notifier, logger, observer),
		Distribute: distributionSvc,
		Sync:       syncSvc,
		Completion: service.NewCompletionService(programRepo, weekRepo, cohortRepo, taskRepo, stateRepo, uow, cfg.DefaultThresholdPct, logger, observer),
		Import:     service.NewImportService(uow, observer),
		Tenant:     cfg.Tenant,
	}

	// Colors only when writing to a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

// newNotifier publishes distribution events to AMQP when a broker URL is
// configured and logs them otherwise.
func newNotifier(cfg config.Config, logger *slog.Logger) (notify.Notifier, func(), error) {
	if cfg.AMQPURL == "" {
		return notify.NewLogNotifier(logger), func() {}, nil
	}
	n, err := notify.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to event broker: %w", err)
	}
	return n, func() {
		if err := n.Close(); err != nil {
			logger.Warn("closing event broker connection", "error", err)
		}
	}, nil
}
