package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/importer"
	"github.com/alexanderramin/cadence/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewImportService stores imported programs. All records of one import are
// written in a single transaction.
func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportProgram(ctx context.Context, tenantID, filePath string) (*app.ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, app.InvalidInput("loading import file: %v", err)
	}
	return s.importSchema(ctx, tenantID, schema)
}

func (s *importService) ImportProgramFromSchema(ctx context.Context, tenantID string, schema *importer.ImportSchema) (*app.ImportResult, error) {
	return s.importSchema(ctx, tenantID, schema)
}

func (s *importService) importSchema(ctx context.Context, tenantID string, schema *importer.ImportSchema) (result *app.ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"tenant": tenantID}
	defer func() { observe(ctx, s.observer, "import-program", startedAt, fields, err) }()

	if err = requireIDs("tenant", tenantID); err != nil {
		return nil, err
	}
	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, app.InvalidInput("%s", joinProblems("import validation failed", errs))
	}

	generated, err := importer.Convert(schema, tenantID)
	if err != nil {
		return nil, app.InvalidInput("converting import schema: %v", err)
	}

	result = &app.ImportResult{Program: generated.Program, WeekCount: len(generated.Weeks), CohortCount: len(generated.Cohorts)}
	for _, w := range generated.Weeks {
		result.TaskCount += len(w.Tasks)
		result.HabitCount += len(w.Habits)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProgramRepo(tx).Create(ctx, generated.Program); err != nil {
			return fmt.Errorf("creating program: %w", err)
		}
		weeks := repository.NewSQLiteWeekTemplateRepo(tx)
		for _, w := range generated.Weeks {
			if err := weeks.Create(ctx, w); err != nil {
				return fmt.Errorf("creating week %d: %w", w.WeekNumber, err)
			}
		}
		cohorts := repository.NewSQLiteCohortRepo(tx)
		for _, c := range generated.Cohorts {
			if err := cohorts.Create(ctx, c); err != nil {
				return fmt.Errorf("creating cohort %q: %w", c.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapRepoErr(err, "importing program %q", generated.Program.Name)
	}

	fields["program"] = generated.Program.ID
	fields["weeks"] = result.WeekCount
	fields["tasks"] = result.TaskCount
	return result, nil
}
