package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/completion"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
)

type completionService struct {
	loader           timelineLoader
	tasks            repository.MemberTaskRepo
	states           repository.TaskStateRepo
	uow              db.UnitOfWork
	defaultThreshold float64
	logger           *slog.Logger
	observer         UseCaseObserver
}

// NewCompletionService builds the completion aggregator. defaultThreshold
// applies when neither the cohort nor its program sets one.
func NewCompletionService(
	programs repository.ProgramRepo,
	weeks repository.WeekTemplateRepo,
	cohorts repository.CohortRepo,
	tasks repository.MemberTaskRepo,
	states repository.TaskStateRepo,
	uow db.UnitOfWork,
	defaultThreshold float64,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) CompletionService {
	return &completionService{
		loader:           timelineLoader{programs: programs, weeks: weeks, cohorts: cohorts},
		tasks:            tasks,
		states:           states,
		uow:              uow,
		defaultThreshold: defaultThreshold,
		logger:           loggerOrDiscard(logger),
		observer:         useCaseObserverOrNoop(observers),
	}
}

func (s *completionService) threshold(cohort *domain.Cohort, program *domain.Program) float64 {
	return completion.ResolveThreshold(cohort.ThresholdOverridePct, program.DefaultThresholdPct, s.defaultThreshold)
}

func (s *completionService) SetTaskCompletion(ctx context.Context, tenantID, memberTaskID string, done bool) (result *app.SetCompletionResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"tenant": tenantID, "member_task": memberTaskID, "done": done}
	defer func() { observe(ctx, s.observer, "set-task-completion", startedAt, fields, err) }()

	if err = requireIDs("tenant", tenantID, "member task", memberTaskID); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteMemberTaskRepo(tx)
		task, err := txTasks.GetByID(ctx, tenantID, memberTaskID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if task.SetCompleted(done, now) {
			if err := txTasks.Update(ctx, task); err != nil {
				return err
			}
		}
		result = &app.SetCompletionResult{Task: task}
		if !task.FromProgram() {
			return nil
		}

		cohort, err := repository.NewSQLiteCohortRepo(tx).GetByID(ctx, tenantID, task.CohortID)
		if errors.Is(err, repository.ErrNotFound) {
			// The cohort is gone; the member keeps the task as a personal one.
			return nil
		}
		if err != nil {
			return err
		}
		program, err := repository.NewSQLiteProgramRepo(tx).GetByID(ctx, tenantID, cohort.ProgramID)
		if err != nil {
			return err
		}
		state := &domain.CohortTaskState{
			TenantID:       tenantID,
			CohortID:       cohort.ID,
			TemplateTaskID: task.TemplateTaskID,
			Label:          task.Title,
			DayIndex:       task.DayIndex,
			Date:           task.Date,
		}
		if err := recountState(ctx, txTasks, cohort, state, s.threshold(cohort, program), now); err != nil {
			return err
		}
		if err := repository.NewSQLiteTaskStateRepo(tx).Upsert(ctx, state); err != nil {
			return err
		}
		result.State = state
		fields["completion_rate"] = state.CompletionRate
		return nil
	})
	if err != nil {
		return nil, wrapRepoErr(err, "setting completion of member task %s", memberTaskID)
	}
	return result, nil
}

// WeekView decorates the week's tasks with cohort completion. When the week
// cannot be placed on the cohort calendar, or states cannot be read, the
// tasks are returned undecorated and CompletionAvailable is false.
func (s *completionService) WeekView(ctx context.Context, tenantID, programID, weekTemplateID, cohortID string) (view *app.WeekView, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"tenant": tenantID, "cohort": cohortID, "week": weekTemplateID}
	defer func() { observe(ctx, s.observer, "week-view", startedAt, fields, err) }()

	if err = requireIDs("tenant", tenantID, "program", programID, "week template", weekTemplateID, "cohort", cohortID); err != nil {
		return nil, err
	}
	tl, err := s.loader.load(ctx, tenantID, programID, cohortID)
	if err != nil {
		return nil, err
	}
	week, err := tl.week(weekTemplateID)
	if err != nil {
		return nil, err
	}

	m := tl.mapWeek(week)
	view = &app.WeekView{
		Week:         week,
		CohortID:     cohortID,
		StartDate:    m.Week.StartDate,
		EndDate:      m.Week.EndDate,
		ThresholdPct: s.threshold(tl.cohort, tl.program),
	}
	fields["degraded"] = m.Degraded

	if m.Degraded {
		s.logger.WarnContext(ctx, "week is not on the cohort calendar, completion unavailable",
			"tenant", tenantID, "cohort", cohortID, "week_number", week.WeekNumber)
		view.Tasks = completion.Undecorated(week.Tasks)
		return view, nil
	}

	states, qerr := s.states.ListByDayRange(ctx, tenantID, cohortID, m.Week.StartDayIndex, m.Week.EndDayIndex)
	if qerr != nil {
		s.logger.WarnContext(ctx, "loading cohort task states failed, completion unavailable",
			"tenant", tenantID, "cohort", cohortID, "week_number", week.WeekNumber, "error", qerr)
		view.Tasks = completion.Undecorated(week.Tasks)
		return view, nil
	}

	view.Tasks = completion.Decorate(week.Tasks, states, view.ThresholdPct)
	view.CompletionAvailable = true
	return view, nil
}

func (s *completionService) ListMemberTasks(ctx context.Context, tenantID, memberID string, from, to time.Time) ([]*domain.MemberTask, error) {
	if err := requireIDs("tenant", tenantID, "member", memberID); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, app.InvalidInput("range end is before start")
	}
	tasks, err := s.tasks.ListByMemberRange(ctx, tenantID, memberID, from, to)
	if err != nil {
		return nil, wrapRepoErr(err, "listing tasks of member %s", memberID)
	}
	return tasks, nil
}
