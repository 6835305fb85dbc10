package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/distribution"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/google/uuid"
)

type distributionService struct {
	loader   timelineLoader
	plans    repository.DayPlanRepo
	uow      db.UnitOfWork
	timeout  time.Duration
	logger   *slog.Logger
	observer UseCaseObserver
}

// NewDistributionService builds the distribution engine. A positive timeout
// bounds every Distribute call; exceeding it fails the call.
func NewDistributionService(
	programs repository.ProgramRepo,
	weeks repository.WeekTemplateRepo,
	cohorts repository.CohortRepo,
	plans repository.DayPlanRepo,
	uow db.UnitOfWork,
	timeout time.Duration,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) DistributionService {
	return &distributionService{
		loader:   timelineLoader{programs: programs, weeks: weeks, cohorts: cohorts},
		plans:    plans,
		uow:      uow,
		timeout:  timeout,
		logger:   loggerOrDiscard(logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

func resolvePolicy(p domain.ResourcePolicy) (domain.ResourcePolicy, error) {
	if p == "" {
		return domain.PolicyFirstDay, nil
	}
	if !domain.ValidResourcePolicies[string(p)] {
		return "", app.InvalidInput("invalid resource policy %q", p)
	}
	return p, nil
}

func (s *distributionService) Distribute(ctx context.Context, tenantID, programID, weekTemplateID, cohortID string, opts app.DistributeOptions) (summary *app.DistributionSummary, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"tenant":    tenantID,
		"cohort":    cohortID,
		"week":      weekTemplateID,
		"overwrite": opts.OverwriteExisting,
	}
	defer func() { observe(ctx, s.observer, "distribute", startedAt, fields, err) }()

	if err = requireIDs("tenant", tenantID, "program", programID, "week template", weekTemplateID, "cohort", cohortID); err != nil {
		return nil, err
	}
	policy, err := resolvePolicy(opts.ResourcePolicy)
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	tl, err := s.loader.load(ctx, tenantID, programID, cohortID)
	if err != nil {
		return nil, s.failure(ctx, err, weekTemplateID, cohortID)
	}
	if !tl.cohort.Schedulable() {
		return nil, app.InvalidInput("cohort %s is %s and cannot be scheduled", cohortID, tl.cohort.Status)
	}
	week, err := tl.week(weekTemplateID)
	if err != nil {
		return nil, err
	}

	m := tl.mapWeek(week)
	if m.Degraded {
		s.logger.WarnContext(ctx, "no calendar week for template week, using template day indices",
			"tenant", tenantID, "cohort", cohortID, "week_number", week.WeekNumber,
			"start_day", m.Week.StartDayIndex, "end_day", m.Week.EndDayIndex)
	}
	fresh := distribution.BuildWeekPlan(m.Week, week.Tasks, week.Habits, policy)

	var delta distribution.Delta
	var planned int
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLiteDayPlanRepo(tx)

		var existing []domain.PlanDay
		current, err := txPlans.Get(ctx, tenantID, cohortID, weekTemplateID)
		switch {
		case err == nil:
			existing = current.Days
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		merged, d := distribution.Merge(existing, fresh, opts.OverwriteExisting)
		delta, planned = d, len(merged)
		return txPlans.Upsert(ctx, &domain.CohortDayPlan{
			TenantID:       tenantID,
			CohortID:       cohortID,
			ProgramID:      tl.program.ID,
			WeekTemplateID: weekTemplateID,
			WeekNumber:     week.WeekNumber,
			Days:           merged,
			Degraded:       m.Degraded,
			UpdatedAt:      time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, s.failure(ctx, err, weekTemplateID, cohortID)
	}

	fields["tasks_added"] = delta.TasksAdded
	fields["tasks_removed"] = delta.TasksRemoved
	fields["degraded"] = m.Degraded
	return &app.DistributionSummary{
		CohortID:       cohortID,
		WeekTemplateID: weekTemplateID,
		WeekNumber:     week.WeekNumber,
		StartDate:      m.Week.StartDate,
		EndDate:        m.Week.EndDate,
		DaysPlanned:    planned,
		DaysTouched:    delta.DaysTouched,
		TasksAdded:     delta.TasksAdded,
		TasksRemoved:   delta.TasksRemoved,
		TasksUpdated:   delta.TasksUpdated,
		HabitsAdded:    delta.HabitsAdded,
		HabitsRemoved:  delta.HabitsRemoved,
		Degraded:       m.Degraded,
	}, nil
}

// failure classifies an error raised while distributing. Coded errors pass
// through unless the deadline expired, which always fails the distribution.
func (s *distributionService) failure(ctx context.Context, err error, weekTemplateID, cohortID string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return app.DistributionFailed(err, "distributing week %s to cohort %s timed out after %s", weekTemplateID, cohortID, s.timeout)
	}
	var appErr *app.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return app.NotFound(err, "distributing week %s to cohort %s", weekTemplateID, cohortID)
	}
	return app.DistributionFailed(err, "distributing week %s to cohort %s", weekTemplateID, cohortID)
}

func (s *distributionService) AddManualEntry(ctx context.Context, tenantID string, req app.ManualEntryRequest) (plan *domain.CohortDayPlan, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"tenant": tenantID, "cohort": req.CohortID, "week": req.WeekTemplateID}
	defer func() { observe(ctx, s.observer, "add-manual-entry", startedAt, fields, err) }()

	if err = requireIDs("tenant", tenantID, "cohort", req.CohortID, "week template", req.WeekTemplateID); err != nil {
		return nil, err
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, app.InvalidInput("label is required")
	}
	if req.Date.IsZero() {
		return nil, app.InvalidInput("date is required")
	}

	tl, err := s.loader.load(ctx, tenantID, "", req.CohortID)
	if err != nil {
		return nil, err
	}
	week, err := tl.week(req.WeekTemplateID)
	if err != nil {
		return nil, err
	}
	m := tl.mapWeek(week)
	dayIndex := -1
	for i, d := range m.Week.Dates {
		if domain.SameDate(d, req.Date) {
			dayIndex = m.Week.StartDayIndex + i
			break
		}
	}
	if dayIndex < 0 {
		return nil, app.InvalidInput("%s is not a program day of week %d for cohort %s",
			req.Date.Format("2006-01-02"), week.WeekNumber, req.CohortID)
	}

	task := domain.PlanTask{TemplateID: uuid.New().String(), Label: label}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLiteDayPlanRepo(tx)
		current, err := txPlans.Get(ctx, tenantID, req.CohortID, req.WeekTemplateID)
		if errors.Is(err, repository.ErrNotFound) {
			current = &domain.CohortDayPlan{
				TenantID:       tenantID,
				CohortID:       req.CohortID,
				ProgramID:      tl.program.ID,
				WeekTemplateID: req.WeekTemplateID,
				WeekNumber:     week.WeekNumber,
				Degraded:       m.Degraded,
			}
		} else if err != nil {
			return err
		}
		current.Days, _ = distribution.AddManual(current.Days, dayIndex, req.Date, task)
		current.UpdatedAt = time.Now().UTC()
		if err := txPlans.Upsert(ctx, current); err != nil {
			return err
		}
		plan = current
		return nil
	})
	if err != nil {
		return nil, wrapRepoErr(err, "adding manual entry to cohort %s", req.CohortID)
	}
	return plan, nil
}

func (s *distributionService) DayPlan(ctx context.Context, tenantID, cohortID, weekTemplateID string) (*domain.CohortDayPlan, error) {
	plan, err := s.plans.Get(ctx, tenantID, cohortID, weekTemplateID)
	if err != nil {
		return nil, wrapRepoErr(err, "loading day plan of cohort %s", cohortID)
	}
	return plan, nil
}
