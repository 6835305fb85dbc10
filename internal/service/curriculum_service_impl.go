package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/curriculum"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/notify"
	"github.com/alexanderramin/cadence/internal/repository"
)

type curriculumService struct {
	weeks        repository.WeekTemplateRepo
	cohorts      repository.CohortRepo
	uow          db.UnitOfWork
	distribution DistributionService
	sync         MemberSyncService
	notifier     notify.Notifier
	logger       *slog.Logger
	observer     UseCaseObserver
}

func NewCurriculumService(
	weeks repository.WeekTemplateRepo,
	cohorts repository.CohortRepo,
	uow db.UnitOfWork,
	distribution DistributionService,
	sync MemberSyncService,
	notifier notify.Notifier,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) CurriculumService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &curriculumService{
		weeks:        weeks,
		cohorts:      cohorts,
		uow:          uow,
		distribution: distribution,
		sync:         sync,
		notifier:     notifier,
		logger:       loggerOrDiscard(logger),
		observer:     useCaseObserverOrNoop(observers),
	}
}

func (s *curriculumService) GetWeek(ctx context.Context, tenantID, programID, weekTemplateID string) (*domain.WeekTemplate, error) {
	w, err := s.weeks.GetByID(ctx, tenantID, weekTemplateID)
	if err != nil {
		return nil, wrapRepoErr(err, "loading week template %s", weekTemplateID)
	}
	if w.ProgramID != programID {
		return nil, app.NotFound(repository.ErrNotFound, "week template %s not found in program %s", weekTemplateID, programID)
	}
	return w, nil
}

// UpdateWeek stores the edited week, then, when asked to, distributes it to
// every schedulable cohort of the program and syncs the touched days to
// members. Distribution, sync and notification problems after the week is
// stored are reported as warnings.
func (s *curriculumService) UpdateWeek(ctx context.Context, tenantID, programID, weekTemplateID string, patch app.WeekPatch) (result *app.WeekUpdateResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"tenant":     tenantID,
		"week":       weekTemplateID,
		"distribute": patch.DistributeTasksNow,
	}
	defer func() { observe(ctx, s.observer, "update-week", startedAt, fields, err) }()

	if err = requireIDs("tenant", tenantID, "program", programID, "week template", weekTemplateID); err != nil {
		return nil, err
	}
	policy, err := resolvePolicy(patch.ResourcePolicy)
	if err != nil {
		return nil, err
	}

	var week *domain.WeekTemplate
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txWeeks := repository.NewSQLiteWeekTemplateRepo(tx)
		w, err := txWeeks.GetByID(ctx, tenantID, weekTemplateID)
		if err != nil {
			return err
		}
		if w.ProgramID != programID {
			return app.NotFound(repository.ErrNotFound, "week template %s not found in program %s", weekTemplateID, programID)
		}
		if err := applyWeekPatch(w, patch); err != nil {
			return err
		}
		w.UpdatedAt = time.Now().UTC()
		if err := txWeeks.Update(ctx, w); err != nil {
			return err
		}
		week = w
		return nil
	})
	if err != nil {
		return nil, wrapRepoErr(err, "updating week template %s", weekTemplateID)
	}
	fields["task_count"] = len(week.Tasks)

	result = &app.WeekUpdateResult{Week: week, Distribution: []app.DistributionSummary{}, Warnings: []string{}}
	if !patch.DistributeTasksNow {
		return result, nil
	}

	cohorts, err := s.cohorts.ListByProgram(ctx, tenantID, programID)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("listing cohorts: %v", err))
		s.logger.WarnContext(ctx, "listing cohorts for distribution failed", "tenant", tenantID, "program", programID, "error", err)
		return result, nil
	}

	opts := app.DistributeOptions{OverwriteExisting: patch.OverwriteExistingTasks, ResourcePolicy: policy}
	counts := &app.MemberSyncCounts{}
	for _, c := range cohorts {
		if !c.Schedulable() {
			continue
		}
		summary, derr := s.distribution.Distribute(ctx, tenantID, programID, weekTemplateID, c.ID, opts)
		if derr != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("cohort %s: %v", c.ID, derr))
			s.logger.WarnContext(ctx, "distribution failed", "tenant", tenantID, "cohort", c.ID, "error", derr)
			continue
		}
		result.Distribution = append(result.Distribution, *summary)

		synced, serr := s.sync.SyncRange(ctx, tenantID, programID, c.ID, summary.StartDate, summary.EndDate, domain.SyncFillEmpty)
		if serr != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("cohort %s: member sync: %v", c.ID, serr))
			s.logger.WarnContext(ctx, "member sync failed", "tenant", tenantID, "cohort", c.ID, "error", serr)
		} else {
			counts.TasksCreated += synced.TasksCreated
			counts.TasksSkipped += synced.TasksSkipped
			counts.Failures += synced.Failures
			counts.MembersProcessed += synced.MembersProcessed
			if synced.Failures > 0 {
				result.Warnings = append(result.Warnings, fmt.Sprintf("cohort %s: %d member writes failed", c.ID, synced.Failures))
			}
		}

		s.notify(ctx, tenantID, programID, summary)
	}
	result.MemberSync = counts
	fields["cohorts"] = len(result.Distribution)
	fields["warnings"] = len(result.Warnings)
	return result, nil
}

func (s *curriculumService) notify(ctx context.Context, tenantID, programID string, summary *app.DistributionSummary) {
	event := notify.Event{
		Kind:           notify.KindWeekDistributed,
		TenantID:       tenantID,
		ProgramID:      programID,
		CohortID:       summary.CohortID,
		WeekTemplateID: summary.WeekTemplateID,
		WeekNumber:     summary.WeekNumber,
		StartDate:      summary.StartDate.Format("2006-01-02"),
		EndDate:        summary.EndDate.Format("2006-01-02"),
		TasksAdded:     summary.TasksAdded,
		TasksRemoved:   summary.TasksRemoved,
		Degraded:       summary.Degraded,
		OccurredAt:     time.Now().UTC(),
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "notification failed", "tenant", tenantID, "cohort", summary.CohortID, "error", err)
	}
}

// applyWeekPatch edits w in place. Tasks generated from linked resources
// are reconciled whenever tasks or resources change.
func applyWeekPatch(w *domain.WeekTemplate, p app.WeekPatch) error {
	w.Label = strings.TrimSpace(p.Label.Apply(w.Label))
	w.Description = strings.TrimSpace(p.Description.Apply(w.Description))

	if !p.Habits.IsUnchanged() {
		w.Habits = curriculum.NormalizeHabits(p.Habits.Apply(nil))
	}
	if !p.LinkedResources.IsUnchanged() {
		w.LinkedResources = p.LinkedResources.Apply(nil)
		if w.LinkedResources == nil {
			w.LinkedResources = []domain.LinkedResource{}
		}
	}
	if !p.Tasks.IsUnchanged() {
		w.Tasks = curriculum.NormalizeTasks(p.Tasks.Apply(nil))
	}
	if !p.Tasks.IsUnchanged() || !p.LinkedResources.IsUnchanged() {
		w.Tasks = curriculum.MergeGeneratedTasks(w.Tasks, w.LinkedResources)
	}

	if errs := validateWeekContent(w); len(errs) > 0 {
		return app.InvalidInput("%s", joinProblems("week content is invalid", errs))
	}
	return nil
}

func validateWeekContent(w *domain.WeekTemplate) []error {
	var errs []error
	for i, t := range w.Tasks {
		if t.Label == "" {
			errs = append(errs, fmt.Errorf("tasks[%d].label is required", i))
		}
		if t.Occurrences > 0 && t.DayTag.Kind != domain.DayTagSpread {
			errs = append(errs, fmt.Errorf("tasks[%d].occurrences only applies to spread tasks", i))
		}
	}
	for i, h := range w.Habits {
		if h.Label == "" {
			errs = append(errs, fmt.Errorf("habits[%d].label is required", i))
		}
	}
	seen := make(map[string]bool, len(w.LinkedResources))
	for i, r := range w.LinkedResources {
		if r.ID == "" {
			errs = append(errs, fmt.Errorf("linkedResources[%d].id is required", i))
		} else if seen[r.ID] {
			errs = append(errs, fmt.Errorf("linkedResources[%d].id %q is duplicated", i, r.ID))
		}
		seen[r.ID] = true
		if !domain.ValidResourceTypes[string(r.Type)] {
			errs = append(errs, fmt.Errorf("linkedResources[%d].type: invalid value %q", i, r.Type))
		}
	}
	return errs
}

func joinProblems(head string, errs []error) string {
	msg := fmt.Sprintf("%s (%d errors):", head, len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return msg
}
