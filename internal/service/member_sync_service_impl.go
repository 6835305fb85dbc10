package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// maxSyncRangeDays bounds SyncRange to roughly one program year.
const maxSyncRangeDays = 400

type MemberSyncConfig struct {
	Parallelism   int
	MemberTimeout time.Duration
}

type memberSyncService struct {
	cohorts  repository.CohortRepo
	plans    repository.DayPlanRepo
	uow      db.UnitOfWork
	cfg      MemberSyncConfig
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewMemberSyncService(
	cohorts repository.CohortRepo,
	plans repository.DayPlanRepo,
	uow db.UnitOfWork,
	cfg MemberSyncConfig,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) MemberSyncService {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}
	return &memberSyncService{
		cohorts:  cohorts,
		plans:    plans,
		uow:      uow,
		cfg:      cfg,
		logger:   loggerOrDiscard(logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

func checkSyncMode(mode domain.SyncMode) error {
	if mode != domain.SyncFillEmpty {
		return app.InvalidInput("unsupported sync mode %q", mode)
	}
	return nil
}

func (s *memberSyncService) SyncToMembers(ctx context.Context, tenantID, programID, cohortID string, date time.Time, mode domain.SyncMode) (result *app.MemberSyncResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"tenant": tenantID, "cohort": cohortID, "date": date.Format("2006-01-02")}
	defer func() { observe(ctx, s.observer, "sync-to-members", startedAt, fields, err) }()

	if err = requireIDs("tenant", tenantID, "program", programID, "cohort", cohortID); err != nil {
		return nil, err
	}
	if err = checkSyncMode(mode); err != nil {
		return nil, err
	}
	cohort, err := s.cohort(ctx, tenantID, programID, cohortID)
	if err != nil {
		return nil, err
	}
	result, _, err = s.syncDay(ctx, cohort, domain.DateOnly(date))
	if err == nil {
		fields["tasks_created"] = result.TasksCreated
		fields["failures"] = len(result.Failures)
	}
	return result, err
}

func (s *memberSyncService) SyncRange(ctx context.Context, tenantID, programID, cohortID string, from, to time.Time, mode domain.SyncMode) (result *app.SyncRangeResult, err error) {
	startedAt := time.Now().UTC()
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	fields := map[string]any{
		"tenant": tenantID,
		"cohort": cohortID,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
	}
	defer func() { observe(ctx, s.observer, "sync-range", startedAt, fields, err) }()

	if err = requireIDs("tenant", tenantID, "program", programID, "cohort", cohortID); err != nil {
		return nil, err
	}
	if err = checkSyncMode(mode); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, app.InvalidInput("range end %s is before start %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}
	if to.Sub(from) > maxSyncRangeDays*24*time.Hour {
		return nil, app.InvalidInput("range may span at most %d days", maxSyncRangeDays)
	}
	cohort, err := s.cohort(ctx, tenantID, programID, cohortID)
	if err != nil {
		return nil, err
	}

	result = &app.SyncRangeResult{CohortID: cohortID, From: from, To: to}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day, planned, err := s.syncDay(ctx, cohort, d)
		if err != nil {
			return nil, err
		}
		if planned {
			result.Add(*day)
		}
	}
	fields["days"] = len(result.Days)
	fields["tasks_created"] = result.TasksCreated
	fields["failures"] = result.Failures
	return result, nil
}

func (s *memberSyncService) cohort(ctx context.Context, tenantID, programID, cohortID string) (*domain.Cohort, error) {
	cohort, err := s.cohorts.GetByID(ctx, tenantID, cohortID)
	if err != nil {
		return nil, wrapRepoErr(err, "loading cohort %s", cohortID)
	}
	if cohort.ProgramID != programID {
		return nil, app.InvalidInput("cohort %s does not follow program %s", cohortID, programID)
	}
	if !cohort.Schedulable() {
		return nil, app.InvalidInput("cohort %s is %s and cannot be synced", cohortID, cohort.Status)
	}
	return cohort, nil
}

type memberOutcome struct {
	created int
	skipped int
	err     error
}

// syncDay writes the plan day of date to every member. It reports false
// when the cohort has nothing planned on date.
func (s *memberSyncService) syncDay(ctx context.Context, cohort *domain.Cohort, date time.Time) (*app.MemberSyncResult, bool, error) {
	result := &app.MemberSyncResult{
		CohortID:     cohort.ID,
		Date:         date,
		MembersTotal: len(cohort.Members),
		Failures:     []app.MemberSyncFailure{},
	}
	day, err := s.plans.FindDay(ctx, cohort.TenantID, cohort.ID, date)
	if errors.Is(err, repository.ErrNotFound) {
		return result, false, nil
	}
	if err != nil {
		return nil, false, wrapRepoErr(err, "loading plan day %s of cohort %s", date.Format("2006-01-02"), cohort.ID)
	}

	outcomes := make([]memberOutcome, len(cohort.Members))
	var g errgroup.Group
	g.SetLimit(s.cfg.Parallelism)
	for i, memberID := range cohort.Members {
		g.Go(func() error {
			created, skipped, err := s.syncMember(ctx, cohort, day, memberID)
			outcomes[i] = memberOutcome{created: created, skipped: skipped, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, o := range outcomes {
		memberID := cohort.Members[i]
		if o.err != nil {
			transient := errors.Is(o.err, context.DeadlineExceeded) || errors.Is(o.err, context.Canceled)
			s.logger.WarnContext(ctx, "member sync failed",
				"tenant", cohort.TenantID, "cohort", cohort.ID, "member", memberID,
				"date", date.Format("2006-01-02"), "transient", transient, "error", o.err)
			result.Failures = append(result.Failures, app.MemberSyncFailure{
				MemberID:  memberID,
				Reason:    o.err.Error(),
				Transient: transient,
			})
			continue
		}
		result.MembersSynced++
		result.TasksCreated += o.created
		result.TasksSkipped += o.skipped
	}
	return result, true, nil
}

// syncMember creates the member tasks of day that the member does not have
// yet. Existing tasks are left untouched.
func (s *memberSyncService) syncMember(ctx context.Context, cohort *domain.Cohort, day *domain.PlanDay, memberID string) (created, skipped int, err error) {
	if s.cfg.MemberTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.MemberTimeout)
		defer cancel()
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		created, skipped = 0, 0
		tasks := repository.NewSQLiteMemberTaskRepo(tx)
		existing, err := tasks.ListByMemberDate(ctx, cohort.TenantID, memberID, day.Date)
		if err != nil {
			return err
		}
		have := make(map[string]bool, len(existing))
		for _, t := range existing {
			if t.TemplateTaskID != "" {
				have[t.TemplateTaskID] = true
			}
		}

		now := time.Now().UTC()
		for _, pt := range day.Tasks {
			if have[pt.TemplateID] {
				skipped++
				continue
			}
			written, err := tasks.CreateIfMissing(ctx, &domain.MemberTask{
				ID:             uuid.New().String(),
				TenantID:       cohort.TenantID,
				MemberID:       memberID,
				Date:           day.Date,
				DayIndex:       day.DayIndex,
				Title:          pt.Label,
				List:           domain.ListNow,
				TemplateTaskID: pt.TemplateID,
				CohortID:       cohort.ID,
				ProgramID:      cohort.ProgramID,
				CreatedAt:      now,
				UpdatedAt:      now,
			})
			if err != nil {
				return err
			}
			if written {
				created++
			} else {
				skipped++
			}
			have[pt.TemplateID] = true
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return created, skipped, nil
}
