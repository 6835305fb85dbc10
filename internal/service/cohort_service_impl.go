package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/completion"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/google/uuid"
)

type cohortService struct {
	programs         repository.ProgramRepo
	cohorts          repository.CohortRepo
	uow              db.UnitOfWork
	defaultThreshold float64
	observer         UseCaseObserver
}

// NewCohortService builds the cohort service. defaultThreshold is used when
// task states are recounted after a roster change and neither the cohort
// nor its program sets a threshold.
func NewCohortService(programs repository.ProgramRepo, cohorts repository.CohortRepo, uow db.UnitOfWork, defaultThreshold float64, observers ...UseCaseObserver) CohortService {
	return &cohortService{
		programs:         programs,
		cohorts:          cohorts,
		uow:              uow,
		defaultThreshold: defaultThreshold,
		observer:         useCaseObserverOrNoop(observers),
	}
}

func validThreshold(pct *float64) bool {
	return pct == nil || (*pct >= 0 && *pct <= 100)
}

func (s *cohortService) Create(ctx context.Context, req app.CreateCohortRequest) (cohort *domain.Cohort, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"tenant": req.TenantID, "program": req.ProgramID}
	defer func() { observe(ctx, s.observer, "create-cohort", startedAt, fields, err) }()

	if err = requireIDs("tenant", req.TenantID, "program", req.ProgramID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, app.InvalidInput("cohort name is required")
	}
	if req.StartDate.IsZero() {
		return nil, app.InvalidInput("start date is required")
	}
	if !validThreshold(req.ThresholdOverridePct) {
		return nil, app.InvalidInput("threshold must be between 0 and 100")
	}
	status := req.Status
	if status == "" {
		status = domain.CohortUpcoming
	}
	if !domain.ValidCohortStatuses[string(status)] {
		return nil, app.InvalidInput("invalid cohort status %q", status)
	}

	if _, err = s.programs.GetByID(ctx, req.TenantID, req.ProgramID); err != nil {
		return nil, wrapRepoErr(err, "loading program %s", req.ProgramID)
	}

	now := time.Now().UTC()
	cohort = &domain.Cohort{
		ID:                   uuid.New().String(),
		TenantID:             req.TenantID,
		ProgramID:            req.ProgramID,
		Name:                 name,
		StartDate:            domain.DateOnly(req.StartDate),
		Members:              []string{},
		Status:               status,
		ThresholdOverridePct: req.ThresholdOverridePct,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	for _, m := range req.Members {
		cohort.AddMember(strings.TrimSpace(m), now)
	}
	if err = s.cohorts.Create(ctx, cohort); err != nil {
		return nil, wrapRepoErr(err, "creating cohort")
	}
	fields["cohort"] = cohort.ID
	fields["members"] = len(cohort.Members)
	return cohort, nil
}

func (s *cohortService) List(ctx context.Context, tenantID, programID string) ([]*domain.Cohort, error) {
	var (
		cohorts []*domain.Cohort
		err     error
	)
	if programID == "" {
		cohorts, err = s.cohorts.List(ctx, tenantID)
	} else {
		cohorts, err = s.cohorts.ListByProgram(ctx, tenantID, programID)
	}
	if err != nil {
		return nil, wrapRepoErr(err, "listing cohorts")
	}
	return cohorts, nil
}

func (s *cohortService) Get(ctx context.Context, tenantID, cohortID string) (*domain.Cohort, error) {
	c, err := s.cohorts.GetByID(ctx, tenantID, cohortID)
	if err != nil {
		return nil, wrapRepoErr(err, "loading cohort %s", cohortID)
	}
	return c, nil
}

func (s *cohortService) AddMember(ctx context.Context, tenantID, cohortID, memberID string) (*domain.Cohort, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return nil, app.InvalidInput("member is required")
	}
	return s.modify(ctx, tenantID, cohortID, true, func(c *domain.Cohort, now time.Time) (bool, error) {
		return c.AddMember(memberID, now), nil
	})
}

func (s *cohortService) RemoveMember(ctx context.Context, tenantID, cohortID, memberID string) (*domain.Cohort, error) {
	return s.modify(ctx, tenantID, cohortID, true, func(c *domain.Cohort, now time.Time) (bool, error) {
		if !c.RemoveMember(memberID, now) {
			return false, app.NotFound(repository.ErrNotFound, "member %s is not in cohort %s", memberID, cohortID)
		}
		return true, nil
	})
}

func (s *cohortService) SetStatus(ctx context.Context, tenantID, cohortID string, status domain.CohortStatus) (*domain.Cohort, error) {
	if !domain.ValidCohortStatuses[string(status)] {
		return nil, app.InvalidInput("invalid cohort status %q", status)
	}
	return s.modify(ctx, tenantID, cohortID, false, func(c *domain.Cohort, now time.Time) (bool, error) {
		prev := c.Status
		if err := c.TransitionTo(status, now); err != nil {
			return false, app.InvalidInput("%s", err.Error())
		}
		return prev != status, nil
	})
}

// modify loads, edits and stores a cohort in one transaction. The edit
// reports whether anything changed. When a roster edit changed the cohort,
// its stored task states are recounted against the new roster.
func (s *cohortService) modify(ctx context.Context, tenantID, cohortID string, roster bool, edit func(*domain.Cohort, time.Time) (bool, error)) (*domain.Cohort, error) {
	var out *domain.Cohort
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteCohortRepo(tx)
		c, err := repo.GetByID(ctx, tenantID, cohortID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		changed, err := edit(c, now)
		if err != nil {
			return err
		}
		if !changed {
			out = c
			return nil
		}
		if err := repo.Update(ctx, c); err != nil {
			return err
		}
		if roster {
			program, err := repository.NewSQLiteProgramRepo(tx).GetByID(ctx, tenantID, c.ProgramID)
			if err != nil {
				return err
			}
			threshold := completion.ResolveThreshold(c.ThresholdOverridePct, program.DefaultThresholdPct, s.defaultThreshold)
			if _, err := recountCohortStates(ctx, repository.NewSQLiteMemberTaskRepo(tx), repository.NewSQLiteTaskStateRepo(tx), c, threshold, now); err != nil {
				return err
			}
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, wrapRepoErr(err, "updating cohort %s", cohortID)
	}
	return out, nil
}
