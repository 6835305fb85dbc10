package service

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/require"
)

type repos struct {
	db       *sql.DB
	uow      db.UnitOfWork
	programs *repository.SQLiteProgramRepo
	weeks    *repository.SQLiteWeekTemplateRepo
	cohorts  *repository.SQLiteCohortRepo
	plans    *repository.SQLiteDayPlanRepo
	tasks    *repository.SQLiteMemberTaskRepo
	states   *repository.SQLiteTaskStateRepo
}

func setupRepos(t *testing.T) *repos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &repos{
		db:       database,
		uow:      testutil.NewTestUoW(database),
		programs: repository.NewSQLiteProgramRepo(database),
		weeks:    repository.NewSQLiteWeekTemplateRepo(database),
		cohorts:  repository.NewSQLiteCohortRepo(database),
		plans:    repository.NewSQLiteDayPlanRepo(database),
		tasks:    repository.NewSQLiteMemberTaskRepo(database),
		states:   repository.NewSQLiteTaskStateRepo(database),
	}
}

func (r *repos) seed(t *testing.T, p *domain.Program, weeks []*domain.WeekTemplate, cohorts ...*domain.Cohort) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, r.programs.Create(ctx, p))
	for _, w := range weeks {
		require.NoError(t, r.weeks.Create(ctx, w))
	}
	for _, c := range cohorts {
		require.NoError(t, r.cohorts.Create(ctx, c))
	}
}

func (r *repos) distributionWith(uow db.UnitOfWork, timeout time.Duration, logger *slog.Logger) DistributionService {
	return NewDistributionService(r.programs, r.weeks, r.cohorts, r.plans, uow, timeout, logger)
}

func (r *repos) distribution() DistributionService {
	return r.distributionWith(r.uow, 0, nil)
}

func (r *repos) syncWith(uow db.UnitOfWork, cfg MemberSyncConfig) MemberSyncService {
	return NewMemberSyncService(r.cohorts, r.plans, uow, cfg, nil)
}

func (r *repos) sync() MemberSyncService {
	return r.syncWith(r.uow, MemberSyncConfig{Parallelism: 4, MemberTimeout: 5 * time.Second})
}

func (r *repos) completion(logger *slog.Logger) CompletionService {
	return NewCompletionService(r.programs, r.weeks, r.cohorts, r.tasks, r.states, r.uow, domain.DefaultThresholdPct, logger)
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

// monday is the start date of most test cohorts.
var monday = testutil.Date(2025, 3, 3)

// weekdayProgram seeds a 28-day weekday program with four regular weeks,
// the first carrying tasks, and one active cohort starting on monday.
func weekdayProgram(t *testing.T, r *repos, members []string, tasks ...domain.TaskTemplate) (*domain.Program, []*domain.WeekTemplate, *domain.Cohort) {
	t.Helper()
	p := testutil.NewTestProgram("Reset")
	weeks := []*domain.WeekTemplate{
		testutil.NewTestWeek(p, 1, testutil.WithTasks(tasks...)),
		testutil.NewTestWeek(p, 2),
		testutil.NewTestWeek(p, 3),
		testutil.NewTestWeek(p, 4),
	}
	c := testutil.NewTestCohort(p, monday, testutil.WithMembers(members...))
	r.seed(t, p, weeks, c)
	return p, weeks, c
}

func planTaskIDs(day domain.PlanDay) []string {
	out := []string{}
	for _, t := range day.Tasks {
		out = append(out, t.TemplateID)
	}
	return out
}
