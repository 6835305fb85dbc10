package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberIDs(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("m%02d", i+1)
	}
	return out
}

// syncedCohort seeds a weekday program with one task on day 0, distributes
// and syncs it, and returns each member's copy of that task.
func syncedCohort(t *testing.T, r *repos, members int, opts ...testutil.CohortOption) (*domain.Program, []*domain.WeekTemplate, *domain.Cohort, []*domain.MemberTask) {
	t.Helper()
	ctx := context.Background()
	p := testutil.NewTestProgram("Reset")
	weeks := []*domain.WeekTemplate{
		testutil.NewTestWeek(p, 1, testutil.WithTasks(
			testutil.Task("journal", "Journal", domain.OnDay(0)),
			testutil.Task("stretch", "Stretch", domain.OnDay(1)),
		)),
		testutil.NewTestWeek(p, 2),
		testutil.NewTestWeek(p, 3),
		testutil.NewTestWeek(p, 4),
	}
	opts = append([]testutil.CohortOption{testutil.WithMembers(memberIDs(members)...)}, opts...)
	c := testutil.NewTestCohort(p, monday, opts...)
	r.seed(t, p, weeks, c)

	_, err := r.distribution().Distribute(ctx, testutil.Tenant, p.ID, weeks[0].ID, c.ID, app.DistributeOptions{})
	require.NoError(t, err)
	_, err = r.sync().SyncToMembers(ctx, testutil.Tenant, p.ID, c.ID, monday, domain.SyncFillEmpty)
	require.NoError(t, err)

	var tasks []*domain.MemberTask
	for _, m := range c.Members {
		list, err := r.tasks.ListByMemberDate(ctx, testutil.Tenant, m, monday)
		require.NoError(t, err)
		require.Len(t, list, 1)
		tasks = append(tasks, list[0])
	}
	return p, weeks, c, tasks
}

func completeN(t *testing.T, svc CompletionService, tasks []*domain.MemberTask, n int) *app.SetCompletionResult {
	t.Helper()
	var last *app.SetCompletionResult
	for _, task := range tasks[:n] {
		res, err := svc.SetTaskCompletion(context.Background(), testutil.Tenant, task.ID, true)
		require.NoError(t, err)
		last = res
	}
	return last
}

func TestSetTaskCompletion_MeetsThreshold(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p, weeks, c, tasks := syncedCohort(t, r, 10)
	svc := r.completion(nil)

	res := completeN(t, svc, tasks, 7)

	require.NotNil(t, res.State)
	assert.True(t, res.Task.Completed)
	assert.NotNil(t, res.Task.CompletedAt)
	assert.Equal(t, 7, res.State.CompletedCount)
	assert.Equal(t, 10, res.State.EligibleCount)
	assert.Equal(t, 70.0, res.State.CompletionRate)
	assert.True(t, res.State.ThresholdMet)

	view, err := svc.WeekView(ctx, testutil.Tenant, p.ID, weeks[0].ID, c.ID)
	require.NoError(t, err)
	assert.True(t, view.CompletionAvailable)
	assert.Equal(t, domain.DefaultThresholdPct, view.ThresholdPct)
	require.Len(t, view.Tasks, 2)
	assert.True(t, view.Tasks[0].Completed)
	assert.Equal(t, 70.0, view.Tasks[0].CompletionRate)
	assert.False(t, view.Tasks[1].Completed)
	assert.Zero(t, view.Tasks[1].CompletionRate)
}

func TestSetTaskCompletion_BelowThresholdAndUndo(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	_, _, c, tasks := syncedCohort(t, r, 10)
	svc := r.completion(nil)

	res := completeN(t, svc, tasks, 6)
	assert.Equal(t, 60.0, res.State.CompletionRate)
	assert.False(t, res.State.ThresholdMet)

	undo, err := svc.SetTaskCompletion(ctx, testutil.Tenant, tasks[0].ID, false)
	require.NoError(t, err)
	assert.False(t, undo.Task.Completed)
	assert.Nil(t, undo.Task.CompletedAt)
	assert.Equal(t, 5, undo.State.CompletedCount)

	stored, err := r.states.Get(ctx, testutil.Tenant, c.ID, "journal", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.CompletedCount)
	assert.Equal(t, "Journal", stored.Label)
}

func TestSetTaskCompletion_RemovedMemberNoLongerCounts(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p, weeks, c, tasks := syncedCohort(t, r, 2)
	svc := r.completion(nil)

	res := completeN(t, svc, tasks, 2)
	assert.Equal(t, 100.0, res.State.CompletionRate)

	_, err := r.cohortService().RemoveMember(ctx, testutil.Tenant, c.ID, "m02")
	require.NoError(t, err)

	off, err := svc.SetTaskCompletion(ctx, testutil.Tenant, tasks[0].ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, off.State.CompletedCount)
	assert.Equal(t, 1, off.State.EligibleCount)
	assert.Zero(t, off.State.CompletionRate)
	assert.False(t, off.State.ThresholdMet)

	on, err := svc.SetTaskCompletion(ctx, testutil.Tenant, tasks[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, on.State.CompletedCount)
	assert.Equal(t, 1, on.State.EligibleCount)
	assert.LessOrEqual(t, on.State.CompletionRate, 100.0)

	view, err := svc.WeekView(ctx, testutil.Tenant, p.ID, weeks[0].ID, c.ID)
	require.NoError(t, err)
	require.NotEmpty(t, view.Tasks)
	assert.Equal(t, 100.0, view.Tasks[0].CompletionRate)
	assert.Equal(t, 1, view.Tasks[0].CompletedCount)
}

func TestSetTaskCompletion_FormerMemberTogglesWithinBounds(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	_, _, c, tasks := syncedCohort(t, r, 3)
	svc := r.completion(nil)

	_, err := r.cohortService().RemoveMember(ctx, testutil.Tenant, c.ID, "m03")
	require.NoError(t, err)

	// m03 still holds the task and may tick it off.
	res, err := svc.SetTaskCompletion(ctx, testutil.Tenant, tasks[2].ID, true)
	require.NoError(t, err)
	assert.True(t, res.Task.Completed)
	assert.Equal(t, 0, res.State.CompletedCount)
	assert.Equal(t, 2, res.State.EligibleCount)
}

func TestSetTaskCompletion_RepeatIsStable(t *testing.T) {
	r := setupRepos(t)
	_, _, _, tasks := syncedCohort(t, r, 4)
	svc := r.completion(nil)

	first := completeN(t, svc, tasks, 1)
	again := completeN(t, svc, tasks, 1)

	assert.Equal(t, first.State.CompletedCount, again.State.CompletedCount)
	require.NotNil(t, again.Task.CompletedAt)
	assert.WithinDuration(t, *first.Task.CompletedAt, *again.Task.CompletedAt, time.Second)
}

func TestSetTaskCompletion_CohortOverride(t *testing.T) {
	r := setupRepos(t)
	_, _, _, tasks := syncedCohort(t, r, 4, testutil.WithThresholdOverride(50))

	res := completeN(t, r.completion(nil), tasks, 2)
	assert.True(t, res.State.ThresholdMet)
}

func TestSetTaskCompletion_PersonalTask(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	personal := testutil.NewTestMemberTask("ana", monday, "Dentist")
	require.NoError(t, r.tasks.Create(ctx, personal))

	res, err := r.completion(nil).SetTaskCompletion(ctx, testutil.Tenant, personal.ID, true)
	require.NoError(t, err)
	assert.True(t, res.Task.Completed)
	assert.Nil(t, res.State)
}

func TestSetTaskCompletion_Unknown(t *testing.T) {
	r := setupRepos(t)
	svc := r.completion(nil)

	_, err := svc.SetTaskCompletion(context.Background(), testutil.Tenant, "missing", true)
	assert.Equal(t, app.ErrNotFound, app.CodeOf(err))

	_, err = svc.SetTaskCompletion(context.Background(), testutil.Tenant, "", true)
	assert.Equal(t, app.ErrInvalidInput, app.CodeOf(err))
}

func TestWeekView_DegradedWeekIsUndecorated(t *testing.T) {
	r := setupRepos(t)
	p := testutil.NewTestProgram("Short", testutil.WithLengthDays(10))
	late := testutil.NewTestWeek(p, 3, testutil.WithTasks(testutil.Task("a", "Journal", domain.OnDay(0))))
	c := testutil.NewTestCohort(p, monday, testutil.WithMembers("ana"))
	r.seed(t, p, []*domain.WeekTemplate{
		testutil.NewTestWeek(p, 1),
		testutil.NewTestWeek(p, 2),
		late,
	}, c)
	logger, buf := bufferLogger()

	view, err := r.completion(logger).WeekView(context.Background(), testutil.Tenant, p.ID, late.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, view.CompletionAvailable)
	require.Len(t, view.Tasks, 1)
	assert.False(t, view.Tasks[0].Completed)
	assert.Contains(t, buf.String(), "completion unavailable")
}

type failingStates struct {
	repository.TaskStateRepo
}

func (failingStates) ListByDayRange(context.Context, string, string, int, int) ([]domain.CohortTaskState, error) {
	return nil, errors.New("database is locked")
}

func TestWeekView_StateReadFailureIsUndecorated(t *testing.T) {
	r := setupRepos(t)
	p, weeks, c, _ := syncedCohort(t, r, 2)
	logger, buf := bufferLogger()
	svc := NewCompletionService(r.programs, r.weeks, r.cohorts, r.tasks, failingStates{r.states}, r.uow, domain.DefaultThresholdPct, logger)

	view, err := svc.WeekView(context.Background(), testutil.Tenant, p.ID, weeks[0].ID, c.ID)
	require.NoError(t, err)
	assert.False(t, view.CompletionAvailable)
	assert.Len(t, view.Tasks, 2)
	assert.Contains(t, buf.String(), "database is locked")
}

func TestListMemberTasks(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := testutil.NewTestProgram("Reset")
	week := testutil.NewTestWeek(p, 1, testutil.WithTasks(testutil.Task("move", "Move", domain.SpreadAcrossWeek())))
	week.Tasks[0].Occurrences = 5
	c := testutil.NewTestCohort(p, monday, testutil.WithMembers("ana"))
	r.seed(t, p, []*domain.WeekTemplate{week}, c)
	_, err := r.distribution().Distribute(ctx, testutil.Tenant, p.ID, week.ID, c.ID, app.DistributeOptions{})
	require.NoError(t, err)
	_, err = r.sync().SyncRange(ctx, testutil.Tenant, p.ID, c.ID, monday, monday.AddDate(0, 0, 6), domain.SyncFillEmpty)
	require.NoError(t, err)

	svc := r.completion(nil)
	tasks, err := svc.ListMemberTasks(ctx, testutil.Tenant, "ana", monday.AddDate(0, 0, 1), monday.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, monday.AddDate(0, 0, 1), tasks[0].Date)
	assert.Equal(t, 1, tasks[0].DayIndex)

	_, err = svc.ListMemberTasks(ctx, testutil.Tenant, "ana", monday, monday.Add(-time.Hour))
	assert.Equal(t, app.ErrInvalidInput, app.CodeOf(err))
}
