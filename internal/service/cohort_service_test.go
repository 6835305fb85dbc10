package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (r *repos) cohortService() CohortService {
	return NewCohortService(r.programs, r.cohorts, r.uow, domain.DefaultThresholdPct)
}

func TestCohortCreate(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := testutil.NewTestProgram("Reset")
	r.seed(t, p, nil)

	c, err := r.cohortService().Create(ctx, app.CreateCohortRequest{
		TenantID:  testutil.Tenant,
		ProgramID: p.ID,
		Name:      " March ",
		StartDate: monday,
		Members:   []string{"ana", "ben", "ana", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, "March", c.Name)
	assert.Equal(t, domain.CohortUpcoming, c.Status)
	assert.Equal(t, []string{"ana", "ben"}, c.Members)

	stored, err := r.cohorts.GetByID(ctx, testutil.Tenant, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Members, stored.Members)
	assert.Equal(t, monday, stored.StartDate)
}

func TestCohortCreate_Rejects(t *testing.T) {
	r := setupRepos(t)
	p := testutil.NewTestProgram("Reset")
	r.seed(t, p, nil)
	over := 120.0

	cases := []struct {
		name string
		req  app.CreateCohortRequest
		code app.ErrorCode
	}{
		{"no name", app.CreateCohortRequest{ProgramID: p.ID, StartDate: monday}, app.ErrInvalidInput},
		{"no start", app.CreateCohortRequest{ProgramID: p.ID, Name: "x"}, app.ErrInvalidInput},
		{"bad threshold", app.CreateCohortRequest{ProgramID: p.ID, Name: "x", StartDate: monday, ThresholdOverridePct: &over}, app.ErrInvalidInput},
		{"bad status", app.CreateCohortRequest{ProgramID: p.ID, Name: "x", StartDate: monday, Status: "paused"}, app.ErrInvalidInput},
		{"unknown program", app.CreateCohortRequest{ProgramID: "missing", Name: "x", StartDate: monday}, app.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.TenantID = testutil.Tenant
			_, err := r.cohortService().Create(context.Background(), tc.req)
			assert.Equal(t, tc.code, app.CodeOf(err))
		})
	}
}

func TestCohortMembers(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := testutil.NewTestProgram("Reset")
	c := testutil.NewTestCohort(p, monday, testutil.WithMembers("ana"))
	r.seed(t, p, nil, c)
	svc := r.cohortService()

	got, err := svc.AddMember(ctx, testutil.Tenant, c.ID, "ben")
	require.NoError(t, err)
	assert.Equal(t, []string{"ana", "ben"}, got.Members)

	got, err = svc.AddMember(ctx, testutil.Tenant, c.ID, "ben")
	require.NoError(t, err)
	assert.Equal(t, []string{"ana", "ben"}, got.Members)

	got, err = svc.RemoveMember(ctx, testutil.Tenant, c.ID, "ana")
	require.NoError(t, err)
	assert.Equal(t, []string{"ben"}, got.Members)

	_, err = svc.RemoveMember(ctx, testutil.Tenant, c.ID, "ana")
	assert.Equal(t, app.ErrNotFound, app.CodeOf(err))

	stored, err := svc.Get(ctx, testutil.Tenant, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ben"}, stored.Members)
}

func TestCohortSetStatus(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := testutil.NewTestProgram("Reset")
	c := testutil.NewTestCohort(p, monday, testutil.WithCohortStatus(domain.CohortUpcoming))
	r.seed(t, p, nil, c)
	svc := r.cohortService()

	got, err := svc.SetStatus(ctx, testutil.Tenant, c.ID, domain.CohortActive)
	require.NoError(t, err)
	assert.Equal(t, domain.CohortActive, got.Status)

	_, err = svc.SetStatus(ctx, testutil.Tenant, c.ID, domain.CohortArchived)
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, testutil.Tenant, c.ID, domain.CohortActive)
	assert.Equal(t, app.ErrInvalidInput, app.CodeOf(err), "archived is final")

	_, err = svc.SetStatus(ctx, testutil.Tenant, c.ID, "paused")
	assert.Equal(t, app.ErrInvalidInput, app.CodeOf(err))
}

func TestCohortList(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p1 := testutil.NewTestProgram("One")
	p2 := testutil.NewTestProgram("Two")
	r.seed(t, p1, nil, testutil.NewTestCohort(p1, monday))
	r.seed(t, p2, nil, testutil.NewTestCohort(p2, monday), testutil.NewTestCohort(p2, monday.AddDate(0, 0, 7)))
	svc := r.cohortService()

	all, err := svc.List(ctx, testutil.Tenant, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	two, err := svc.List(ctx, testutil.Tenant, p2.ID)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	none, err := svc.List(ctx, "globex", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRosterChange_RecountsTaskStates(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	_, _, c, tasks := syncedCohort(t, r, 3)
	svc := r.cohortService()

	// 2 of 3 is below the 70% default.
	res := completeN(t, r.completion(nil), tasks, 2)
	assert.False(t, res.State.ThresholdMet)

	_, err := svc.RemoveMember(ctx, testutil.Tenant, c.ID, "m03")
	require.NoError(t, err)
	stored, err := r.states.Get(ctx, testutil.Tenant, c.ID, "journal", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.CompletedCount)
	assert.Equal(t, 2, stored.EligibleCount)
	assert.Equal(t, 100.0, stored.CompletionRate)
	assert.True(t, stored.ThresholdMet)

	_, err = svc.RemoveMember(ctx, testutil.Tenant, c.ID, "m02")
	require.NoError(t, err)
	stored, err = r.states.Get(ctx, testutil.Tenant, c.ID, "journal", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CompletedCount)
	assert.Equal(t, 1, stored.EligibleCount)
	assert.LessOrEqual(t, stored.CompletionRate, 100.0)

	_, err = svc.AddMember(ctx, testutil.Tenant, c.ID, "m04")
	require.NoError(t, err)
	stored, err = r.states.Get(ctx, testutil.Tenant, c.ID, "journal", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CompletedCount)
	assert.Equal(t, 2, stored.EligibleCount)
	assert.Equal(t, 50.0, stored.CompletionRate)
	assert.False(t, stored.ThresholdMet)
}

func TestSetStatus_LeavesTaskStatesAlone(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	_, _, c, tasks := syncedCohort(t, r, 2)
	completeN(t, r.completion(nil), tasks, 1)
	before, err := r.states.Get(ctx, testutil.Tenant, c.ID, "journal", 0)
	require.NoError(t, err)

	_, err = r.cohortService().SetStatus(ctx, testutil.Tenant, c.ID, domain.CohortCompleted)
	require.NoError(t, err)

	after, err := r.states.Get(ctx, testutil.Tenant, c.ID, "journal", 0)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
