package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStateRepo_UpsertAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	p := seedProgram(t, NewSQLiteProgramRepo(db))
	cohort := testutil.NewTestCohort(p, testutil.Date(2025, 3, 3))
	require.NoError(t, NewSQLiteCohortRepo(db).Create(context.Background(), cohort))
	repo := NewSQLiteTaskStateRepo(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	state := &domain.CohortTaskState{
		TenantID: testutil.Tenant, CohortID: cohort.ID, TemplateTaskID: "tpl-1", Label: "Journal",
		DayIndex: 2, Date: testutil.Date(2025, 3, 5),
		CompletedCount: 3, EligibleCount: 10, CompletionRate: 30, UpdatedAt: now,
	}
	require.NoError(t, repo.Upsert(ctx, state))

	state.CompletedCount = 7
	state.CompletionRate = 70
	state.ThresholdMet = true
	require.NoError(t, repo.Upsert(ctx, state))

	fetched, err := repo.Get(ctx, testutil.Tenant, cohort.ID, "tpl-1", 2)
	require.NoError(t, err)
	assert.Equal(t, state, fetched)

	other := *state
	other.DayIndex = 9
	other.Date = testutil.Date(2025, 3, 14)
	require.NoError(t, repo.Upsert(ctx, &other))

	inWeek, err := repo.ListByDayRange(ctx, testutil.Tenant, cohort.ID, 0, 4)
	require.NoError(t, err)
	require.Len(t, inWeek, 1)
	assert.Equal(t, 2, inWeek[0].DayIndex)

	all, err := repo.ListByCohort(ctx, testutil.Tenant, cohort.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []int{2, 9}, []int{all[0].DayIndex, all[1].DayIndex})

	_, err = repo.Get(ctx, testutil.Tenant, cohort.ID, "tpl-1", 3)
	assert.ErrorIs(t, err, ErrNotFound)
}
