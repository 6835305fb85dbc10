package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekTemplateRepo_RoundTripsDocuments(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	p := testutil.NewTestProgram("Reset")
	require.NoError(t, NewSQLiteProgramRepo(db).Create(ctx, p))
	repo := NewSQLiteWeekTemplateRepo(db)

	w := testutil.NewTestWeek(p, 1,
		testutil.WithTasks(
			testutil.Task("a", "Journal", domain.OnDay(2)),
			domain.TaskTemplate{ID: "b", Label: "Move", DayTag: domain.SpreadAcrossWeek(), Occurrences: 3},
		),
		testutil.WithHabits(domain.HabitTemplate{ID: "h", Label: "Water"}),
	)
	require.NoError(t, repo.Create(ctx, w))

	fetched, err := repo.GetByID(ctx, testutil.Tenant, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Tasks, fetched.Tasks, "task order survives storage")
	assert.Equal(t, w.Habits, fetched.Habits)
	assert.Equal(t, []domain.LinkedResource{}, fetched.LinkedResources)
	assert.Equal(t, w.StartDayIndex, fetched.StartDayIndex)
}

func TestWeekTemplateRepo_ListOrdersOnboardingRegularClosing(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	p := testutil.NewTestProgram("Reset")
	require.NoError(t, NewSQLiteProgramRepo(db).Create(ctx, p))
	repo := NewSQLiteWeekTemplateRepo(db)

	for _, n := range []int{-1, 2, 0, -2, 1} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestWeek(p, n)))
	}

	weeks, err := repo.ListByProgram(ctx, testutil.Tenant, p.ID)
	require.NoError(t, err)
	got := []int{}
	for _, w := range weeks {
		got = append(got, w.WeekNumber)
	}
	assert.Equal(t, []int{0, 1, 2, -1, -2}, got)
}

func TestWeekTemplateRepo_UpdateAndTenantIsolation(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	p := testutil.NewTestProgram("Reset")
	require.NoError(t, NewSQLiteProgramRepo(db).Create(ctx, p))
	repo := NewSQLiteWeekTemplateRepo(db)

	w := testutil.NewTestWeek(p, 1)
	require.NoError(t, repo.Create(ctx, w))

	w.Label = "Foundations"
	w.Tasks = []domain.TaskTemplate{testutil.Task("a", "Journal", domain.AnywhereInWeek())}
	require.NoError(t, repo.Update(ctx, w))

	fetched, err := repo.GetByID(ctx, testutil.Tenant, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Foundations", fetched.Label)
	require.Len(t, fetched.Tasks, 1)

	_, err = repo.GetByID(ctx, "globex", w.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	w.TenantID = "globex"
	assert.ErrorIs(t, repo.Update(ctx, w), ErrNotFound)
}

func TestWeekTemplateRepo_DuplicateWeekNumberRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	p := testutil.NewTestProgram("Reset")
	require.NoError(t, NewSQLiteProgramRepo(db).Create(ctx, p))
	repo := NewSQLiteWeekTemplateRepo(db)

	require.NoError(t, repo.Create(ctx, testutil.NewTestWeek(p, 1)))
	assert.Error(t, repo.Create(ctx, testutil.NewTestWeek(p, 1)))
}
