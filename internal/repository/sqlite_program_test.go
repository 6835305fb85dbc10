package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProgramRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProgram("Reset", testutil.WithWeekends(), testutil.WithProgramThreshold(80))
	require.NoError(t, repo.Create(ctx, p))

	fetched, err := repo.GetByID(ctx, testutil.Tenant, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, fetched)
}

func TestProgramRepo_NullThreshold(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProgramRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProgram("Reset")
	require.NoError(t, repo.Create(ctx, p))

	fetched, err := repo.GetByID(ctx, testutil.Tenant, p.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.DefaultThresholdPct)
}

func TestProgramRepo_TenantIsolation(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProgramRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProgram("Reset", testutil.WithProgramTenant("globex"))
	require.NoError(t, repo.Create(ctx, p))

	_, err := repo.GetByID(ctx, testutil.Tenant, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := repo.List(ctx, testutil.Tenant)
	require.NoError(t, err)
	assert.Empty(t, list)

	p.TenantID = testutil.Tenant
	assert.ErrorIs(t, repo.Update(ctx, p), ErrNotFound, "updates never cross tenants")
}

func TestProgramRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProgramRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProgram("Reset")
	require.NoError(t, repo.Create(ctx, p))

	p.Name = "Reset 2"
	p.LengthDays = 35
	require.NoError(t, repo.Update(ctx, p))

	fetched, err := repo.GetByID(ctx, testutil.Tenant, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reset 2", fetched.Name)
	assert.Equal(t, 35, fetched.LengthDays)
}

func TestWeekTemplateRepo_DocumentsRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	programs := NewSQLiteProgramRepo(db)
	repo := NewSQLiteWeekTemplateRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProgram("Reset")
	require.NoError(t, programs.Create(ctx, p))

	w := testutil.NewTestWeek(p, 1,
		testutil.WithTasks(
			testutil.Task("t1", "Journal", domain.OnDay(2)),
			domain.TaskTemplate{ID: "t2", Label: "Move", DayTag: domain.SpreadAcrossWeek(), Occurrences: 3, Origin: domain.OriginManual},
		),
		testutil.WithHabits(domain.HabitTemplate{ID: "h1", Label: "Water", DayTag: domain.SpreadAcrossWeek()}),
		testutil.WithResources(domain.LinkedResource{
			ID: "r1", Type: domain.ResourceCourse, Title: "Foundations", AutoCreateTasks: true,
			Lessons: []domain.LessonMapping{{LessonID: "l1", Number: 1, Title: "Intro", Day: domain.OnDay(0)}},
		}),
	)
	require.NoError(t, repo.Create(ctx, w))

	fetched, err := repo.GetByID(ctx, testutil.Tenant, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w, fetched)
}

func TestWeekTemplateRepo_ListByProgramOrdersSpecialWeeks(t *testing.T) {
	db := testutil.NewTestDB(t)
	programs := NewSQLiteProgramRepo(db)
	repo := NewSQLiteWeekTemplateRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProgram("Reset")
	require.NoError(t, programs.Create(ctx, p))
	for _, n := range []int{-1, 2, 0, 1, -2} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestWeek(p, n)))
	}

	weeks, err := repo.ListByProgram(ctx, testutil.Tenant, p.ID)
	require.NoError(t, err)

	var numbers []int
	for _, w := range weeks {
		numbers = append(numbers, w.WeekNumber)
	}
	assert.Equal(t, []int{0, 1, 2, -1, -2}, numbers)
}

func TestWeekTemplateRepo_UpdateNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteWeekTemplateRepo(db)

	w := testutil.NewTestWeek(testutil.NewTestProgram("Reset"), 1)
	err := repo.Update(context.Background(), w)
	assert.ErrorIs(t, err, ErrNotFound)
}
