package importer

import (
	"path/filepath"
	"testing"

	"github.com/alexanderramin/cadence/internal/curriculum"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_HabitsProgram(t *testing.T) {
	schema, err := LoadImportSchema(filepath.Join("testdata", "habits_program.yaml"))
	require.NoError(t, err)
	require.Empty(t, ValidateImportSchema(schema))

	gen, err := Convert(schema, "acme")
	require.NoError(t, err)

	p := gen.Program
	assert.Equal(t, "acme", p.TenantID)
	assert.Equal(t, "Habits Reset", p.Name)
	require.NotNil(t, p.DefaultThresholdPct)
	assert.Equal(t, 75.0, *p.DefaultThresholdPct)

	require.Len(t, gen.Weeks, 4)
	w1 := gen.Weeks[0]
	assert.Equal(t, p.ID, w1.ProgramID)
	assert.Equal(t, "Foundations", w1.Label)
	assert.Equal(t, 0, w1.StartDayIndex)
	assert.Equal(t, 4, w1.EndDayIndex)
	assert.Equal(t, "Week 2", gen.Weeks[1].Label)
	assert.Equal(t, 5, gen.Weeks[1].StartDayIndex, "weekday program blocks are five days")

	require.Len(t, w1.Tasks, 4, "two authored tasks plus one per course lesson")
	assert.Equal(t, "move", w1.Tasks[0].ID)
	assert.NotEmpty(t, w1.Tasks[1].ID)
	assert.Equal(t, domain.OriginManual, w1.Tasks[1].Origin)
	assert.Equal(t, "Watch Lesson 1: Cues", w1.Tasks[2].Label)
	assert.Equal(t, curriculum.GeneratedTaskID("intro-course", "l1"), w1.Tasks[2].ID)
	assert.Equal(t, domain.OnDay(3), w1.Tasks[3].DayTag)

	require.Len(t, w1.Habits, 1)
	assert.Equal(t, domain.SpreadAcrossWeek(), w1.Habits[0].DayTag, "habits default to daily")

	require.Len(t, gen.Cohorts, 1)
	c := gen.Cohorts[0]
	assert.Equal(t, p.ID, c.ProgramID)
	assert.Equal(t, domain.CohortActive, c.Status)
	assert.Equal(t, 2025, c.StartDate.Year())
	assert.Equal(t, []string{"ana", "ben", "chi"}, c.Members)
}

func TestConvert_SortsWeeksAndUsesExplicitBounds(t *testing.T) {
	schema := &ImportSchema{
		Program: ProgramImport{Name: "Short", LengthDays: 12, IncludeWeekends: true},
		Weeks: []WeekImport{
			{WeekNumber: ptrInt(-1)},
			{WeekNumber: ptrInt(1), StartDayIndex: ptrInt(1), EndDayIndex: ptrInt(6)},
			{WeekNumber: ptrInt(0)},
		},
	}
	require.Empty(t, ValidateImportSchema(schema))

	gen, err := Convert(schema, "acme")
	require.NoError(t, err)

	require.Len(t, gen.Weeks, 3)
	assert.Equal(t, "Onboarding", gen.Weeks[0].Label)
	assert.Equal(t, 1, gen.Weeks[1].StartDayIndex)
	assert.Equal(t, 6, gen.Weeks[1].EndDayIndex)
	assert.Equal(t, "Closing 1", gen.Weeks[2].Label)
	assert.Equal(t, 11, gen.Weeks[2].EndDayIndex)
	assert.Empty(t, gen.Cohorts)
	assert.NotNil(t, gen.Weeks[0].Tasks)
}
