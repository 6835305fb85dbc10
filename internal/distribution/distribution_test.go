package distribution

import (
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/calendar"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func taskIDs(day domain.PlanDay) []string {
	out := []string{}
	for _, t := range day.Tasks {
		out = append(out, t.TemplateID)
	}
	return out
}

func TestTaskOffsets_Rules(t *testing.T) {
	tasks := []domain.TaskTemplate{
		{ID: "day2", DayTag: domain.OnDay(2)},
		{ID: "day9", DayTag: domain.OnDay(9)},
		{ID: "spread3", DayTag: domain.SpreadAcrossWeek(), Occurrences: 3},
		{ID: "spread9", DayTag: domain.SpreadAcrossWeek(), Occurrences: 9},
		{ID: "anywhere", DayTag: domain.AnywhereInWeek()},
		{ID: "untagged"},
	}

	got := TaskOffsets(tasks, 5, domain.PolicyFirstDay)

	assert.Equal(t, []int{2}, got[0])
	assert.Equal(t, []int{4}, got[1], "clamped to the last day")
	assert.Equal(t, []int{0, 1, 3}, got[2])
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got[3], "at most one occurrence per day")
	assert.Equal(t, []int{0}, got[4])
	assert.Equal(t, []int{0}, got[5], "untagged means anywhere")
}

func TestTaskOffsets_SpreadPoolKeepsTemplateOrder(t *testing.T) {
	tasks := []domain.TaskTemplate{
		{ID: "a", DayTag: domain.SpreadAcrossWeek()},
		{ID: "fixed", DayTag: domain.OnDay(0)},
		{ID: "b", DayTag: domain.SpreadAcrossWeek()},
		{ID: "c", DayTag: domain.SpreadAcrossWeek()},
	}

	got := TaskOffsets(tasks, 5, domain.PolicyFirstDay)

	assert.Equal(t, []int{0}, got[0])
	assert.Equal(t, []int{1}, got[2])
	assert.Equal(t, []int{3}, got[3])
}

func TestTaskOffsets_ResourcePolicy(t *testing.T) {
	tasks := []domain.TaskTemplate{
		{ID: "lesson", DayTag: domain.AnywhereInWeek(), ResourceID: "r"},
		{ID: "plain", DayTag: domain.AnywhereInWeek()},
		{ID: "pooled", DayTag: domain.SpreadAcrossWeek()},
	}

	assert.Equal(t, []int{0}, TaskOffsets(tasks, 5, domain.PolicyFirstDay)[0])
	assert.Equal(t, []int{4}, TaskOffsets(tasks, 5, domain.PolicyLastDay)[0])
	assert.Equal(t, []int{0}, TaskOffsets(tasks, 5, domain.PolicyLastDay)[1], "unlinked tasks ignore the policy")

	even := TaskOffsets(tasks, 5, domain.PolicyEven)
	assert.Equal(t, []int{0}, even[0])
	assert.Equal(t, []int{2}, even[2], "linked task joins the spread pool")
}

func TestTaskOffsets_EmptyWeek(t *testing.T) {
	got := TaskOffsets([]domain.TaskTemplate{{ID: "a", DayTag: domain.OnDay(1)}}, 0, domain.PolicyFirstDay)
	assert.Equal(t, [][]int{nil}, got)
}

func TestHabitOffsets_DailyByDefault(t *testing.T) {
	got := HabitOffsets([]domain.HabitTemplate{
		{ID: "water"},
		{ID: "walk", DayTag: domain.SpreadAcrossWeek(), Occurrences: 2},
		{ID: "review", DayTag: domain.OnDay(4)},
	}, 5)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got[0])
	assert.Equal(t, []int{0, 2}, got[1])
	assert.Equal(t, []int{4}, got[2])
}

// TestBuildWeekPlan_SpreadFiveAcrossFirstWeek walks a 28-day weekday program
// that starts on a Monday: a 5-occurrence spread task in week 1 lands once on
// each weekday.
func TestBuildWeekPlan_SpreadFiveAcrossFirstWeek(t *testing.T) {
	in := calendar.Input{StartDate: date(2025, 3, 3), LengthDays: 28}
	weeks := calendar.CalculateWeeks(in)
	templates := []*domain.WeekTemplate{{ID: "w1", WeekNumber: 1, StartDayIndex: 0, EndDayIndex: 4}}
	m := calendar.MapTemplateWeek(in, templates, templates[0], weeks)
	require.False(t, m.Degraded)

	tasks := []domain.TaskTemplate{{ID: "move", Label: "Move", DayTag: domain.SpreadAcrossWeek(), Occurrences: 5}}
	days := BuildWeekPlan(m.Week, tasks, nil, domain.PolicyFirstDay)

	require.Len(t, days, 5)
	for i, d := range days {
		assert.Equal(t, date(2025, 3, 3+i), d.Date)
		assert.Equal(t, i, d.DayIndex)
		require.Len(t, d.Tasks, 1)
		assert.Equal(t, domain.PlanTask{TemplateID: "move", Label: "Move", Source: domain.SourceTemplate}, d.Tasks[0])
		assert.NotNil(t, d.Habits)
	}
}

func TestBuildWeekPlan_Deterministic(t *testing.T) {
	week := calendar.CalculateWeeks(calendar.Input{StartDate: date(2025, 3, 3), LengthDays: 5})[0]
	tasks := []domain.TaskTemplate{
		{ID: "a", DayTag: domain.SpreadAcrossWeek()},
		{ID: "b", DayTag: domain.SpreadAcrossWeek()},
		{ID: "c", DayTag: domain.OnDay(3)},
	}
	habits := []domain.HabitTemplate{{ID: "h"}}

	first := BuildWeekPlan(week, tasks, habits, domain.PolicyEven)
	second := BuildWeekPlan(week, tasks, habits, domain.PolicyEven)

	assert.Equal(t, first, second)
}

func planWeek(tasks ...domain.TaskTemplate) []domain.PlanDay {
	week := calendar.CalculateWeeks(calendar.Input{StartDate: date(2025, 3, 3), LengthDays: 5})[0]
	return BuildWeekPlan(week, tasks, nil, domain.PolicyFirstDay)
}

func TestMerge_FillIsIdempotent(t *testing.T) {
	fresh := planWeek(
		domain.TaskTemplate{ID: "a", Label: "A", DayTag: domain.OnDay(0)},
		domain.TaskTemplate{ID: "b", Label: "B", DayTag: domain.SpreadAcrossWeek(), Occurrences: 2},
	)

	once, d1 := Merge(nil, fresh, false)
	twice, d2 := Merge(once, fresh, false)

	assert.Equal(t, once, twice)
	assert.Equal(t, 3, d1.TasksAdded)
	assert.Equal(t, 2, d1.DaysTouched)
	assert.Equal(t, Delta{}, d2)
	assert.Len(t, once, 5, "every day of the week is planned")
}

func TestMerge_FillKeepsEditedEntries(t *testing.T) {
	existing := planWeek(domain.TaskTemplate{ID: "a", Label: "Old label", DayTag: domain.OnDay(0)})
	fresh := planWeek(
		domain.TaskTemplate{ID: "a", Label: "New label", DayTag: domain.OnDay(0)},
		domain.TaskTemplate{ID: "b", Label: "B", DayTag: domain.OnDay(0)},
	)

	merged, d := Merge(existing, fresh, false)

	assert.Equal(t, []string{"a", "b"}, taskIDs(merged[0]))
	assert.Equal(t, "Old label", merged[0].Tasks[0].Label)
	assert.Equal(t, 1, d.TasksAdded)
}

func TestMerge_OverwriteWithEmptyClearsTemplateEntries(t *testing.T) {
	existing := planWeek(
		domain.TaskTemplate{ID: "a", Label: "A", DayTag: domain.OnDay(1)},
		domain.TaskTemplate{ID: "b", Label: "B", DayTag: domain.OnDay(2)},
	)
	existing, ok := AddManual(existing, 1, date(2025, 3, 4), domain.PlanTask{TemplateID: "coach", Label: "Call"})
	require.True(t, ok)

	merged, d := Merge(existing, planWeek(), true)

	require.Len(t, merged, 5)
	assert.Equal(t, []string{"coach"}, taskIDs(merged[1]))
	assert.Empty(t, merged[2].Tasks)
	assert.Equal(t, 2, d.TasksRemoved)
	assert.Equal(t, 2, d.DaysTouched)
}

func TestMerge_OverwriteReplacesAndCountsChanges(t *testing.T) {
	existing := planWeek(
		domain.TaskTemplate{ID: "a", Label: "A", DayTag: domain.OnDay(0)},
		domain.TaskTemplate{ID: "gone", Label: "Gone", DayTag: domain.OnDay(0)},
	)
	existing, _ = AddManual(existing, 0, date(2025, 3, 3), domain.PlanTask{TemplateID: "coach", Label: "Call"})
	fresh := planWeek(
		domain.TaskTemplate{ID: "new", Label: "New", DayTag: domain.OnDay(0)},
		domain.TaskTemplate{ID: "a", Label: "A renamed", DayTag: domain.OnDay(0)},
	)

	merged, d := Merge(existing, fresh, true)

	assert.Equal(t, []string{"new", "a", "coach"}, taskIDs(merged[0]), "template entries first, manual entries preserved")
	assert.Equal(t, "A renamed", merged[0].Tasks[1].Label)
	assert.Equal(t, Delta{DaysTouched: 1, TasksAdded: 1, TasksRemoved: 1, TasksUpdated: 1}, d)
}

func TestMerge_OverwriteDropsDaysOutsideTheWeek(t *testing.T) {
	// A previous plan on dates the week no longer covers.
	stale := []domain.PlanDay{
		{DayIndex: 7, Date: date(2025, 3, 12), Tasks: []domain.PlanTask{{TemplateID: "a", Source: domain.SourceTemplate}}, Habits: []domain.PlanHabit{}},
		{DayIndex: 8, Date: date(2025, 3, 13), Tasks: []domain.PlanTask{{TemplateID: "m", Source: domain.SourceManual}}, Habits: []domain.PlanHabit{}},
	}

	merged, d := Merge(stale, planWeek(), true)

	require.Len(t, merged, 6)
	assert.Equal(t, date(2025, 3, 13), merged[5].Date, "manual entries keep their day")
	assert.Equal(t, 1, d.TasksRemoved)
}

func TestMerge_DoesNotAliasExisting(t *testing.T) {
	existing := planWeek(domain.TaskTemplate{ID: "a", DayTag: domain.OnDay(0)})
	fresh := planWeek(domain.TaskTemplate{ID: "b", DayTag: domain.OnDay(0)})

	_, _ = Merge(existing, fresh, false)

	assert.Equal(t, []string{"a"}, taskIDs(existing[0]))
}

func TestAddManual_RejectsDuplicate(t *testing.T) {
	days := planWeek(domain.TaskTemplate{ID: "a", DayTag: domain.OnDay(0)})

	days, ok := AddManual(days, 0, date(2025, 3, 3), domain.PlanTask{TemplateID: "a"})
	assert.False(t, ok)
	assert.Len(t, days[0].Tasks, 1)

	days, ok = AddManual(days, 5, date(2025, 3, 10), domain.PlanTask{TemplateID: "x", Label: "Extra"})
	require.True(t, ok)
	require.Len(t, days, 6)
	assert.Equal(t, domain.SourceManual, days[5].Tasks[0].Source)
}
