package formatter

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/calendar"
	"github.com/alexanderramin/cadence/internal/completion"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	SetColor(false)
	os.Exit(m.Run())
}

func date(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }

func TestRenderTable_Aligns(t *testing.T) {
	out := RenderTable([]string{"A", "LONGER"}, [][]string{{"wide cell", "x"}, {"y"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, "A          LONGER", lines[0])
	assert.Equal(t, "─────────  ──────", lines[1])
	assert.Equal(t, "wide cell  x", lines[2])
	assert.Equal(t, strings.Index(lines[0], "LONGER"), strings.Index(lines[2], "x"))
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "70%", Pct(70))
	assert.Equal(t, "66.7%", Pct(66.66))
	assert.Equal(t, "0%", Pct(0))
	assert.Equal(t, "Onboarding", WeekName(0))
	assert.Equal(t, "Week 3", WeekName(3))
	assert.Equal(t, "Closing 1", WeekName(-1))
	assert.Equal(t, "Mon 2025-03-03", Date(date(3)))
	assert.Equal(t, "1 task", Plural(1, "task"))
	assert.Equal(t, "2 tasks", Plural(2, "task"))
	assert.Equal(t, "█████░░░░░", CompletionBar(50, false, 10))
	assert.Equal(t, "██████████", CompletionBar(140, true, 10))
}

func TestFormatWeekView(t *testing.T) {
	view := &app.WeekView{
		Week:         &domain.WeekTemplate{WeekNumber: 1},
		StartDate:    date(3),
		EndDate:      date(7),
		ThresholdPct: 70,
		Tasks: []completion.DecoratedTask{
			{TaskTemplate: domain.TaskTemplate{Label: "Journal"}, Completed: true, CompletionRate: 70, CompletedCount: 7, EligibleCount: 10},
			{TaskTemplate: domain.TaskTemplate{Label: "Stretch"}},
		},
		CompletionAvailable: true,
	}

	out := FormatWeekView(view)

	assert.Contains(t, out, "WEEK 1")
	assert.Contains(t, out, "2025-03-03 → 2025-03-07")
	assert.Contains(t, out, "✔  Journal")
	assert.Contains(t, out, "7/10")
	assert.NotContains(t, out, "unavailable")

	view.CompletionAvailable = false
	assert.Contains(t, FormatWeekView(view), "completion unavailable")
}

func TestFormatDayPlan(t *testing.T) {
	plan := &domain.CohortDayPlan{
		WeekNumber: 1,
		Days: []domain.PlanDay{
			{DayIndex: 0, Date: date(3), Tasks: []domain.PlanTask{
				{Label: "Journal", Source: domain.SourceTemplate},
				{Label: "Coach call", Source: domain.SourceManual},
			}, Habits: []domain.PlanHabit{{Label: "Water"}}},
			{DayIndex: 1, Date: date(4)},
		},
		Degraded: true,
	}

	out := FormatDayPlan(plan)

	assert.Contains(t, out, "Journal, Coach call (manual)")
	assert.Contains(t, out, "Water")
	assert.Contains(t, out, "template day indices")
	assert.Contains(t, out, "Tue 2025-03-04")
}

func TestFormatCalendarPreview(t *testing.T) {
	program := &domain.Program{Name: "Reset"}
	preview := &app.CalendarPreview{
		Program:   program,
		StartDate: date(3),
		Weeks:     []calendar.Week{{WeekNumber: 1}, {WeekNumber: 2}},
		Templates: []app.TemplateWeekMapping{{
			Template: &domain.WeekTemplate{WeekNumber: 1, Label: "Foundations"},
			Week:     calendar.Week{WeekNumber: 1, StartDayIndex: 0, EndDayIndex: 4, StartDate: date(3), EndDate: date(7)},
		}},
	}

	out := FormatCalendarPreview(preview)

	assert.Contains(t, out, "RESET FROM 2025-03-03")
	assert.Contains(t, out, "Foundations")
	assert.Contains(t, out, "0-4")
	assert.Contains(t, out, "1 calendar weeks have no template")
}

func TestFormatSyncResult(t *testing.T) {
	out := FormatSyncResult(&app.MemberSyncResult{
		Date:          date(3),
		MembersTotal:  3,
		MembersSynced: 2,
		TasksCreated:  4,
		Failures:      []app.MemberSyncFailure{{MemberID: "ben", Reason: "context deadline exceeded", Transient: true}},
	})

	assert.Contains(t, out, "2/3 members, 4 created")
	assert.Contains(t, out, "member ben timed out")
}

func TestFormatCohort(t *testing.T) {
	pct := 50.0
	out := FormatCohort(&domain.Cohort{
		Name:                 "March",
		StartDate:            date(3),
		Status:               domain.CohortActive,
		Members:              []string{"ana", "ben"},
		ThresholdOverridePct: &pct,
	})

	assert.Contains(t, out, "MARCH")
	assert.Contains(t, out, "● Active")
	assert.Contains(t, out, "ana, ben")
	assert.Contains(t, out, "50%")
}

func TestFormatWeek(t *testing.T) {
	out := FormatWeek(&domain.WeekTemplate{
		WeekNumber: 2,
		Label:      "Momentum",
		Tasks: []domain.TaskTemplate{
			{ID: "t1", Label: "Move", DayTag: domain.SpreadAcrossWeek(), Occurrences: 3},
			{ID: "t2", Label: "Watch Cues", DayTag: domain.OnDay(1), ResourceID: "intro", Origin: domain.OriginResource},
		},
		Habits: []domain.HabitTemplate{{Label: "Water", DayTag: domain.SpreadAcrossWeek()}},
	})

	assert.Contains(t, out, "WEEK 2: MOMENTUM")
	assert.Contains(t, out, "spread ×3")
	assert.Contains(t, out, "day 1")
	assert.Contains(t, out, "from intro")
	assert.Contains(t, out, "Water")
}
