package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
)

func dayTagText(t domain.DayTag, occurrences int) string {
	tag := t.OrDefault()
	switch tag.Kind {
	case domain.DayTagDay:
		return fmt.Sprintf("day %d", tag.Day)
	case domain.DayTagSpread:
		if occurrences > 0 {
			return fmt.Sprintf("spread ×%d", occurrences)
		}
		return "spread"
	default:
		return "anywhere"
	}
}

// FormatWeek renders the authored content of a week template.
func FormatWeek(w *domain.WeekTemplate) string {
	var b strings.Builder
	title := WeekName(w.WeekNumber)
	if w.Label != "" {
		title += ": " + w.Label
	}
	b.WriteString(Header(title))
	b.WriteString("\n")
	if w.Description != "" {
		b.WriteString(w.Description + "\n")
	}
	fmt.Fprintf(&b, "%s %d-%d\n\n", Dim("Program days"), w.StartDayIndex, w.EndDayIndex)

	rows := make([][]string, 0, len(w.Tasks))
	for _, t := range w.Tasks {
		origin := ""
		if t.IsGenerated() {
			origin = Dim("from " + t.ResourceID)
		}
		rows = append(rows, []string{t.ID, t.Label, dayTagText(t.DayTag, t.Occurrences), origin})
	}
	b.WriteString(RenderTable([]string{"TASK ID", "TASK", "WHEN", ""}, rows))

	if len(w.Habits) > 0 {
		b.WriteString("\n")
		habits := make([][]string, 0, len(w.Habits))
		for _, h := range w.Habits {
			habits = append(habits, []string{h.Label, dayTagText(h.DayTag, h.Occurrences)})
		}
		b.WriteString(RenderTable([]string{"HABIT", "WHEN"}, habits))
	}
	if len(w.LinkedResources) > 0 {
		b.WriteString("\n")
		res := make([][]string, 0, len(w.LinkedResources))
		for _, r := range w.LinkedResources {
			auto := "no"
			if r.AutoCreateTasks {
				auto = "yes"
			}
			res = append(res, []string{r.ID, string(r.Type), r.Title, fmt.Sprintf("%d", len(r.Lessons)), auto})
		}
		b.WriteString(RenderTable([]string{"RESOURCE", "TYPE", "TITLE", "LESSONS", "AUTO TASKS"}, res))
	}
	return b.String()
}

// FormatWeekView renders a week with cohort completion.
func FormatWeekView(v *app.WeekView) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s · %s", WeekName(v.Week.WeekNumber), DateRange(v.StartDate, v.EndDate))))
	b.WriteString("\n")
	if !v.CompletionAvailable {
		b.WriteString(Warning("completion unavailable for this cohort week") + "\n")
	}
	rows := make([][]string, 0, len(v.Tasks))
	for _, t := range v.Tasks {
		mark := Dim("○")
		if t.Completed {
			mark = StyleGreen.Render("✔")
		}
		rows = append(rows, []string{
			mark,
			t.Label,
			CompletionBar(t.CompletionRate, t.Completed, 10),
			Pct(t.CompletionRate),
			fmt.Sprintf("%d/%d", t.CompletedCount, t.EligibleCount),
		})
	}
	b.WriteString(RenderTable([]string{"", "TASK", "PROGRESS", "RATE", "MEMBERS"}, rows))
	fmt.Fprintf(&b, "%s %s\n", Dim("Threshold"), Pct(v.ThresholdPct))
	return b.String()
}

// FormatWeekUpdate summarizes a stored week edit and any follow-up
// distribution.
func FormatWeekUpdate(r *app.WeekUpdateResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Updated %s (%s)\n", Bold(WeekName(r.Week.WeekNumber)), Plural(len(r.Week.Tasks), "task"))
	for _, d := range r.Distribution {
		b.WriteString(FormatDistribution(&d))
	}
	if r.MemberSync != nil {
		fmt.Fprintf(&b, "Member sync: %d created, %d already present, %d failed (%s)\n",
			r.MemberSync.TasksCreated, r.MemberSync.TasksSkipped, r.MemberSync.Failures,
			Plural(r.MemberSync.MembersProcessed, "member"))
	}
	for _, w := range r.Warnings {
		b.WriteString(Warning(w) + "\n")
	}
	return b.String()
}
