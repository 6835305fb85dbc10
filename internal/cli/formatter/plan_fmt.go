package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
)

// FormatDistribution summarizes one distribution run.
func FormatDistribution(s *app.DistributionSummary) string {
	line := fmt.Sprintf("Distributed %s to cohort %s (%s): +%d -%d ~%d tasks over %s\n",
		WeekName(s.WeekNumber), s.CohortID, DateRange(s.StartDate, s.EndDate),
		s.TasksAdded, s.TasksRemoved, s.TasksUpdated, Plural(s.DaysPlanned, "day"))
	if s.Degraded {
		line += Warning("no calendar week for this template; placed on template day indices") + "\n"
	}
	return line
}

// FormatDayPlan renders one day per row with its tasks and habits.
func FormatDayPlan(p *domain.CohortDayPlan) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s plan", WeekName(p.WeekNumber))))
	b.WriteString("\n")
	if p.Degraded {
		b.WriteString(Warning("laid out on template day indices") + "\n")
	}
	rows := make([][]string, 0, len(p.Days))
	for _, d := range p.Days {
		tasks := make([]string, 0, len(d.Tasks))
		for _, t := range d.Tasks {
			label := t.Label
			if t.Source == domain.SourceManual {
				label += Dim(" (manual)")
			}
			tasks = append(tasks, label)
		}
		habits := make([]string, 0, len(d.Habits))
		for _, h := range d.Habits {
			habits = append(habits, h.Label)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", d.DayIndex),
			Date(d.Date),
			orDash(strings.Join(tasks, ", ")),
			orDash(strings.Join(habits, ", ")),
		})
	}
	b.WriteString(RenderTable([]string{"DAY", "DATE", "TASKS", "HABITS"}, rows))
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return Dim("--")
	}
	return s
}

func syncFailures(b *strings.Builder, failures []app.MemberSyncFailure) {
	for _, f := range failures {
		kind := "failed"
		if f.Transient {
			kind = "timed out"
		}
		b.WriteString(Warning(fmt.Sprintf("member %s %s: %s", f.MemberID, kind, f.Reason)) + "\n")
	}
}

func FormatSyncResult(r *app.MemberSyncResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Synced %s: %d/%d members, %d created, %d already present\n",
		r.Date.Format(dateLayout), r.MembersSynced, r.MembersTotal, r.TasksCreated, r.TasksSkipped)
	syncFailures(&b, r.Failures)
	return b.String()
}

func FormatSyncRange(r *app.SyncRangeResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Synced %s over %s: %d created, %d already present, %d failed\n",
		DateRange(r.From, r.To), Plural(len(r.Days), "planned day"), r.TasksCreated, r.TasksSkipped, r.Failures)
	for _, d := range r.Days {
		syncFailures(&b, d.Failures)
	}
	return b.String()
}

func FormatMemberTasks(tasks []*domain.MemberTask) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		mark := Dim("○")
		if t.Completed {
			mark = StyleGreen.Render("✔")
		}
		source := Dim("personal")
		if t.FromProgram() {
			source = "program"
		}
		rows = append(rows, []string{mark, t.ID, Date(t.Date), t.Title, string(t.List), source})
	}
	return RenderTable([]string{"", "ID", "DATE", "TITLE", "LIST", "SOURCE"}, rows)
}

// FormatCompletion reports a toggled task and the cohort state it fed.
func FormatCompletion(r *app.SetCompletionResult) string {
	verb := "Reopened"
	if r.Task.Completed {
		verb = "Completed"
	}
	out := fmt.Sprintf("%s %q\n", verb, r.Task.Title)
	if r.State != nil {
		out += fmt.Sprintf("Cohort: %d/%d members (%s) %s\n",
			r.State.CompletedCount, r.State.EligibleCount, Pct(r.State.CompletionRate),
			thresholdText(r.State.ThresholdMet))
	}
	return out
}

func thresholdText(met bool) string {
	if met {
		return StyleGreen.Render("threshold met")
	}
	return Dim("below threshold")
}
