package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
)

func FormatProgramList(programs []*domain.Program) string {
	rows := make([][]string, 0, len(programs))
	for _, p := range programs {
		weekends := "no"
		if p.IncludeWeekends {
			weekends = "yes"
		}
		threshold := Dim("default")
		if p.DefaultThresholdPct != nil {
			threshold = Pct(*p.DefaultThresholdPct)
		}
		rows = append(rows, []string{p.ID, p.Name, strconv.Itoa(p.LengthDays), weekends, threshold})
	}
	return RenderTable([]string{"ID", "NAME", "DAYS", "WEEKENDS", "THRESHOLD"}, rows)
}

// FormatProgramDetail renders a program and its week outline.
func FormatProgramDetail(d *app.ProgramDetail) string {
	var b strings.Builder
	b.WriteString(Header(d.Program.Name))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s\n", Dim("ID"), d.Program.ID)
	fmt.Fprintf(&b, "%s  %d days, %d per week\n\n", Dim("Length"), d.Program.LengthDays, d.Program.DaysPerWeek())

	rows := make([][]string, 0, len(d.Weeks))
	for _, w := range d.Weeks {
		rows = append(rows, []string{
			w.ID,
			WeekName(w.WeekNumber),
			w.Label,
			fmt.Sprintf("%d-%d", w.StartDayIndex, w.EndDayIndex),
			strconv.Itoa(len(w.Tasks)),
			strconv.Itoa(len(w.Habits)),
		})
	}
	b.WriteString(RenderTable([]string{"WEEK ID", "WEEK", "LABEL", "DAYS", "TASKS", "HABITS"}, rows))
	return b.String()
}

// FormatCalendarPreview renders the calendar a cohort starting on the
// preview date would follow.
func FormatCalendarPreview(p *app.CalendarPreview) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s from %s", p.Program.Name, p.StartDate.Format(dateLayout))))
	b.WriteString("\n")

	rows := make([][]string, 0, len(p.Templates))
	for _, m := range p.Templates {
		dates := DateRange(m.Week.StartDate, m.Week.EndDate)
		if m.Degraded {
			dates += " " + StyleYellow.Render("(template days)")
		}
		rows = append(rows, []string{
			WeekName(m.Template.WeekNumber),
			m.Template.Label,
			fmt.Sprintf("%d-%d", m.Week.StartDayIndex, m.Week.EndDayIndex),
			dates,
		})
	}
	b.WriteString(RenderTable([]string{"WEEK", "LABEL", "DAYS", "DATES"}, rows))
	if len(p.Templates) < len(p.Weeks) {
		fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("%d calendar weeks have no template", len(p.Weeks)-len(p.Templates))))
	}
	return b.String()
}

func FormatImportResult(r *app.ImportResult) string {
	return fmt.Sprintf("Imported %s (%s): %s, %s, %s, %s\n",
		Bold(r.Program.Name), r.Program.ID,
		Plural(r.WeekCount, "week"), Plural(r.TaskCount, "task"),
		Plural(r.HabitCount, "habit"), Plural(r.CohortCount, "cohort"))
}
