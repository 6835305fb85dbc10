package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/calendar"
	"github.com/alexanderramin/cadence/internal/curriculum"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/google/uuid"
)

// GeneratedProgram is an import converted into domain objects.
type GeneratedProgram struct {
	Program *domain.Program
	Weeks   []*domain.WeekTemplate
	Cohorts []*domain.Cohort
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema, tenantID string) (*GeneratedProgram, error) {
	now := time.Now().UTC()

	program := &domain.Program{
		ID:                  uuid.New().String(),
		TenantID:            tenantID,
		Name:                strings.TrimSpace(schema.Program.Name),
		LengthDays:          schema.Program.LengthDays,
		IncludeWeekends:     schema.Program.IncludeWeekends,
		DefaultThresholdPct: schema.Program.DefaultThresholdPct,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	weeks := make([]*domain.WeekTemplate, 0, len(schema.Weeks))
	for i, w := range schema.Weeks {
		if w.WeekNumber == nil {
			return nil, fmt.Errorf("weeks[%d]: missing week_number", i)
		}
		weeks = append(weeks, convertWeek(w, program, now))
	}
	domain.SortWeeks(weeks)

	cohorts := make([]*domain.Cohort, 0, len(schema.Cohorts))
	for i, c := range schema.Cohorts {
		start, err := time.Parse("2006-01-02", c.StartDate)
		if err != nil {
			return nil, fmt.Errorf("cohorts[%d]: parsing start_date: %w", i, err)
		}
		status := domain.CohortStatus(c.Status)
		if status == "" {
			status = domain.CohortUpcoming
		}
		cohort := &domain.Cohort{
			ID:                   uuid.New().String(),
			TenantID:             tenantID,
			ProgramID:            program.ID,
			Name:                 strings.TrimSpace(c.Name),
			StartDate:            start,
			Members:              []string{},
			Status:               status,
			ThresholdOverridePct: c.ThresholdOverridePct,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		for _, m := range c.Members {
			cohort.AddMember(strings.TrimSpace(m), now)
		}
		cohorts = append(cohorts, cohort)
	}

	return &GeneratedProgram{Program: program, Weeks: weeks, Cohorts: cohorts}, nil
}

func convertWeek(w WeekImport, program *domain.Program, now time.Time) *domain.WeekTemplate {
	n := *w.WeekNumber
	start, end := calendar.DefaultTemplateBounds(n, program.LengthDays, program.DaysPerWeek())
	if w.StartDayIndex != nil && w.EndDayIndex != nil {
		start, end = *w.StartDayIndex, *w.EndDayIndex
	}

	payloads := make([]curriculum.TaskPayload, 0, len(w.Tasks))
	for _, t := range w.Tasks {
		payloads = append(payloads, curriculum.TaskPayload{
			ID:          t.ID,
			Label:       t.Label,
			Description: t.Description,
			DayTag:      t.Day,
			Occurrences: t.Occurrences,
		})
	}
	habits := make([]curriculum.HabitPayload, 0, len(w.Habits))
	for _, h := range w.Habits {
		habits = append(habits, curriculum.HabitPayload{
			ID:          h.ID,
			Label:       h.Label,
			Description: h.Description,
			DayTag:      h.Day,
			Occurrences: h.Occurrences,
		})
	}
	resources := make([]domain.LinkedResource, 0, len(w.Resources))
	for _, r := range w.Resources {
		lessons := make([]domain.LessonMapping, 0, len(r.Lessons))
		for _, l := range r.Lessons {
			lessons = append(lessons, domain.LessonMapping{LessonID: l.LessonID, Number: l.Number, Title: l.Title, Day: l.Day})
		}
		resources = append(resources, domain.LinkedResource{
			ID:              r.ID,
			Type:            domain.ResourceType(r.Type),
			Title:           r.Title,
			AutoCreateTasks: r.AutoCreateTasks,
			Lessons:         lessons,
		})
	}

	label := strings.TrimSpace(w.Label)
	if label == "" {
		label = defaultWeekLabel(n)
	}
	return &domain.WeekTemplate{
		ID:              uuid.New().String(),
		TenantID:        program.TenantID,
		ProgramID:       program.ID,
		WeekNumber:      n,
		Label:           label,
		Description:     strings.TrimSpace(w.Description),
		StartDayIndex:   start,
		EndDayIndex:     end,
		Tasks:           curriculum.MergeGeneratedTasks(curriculum.NormalizeTasks(payloads), resources),
		Habits:          curriculum.NormalizeHabits(habits),
		LinkedResources: resources,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func defaultWeekLabel(n int) string {
	switch {
	case n == 0:
		return "Onboarding"
	case n < 0:
		return fmt.Sprintf("Closing %d", -n)
	default:
		return fmt.Sprintf("Week %d", n)
	}
}
