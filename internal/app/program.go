package app

import (
	"time"

	"github.com/alexanderramin/cadence/internal/calendar"
	"github.com/alexanderramin/cadence/internal/domain"
)

// ProgramDetail is a program with its week templates in program order.
type ProgramDetail struct {
	Program *domain.Program
	Weeks   []*domain.WeekTemplate
}

// TemplateWeekMapping pairs a week template with the calendar week it
// resolves to for one start date.
type TemplateWeekMapping struct {
	Template *domain.WeekTemplate
	Week     calendar.Week
	Degraded bool
}

// CalendarPreview shows how a program lays out for a cohort starting on
// StartDate.
type CalendarPreview struct {
	Program   *domain.Program
	StartDate time.Time
	Weeks     []calendar.Week
	Templates []TemplateWeekMapping
}

type CreateCohortRequest struct {
	TenantID             string
	ProgramID            string
	Name                 string
	StartDate            time.Time
	Members              []string
	Status               domain.CohortStatus
	ThresholdOverridePct *float64
}

// ImportResult holds the outcome of a program import.
type ImportResult struct {
	Program     *domain.Program
	WeekCount   int
	TaskCount   int
	HabitCount  int
	CohortCount int
}
