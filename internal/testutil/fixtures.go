package testutil

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/google/uuid"
)

// Tenant is the tenant every fixture belongs to unless overridden.
const Tenant = "acme"

// Date returns midnight UTC of the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// now is truncated to the second so fixtures survive RFC3339 storage.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Program options
type ProgramOption func(*domain.Program)

func WithLengthDays(n int) ProgramOption {
	return func(p *domain.Program) {
		p.LengthDays = n
	}
}

func WithWeekends() ProgramOption {
	return func(p *domain.Program) {
		p.IncludeWeekends = true
	}
}

func WithProgramThreshold(pct float64) ProgramOption {
	return func(p *domain.Program) {
		p.DefaultThresholdPct = &pct
	}
}

func WithProgramTenant(tenantID string) ProgramOption {
	return func(p *domain.Program) {
		p.TenantID = tenantID
	}
}

func NewTestProgram(name string, opts ...ProgramOption) *domain.Program {
	ts := now()
	p := &domain.Program{
		ID:         uuid.New().String(),
		TenantID:   Tenant,
		Name:       name,
		LengthDays: 28,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WeekTemplate options
type WeekOption func(*domain.WeekTemplate)

func WithTasks(tasks ...domain.TaskTemplate) WeekOption {
	return func(w *domain.WeekTemplate) {
		w.Tasks = tasks
	}
}

func WithHabits(habits ...domain.HabitTemplate) WeekOption {
	return func(w *domain.WeekTemplate) {
		w.Habits = habits
	}
}

func WithResources(resources ...domain.LinkedResource) WeekOption {
	return func(w *domain.WeekTemplate) {
		w.LinkedResources = resources
	}
}

func WithDayIndices(start, end int) WeekOption {
	return func(w *domain.WeekTemplate) {
		w.StartDayIndex = start
		w.EndDayIndex = end
	}
}

// NewTestWeek builds week number n of program p with weekday bounds.
func NewTestWeek(p *domain.Program, n int, opts ...WeekOption) *domain.WeekTemplate {
	ts := now()
	start := max(n-1, 0) * p.DaysPerWeek()
	w := &domain.WeekTemplate{
		ID:              uuid.New().String(),
		TenantID:        p.TenantID,
		ProgramID:       p.ID,
		WeekNumber:      n,
		StartDayIndex:   start,
		EndDayIndex:     start + p.DaysPerWeek() - 1,
		Tasks:           []domain.TaskTemplate{},
		Habits:          []domain.HabitTemplate{},
		LinkedResources: []domain.LinkedResource{},
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Task returns a manual task template with a fixed ID.
func Task(id, label string, tag domain.DayTag) domain.TaskTemplate {
	return domain.TaskTemplate{ID: id, Label: label, DayTag: tag, Origin: domain.OriginManual}
}

// Cohort options
type CohortOption func(*domain.Cohort)

func WithMembers(ids ...string) CohortOption {
	return func(c *domain.Cohort) {
		c.Members = ids
	}
}

func WithCohortStatus(s domain.CohortStatus) CohortOption {
	return func(c *domain.Cohort) {
		c.Status = s
	}
}

func WithThresholdOverride(pct float64) CohortOption {
	return func(c *domain.Cohort) {
		c.ThresholdOverridePct = &pct
	}
}

func NewTestCohort(p *domain.Program, start time.Time, opts ...CohortOption) *domain.Cohort {
	ts := now()
	c := &domain.Cohort{
		ID:        uuid.New().String(),
		TenantID:  p.TenantID,
		ProgramID: p.ID,
		Name:      "Cohort " + start.Format("Jan 2"),
		StartDate: start,
		Members:   []string{},
		Status:    domain.CohortActive,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewTestMemberTask builds a personal task on a member's list.
func NewTestMemberTask(memberID string, date time.Time, title string) *domain.MemberTask {
	ts := now()
	return &domain.MemberTask{
		ID:        uuid.New().String(),
		TenantID:  Tenant,
		MemberID:  memberID,
		Date:      date,
		Title:     title,
		List:      domain.ListNow,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}
