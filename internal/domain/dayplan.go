package domain

import "time"

// CohortDayPlan is the materialized schedule of one template week for one
// cohort: the tasks and habits assigned to each calendar day.
type CohortDayPlan struct {
	TenantID       string
	CohortID       string
	ProgramID      string
	WeekTemplateID string
	WeekNumber     int
	Days           []PlanDay
	// Degraded marks a plan laid out on the template's own day indices
	// because the cohort calendar had no matching week.
	Degraded  bool
	UpdatedAt time.Time
}

type PlanDay struct {
	DayIndex int         `json:"dayIndex"`
	Date     time.Time   `json:"date"`
	Tasks    []PlanTask  `json:"tasks"`
	Habits   []PlanHabit `json:"habits"`
}

type PlanTask struct {
	TemplateID string      `json:"templateId"`
	Label      string      `json:"label"`
	Source     EntrySource `json:"source"`
	ResourceID string      `json:"resourceId,omitempty"`
	LessonID   string      `json:"lessonId,omitempty"`
}

type PlanHabit struct {
	TemplateID string      `json:"templateId"`
	Label      string      `json:"label"`
	Source     EntrySource `json:"source"`
}

// Day returns the plan day for date, or nil.
func (p *CohortDayPlan) Day(date time.Time) *PlanDay {
	for i := range p.Days {
		if SameDate(p.Days[i].Date, date) {
			return &p.Days[i]
		}
	}
	return nil
}

// HasTask reports whether a task with templateID is already on the day.
func (d *PlanDay) HasTask(templateID string) bool {
	for _, t := range d.Tasks {
		if t.TemplateID == templateID {
			return true
		}
	}
	return false
}

// HasHabit reports whether a habit with templateID is already on the day.
func (d *PlanDay) HasHabit(templateID string) bool {
	for _, h := range d.Habits {
		if h.TemplateID == templateID {
			return true
		}
	}
	return false
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate compares two instants by calendar date only.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
