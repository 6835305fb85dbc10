package domain

import "time"

// MemberTask is a task on one member's list for one calendar date. Tasks
// created by member sync carry a TemplateTaskID back-reference.
type MemberTask struct {
	ID             string
	TenantID       string
	MemberID       string
	Date           time.Time
	DayIndex       int
	Title          string
	List           TaskList
	Completed      bool
	CompletedAt    *time.Time
	TemplateTaskID string
	CohortID       string
	ProgramID      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FromProgram reports whether the task was materialized from a cohort day plan.
func (t *MemberTask) FromProgram() bool {
	return t.TemplateTaskID != "" && t.CohortID != ""
}

// SetCompleted toggles completion. It reports whether anything changed.
func (t *MemberTask) SetCompleted(done bool, now time.Time) bool {
	if t.Completed == done {
		return false
	}
	t.Completed = done
	if done {
		at := now
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
	return true
}

// CohortTaskState aggregates member completion of one template task on one
// calendar day of a cohort.
type CohortTaskState struct {
	TenantID       string
	CohortID       string
	TemplateTaskID string
	Label          string
	DayIndex       int
	Date           time.Time
	CompletedCount int
	EligibleCount  int
	CompletionRate float64
	ThresholdMet   bool
	UpdatedAt      time.Time
}
