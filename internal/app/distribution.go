package app

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

type DistributeOptions struct {
	OverwriteExisting bool
	ResourcePolicy    domain.ResourcePolicy
}

// DistributionSummary reports what one distribution wrote to a cohort's
// day plan.
type DistributionSummary struct {
	CohortID       string
	WeekTemplateID string
	WeekNumber     int
	StartDate      time.Time
	EndDate        time.Time
	DaysPlanned    int
	DaysTouched    int
	TasksAdded     int
	TasksRemoved   int
	TasksUpdated   int
	HabitsAdded    int
	HabitsRemoved  int
	// Degraded is set when the cohort calendar had no week for the template
	// and the template's own day indices were used.
	Degraded bool
}

// ManualEntryRequest adds a coach-authored task to one day of a cohort week.
type ManualEntryRequest struct {
	CohortID       string
	WeekTemplateID string
	Date           time.Time
	Label          string
}
