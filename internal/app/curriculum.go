package app

import (
	"github.com/alexanderramin/cadence/internal/curriculum"
	"github.com/alexanderramin/cadence/internal/domain"
)

// WeekPatch edits a week template. Fields left unchanged keep their stored
// value; a full replace sets every field.
type WeekPatch struct {
	Label                  domain.Patch[string]                    `json:"label"`
	Description            domain.Patch[string]                    `json:"description"`
	Tasks                  domain.Patch[[]curriculum.TaskPayload]  `json:"tasks"`
	Habits                 domain.Patch[[]curriculum.HabitPayload] `json:"habits"`
	LinkedResources        domain.Patch[[]domain.LinkedResource]   `json:"linkedResources"`
	DistributeTasksNow     bool                                    `json:"distributeTasksNow"`
	OverwriteExistingTasks bool                                    `json:"overwriteExistingTasks"`
	ResourcePolicy         domain.ResourcePolicy                   `json:"resourcePolicy,omitempty"`
}

// MemberSyncCounts totals the best-effort member sync that follows a
// distribution.
type MemberSyncCounts struct {
	TasksCreated     int
	TasksSkipped     int
	Failures         int
	MembersProcessed int
}

type WeekUpdateResult struct {
	Week         *domain.WeekTemplate
	Distribution []DistributionSummary
	MemberSync   *MemberSyncCounts
	// Warnings lists cohorts whose distribution or sync did not complete.
	Warnings []string
}
