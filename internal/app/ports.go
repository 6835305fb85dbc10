package app

import (
	"context"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/importer"
)

type ProgramUseCase interface {
	List(ctx context.Context, tenantID string) ([]*domain.Program, error)
	Get(ctx context.Context, tenantID, programID string) (*ProgramDetail, error)
	CalendarPreview(ctx context.Context, tenantID, programID string, start time.Time) (*CalendarPreview, error)
}

type CohortUseCase interface {
	Create(ctx context.Context, req CreateCohortRequest) (*domain.Cohort, error)
	List(ctx context.Context, tenantID, programID string) ([]*domain.Cohort, error)
	Get(ctx context.Context, tenantID, cohortID string) (*domain.Cohort, error)
	AddMember(ctx context.Context, tenantID, cohortID, memberID string) (*domain.Cohort, error)
	RemoveMember(ctx context.Context, tenantID, cohortID, memberID string) (*domain.Cohort, error)
	SetStatus(ctx context.Context, tenantID, cohortID string, status domain.CohortStatus) (*domain.Cohort, error)
}

type CurriculumUseCase interface {
	GetWeek(ctx context.Context, tenantID, programID, weekTemplateID string) (*domain.WeekTemplate, error)
	UpdateWeek(ctx context.Context, tenantID, programID, weekTemplateID string, patch WeekPatch) (*WeekUpdateResult, error)
}

type DistributeUseCase interface {
	Distribute(ctx context.Context, tenantID, programID, weekTemplateID, cohortID string, opts DistributeOptions) (*DistributionSummary, error)
	AddManualEntry(ctx context.Context, tenantID string, req ManualEntryRequest) (*domain.CohortDayPlan, error)
	DayPlan(ctx context.Context, tenantID, cohortID, weekTemplateID string) (*domain.CohortDayPlan, error)
}

type MemberSyncUseCase interface {
	SyncToMembers(ctx context.Context, tenantID, programID, cohortID string, date time.Time, mode domain.SyncMode) (*MemberSyncResult, error)
	SyncRange(ctx context.Context, tenantID, programID, cohortID string, from, to time.Time, mode domain.SyncMode) (*SyncRangeResult, error)
}

type CompletionUseCase interface {
	SetTaskCompletion(ctx context.Context, tenantID, memberTaskID string, done bool) (*SetCompletionResult, error)
	WeekView(ctx context.Context, tenantID, programID, weekTemplateID, cohortID string) (*WeekView, error)
	ListMemberTasks(ctx context.Context, tenantID, memberID string, from, to time.Time) ([]*domain.MemberTask, error)
}

type ImportProgramUseCase interface {
	ImportProgram(ctx context.Context, tenantID, filePath string) (*ImportResult, error)
	ImportProgramFromSchema(ctx context.Context, tenantID string, schema *importer.ImportSchema) (*ImportResult, error)
}
