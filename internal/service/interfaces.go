package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/importer"
)

type ProgramService interface {
	List(ctx context.Context, tenantID string) ([]*domain.Program, error)
	Get(ctx context.Context, tenantID, programID string) (*app.ProgramDetail, error)
	CalendarPreview(ctx context.Context, tenantID, programID string, start time.Time) (*app.CalendarPreview, error)
}

type CohortService interface {
	Create(ctx context.Context, req app.CreateCohortRequest) (*domain.Cohort, error)
	List(ctx context.Context, tenantID, programID string) ([]*domain.Cohort, error)
	Get(ctx context.Context, tenantID, cohortID string) (*domain.Cohort, error)
	AddMember(ctx context.Context, tenantID, cohortID, memberID string) (*domain.Cohort, error)
	RemoveMember(ctx context.Context, tenantID, cohortID, memberID string) (*domain.Cohort, error)
	SetStatus(ctx context.Context, tenantID, cohortID string, status domain.CohortStatus) (*domain.Cohort, error)
}

type CurriculumService interface {
	GetWeek(ctx context.Context, tenantID, programID, weekTemplateID string) (*domain.WeekTemplate, error)
	UpdateWeek(ctx context.Context, tenantID, programID, weekTemplateID string, patch app.WeekPatch) (*app.WeekUpdateResult, error)
}

type DistributionService interface {
	Distribute(ctx context.Context, tenantID, programID, weekTemplateID, cohortID string, opts app.DistributeOptions) (*app.DistributionSummary, error)
	AddManualEntry(ctx context.Context, tenantID string, req app.ManualEntryRequest) (*domain.CohortDayPlan, error)
	DayPlan(ctx context.Context, tenantID, cohortID, weekTemplateID string) (*domain.CohortDayPlan, error)
}

type MemberSyncService interface {
	SyncToMembers(ctx context.Context, tenantID, programID, cohortID string, date time.Time, mode domain.SyncMode) (*app.MemberSyncResult, error)
	SyncRange(ctx context.Context, tenantID, programID, cohortID string, from, to time.Time, mode domain.SyncMode) (*app.SyncRangeResult, error)
}

type CompletionService interface {
	SetTaskCompletion(ctx context.Context, tenantID, memberTaskID string, done bool) (*app.SetCompletionResult, error)
	WeekView(ctx context.Context, tenantID, programID, weekTemplateID, cohortID string) (*app.WeekView, error)
	ListMemberTasks(ctx context.Context, tenantID, memberID string, from, to time.Time) ([]*domain.MemberTask, error)
}

type ImportService interface {
	ImportProgram(ctx context.Context, tenantID, filePath string) (*app.ImportResult, error)
	ImportProgramFromSchema(ctx context.Context, tenantID string, schema *importer.ImportSchema) (*app.ImportResult, error)
}
