package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// ErrNotFound is wrapped by every lookup that finds no record for the
// requested tenant.
var ErrNotFound = errors.New("not found")

type ProgramRepo interface {
	Create(ctx context.Context, p *domain.Program) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Program, error)
	List(ctx context.Context, tenantID string) ([]*domain.Program, error)
	Update(ctx context.Context, p *domain.Program) error
}

type WeekTemplateRepo interface {
	Create(ctx context.Context, w *domain.WeekTemplate) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.WeekTemplate, error)
	// ListByProgram returns the program's weeks ordered onboarding, regular
	// ascending, then closing.
	ListByProgram(ctx context.Context, tenantID, programID string) ([]*domain.WeekTemplate, error)
	Update(ctx context.Context, w *domain.WeekTemplate) error
}

type CohortRepo interface {
	Create(ctx context.Context, c *domain.Cohort) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Cohort, error)
	List(ctx context.Context, tenantID string) ([]*domain.Cohort, error)
	ListByProgram(ctx context.Context, tenantID, programID string) ([]*domain.Cohort, error)
	Update(ctx context.Context, c *domain.Cohort) error
}

type DayPlanRepo interface {
	Get(ctx context.Context, tenantID, cohortID, weekTemplateID string) (*domain.CohortDayPlan, error)
	ListByCohort(ctx context.Context, tenantID, cohortID string) ([]*domain.CohortDayPlan, error)
	// FindDay returns the plan day of a cohort on date across all its week plans.
	FindDay(ctx context.Context, tenantID, cohortID string, date time.Time) (*domain.PlanDay, error)
	Upsert(ctx context.Context, p *domain.CohortDayPlan) error
}

type MemberTaskRepo interface {
	Create(ctx context.Context, t *domain.MemberTask) error
	// CreateIfMissing inserts t unless the member already has a task for the
	// same date and template task. It reports whether a row was written.
	CreateIfMissing(ctx context.Context, t *domain.MemberTask) (bool, error)
	GetByID(ctx context.Context, tenantID, id string) (*domain.MemberTask, error)
	ListByMemberDate(ctx context.Context, tenantID, memberID string, date time.Time) ([]*domain.MemberTask, error)
	ListByMemberRange(ctx context.Context, tenantID, memberID string, from, to time.Time) ([]*domain.MemberTask, error)
	Update(ctx context.Context, t *domain.MemberTask) error
	// CompletedMemberIDs lists the distinct members who completed the
	// template task of a cohort on date, including members no longer on
	// the roster.
	CompletedMemberIDs(ctx context.Context, tenantID, cohortID, templateTaskID string, date time.Time) ([]string, error)
}

type TaskStateRepo interface {
	Get(ctx context.Context, tenantID, cohortID, templateTaskID string, dayIndex int) (*domain.CohortTaskState, error)
	Upsert(ctx context.Context, s *domain.CohortTaskState) error
	// ListByDayRange returns a cohort's states for day indices in [fromDay, toDay].
	ListByDayRange(ctx context.Context, tenantID, cohortID string, fromDay, toDay int) ([]domain.CohortTaskState, error)
	ListByCohort(ctx context.Context, tenantID, cohortID string) ([]domain.CohortTaskState, error)
}
