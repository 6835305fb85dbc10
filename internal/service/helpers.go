package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/calendar"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
)

// wrapRepoErr turns a repository failure into an *app.Error. Errors that
// already carry a code pass through unchanged.
func wrapRepoErr(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var appErr *app.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return app.NotFound(err, format, args...)
	}
	return app.Internal(err, format, args...)
}

func requireIDs(named ...string) error {
	for i := 0; i+1 < len(named); i += 2 {
		if named[i+1] == "" {
			return app.InvalidInput("%s is required", named[i])
		}
	}
	return nil
}

// timeline is a cohort anchored to its program's template weeks.
type timeline struct {
	program *domain.Program
	weeks   []*domain.WeekTemplate
	cohort  *domain.Cohort
	input   calendar.Input
	cal     []calendar.Week
}

func (t *timeline) week(weekTemplateID string) (*domain.WeekTemplate, error) {
	for _, w := range t.weeks {
		if w.ID == weekTemplateID {
			return w, nil
		}
	}
	return nil, app.NotFound(repository.ErrNotFound, "week template %s not found in program %s", weekTemplateID, t.program.ID)
}

func (t *timeline) mapWeek(w *domain.WeekTemplate) calendar.Mapping {
	return calendar.MapTemplateWeek(t.input, t.weeks, w, t.cal)
}

type timelineLoader struct {
	programs repository.ProgramRepo
	weeks    repository.WeekTemplateRepo
	cohorts  repository.CohortRepo
}

func (l timelineLoader) program(ctx context.Context, tenantID, programID string) (*domain.Program, []*domain.WeekTemplate, error) {
	program, err := l.programs.GetByID(ctx, tenantID, programID)
	if err != nil {
		return nil, nil, wrapRepoErr(err, "loading program %s", programID)
	}
	weeks, err := l.weeks.ListByProgram(ctx, tenantID, programID)
	if err != nil {
		return nil, nil, wrapRepoErr(err, "loading weeks of program %s", programID)
	}
	return program, weeks, nil
}

// load resolves a cohort's timeline. When programID is empty the cohort's
// own program is used; otherwise the cohort must belong to it.
func (l timelineLoader) load(ctx context.Context, tenantID, programID, cohortID string) (*timeline, error) {
	cohort, err := l.cohorts.GetByID(ctx, tenantID, cohortID)
	if err != nil {
		return nil, wrapRepoErr(err, "loading cohort %s", cohortID)
	}
	if programID == "" {
		programID = cohort.ProgramID
	}
	if cohort.ProgramID != programID {
		return nil, app.InvalidInput("cohort %s does not follow program %s", cohortID, programID)
	}
	program, weeks, err := l.program(ctx, tenantID, programID)
	if err != nil {
		return nil, err
	}
	in := calendar.InputFor(program, domain.ShapeOf(weeks), cohort.StartDate)
	return &timeline{
		program: program,
		weeks:   weeks,
		cohort:  cohort,
		input:   in,
		cal:     calendar.CalculateWeeks(in),
	}, nil
}
