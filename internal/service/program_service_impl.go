package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/calendar"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
)

type programService struct {
	loader timelineLoader
}

func NewProgramService(programs repository.ProgramRepo, weeks repository.WeekTemplateRepo) ProgramService {
	return &programService{loader: timelineLoader{programs: programs, weeks: weeks}}
}

func (s *programService) List(ctx context.Context, tenantID string) ([]*domain.Program, error) {
	programs, err := s.loader.programs.List(ctx, tenantID)
	if err != nil {
		return nil, wrapRepoErr(err, "listing programs")
	}
	return programs, nil
}

func (s *programService) Get(ctx context.Context, tenantID, programID string) (*app.ProgramDetail, error) {
	program, weeks, err := s.loader.program(ctx, tenantID, programID)
	if err != nil {
		return nil, err
	}
	return &app.ProgramDetail{Program: program, Weeks: weeks}, nil
}

// CalendarPreview lays the program out for a hypothetical cohort starting
// on start, without storing anything.
func (s *programService) CalendarPreview(ctx context.Context, tenantID, programID string, start time.Time) (*app.CalendarPreview, error) {
	if start.IsZero() {
		return nil, app.InvalidInput("start date is required")
	}
	program, weeks, err := s.loader.program(ctx, tenantID, programID)
	if err != nil {
		return nil, err
	}
	in := calendar.InputFor(program, domain.ShapeOf(weeks), start)
	cal := calendar.CalculateWeeks(in)

	preview := &app.CalendarPreview{
		Program:   program,
		StartDate: domain.DateOnly(start),
		Weeks:     cal,
		Templates: make([]app.TemplateWeekMapping, 0, len(weeks)),
	}
	for _, w := range weeks {
		m := calendar.MapTemplateWeek(in, weeks, w, cal)
		preview.Templates = append(preview.Templates, app.TemplateWeekMapping{Template: w, Week: m.Week, Degraded: m.Degraded})
	}
	return preview, nil
}
