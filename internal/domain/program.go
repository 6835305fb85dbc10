package domain

import (
	"sort"
	"time"
)

type Program struct {
	ID                  string
	TenantID            string
	Name                string
	LengthDays          int
	IncludeWeekends     bool
	DefaultThresholdPct *float64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DaysPerWeek returns the number of program days in a full calendar week.
func (p *Program) DaysPerWeek() int {
	if p.IncludeWeekends {
		return 7
	}
	return 5
}

type WeekTemplate struct {
	ID              string
	TenantID        string
	ProgramID       string
	WeekNumber      int
	Label           string
	Description     string
	StartDayIndex   int
	EndDayIndex     int
	Tasks           []TaskTemplate
	Habits          []HabitTemplate
	LinkedResources []LinkedResource
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOnboarding reports whether this is the program's onboarding week (week 0).
func (w *WeekTemplate) IsOnboarding() bool { return w.WeekNumber == 0 }

// IsClosing reports whether this is one of the program's closing weeks.
func (w *WeekTemplate) IsClosing() bool { return w.WeekNumber < 0 }

// IsRegular reports whether this is a regular curriculum week.
func (w *WeekTemplate) IsRegular() bool { return w.WeekNumber > 0 }

// WeekShape summarizes which special weeks a program's templates declare.
type WeekShape struct {
	Onboarding   bool
	ClosingWeeks int
	RegularWeeks int
}

// ShapeOf inspects a program's week templates.
func ShapeOf(weeks []*WeekTemplate) WeekShape {
	var s WeekShape
	for _, w := range weeks {
		switch {
		case w.IsOnboarding():
			s.Onboarding = true
		case w.IsClosing():
			s.ClosingWeeks++
		default:
			s.RegularWeeks++
		}
	}
	return s
}

// SortWeeks orders week templates by week number: onboarding first, then
// regular weeks ascending, then closing weeks -1, -2, ...
func SortWeeks(weeks []*WeekTemplate) {
	rank := func(n int) int {
		switch {
		case n == 0:
			return 0
		case n > 0:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(weeks, func(i, j int) bool {
		a, b := weeks[i].WeekNumber, weeks[j].WeekNumber
		if rank(a) != rank(b) {
			return rank(a) < rank(b)
		}
		if a < 0 {
			return a > b
		}
		return a < b
	})
}
