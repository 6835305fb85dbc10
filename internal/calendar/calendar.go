// Package calendar anchors a program's template weeks to a cohort's real
// start date. Everything here is pure and deterministic.
package calendar

import (
	"sort"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Input describes one cohort timeline: where it starts, how many program
// days it has, and which special weeks the program declares.
type Input struct {
	StartDate       time.Time
	LengthDays      int
	IncludeWeekends bool
	Onboarding      bool
	ClosingWeeks    int
}

// InputFor builds the calendar input of a cohort of program that started on start.
func InputFor(program *domain.Program, shape domain.WeekShape, start time.Time) Input {
	return Input{
		StartDate:       start,
		LengthDays:      program.LengthDays,
		IncludeWeekends: program.IncludeWeekends,
		Onboarding:      shape.Onboarding,
		ClosingWeeks:    shape.ClosingWeeks,
	}
}

// Week is a template week anchored to literal dates. Day indices are
// program-day offsets from the cohort start under the weekend policy, so a
// weekday-only week spans at most five indices but up to seven calendar days.
type Week struct {
	WeekNumber    int
	StartDayIndex int
	EndDayIndex   int
	StartDate     time.Time
	EndDate       time.Time
	Dates         []time.Time
}

// Len returns the number of program days in the week.
func (w Week) Len() int { return len(w.Dates) }

func (w Week) IsRegular() bool { return w.WeekNumber > 0 }

// Contains reports whether dayIndex falls within the week.
func (w Week) Contains(dayIndex int) bool {
	return dayIndex >= w.StartDayIndex && dayIndex <= w.EndDayIndex
}

func isProgramDay(d time.Time, includeWeekends bool) bool {
	if includeWeekends {
		return true
	}
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// firstProgramDay returns the start date, rolled forward past a weekend
// when weekends are excluded.
func firstProgramDay(in Input) time.Time {
	d := domain.DateOnly(in.StartDate)
	for !isProgramDay(d, in.IncludeWeekends) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// ProgramDays returns the literal date of every program day, in order.
func ProgramDays(in Input) []time.Time {
	if in.LengthDays <= 0 {
		return nil
	}
	days := make([]time.Time, 0, in.LengthDays)
	d := firstProgramDay(in)
	for len(days) < in.LengthDays {
		if isProgramDay(d, in.IncludeWeekends) {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

// DateOf returns the literal date of program day dayIndex. Indices past the
// program length keep walking forward; negative indices clamp to day 0.
func DateOf(in Input, dayIndex int) time.Time {
	d := firstProgramDay(in)
	for i := 0; i < dayIndex; {
		d = d.AddDate(0, 0, 1)
		if isProgramDay(d, in.IncludeWeekends) {
			i++
		}
	}
	return d
}

// DayIndexOf returns the program-day index of date, or false when the date
// is not a program day of this timeline.
func DayIndexOf(in Input, date time.Time) (int, bool) {
	for i, d := range ProgramDays(in) {
		if domain.SameDate(d, date) {
			return i, true
		}
	}
	return 0, false
}

// mondayOf returns the Monday that opens d's calendar week.
func mondayOf(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// CalculateWeeks splits the cohort timeline into calendar weeks. Program
// days are grouped by Monday-based calendar week. A partial first group
// becomes onboarding week 0 when the program has one, the final groups
// become closing weeks -1, -2, ... in chronological order, and the rest are
// regular weeks numbered from 1.
func CalculateWeeks(in Input) []Week {
	days := ProgramDays(in)
	if len(days) == 0 {
		return nil
	}

	var groups []Week
	for i, d := range days {
		if len(groups) == 0 || !mondayOf(d).Equal(mondayOf(groups[len(groups)-1].StartDate)) {
			groups = append(groups, Week{StartDayIndex: i, StartDate: d})
		}
		g := &groups[len(groups)-1]
		g.EndDayIndex = i
		g.EndDate = d
		g.Dates = append(g.Dates, d)
	}

	weeks := make([]Week, 0, len(groups))
	rest := groups
	if in.Onboarding && groups[0].StartDate.Weekday() != time.Monday {
		onboarding := groups[0]
		onboarding.WeekNumber = 0
		weeks = append(weeks, onboarding)
		rest = groups[1:]
	}

	closing := 0
	if len(rest) > 1 {
		closing = min(in.ClosingWeeks, len(rest)-1)
	}
	regularCount := len(rest) - closing

	for i, g := range rest {
		if i < regularCount {
			g.WeekNumber = i + 1
		} else {
			g.WeekNumber = -(i - regularCount + 1)
		}
		weeks = append(weeks, g)
	}
	return weeks
}

// RegularWeeks returns the regular calendar weeks ordered by start index.
func RegularWeeks(weeks []Week) []Week {
	var out []Week
	for _, w := range weeks {
		if w.IsRegular() {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDayIndex < out[j].StartDayIndex })
	return out
}

// DefaultTemplateBounds returns template-relative day bounds for a week
// number when an authored program leaves them out: regular week n covers
// the n-th block of daysPerWeek days, onboarding the first block and
// closing week -k the k-th block from the end.
func DefaultTemplateBounds(weekNumber, lengthDays, daysPerWeek int) (start, end int) {
	if daysPerWeek <= 0 {
		daysPerWeek = 7
	}
	last := max(lengthDays-1, 0)
	switch {
	case weekNumber > 0:
		start = (weekNumber - 1) * daysPerWeek
		end = start + daysPerWeek - 1
	case weekNumber == 0:
		start, end = 0, daysPerWeek-1
	default:
		end = last - (-weekNumber-1)*daysPerWeek
		start = end - daysPerWeek + 1
	}
	start = min(max(start, 0), last)
	end = min(max(end, start), last)
	return start, end
}
