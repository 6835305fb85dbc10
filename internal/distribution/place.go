// Package distribution decides which templated tasks and habits land on
// which calendar day of a cohort week, and merges the result into an
// existing day plan.
package distribution

import (
	"github.com/alexanderramin/cadence/internal/calendar"
	"github.com/alexanderramin/cadence/internal/domain"
)

// pooled reports whether a task takes one slot of the week's shared spread
// pool instead of a fixed placement.
func pooled(t domain.TaskTemplate, policy domain.ResourcePolicy) bool {
	tag := t.DayTag.OrDefault()
	switch tag.Kind {
	case domain.DayTagSpread:
		return t.Occurrences <= 0
	case domain.DayTagAnywhere:
		return t.ResourceID != "" && policy == domain.PolicyEven
	}
	return false
}

// evenOffsets spreads k occurrences over a week of n days, at most one per day.
func evenOffsets(k, n int) []int {
	k = min(k, n)
	out := make([]int, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, i*n/k)
	}
	return out
}

// TaskOffsets returns, for each task in template order, the 0-based day
// offsets within a week of weekLen days that the task lands on.
//
//   - an explicit day lands on that day, clamped to the last day of short weeks;
//   - "spread" with occurrences k lands on k evenly spaced days;
//   - "spread" without occurrences shares the week with the other such tasks:
//     slot j of m lands on day j*weekLen/m, preserving template order;
//   - "anywhere" lands on the first day, unless the task is linked to a
//     resource and policy moves it to the last day or into the spread pool.
func TaskOffsets(tasks []domain.TaskTemplate, weekLen int, policy domain.ResourcePolicy) [][]int {
	out := make([][]int, len(tasks))
	if weekLen <= 0 {
		return out
	}

	poolSize := 0
	for _, t := range tasks {
		if pooled(t, policy) {
			poolSize++
		}
	}

	slot := 0
	for i, t := range tasks {
		if pooled(t, policy) {
			out[i] = []int{slot * weekLen / poolSize}
			slot++
			continue
		}
		tag := t.DayTag.OrDefault()
		switch tag.Kind {
		case domain.DayTagDay:
			out[i] = []int{min(tag.Day, weekLen-1)}
		case domain.DayTagSpread:
			out[i] = evenOffsets(t.Occurrences, weekLen)
		default:
			if t.ResourceID != "" && policy == domain.PolicyLastDay {
				out[i] = []int{weekLen - 1}
			} else {
				out[i] = []int{0}
			}
		}
	}
	return out
}

// HabitOffsets returns the day offsets of each habit. Habits recur: "spread"
// without occurrences means every day of the week.
func HabitOffsets(habits []domain.HabitTemplate, weekLen int) [][]int {
	out := make([][]int, len(habits))
	if weekLen <= 0 {
		return out
	}
	for i, h := range habits {
		tag := h.DayTag
		if tag.IsZero() {
			tag = domain.SpreadAcrossWeek()
		}
		switch tag.Kind {
		case domain.DayTagDay:
			out[i] = []int{min(tag.Day, weekLen-1)}
		case domain.DayTagSpread:
			k := h.Occurrences
			if k <= 0 {
				k = weekLen
			}
			out[i] = evenOffsets(k, weekLen)
		default:
			out[i] = []int{0}
		}
	}
	return out
}

// BuildWeekPlan lays a week's templates onto the days of a calendar week.
// Every day of the week is present in the result, even when empty.
func BuildWeekPlan(week calendar.Week, tasks []domain.TaskTemplate, habits []domain.HabitTemplate, policy domain.ResourcePolicy) []domain.PlanDay {
	days := make([]domain.PlanDay, week.Len())
	for i, d := range week.Dates {
		days[i] = domain.PlanDay{
			DayIndex: week.StartDayIndex + i,
			Date:     d,
			Tasks:    []domain.PlanTask{},
			Habits:   []domain.PlanHabit{},
		}
	}

	for i, offsets := range TaskOffsets(tasks, week.Len(), policy) {
		t := tasks[i]
		for _, off := range offsets {
			days[off].Tasks = append(days[off].Tasks, domain.PlanTask{
				TemplateID: t.ID,
				Label:      t.Label,
				Source:     domain.SourceTemplate,
				ResourceID: t.ResourceID,
				LessonID:   t.LessonID,
			})
		}
	}
	for i, offsets := range HabitOffsets(habits, week.Len()) {
		h := habits[i]
		for _, off := range offsets {
			days[off].Habits = append(days[off].Habits, domain.PlanHabit{
				TemplateID: h.ID,
				Label:      h.Label,
				Source:     domain.SourceTemplate,
			})
		}
	}
	return days
}
