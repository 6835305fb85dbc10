package distribution

import (
	"sort"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Delta counts what a merge changed in a day plan.
type Delta struct {
	DaysTouched   int
	TasksAdded    int
	TasksRemoved  int
	TasksUpdated  int
	HabitsAdded   int
	HabitsRemoved int
}

// Merge folds freshly planned template entries into an existing week plan.
// Days are matched by calendar date.
//
// Without overwrite, an entry is added to a day only when no entry with the
// same template ID is already there; nothing is removed. With overwrite, the
// template-sourced entries of every day of the week are replaced by the fresh
// ones (an empty fresh plan therefore clears them) and manual entries are
// preserved after the template entries.
func Merge(existing, fresh []domain.PlanDay, overwrite bool) ([]domain.PlanDay, Delta) {
	var delta Delta
	byDate := make(map[string]int, len(existing))
	out := make([]domain.PlanDay, 0, max(len(existing), len(fresh)))
	for _, d := range existing {
		byDate[dateKey(d)] = len(out)
		out = append(out, clonePlanDay(d))
	}

	freshDates := make(map[string]bool, len(fresh))
	for _, f := range fresh {
		key := dateKey(f)
		freshDates[key] = true

		idx, ok := byDate[key]
		if !ok {
			byDate[key] = len(out)
			out = append(out, domain.PlanDay{DayIndex: f.DayIndex, Date: f.Date, Tasks: []domain.PlanTask{}, Habits: []domain.PlanHabit{}})
			idx = len(out) - 1
		}

		day := &out[idx]
		day.DayIndex = f.DayIndex
		var d Delta
		if overwrite {
			d = overwriteDay(day, f)
		} else {
			d = fillDay(day, f)
		}
		delta.add(d)
	}

	if overwrite {
		// Days that dropped out of the week keep only their manual entries.
		kept := out[:0]
		for _, day := range out {
			if !freshDates[dateKey(day)] {
				manualTasks, manualHabits, d := stripTemplateEntries(day)
				delta.add(d)
				if len(manualTasks) == 0 && len(manualHabits) == 0 {
					continue
				}
				day.Tasks, day.Habits = manualTasks, manualHabits
			}
			kept = append(kept, day)
		}
		out = kept
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, delta
}

func (d *Delta) add(o Delta) {
	if o.TasksAdded+o.TasksRemoved+o.TasksUpdated+o.HabitsAdded+o.HabitsRemoved > 0 {
		d.DaysTouched++
	}
	d.TasksAdded += o.TasksAdded
	d.TasksRemoved += o.TasksRemoved
	d.TasksUpdated += o.TasksUpdated
	d.HabitsAdded += o.HabitsAdded
	d.HabitsRemoved += o.HabitsRemoved
}

func fillDay(day *domain.PlanDay, f domain.PlanDay) Delta {
	var d Delta
	for _, t := range f.Tasks {
		if !day.HasTask(t.TemplateID) {
			day.Tasks = append(day.Tasks, t)
			d.TasksAdded++
		}
	}
	for _, h := range f.Habits {
		if !day.HasHabit(h.TemplateID) {
			day.Habits = append(day.Habits, h)
			d.HabitsAdded++
		}
	}
	return d
}

func overwriteDay(day *domain.PlanDay, f domain.PlanDay) Delta {
	var d Delta
	oldTasks := make(map[string]domain.PlanTask)
	var manualTasks []domain.PlanTask
	for _, t := range day.Tasks {
		if t.Source == domain.SourceManual {
			manualTasks = append(manualTasks, t)
			continue
		}
		oldTasks[t.TemplateID] = t
	}
	tasks := make([]domain.PlanTask, 0, len(f.Tasks)+len(manualTasks))
	for _, t := range f.Tasks {
		prev, ok := oldTasks[t.TemplateID]
		switch {
		case !ok:
			d.TasksAdded++
		case prev != t:
			d.TasksUpdated++
		}
		delete(oldTasks, t.TemplateID)
		tasks = append(tasks, t)
	}
	d.TasksRemoved = len(oldTasks)
	day.Tasks = append(tasks, manualTasks...)

	oldHabits := make(map[string]bool)
	var manualHabits []domain.PlanHabit
	for _, h := range day.Habits {
		if h.Source == domain.SourceManual {
			manualHabits = append(manualHabits, h)
			continue
		}
		oldHabits[h.TemplateID] = true
	}
	habits := make([]domain.PlanHabit, 0, len(f.Habits)+len(manualHabits))
	for _, h := range f.Habits {
		if !oldHabits[h.TemplateID] {
			d.HabitsAdded++
		}
		delete(oldHabits, h.TemplateID)
		habits = append(habits, h)
	}
	d.HabitsRemoved = len(oldHabits)
	day.Habits = append(habits, manualHabits...)
	return d
}

func stripTemplateEntries(day domain.PlanDay) ([]domain.PlanTask, []domain.PlanHabit, Delta) {
	var d Delta
	tasks := []domain.PlanTask{}
	for _, t := range day.Tasks {
		if t.Source == domain.SourceManual {
			tasks = append(tasks, t)
		} else {
			d.TasksRemoved++
		}
	}
	habits := []domain.PlanHabit{}
	for _, h := range day.Habits {
		if h.Source == domain.SourceManual {
			habits = append(habits, h)
		} else {
			d.HabitsRemoved++
		}
	}
	return tasks, habits, d
}

// AddManual appends a coach-authored task to the day with the given date,
// creating the day when the plan has none. It reports false when the day
// already carries an entry with the same template ID.
func AddManual(days []domain.PlanDay, dayIndex int, date time.Time, task domain.PlanTask) ([]domain.PlanDay, bool) {
	task.Source = domain.SourceManual
	for i := range days {
		if domain.SameDate(days[i].Date, date) {
			if days[i].HasTask(task.TemplateID) {
				return days, false
			}
			days[i].Tasks = append(days[i].Tasks, task)
			return days, true
		}
	}
	days = append(days, domain.PlanDay{
		DayIndex: dayIndex,
		Date:     domain.DateOnly(date),
		Tasks:    []domain.PlanTask{task},
		Habits:   []domain.PlanHabit{},
	})
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, true
}

func dateKey(d domain.PlanDay) string {
	return d.Date.Format("2006-01-02")
}

func clonePlanDay(d domain.PlanDay) domain.PlanDay {
	c := d
	c.Tasks = append([]domain.PlanTask{}, d.Tasks...)
	c.Habits = append([]domain.PlanHabit{}, d.Habits...)
	return c
}
