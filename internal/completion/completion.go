// Package completion turns member completion counts into cohort-level
// "is this task done" signals and decorates week tasks with them.
package completion

import "github.com/alexanderramin/cadence/internal/domain"

// State is the raw count for one template task on one day.
type State struct {
	CompletedCount int
	EligibleCount  int
}

type Result struct {
	CompletionRate float64
	IsThresholdMet bool
}

// Recalculate applies the threshold rule. A task with no eligible members
// has a rate of 0 and never meets the threshold.
func Recalculate(s State, thresholdPct float64) Result {
	if s.EligibleCount <= 0 {
		return Result{}
	}
	rate := float64(s.CompletedCount) * 100 / float64(s.EligibleCount)
	return Result{CompletionRate: rate, IsThresholdMet: rate >= thresholdPct}
}

// ResolveThreshold picks the cohort override, then the program default,
// then systemDefault.
func ResolveThreshold(cohortOverride, programDefault *float64, systemDefault float64) float64 {
	return domain.Deref(systemDefault, cohortOverride, programDefault)
}

// ThresholdFor resolves the threshold of a cohort of program.
func ThresholdFor(cohort *domain.Cohort, program *domain.Program) float64 {
	var override, def *float64
	if cohort != nil {
		override = cohort.ThresholdOverridePct
	}
	if program != nil {
		def = program.DefaultThresholdPct
	}
	return ResolveThreshold(override, def, domain.DefaultThresholdPct)
}

// DecoratedTask is a week template task with its cohort completion.
type DecoratedTask struct {
	domain.TaskTemplate
	Completed      bool    `json:"completed"`
	CompletionRate float64 `json:"completionRate"`
	CompletedCount int     `json:"completedCount"`
	EligibleCount  int     `json:"eligibleCount"`
}

// Decorate correlates tasks with their aggregated states. A state is matched
// by template task ID; states recorded without an ID fall back to an exact
// label match. When a task appears on several days of the week its counts
// are summed before the threshold rule is applied. Tasks with no state are
// reported at 0%.
func Decorate(tasks []domain.TaskTemplate, states []domain.CohortTaskState, thresholdPct float64) []DecoratedTask {
	byID := make(map[string]State)
	byLabel := make(map[string]State)
	for _, s := range states {
		if s.TemplateTaskID != "" {
			acc := byID[s.TemplateTaskID]
			acc.CompletedCount += s.CompletedCount
			acc.EligibleCount += s.EligibleCount
			byID[s.TemplateTaskID] = acc
			continue
		}
		acc := byLabel[s.Label]
		acc.CompletedCount += s.CompletedCount
		acc.EligibleCount += s.EligibleCount
		byLabel[s.Label] = acc
	}

	out := make([]DecoratedTask, 0, len(tasks))
	for _, t := range tasks {
		s, ok := byID[t.ID]
		if !ok {
			s = byLabel[t.Label]
		}
		r := Recalculate(s, thresholdPct)
		out = append(out, DecoratedTask{
			TaskTemplate:   t,
			Completed:      r.IsThresholdMet,
			CompletionRate: r.CompletionRate,
			CompletedCount: s.CompletedCount,
			EligibleCount:  s.EligibleCount,
		})
	}
	return out
}

// Undecorated wraps tasks without completion data.
func Undecorated(tasks []domain.TaskTemplate) []DecoratedTask {
	out := make([]DecoratedTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, DecoratedTask{TaskTemplate: t})
	}
	return out
}
