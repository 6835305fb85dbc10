package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cadence/internal/completion"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
)

// recountState refreshes the counts of state from the member tasks of the
// cohort. Only members on the current roster count as completed, so the
// rate never exceeds 100.
func recountState(ctx context.Context, tasks repository.MemberTaskRepo, cohort *domain.Cohort, state *domain.CohortTaskState, thresholdPct float64, now time.Time) error {
	ids, err := tasks.CompletedMemberIDs(ctx, cohort.TenantID, cohort.ID, state.TemplateTaskID, state.Date)
	if err != nil {
		return err
	}
	counts := completion.State{CompletedCount: cohort.RosterCount(ids), EligibleCount: len(cohort.Members)}
	r := completion.Recalculate(counts, thresholdPct)
	state.CompletedCount = counts.CompletedCount
	state.EligibleCount = counts.EligibleCount
	state.CompletionRate = r.CompletionRate
	state.ThresholdMet = r.IsThresholdMet
	state.UpdatedAt = now
	return nil
}

// recountCohortStates refreshes every stored state of cohort after its
// roster changed.
func recountCohortStates(ctx context.Context, tasks repository.MemberTaskRepo, states repository.TaskStateRepo, cohort *domain.Cohort, thresholdPct float64, now time.Time) (int, error) {
	stored, err := states.ListByCohort(ctx, cohort.TenantID, cohort.ID)
	if err != nil {
		return 0, err
	}
	for i := range stored {
		if err := recountState(ctx, tasks, cohort, &stored[i], thresholdPct, now); err != nil {
			return 0, err
		}
		if err := states.Upsert(ctx, &stored[i]); err != nil {
			return 0, err
		}
	}
	return len(stored), nil
}
