package app

import (
	"time"

	"github.com/alexanderramin/cadence/internal/completion"
	"github.com/alexanderramin/cadence/internal/domain"
)

// WeekView is a week template as a cohort experiences it.
type WeekView struct {
	Week         *domain.WeekTemplate
	CohortID     string
	StartDate    time.Time
	EndDate      time.Time
	ThresholdPct float64
	Tasks        []completion.DecoratedTask
	// CompletionAvailable is false when completion could not be correlated
	// with the cohort calendar and Tasks carry no completion data.
	CompletionAvailable bool
}

type SetCompletionResult struct {
	Task  *domain.MemberTask
	State *domain.CohortTaskState
}
