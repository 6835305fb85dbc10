// Package notify tells the outside world that a cohort's plan changed.
// Delivery is best effort: callers log a failed notification and carry on.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

const KindWeekDistributed = "week.distributed"

// Event describes one distribution of a template week to a cohort.
type Event struct {
	Kind           string    `json:"kind"`
	TenantID       string    `json:"tenantId"`
	ProgramID      string    `json:"programId"`
	CohortID       string    `json:"cohortId"`
	WeekTemplateID string    `json:"weekTemplateId"`
	WeekNumber     int       `json:"weekNumber"`
	StartDate      string    `json:"startDate"`
	EndDate        string    `json:"endDate"`
	TasksAdded     int       `json:"tasksAdded"`
	TasksRemoved   int       `json:"tasksRemoved"`
	Degraded       bool      `json:"degraded,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Encode renders the event as its JSON wire form.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// RoutingKey is "<kind>.<tenant>", so subscribers can bind per tenant.
func (e Event) RoutingKey() string {
	return e.Kind + "." + e.TenantID
}

type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Notify(context.Context, Event) error { return nil }

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier records events in the log instead of sending them anywhere.
func NewLogNotifier(logger *slog.Logger) Notifier {
	if logger == nil {
		return Noop{}
	}
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(ctx context.Context, e Event) error {
	n.logger.InfoContext(ctx, "notification",
		"kind", e.Kind,
		"tenant", e.TenantID,
		"cohort", e.CohortID,
		"week", e.WeekNumber,
		"tasks_added", e.TasksAdded,
		"tasks_removed", e.TasksRemoved,
	)
	return nil
}
