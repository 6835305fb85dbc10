// Package curriculum normalizes authored week content and reconciles the
// tasks generated from linked content resources.
package curriculum

import (
	"strings"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/google/uuid"
)

// TaskPayload is a task as submitted by the editing surface. Completed,
// CompletedAt and TaskID are runtime fields of member tasks; they are
// accepted here only so normalization can drop them.
type TaskPayload struct {
	ID          string            `json:"id,omitempty" yaml:"id,omitempty"`
	Label       string            `json:"label" yaml:"label"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	DayTag      domain.DayTag     `json:"dayTag" yaml:"day_tag"`
	Occurrences int               `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`
	ResourceID  string            `json:"resourceId,omitempty" yaml:"resource_id,omitempty"`
	LessonID    string            `json:"lessonId,omitempty" yaml:"lesson_id,omitempty"`
	Origin      domain.TaskOrigin `json:"origin,omitempty" yaml:"origin,omitempty"`

	Completed   *bool   `json:"completed,omitempty" yaml:"completed,omitempty"`
	CompletedAt *string `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
	TaskID      *string `json:"taskId,omitempty" yaml:"task_id,omitempty"`
}

// HabitPayload is a habit as submitted by the editing surface.
type HabitPayload struct {
	ID          string        `json:"id,omitempty" yaml:"id,omitempty"`
	Label       string        `json:"label" yaml:"label"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	DayTag      domain.DayTag `json:"dayTag" yaml:"day_tag"`
	Occurrences int           `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`

	Completed   *bool   `json:"completed,omitempty" yaml:"completed,omitempty"`
	CompletedAt *string `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
}

// NormalizeTasks converts submitted tasks into templates, in order. Tasks
// without an ID, or repeating an ID already seen in the payload, receive a
// fresh one; existing IDs are preserved. Runtime fields never survive.
func NormalizeTasks(raw []TaskPayload) []domain.TaskTemplate {
	out := make([]domain.TaskTemplate, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, p := range raw {
		id := strings.TrimSpace(p.ID)
		if id == "" || seen[id] {
			id = uuid.New().String()
		}
		seen[id] = true

		origin := p.Origin
		if origin != domain.OriginResource {
			origin = domain.OriginManual
		}

		out = append(out, domain.TaskTemplate{
			ID:          id,
			Label:       strings.TrimSpace(p.Label),
			Description: strings.TrimSpace(p.Description),
			DayTag:      p.DayTag.OrDefault(),
			Occurrences: max(p.Occurrences, 0),
			ResourceID:  p.ResourceID,
			LessonID:    p.LessonID,
			Origin:      origin,
		})
	}
	return out
}

// NormalizeHabits is NormalizeTasks for habits. Habits default to every
// day of the week.
func NormalizeHabits(raw []HabitPayload) []domain.HabitTemplate {
	out := make([]domain.HabitTemplate, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, p := range raw {
		id := strings.TrimSpace(p.ID)
		if id == "" || seen[id] {
			id = uuid.New().String()
		}
		seen[id] = true

		tag := p.DayTag
		if tag.IsZero() {
			tag = domain.SpreadAcrossWeek()
		}
		out = append(out, domain.HabitTemplate{
			ID:          id,
			Label:       strings.TrimSpace(p.Label),
			Description: strings.TrimSpace(p.Description),
			DayTag:      tag,
			Occurrences: max(p.Occurrences, 0),
		})
	}
	return out
}

// TaskPayloads converts stored templates back into payloads, for callers
// that edit a week by resubmitting its current content.
func TaskPayloads(tasks []domain.TaskTemplate) []TaskPayload {
	out := make([]TaskPayload, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskPayload{
			ID:          t.ID,
			Label:       t.Label,
			Description: t.Description,
			DayTag:      t.DayTag,
			Occurrences: t.Occurrences,
			ResourceID:  t.ResourceID,
			LessonID:    t.LessonID,
			Origin:      t.Origin,
		})
	}
	return out
}
