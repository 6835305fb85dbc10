package curriculum

import (
	"fmt"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/google/uuid"
)

// generatedTaskNamespace seeds the name-based IDs of resource tasks so the
// same resource lesson always yields the same task ID.
var generatedTaskNamespace = uuid.MustParse("5f0d6c1e-3a4b-4c8e-9d2a-7b1e6f4a9c30")

// GeneratedTaskID returns the stable task ID for a resource lesson.
func GeneratedTaskID(resourceID, lessonID string) string {
	return uuid.NewSHA1(generatedTaskNamespace, []byte(resourceID+"/"+lessonID)).String()
}

// TaskLabel phrases the task for one lesson of a resource.
func TaskLabel(r domain.LinkedResource, lesson domain.LessonMapping, position int) string {
	title := domain.Coalesce(lesson.Title, r.Title)
	switch r.Type {
	case domain.ResourceCourse:
		n := lesson.Number
		if n <= 0 {
			n = position + 1
		}
		return fmt.Sprintf("Watch Lesson %d: %s", n, title)
	case domain.ResourceVideo:
		return "Watch " + title
	case domain.ResourceArticle:
		return "Read " + title
	case domain.ResourceForm, domain.ResourceWorksheet:
		return "Fill in " + title
	case domain.ResourceAudio:
		return "Listen to " + title
	default:
		return "Complete " + title
	}
}

// GenerateResourceTasks emits one task per lesson-to-day mapping of r. A
// resource that does not request generation yields nothing.
func GenerateResourceTasks(r domain.LinkedResource) []domain.TaskTemplate {
	if !r.AutoCreateTasks {
		return nil
	}
	out := make([]domain.TaskTemplate, 0, len(r.Lessons))
	for i, lesson := range r.Lessons {
		out = append(out, domain.TaskTemplate{
			ID:         GeneratedTaskID(r.ID, lesson.LessonID),
			Label:      TaskLabel(r, lesson, i),
			DayTag:     lesson.Day.OrDefault(),
			ResourceID: r.ID,
			LessonID:   lesson.LessonID,
			Origin:     domain.OriginResource,
		})
	}
	return out
}

// MergeGeneratedTasks reconciles existing week tasks with the tasks the
// week's resources currently request:
//   - manual tasks are kept untouched and in place;
//   - a generated task still requested keeps its position and description
//     but takes the current day tag and label;
//   - a generated task no longer requested is dropped;
//   - newly requested tasks are appended in resource and lesson order,
//     never duplicating one already present by ID.
func MergeGeneratedTasks(existing []domain.TaskTemplate, resources []domain.LinkedResource) []domain.TaskTemplate {
	wanted := make(map[string]domain.TaskTemplate)
	var order []string
	for _, r := range resources {
		for _, t := range GenerateResourceTasks(r) {
			if _, dup := wanted[t.ID]; dup {
				continue
			}
			wanted[t.ID] = t
			order = append(order, t.ID)
		}
	}

	out := make([]domain.TaskTemplate, 0, len(existing)+len(order))
	placed := make(map[string]bool, len(order))
	for _, t := range existing {
		if !t.IsGenerated() {
			out = append(out, t)
			continue
		}
		g, ok := wanted[t.ID]
		if !ok || placed[t.ID] {
			continue
		}
		t.DayTag = g.DayTag
		t.Label = g.Label
		t.ResourceID = g.ResourceID
		t.LessonID = g.LessonID
		out = append(out, t)
		placed[t.ID] = true
	}
	for _, id := range order {
		if !placed[id] {
			out = append(out, wanted[id])
		}
	}
	return out
}
