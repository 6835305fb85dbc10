package domain

// TaskTemplate is an authored task in a program week. It never carries
// runtime state such as completion or a member task ID; those live on
// MemberTask only.
type TaskTemplate struct {
	ID          string     `json:"id" yaml:"id"`
	Label       string     `json:"label" yaml:"label"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	DayTag      DayTag     `json:"dayTag" yaml:"day_tag"`
	Occurrences int        `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`
	ResourceID  string     `json:"resourceId,omitempty" yaml:"resource_id,omitempty"`
	LessonID    string     `json:"lessonId,omitempty" yaml:"lesson_id,omitempty"`
	Origin      TaskOrigin `json:"origin,omitempty" yaml:"origin,omitempty"`
}

// IsGenerated reports whether the task was produced from a linked resource.
func (t TaskTemplate) IsGenerated() bool { return t.Origin == OriginResource }

type HabitTemplate struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	DayTag      DayTag `json:"dayTag" yaml:"day_tag"`
	Occurrences int    `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`
}

// LinkedResource is a piece of content attached to a week. When
// AutoCreateTasks is set, one task is generated per lesson mapping.
type LinkedResource struct {
	ID              string          `json:"id" yaml:"id"`
	Type            ResourceType    `json:"type" yaml:"type"`
	Title           string          `json:"title" yaml:"title"`
	AutoCreateTasks bool            `json:"autoCreateTasks" yaml:"auto_create_tasks"`
	Lessons         []LessonMapping `json:"lessons,omitempty" yaml:"lessons,omitempty"`
}

// LessonMapping assigns one lesson (or, for single-part resources, the
// resource itself with an empty LessonID) to a day of the week.
type LessonMapping struct {
	LessonID string `json:"lessonId" yaml:"lesson_id"`
	Number   int    `json:"number,omitempty" yaml:"number,omitempty"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Day      DayTag `json:"day" yaml:"day"`
}
