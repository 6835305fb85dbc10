package domain

type CohortStatus string

const (
	CohortUpcoming  CohortStatus = "upcoming"
	CohortActive    CohortStatus = "active"
	CohortCompleted CohortStatus = "completed"
	CohortArchived  CohortStatus = "archived"
)

// ValidCohortStatuses is the canonical set of accepted cohort status strings.
var ValidCohortStatuses = map[string]bool{
	"upcoming": true, "active": true, "completed": true, "archived": true,
}

// TaskOrigin records who authored a task template.
type TaskOrigin string

const (
	OriginManual   TaskOrigin = "manual"
	OriginResource TaskOrigin = "resource"
)

// EntrySource records how a day-plan entry got onto a cohort day.
type EntrySource string

const (
	SourceTemplate EntrySource = "template"
	SourceManual   EntrySource = "manual"
)

// TaskList classifies a member task as actionable now or parked in the backlog.
type TaskList string

const (
	ListNow     TaskList = "now"
	ListBacklog TaskList = "backlog"
)

type ResourceType string

const (
	ResourceCourse    ResourceType = "course"
	ResourceArticle   ResourceType = "article"
	ResourceVideo     ResourceType = "video"
	ResourceForm      ResourceType = "form"
	ResourceWorksheet ResourceType = "worksheet"
	ResourceAudio     ResourceType = "audio"
	ResourceLink      ResourceType = "link"
)

// ValidResourceTypes is the canonical set of accepted linked resource types.
var ValidResourceTypes = map[string]bool{
	"course": true, "article": true, "video": true, "form": true,
	"worksheet": true, "audio": true, "link": true,
}

// ResourcePolicy overrides where "anywhere in week" tasks that are linked
// to a content resource are placed.
type ResourcePolicy string

const (
	PolicyFirstDay ResourcePolicy = "first-day"
	PolicyLastDay  ResourcePolicy = "last-day"
	PolicyEven     ResourcePolicy = "even"
)

// ValidResourcePolicies is the canonical set of accepted resource policies.
var ValidResourcePolicies = map[string]bool{
	"first-day": true, "last-day": true, "even": true,
}

// SyncMode selects how member task lists are materialized from a day plan.
type SyncMode string

const (
	SyncFillEmpty SyncMode = "fill-empty"
)

// DefaultThresholdPct is the cohort completion threshold used when neither
// the cohort nor the program configures one.
const DefaultThresholdPct = 70.0
