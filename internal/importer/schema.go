package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/cadence/internal/domain"
	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a program import file.
type ImportSchema struct {
	Program ProgramImport  `json:"program" yaml:"program"`
	Weeks   []WeekImport   `json:"weeks" yaml:"weeks"`
	Cohorts []CohortImport `json:"cohorts,omitempty" yaml:"cohorts,omitempty"`
}

// ProgramImport defines the program-level fields in the import file.
type ProgramImport struct {
	Name                string   `json:"name" yaml:"name"`
	LengthDays          int      `json:"length_days" yaml:"length_days"`
	IncludeWeekends     bool     `json:"include_weekends,omitempty" yaml:"include_weekends,omitempty"`
	DefaultThresholdPct *float64 `json:"default_threshold_pct,omitempty" yaml:"default_threshold_pct,omitempty"`
}

// WeekImport defines one template week. WeekNumber 0 is the onboarding
// week and negative numbers are closing weeks. Day bounds default to the
// week's block of the program when omitted.
type WeekImport struct {
	WeekNumber    *int             `json:"week_number" yaml:"week_number"`
	Label         string           `json:"label,omitempty" yaml:"label,omitempty"`
	Description   string           `json:"description,omitempty" yaml:"description,omitempty"`
	StartDayIndex *int             `json:"start_day_index,omitempty" yaml:"start_day_index,omitempty"`
	EndDayIndex   *int             `json:"end_day_index,omitempty" yaml:"end_day_index,omitempty"`
	Tasks         []TaskImport     `json:"tasks,omitempty" yaml:"tasks,omitempty"`
	Habits        []HabitImport    `json:"habits,omitempty" yaml:"habits,omitempty"`
	Resources     []ResourceImport `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// TaskImport defines an authored task. Day is a day offset, "spread" or
// "anywhere".
type TaskImport struct {
	ID          string        `json:"id,omitempty" yaml:"id,omitempty"`
	Label       string        `json:"label" yaml:"label"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Day         domain.DayTag `json:"day,omitempty" yaml:"day,omitempty"`
	Occurrences int           `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`
}

type HabitImport struct {
	ID          string        `json:"id,omitempty" yaml:"id,omitempty"`
	Label       string        `json:"label" yaml:"label"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Day         domain.DayTag `json:"day,omitempty" yaml:"day,omitempty"`
	Occurrences int           `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`
}

// ResourceImport defines a linked content resource.
type ResourceImport struct {
	ID              string         `json:"id" yaml:"id"`
	Type            string         `json:"type" yaml:"type"`
	Title           string         `json:"title" yaml:"title"`
	AutoCreateTasks bool           `json:"auto_create_tasks,omitempty" yaml:"auto_create_tasks,omitempty"`
	Lessons         []LessonImport `json:"lessons,omitempty" yaml:"lessons,omitempty"`
}

type LessonImport struct {
	LessonID string        `json:"lesson_id,omitempty" yaml:"lesson_id,omitempty"`
	Number   int           `json:"number,omitempty" yaml:"number,omitempty"`
	Title    string        `json:"title,omitempty" yaml:"title,omitempty"`
	Day      domain.DayTag `json:"day" yaml:"day"`
}

// CohortImport defines a cohort created alongside the program.
type CohortImport struct {
	Name                 string   `json:"name" yaml:"name"`
	StartDate            string   `json:"start_date" yaml:"start_date"`
	Members              []string `json:"members,omitempty" yaml:"members,omitempty"`
	Status               string   `json:"status,omitempty" yaml:"status,omitempty"`
	ThresholdOverridePct *float64 `json:"threshold_override_pct,omitempty" yaml:"threshold_override_pct,omitempty"`
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension; anything that is not
// .yaml or .yml is read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadImportSchema reads and parses a program import file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data, FormatOf(path))
}

// ParseImportSchema decodes an import document. Unknown fields are rejected.
func ParseImportSchema(data []byte, format Format) (*ImportSchema, error) {
	var schema ImportSchema
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	}
	return &schema, nil
}
