package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// maxLengthDays caps an imported program at ten years of program days.
const maxLengthDays = 3650

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProgram(&schema.Program)...)
	errs = append(errs, validateWeeks(schema.Weeks, &schema.Program)...)
	errs = append(errs, validateCohorts(schema.Cohorts)...)

	return errs
}

func validateThreshold(field string, pct *float64) []error {
	if pct != nil && (*pct < 0 || *pct > 100) {
		return []error{fmt.Errorf("%s must be between 0 and 100", field)}
	}
	return nil
}

func validateProgram(p *ProgramImport) []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, fmt.Errorf("program.name is required"))
	}
	if p.LengthDays <= 0 {
		errs = append(errs, fmt.Errorf("program.length_days must be positive"))
	} else if p.LengthDays > maxLengthDays {
		errs = append(errs, fmt.Errorf("program.length_days must be at most %d", maxLengthDays))
	}
	errs = append(errs, validateThreshold("program.default_threshold_pct", p.DefaultThresholdPct)...)

	return errs
}

func validateWeeks(weeks []WeekImport, p *ProgramImport) []error {
	var errs []error

	if len(weeks) == 0 {
		errs = append(errs, fmt.Errorf("weeks: at least one week is required"))
	}

	numbers := make(map[int]bool, len(weeks))
	for i, w := range weeks {
		prefix := fmt.Sprintf("weeks[%d]", i)

		if w.WeekNumber == nil {
			errs = append(errs, fmt.Errorf("%s.week_number is required", prefix))
		} else if numbers[*w.WeekNumber] {
			errs = append(errs, fmt.Errorf("%s.week_number: duplicate week %d", prefix, *w.WeekNumber))
		} else {
			numbers[*w.WeekNumber] = true
		}

		errs = append(errs, validateDayBounds(prefix, w, p.LengthDays)...)

		taskIDs := make(map[string]bool, len(w.Tasks))
		for j, t := range w.Tasks {
			tp := fmt.Sprintf("%s.tasks[%d]", prefix, j)
			if t.Label == "" {
				errs = append(errs, fmt.Errorf("%s.label is required", tp))
			}
			if t.ID != "" {
				if taskIDs[t.ID] {
					errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", tp, t.ID))
				}
				taskIDs[t.ID] = true
			}
			errs = append(errs, validateOccurrences(tp, t.Day, t.Occurrences)...)
		}

		for j, h := range w.Habits {
			hp := fmt.Sprintf("%s.habits[%d]", prefix, j)
			if h.Label == "" {
				errs = append(errs, fmt.Errorf("%s.label is required", hp))
			}
			if h.Occurrences < 0 {
				errs = append(errs, fmt.Errorf("%s.occurrences must not be negative", hp))
			}
		}

		errs = append(errs, validateResources(prefix, w.Resources)...)
	}

	return errs
}

func validateDayBounds(prefix string, w WeekImport, lengthDays int) []error {
	var errs []error

	if (w.StartDayIndex == nil) != (w.EndDayIndex == nil) {
		errs = append(errs, fmt.Errorf("%s: start_day_index and end_day_index must be set together", prefix))
		return errs
	}
	if w.StartDayIndex == nil {
		return nil
	}
	start, end := *w.StartDayIndex, *w.EndDayIndex
	if start < 0 {
		errs = append(errs, fmt.Errorf("%s.start_day_index must not be negative", prefix))
	}
	if end < start {
		errs = append(errs, fmt.Errorf("%s: end_day_index (%d) must be >= start_day_index (%d)", prefix, end, start))
	}
	if lengthDays > 0 && end >= lengthDays {
		errs = append(errs, fmt.Errorf("%s.end_day_index (%d) is past the program length (%d days)", prefix, end, lengthDays))
	}

	return errs
}

func validateOccurrences(prefix string, tag domain.DayTag, occurrences int) []error {
	if occurrences < 0 {
		return []error{fmt.Errorf("%s.occurrences must not be negative", prefix)}
	}
	if occurrences > 0 && tag.Kind != domain.DayTagSpread {
		return []error{fmt.Errorf("%s.occurrences only applies to spread tasks", prefix)}
	}
	return nil
}

func validateResources(prefix string, resources []ResourceImport) []error {
	var errs []error

	ids := make(map[string]bool, len(resources))
	for i, r := range resources {
		rp := fmt.Sprintf("%s.resources[%d]", prefix, i)

		if r.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", rp))
		} else if ids[r.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", rp, r.ID))
		} else {
			ids[r.ID] = true
		}
		if r.Type == "" {
			errs = append(errs, fmt.Errorf("%s.type is required", rp))
		} else if !domain.ValidResourceTypes[r.Type] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", rp, r.Type))
		}
		if r.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", rp))
		}

		lessons := make(map[string]bool, len(r.Lessons))
		for j, l := range r.Lessons {
			if lessons[l.LessonID] {
				errs = append(errs, fmt.Errorf("%s.lessons[%d].lesson_id: duplicate lesson %q", rp, j, l.LessonID))
			}
			lessons[l.LessonID] = true
		}
	}

	return errs
}

func validateCohorts(cohorts []CohortImport) []error {
	var errs []error

	for i, c := range cohorts {
		prefix := fmt.Sprintf("cohorts[%d]", i)

		if c.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if c.StartDate == "" {
			errs = append(errs, fmt.Errorf("%s.start_date is required", prefix))
		} else if _, err := time.Parse("2006-01-02", c.StartDate); err != nil {
			errs = append(errs, fmt.Errorf("%s.start_date: invalid date format %q (expected YYYY-MM-DD)", prefix, c.StartDate))
		}
		if c.Status != "" && !domain.ValidCohortStatuses[c.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, c.Status))
		}
		errs = append(errs, validateThreshold(prefix+".threshold_override_pct", c.ThresholdOverridePct)...)
	}

	return errs
}
