package calendar

import (
	"sort"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Mapping is the calendar week a template week resolved to.
type Mapping struct {
	Week Week
	// Rank is the template week's 0-based position among regular template
	// weeks; -1 for onboarding and closing weeks.
	Rank int
	// Degraded is set when no calendar week exists for the template week and
	// Week carries the template's own day indices instead.
	Degraded bool
}

// MapTemplateWeek resolves target to a calendar week. Regular weeks map by
// position: the template week's rank among the program's regular template
// weeks selects the calendar regular week with the same rank. Week numbers
// are not compared because a cohort's regular-week count can differ from
// the template's near program boundaries. Onboarding and closing weeks map
// by equal week number.
func MapTemplateWeek(in Input, templates []*domain.WeekTemplate, target *domain.WeekTemplate, weeks []Week) Mapping {
	if !target.IsRegular() {
		for _, w := range weeks {
			if w.WeekNumber == target.WeekNumber {
				return Mapping{Week: w, Rank: -1}
			}
		}
		return Mapping{Week: fallbackWeek(in, target), Rank: -1, Degraded: true}
	}

	rank := templateRank(templates, target)
	regular := RegularWeeks(weeks)
	if rank >= 0 && rank < len(regular) {
		return Mapping{Week: regular[rank], Rank: rank}
	}
	return Mapping{Week: fallbackWeek(in, target), Rank: rank, Degraded: true}
}

// templateRank returns the 0-based position of target among the regular
// template weeks sorted by week number, or -1.
func templateRank(templates []*domain.WeekTemplate, target *domain.WeekTemplate) int {
	var regular []*domain.WeekTemplate
	for _, t := range templates {
		if t.IsRegular() {
			regular = append(regular, t)
		}
	}
	sort.SliceStable(regular, func(i, j int) bool { return regular[i].WeekNumber < regular[j].WeekNumber })
	for i, t := range regular {
		if sameWeek(t, target) {
			return i
		}
	}
	return -1
}

func sameWeek(a, b *domain.WeekTemplate) bool {
	if a.ID != "" && b.ID != "" {
		return a.ID == b.ID
	}
	return a.WeekNumber == b.WeekNumber
}

// fallbackWeek uses the template's day indices unmodified, resolving dates
// by walking program days from the cohort start.
func fallbackWeek(in Input, target *domain.WeekTemplate) Week {
	start := max(target.StartDayIndex, 0)
	end := max(target.EndDayIndex, start)
	w := Week{
		WeekNumber:    target.WeekNumber,
		StartDayIndex: start,
		EndDayIndex:   end,
	}
	d := DateOf(in, start)
	for i := start; i <= end; i++ {
		w.Dates = append(w.Dates, d)
		d = DateOf(Input{StartDate: d.AddDate(0, 0, 1), IncludeWeekends: in.IncludeWeekends}, 0)
	}
	w.StartDate = w.Dates[0]
	w.EndDate = w.Dates[len(w.Dates)-1]
	return w
}
