package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/cadence/internal/domain"
)

func FormatCohortList(cohorts []*domain.Cohort) string {
	rows := make([][]string, 0, len(cohorts))
	for _, c := range cohorts {
		rows = append(rows, []string{
			c.ID,
			c.Name,
			c.StartDate.Format(dateLayout),
			strconv.Itoa(len(c.Members)),
			CohortStatusPill(c.Status),
		})
	}
	return RenderTable([]string{"ID", "NAME", "START", "MEMBERS", "STATUS"}, rows)
}

func FormatCohort(c *domain.Cohort) string {
	var b strings.Builder
	b.WriteString(Header(c.Name))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s       %s\n", Dim("ID"), c.ID)
	fmt.Fprintf(&b, "%s  %s\n", Dim("Program"), c.ProgramID)
	fmt.Fprintf(&b, "%s    %s\n", Dim("Start"), Date(c.StartDate))
	fmt.Fprintf(&b, "%s   %s\n", Dim("Status"), CohortStatusPill(c.Status))
	if c.ThresholdOverridePct != nil {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Threshold"), Pct(*c.ThresholdOverridePct))
	}
	if len(c.Members) == 0 {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Members"), Dim("none"))
	} else {
		fmt.Fprintf(&b, "%s  %s\n", Dim("Members"), strings.Join(c.Members, ", "))
	}
	return b.String()
}
