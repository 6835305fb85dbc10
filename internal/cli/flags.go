package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// dateValue is a pflag.Value holding a calendar date. It accepts
// YYYY-MM-DD, "today" and "tomorrow".
type dateValue struct {
	t   *time.Time
	now func() time.Time
}

var _ pflag.Value = (*dateValue)(nil)

func newDateValue(t *time.Time) *dateValue {
	return &dateValue{t: t, now: time.Now}
}

func (d *dateValue) String() string {
	if d.t == nil || d.t.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

func (d *dateValue) Set(s string) error {
	today := domain.DateOnly(d.now())
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		*d.t = today
		return nil
	case "tomorrow":
		*d.t = today.AddDate(0, 0, 1)
		return nil
	}
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("expected YYYY-MM-DD, today or tomorrow")
	}
	*d.t = parsed
	return nil
}

func (d *dateValue) Type() string { return "date" }

func dateFlag(fs *pflag.FlagSet, t *time.Time, name, usage string) {
	fs.Var(newDateValue(t), name, usage)
}
