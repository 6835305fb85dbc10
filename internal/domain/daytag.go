package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type DayTagKind string

const (
	DayTagDay      DayTagKind = "day"
	DayTagSpread   DayTagKind = "spread"
	DayTagAnywhere DayTagKind = "anywhere"
)

// DayTag is a template task's placement rule within its week. For DayTagDay,
// Day is the 0-based offset from the first program day of the week.
type DayTag struct {
	Kind DayTagKind
	Day  int
}

func OnDay(day int) DayTag     { return DayTag{Kind: DayTagDay, Day: day} }
func SpreadAcrossWeek() DayTag { return DayTag{Kind: DayTagSpread} }
func AnywhereInWeek() DayTag   { return DayTag{Kind: DayTagAnywhere} }

// IsZero reports whether the tag was never set.
func (t DayTag) IsZero() bool { return t.Kind == "" }

// OrDefault returns the tag, or "anywhere in week" when unset.
func (t DayTag) OrDefault() DayTag {
	if t.IsZero() {
		return AnywhereInWeek()
	}
	return t
}

func (t DayTag) String() string {
	switch t.Kind {
	case DayTagDay:
		return "day:" + strconv.Itoa(t.Day)
	case "":
		return ""
	default:
		return string(t.Kind)
	}
}

// ParseDayTag accepts "spread", "anywhere" (or the legacy "week"), "day:N" or a bare N.
func ParseDayTag(s string) (DayTag, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "spread":
		return SpreadAcrossWeek(), nil
	case "anywhere", "week":
		return AnywhereInWeek(), nil
	}
	s = strings.TrimPrefix(s, "day:")
	n, err := strconv.Atoi(s)
	if err != nil {
		return DayTag{}, fmt.Errorf("invalid day tag %q", s)
	}
	if n < 0 {
		return DayTag{}, fmt.Errorf("day tag %d must not be negative", n)
	}
	return OnDay(n), nil
}

// MarshalJSON encodes explicit days as numbers and sentinels as strings.
func (t DayTag) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case DayTagDay:
		return []byte(strconv.Itoa(t.Day)), nil
	case "":
		return []byte("null"), nil
	default:
		return json.Marshal(string(t.Kind))
	}
}

func (t *DayTag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = DayTag{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseDayTag(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("day tag must be a number or a string: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("day tag %d must not be negative", n)
	}
	*t = OnDay(n)
	return nil
}

// MarshalYAML and UnmarshalYAML mirror the JSON form for YAML program files.
func (t DayTag) MarshalYAML() (any, error) {
	switch t.Kind {
	case DayTagDay:
		return t.Day, nil
	case "":
		return nil, nil
	default:
		return string(t.Kind), nil
	}
}

func (t *DayTag) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*t = DayTag{}
	case int:
		if v < 0 {
			return fmt.Errorf("day tag %d must not be negative", v)
		}
		*t = OnDay(v)
	case string:
		parsed, err := ParseDayTag(v)
		if err != nil {
			return err
		}
		*t = parsed
	default:
		return fmt.Errorf("day tag must be a number or a string, got %T", raw)
	}
	return nil
}
