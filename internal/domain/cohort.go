package domain

import (
	"fmt"
	"time"
)

type Cohort struct {
	ID                   string
	TenantID             string
	ProgramID            string
	Name                 string
	StartDate            time.Time
	Members              []string
	Status               CohortStatus
	ThresholdOverridePct *float64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasMember reports whether memberID is on the roster.
func (c *Cohort) HasMember(memberID string) bool {
	for _, m := range c.Members {
		if m == memberID {
			return true
		}
	}
	return false
}

// RosterCount counts the distinct ids that are on the current roster.
func (c *Cohort) RosterCount(ids []string) int {
	seen := make(map[string]bool, len(ids))
	n := 0
	for _, id := range ids {
		if !seen[id] && c.HasMember(id) {
			n++
		}
		seen[id] = true
	}
	return n
}

// AddMember appends memberID to the roster. Adding an existing member is a no-op.
func (c *Cohort) AddMember(memberID string, now time.Time) bool {
	if memberID == "" || c.HasMember(memberID) {
		return false
	}
	c.Members = append(c.Members, memberID)
	c.UpdatedAt = now
	return true
}

// RemoveMember drops memberID from the roster, preserving order.
func (c *Cohort) RemoveMember(memberID string, now time.Time) bool {
	for i, m := range c.Members {
		if m == memberID {
			c.Members = append(c.Members[:i:i], c.Members[i+1:]...)
			c.UpdatedAt = now
			return true
		}
	}
	return false
}

// Schedulable reports whether tasks may still be distributed to the cohort.
func (c *Cohort) Schedulable() bool {
	return c.Status == CohortUpcoming || c.Status == CohortActive
}

// cohortTransitions lists the allowed status moves.
var cohortTransitions = map[CohortStatus][]CohortStatus{
	CohortUpcoming:  {CohortActive, CohortArchived},
	CohortActive:    {CohortCompleted, CohortArchived},
	CohortCompleted: {CohortArchived, CohortActive},
	CohortArchived:  {},
}

// TransitionTo moves the cohort to next, rejecting moves the lifecycle does not allow.
func (c *Cohort) TransitionTo(next CohortStatus, now time.Time) error {
	if c.Status == next {
		return nil
	}
	for _, allowed := range cohortTransitions[c.Status] {
		if allowed == next {
			c.Status = next
			c.UpdatedAt = now
			return nil
		}
	}
	return fmt.Errorf("cohort cannot move from %s to %s", c.Status, next)
}
