package app

import "time"

// MemberSyncFailure describes a member whose task list could not be written.
type MemberSyncFailure struct {
	MemberID  string
	Reason    string
	Transient bool
}

// MemberSyncResult reports one day of member sync. Counts cover successful
// member writes only.
type MemberSyncResult struct {
	CohortID      string
	Date          time.Time
	MembersTotal  int
	MembersSynced int
	TasksCreated  int
	TasksSkipped  int
	Failures      []MemberSyncFailure
}

// SyncRangeResult aggregates member sync over consecutive dates.
type SyncRangeResult struct {
	CohortID     string
	From         time.Time
	To           time.Time
	Days         []MemberSyncResult
	TasksCreated int
	TasksSkipped int
	Failures     int
	// MembersProcessed is the largest number of members written on any day.
	MembersProcessed int
}

func (r *SyncRangeResult) Add(day MemberSyncResult) {
	r.Days = append(r.Days, day)
	r.TasksCreated += day.TasksCreated
	r.TasksSkipped += day.TasksSkipped
	r.Failures += len(day.Failures)
	r.MembersProcessed = max(r.MembersProcessed, day.MembersSynced)
}
