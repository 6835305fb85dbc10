package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramGet(t *testing.T) {
	r := setupRepos(t)
	p, weeks, _ := weekdayProgram(t, r, nil)
	svc := NewProgramService(r.programs, r.weeks)

	detail, err := svc.Get(context.Background(), testutil.Tenant, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, detail.Program.Name)
	require.Len(t, detail.Weeks, len(weeks))
	assert.Equal(t, 1, detail.Weeks[0].WeekNumber)

	_, err = svc.Get(context.Background(), "globex", p.ID)
	assert.Equal(t, app.ErrNotFound, app.CodeOf(err))

	list, err := svc.List(context.Background(), testutil.Tenant)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCalendarPreview(t *testing.T) {
	r := setupRepos(t)
	p, _, _ := weekdayProgram(t, r, nil)
	svc := NewProgramService(r.programs, r.weeks)

	preview, err := svc.CalendarPreview(context.Background(), testutil.Tenant, p.ID, monday.Add(9*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, monday, preview.StartDate)
	require.Len(t, preview.Weeks, 4)
	require.Len(t, preview.Templates, 4)
	for i, m := range preview.Templates {
		assert.False(t, m.Degraded)
		assert.Equal(t, i+1, m.Week.WeekNumber)
		assert.Equal(t, monday.AddDate(0, 0, 7*i), m.Week.StartDate)
	}
	assert.Equal(t, testutil.Date(2025, 3, 28), preview.Templates[3].Week.EndDate)

	_, err = svc.CalendarPreview(context.Background(), testutil.Tenant, p.ID, time.Time{})
	assert.Equal(t, app.ErrInvalidInput, app.CodeOf(err))
}
