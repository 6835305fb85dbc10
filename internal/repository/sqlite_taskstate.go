package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// SQLiteTaskStateRepo implements TaskStateRepo.
type SQLiteTaskStateRepo struct {
	db db.DBTX
}

func NewSQLiteTaskStateRepo(conn db.DBTX) *SQLiteTaskStateRepo {
	return &SQLiteTaskStateRepo{db: conn}
}

const taskStateColumns = `tenant_id, cohort_id, template_task_id, label, day_index, date,
	completed_count, eligible_count, completion_rate, threshold_met, updated_at`

func (r *SQLiteTaskStateRepo) Get(ctx context.Context, tenantID, cohortID, templateTaskID string, dayIndex int) (*domain.CohortTaskState, error) {
	query := `SELECT ` + taskStateColumns + ` FROM cohort_task_states
		WHERE tenant_id = ? AND cohort_id = ? AND template_task_id = ? AND day_index = ?`
	s, err := scanTaskState(r.db.QueryRowContext(ctx, query, tenantID, cohortID, templateTaskID, dayIndex))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task state %s day %d: %w", templateTaskID, dayIndex, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteTaskStateRepo) Upsert(ctx context.Context, s *domain.CohortTaskState) error {
	query := `INSERT INTO cohort_task_states (` + taskStateColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tenant_id, cohort_id, template_task_id, day_index) DO UPDATE SET
			label = excluded.label,
			date = excluded.date,
			completed_count = excluded.completed_count,
			eligible_count = excluded.eligible_count,
			completion_rate = excluded.completion_rate,
			threshold_met = excluded.threshold_met,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		s.TenantID, s.CohortID, s.TemplateTaskID, s.Label, s.DayIndex, formatDate(s.Date),
		s.CompletedCount, s.EligibleCount, s.CompletionRate, boolToInt(s.ThresholdMet),
		formatTimestamp(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting task state: %w", err)
	}
	return nil
}

func (r *SQLiteTaskStateRepo) ListByDayRange(ctx context.Context, tenantID, cohortID string, fromDay, toDay int) ([]domain.CohortTaskState, error) {
	query := `SELECT ` + taskStateColumns + ` FROM cohort_task_states
		WHERE tenant_id = ? AND cohort_id = ? AND day_index >= ? AND day_index <= ?
		ORDER BY day_index, template_task_id`
	return r.list(ctx, query, tenantID, cohortID, fromDay, toDay)
}

func (r *SQLiteTaskStateRepo) ListByCohort(ctx context.Context, tenantID, cohortID string) ([]domain.CohortTaskState, error) {
	query := `SELECT ` + taskStateColumns + ` FROM cohort_task_states
		WHERE tenant_id = ? AND cohort_id = ?
		ORDER BY day_index, template_task_id`
	return r.list(ctx, query, tenantID, cohortID)
}

func (r *SQLiteTaskStateRepo) list(ctx context.Context, query string, args ...any) ([]domain.CohortTaskState, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing task states: %w", err)
	}
	defer rows.Close()

	var states []domain.CohortTaskState
	for rows.Next() {
		s, err := scanTaskState(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task states: %w", err)
	}
	return states, nil
}

func scanTaskState(row scanner) (domain.CohortTaskState, error) {
	var s domain.CohortTaskState
	var date, updatedAt string
	var met int

	err := row.Scan(
		&s.TenantID, &s.CohortID, &s.TemplateTaskID, &s.Label, &s.DayIndex, &date,
		&s.CompletedCount, &s.EligibleCount, &s.CompletionRate, &met, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("scanning task state: %w", err)
	}

	s.ThresholdMet = intToBool(met)
	if s.Date, err = time.Parse(dateLayout, date); err != nil {
		return s, fmt.Errorf("parsing date: %w", err)
	}
	if s.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return s, err
	}
	return s, nil
}
