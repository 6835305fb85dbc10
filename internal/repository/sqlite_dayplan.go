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

// SQLiteDayPlanRepo stores one document per (tenant, cohort, week template):
// the week's days with their ordered tasks and habits.
type SQLiteDayPlanRepo struct {
	db db.DBTX
}

func NewSQLiteDayPlanRepo(conn db.DBTX) *SQLiteDayPlanRepo {
	return &SQLiteDayPlanRepo{db: conn}
}

const dayPlanColumns = `tenant_id, cohort_id, program_id, week_template_id, week_number, days_json, degraded, updated_at`

func (r *SQLiteDayPlanRepo) Get(ctx context.Context, tenantID, cohortID, weekTemplateID string) (*domain.CohortDayPlan, error) {
	query := `SELECT ` + dayPlanColumns + ` FROM cohort_day_plans
		WHERE tenant_id = ? AND cohort_id = ? AND week_template_id = ?`
	p, err := scanDayPlan(r.db.QueryRowContext(ctx, query, tenantID, cohortID, weekTemplateID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("day plan of cohort %s week %s: %w", cohortID, weekTemplateID, ErrNotFound)
	}
	return p, err
}

func (r *SQLiteDayPlanRepo) ListByCohort(ctx context.Context, tenantID, cohortID string) ([]*domain.CohortDayPlan, error) {
	query := `SELECT ` + dayPlanColumns + ` FROM cohort_day_plans
		WHERE tenant_id = ? AND cohort_id = ? ORDER BY week_number`
	rows, err := r.db.QueryContext(ctx, query, tenantID, cohortID)
	if err != nil {
		return nil, fmt.Errorf("listing day plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.CohortDayPlan
	for rows.Next() {
		p, err := scanDayPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating day plans: %w", err)
	}
	return plans, nil
}

// FindDay prefers a plan built on the cohort calendar over a degraded one
// when both claim the date.
func (r *SQLiteDayPlanRepo) FindDay(ctx context.Context, tenantID, cohortID string, date time.Time) (*domain.PlanDay, error) {
	plans, err := r.ListByCohort(ctx, tenantID, cohortID)
	if err != nil {
		return nil, err
	}
	var fallback *domain.PlanDay
	for _, p := range plans {
		d := p.Day(date)
		if d == nil {
			continue
		}
		if !p.Degraded {
			return d, nil
		}
		if fallback == nil {
			fallback = d
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, fmt.Errorf("plan day %s of cohort %s: %w", formatDate(date), cohortID, ErrNotFound)
}

func (r *SQLiteDayPlanRepo) Upsert(ctx context.Context, p *domain.CohortDayPlan) error {
	days, err := marshalDoc(p.Days)
	if err != nil {
		return fmt.Errorf("encoding plan days: %w", err)
	}
	query := `INSERT INTO cohort_day_plans (` + dayPlanColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tenant_id, cohort_id, week_template_id) DO UPDATE SET
			program_id = excluded.program_id,
			week_number = excluded.week_number,
			days_json = excluded.days_json,
			degraded = excluded.degraded,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		p.TenantID, p.CohortID, p.ProgramID, p.WeekTemplateID, p.WeekNumber,
		days, boolToInt(p.Degraded), formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting day plan: %w", err)
	}
	return nil
}

func scanDayPlan(row scanner) (*domain.CohortDayPlan, error) {
	var p domain.CohortDayPlan
	var days, updatedAt string
	var degraded int

	err := row.Scan(&p.TenantID, &p.CohortID, &p.ProgramID, &p.WeekTemplateID, &p.WeekNumber, &days, &degraded, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning day plan: %w", err)
	}

	p.Degraded = intToBool(degraded)
	if p.Days, err = unmarshalDoc[domain.PlanDay](days); err != nil {
		return nil, fmt.Errorf("decoding plan days: %w", err)
	}
	if p.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &p, nil
}
