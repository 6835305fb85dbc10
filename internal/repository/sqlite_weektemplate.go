package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// SQLiteWeekTemplateRepo stores week templates with their ordered tasks,
// habits and linked resources as JSON documents.
type SQLiteWeekTemplateRepo struct {
	db db.DBTX
}

func NewSQLiteWeekTemplateRepo(conn db.DBTX) *SQLiteWeekTemplateRepo {
	return &SQLiteWeekTemplateRepo{db: conn}
}

const weekTemplateColumns = `id, tenant_id, program_id, week_number, label, description, start_day_index, end_day_index,
	tasks_json, habits_json, resources_json, created_at, updated_at`

func (r *SQLiteWeekTemplateRepo) Create(ctx context.Context, w *domain.WeekTemplate) error {
	tasks, habits, resources, err := encodeWeekDocs(w)
	if err != nil {
		return err
	}
	query := `INSERT INTO week_templates (` + weekTemplateColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		w.ID, w.TenantID, w.ProgramID, w.WeekNumber, w.Label, w.Description,
		w.StartDayIndex, w.EndDayIndex,
		tasks, habits, resources,
		formatTimestamp(w.CreatedAt), formatTimestamp(w.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting week template: %w", err)
	}
	return nil
}

func (r *SQLiteWeekTemplateRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.WeekTemplate, error) {
	query := `SELECT ` + weekTemplateColumns + ` FROM week_templates WHERE tenant_id = ? AND id = ?`
	w, err := scanWeekTemplate(r.db.QueryRowContext(ctx, query, tenantID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("week template %s: %w", id, ErrNotFound)
	}
	return w, err
}

func (r *SQLiteWeekTemplateRepo) ListByProgram(ctx context.Context, tenantID, programID string) ([]*domain.WeekTemplate, error) {
	query := `SELECT ` + weekTemplateColumns + ` FROM week_templates WHERE tenant_id = ? AND program_id = ?`
	rows, err := r.db.QueryContext(ctx, query, tenantID, programID)
	if err != nil {
		return nil, fmt.Errorf("listing week templates: %w", err)
	}
	defer rows.Close()

	var weeks []*domain.WeekTemplate
	for rows.Next() {
		w, err := scanWeekTemplate(rows)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating week templates: %w", err)
	}
	domain.SortWeeks(weeks)
	return weeks, nil
}

func (r *SQLiteWeekTemplateRepo) Update(ctx context.Context, w *domain.WeekTemplate) error {
	tasks, habits, resources, err := encodeWeekDocs(w)
	if err != nil {
		return err
	}
	query := `UPDATE week_templates SET label = ?, description = ?, start_day_index = ?, end_day_index = ?,
		tasks_json = ?, habits_json = ?, resources_json = ?, updated_at = ?
		WHERE tenant_id = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query,
		w.Label, w.Description, w.StartDayIndex, w.EndDayIndex,
		tasks, habits, resources,
		formatTimestamp(w.UpdatedAt),
		w.TenantID, w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating week template: %w", err)
	}
	return requireAffected(res, "week template", w.ID)
}

func encodeWeekDocs(w *domain.WeekTemplate) (tasks, habits, resources string, err error) {
	if tasks, err = marshalDoc(w.Tasks); err != nil {
		return "", "", "", fmt.Errorf("encoding tasks: %w", err)
	}
	if habits, err = marshalDoc(w.Habits); err != nil {
		return "", "", "", fmt.Errorf("encoding habits: %w", err)
	}
	if resources, err = marshalDoc(w.LinkedResources); err != nil {
		return "", "", "", fmt.Errorf("encoding linked resources: %w", err)
	}
	return tasks, habits, resources, nil
}

func scanWeekTemplate(row scanner) (*domain.WeekTemplate, error) {
	var w domain.WeekTemplate
	var tasks, habits, resources, createdAt, updatedAt string

	err := row.Scan(
		&w.ID, &w.TenantID, &w.ProgramID, &w.WeekNumber, &w.Label, &w.Description,
		&w.StartDayIndex, &w.EndDayIndex,
		&tasks, &habits, &resources,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning week template: %w", err)
	}

	if w.Tasks, err = unmarshalDoc[domain.TaskTemplate](tasks); err != nil {
		return nil, fmt.Errorf("decoding tasks of week %s: %w", w.ID, err)
	}
	if w.Habits, err = unmarshalDoc[domain.HabitTemplate](habits); err != nil {
		return nil, fmt.Errorf("decoding habits of week %s: %w", w.ID, err)
	}
	if w.LinkedResources, err = unmarshalDoc[domain.LinkedResource](resources); err != nil {
		return nil, fmt.Errorf("decoding resources of week %s: %w", w.ID, err)
	}
	if w.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &w, nil
}
