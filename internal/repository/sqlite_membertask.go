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

// SQLiteMemberTaskRepo implements MemberTaskRepo.
type SQLiteMemberTaskRepo struct {
	db db.DBTX
}

func NewSQLiteMemberTaskRepo(conn db.DBTX) *SQLiteMemberTaskRepo {
	return &SQLiteMemberTaskRepo{db: conn}
}

const memberTaskColumns = `id, tenant_id, member_id, date, day_index, title, list, completed, completed_at,
	template_task_id, cohort_id, program_id, created_at, updated_at`

func memberTaskArgs(t *domain.MemberTask) []any {
	return []any{
		t.ID, t.TenantID, t.MemberID,
		formatDate(t.Date), t.DayIndex,
		t.Title, string(t.List),
		boolToInt(t.Completed), nullableTimeToString(t.CompletedAt, time.RFC3339),
		t.TemplateTaskID, t.CohortID, t.ProgramID,
		formatTimestamp(t.CreatedAt), formatTimestamp(t.UpdatedAt),
	}
}

func (r *SQLiteMemberTaskRepo) Create(ctx context.Context, t *domain.MemberTask) error {
	query := `INSERT INTO member_tasks (` + memberTaskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, memberTaskArgs(t)...); err != nil {
		return fmt.Errorf("inserting member task: %w", err)
	}
	return nil
}

func (r *SQLiteMemberTaskRepo) CreateIfMissing(ctx context.Context, t *domain.MemberTask) (bool, error) {
	query := `INSERT INTO member_tasks (` + memberTaskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tenant_id, member_id, date, template_task_id) WHERE template_task_id != '' DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, memberTaskArgs(t)...)
	if err != nil {
		return false, fmt.Errorf("inserting member task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking member task insert: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteMemberTaskRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.MemberTask, error) {
	query := `SELECT ` + memberTaskColumns + ` FROM member_tasks WHERE tenant_id = ? AND id = ?`
	t, err := scanMemberTask(r.db.QueryRowContext(ctx, query, tenantID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member task %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteMemberTaskRepo) ListByMemberDate(ctx context.Context, tenantID, memberID string, date time.Time) ([]*domain.MemberTask, error) {
	query := `SELECT ` + memberTaskColumns + ` FROM member_tasks
		WHERE tenant_id = ? AND member_id = ? AND date = ? ORDER BY created_at, rowid`
	return r.list(ctx, query, tenantID, memberID, formatDate(date))
}

func (r *SQLiteMemberTaskRepo) ListByMemberRange(ctx context.Context, tenantID, memberID string, from, to time.Time) ([]*domain.MemberTask, error) {
	query := `SELECT ` + memberTaskColumns + ` FROM member_tasks
		WHERE tenant_id = ? AND member_id = ? AND date >= ? AND date <= ? ORDER BY date, created_at, rowid`
	return r.list(ctx, query, tenantID, memberID, formatDate(from), formatDate(to))
}

func (r *SQLiteMemberTaskRepo) list(ctx context.Context, query string, args ...any) ([]*domain.MemberTask, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing member tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.MemberTask
	for rows.Next() {
		t, err := scanMemberTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteMemberTaskRepo) Update(ctx context.Context, t *domain.MemberTask) error {
	query := `UPDATE member_tasks SET title = ?, list = ?, completed = ?, completed_at = ?, updated_at = ?
		WHERE tenant_id = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Title, string(t.List),
		boolToInt(t.Completed), nullableTimeToString(t.CompletedAt, time.RFC3339),
		formatTimestamp(t.UpdatedAt),
		t.TenantID, t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating member task: %w", err)
	}
	return requireAffected(res, "member task", t.ID)
}

func (r *SQLiteMemberTaskRepo) CompletedMemberIDs(ctx context.Context, tenantID, cohortID, templateTaskID string, date time.Time) ([]string, error) {
	query := `SELECT DISTINCT member_id FROM member_tasks
		WHERE tenant_id = ? AND cohort_id = ? AND template_task_id = ? AND date = ? AND completed = 1
		ORDER BY member_id`
	rows, err := r.db.QueryContext(ctx, query, tenantID, cohortID, templateTaskID, formatDate(date))
	if err != nil {
		return nil, fmt.Errorf("listing completed members: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning completed member: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completed members: %w", err)
	}
	return ids, nil
}

func scanMemberTask(row scanner) (*domain.MemberTask, error) {
	var t domain.MemberTask
	var date, list, createdAt, updatedAt string
	var completed int
	var completedAt sql.NullString

	err := row.Scan(
		&t.ID, &t.TenantID, &t.MemberID,
		&date, &t.DayIndex,
		&t.Title, &list,
		&completed, &completedAt,
		&t.TemplateTaskID, &t.CohortID, &t.ProgramID,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning member task: %w", err)
	}

	t.List = domain.TaskList(list)
	t.Completed = intToBool(completed)
	t.CompletedAt = parseNullableTime(completedAt, time.RFC3339)
	if t.Date, err = time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}
	if t.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &t, nil
}
