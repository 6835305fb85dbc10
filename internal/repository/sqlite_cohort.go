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

// SQLiteCohortRepo implements CohortRepo. The member roster is an ordered
// JSON array so roster order survives round trips.
type SQLiteCohortRepo struct {
	db db.DBTX
}

func NewSQLiteCohortRepo(conn db.DBTX) *SQLiteCohortRepo {
	return &SQLiteCohortRepo{db: conn}
}

const cohortColumns = `id, tenant_id, program_id, name, start_date, members_json, status, threshold_override_pct, created_at, updated_at`

func (r *SQLiteCohortRepo) Create(ctx context.Context, c *domain.Cohort) error {
	members, err := marshalDoc(c.Members)
	if err != nil {
		return fmt.Errorf("encoding members: %w", err)
	}
	query := `INSERT INTO cohorts (` + cohortColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.TenantID, c.ProgramID, c.Name,
		formatDate(c.StartDate),
		members,
		string(c.Status),
		nullableFloat(c.ThresholdOverridePct),
		formatTimestamp(c.CreatedAt), formatTimestamp(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting cohort: %w", err)
	}
	return nil
}

func (r *SQLiteCohortRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Cohort, error) {
	query := `SELECT ` + cohortColumns + ` FROM cohorts WHERE tenant_id = ? AND id = ?`
	c, err := scanCohort(r.db.QueryRowContext(ctx, query, tenantID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cohort %s: %w", id, ErrNotFound)
	}
	return c, err
}

func (r *SQLiteCohortRepo) List(ctx context.Context, tenantID string) ([]*domain.Cohort, error) {
	query := `SELECT ` + cohortColumns + ` FROM cohorts WHERE tenant_id = ? ORDER BY start_date, name`
	return r.list(ctx, query, tenantID)
}

func (r *SQLiteCohortRepo) ListByProgram(ctx context.Context, tenantID, programID string) ([]*domain.Cohort, error) {
	query := `SELECT ` + cohortColumns + ` FROM cohorts WHERE tenant_id = ? AND program_id = ? ORDER BY start_date, name`
	return r.list(ctx, query, tenantID, programID)
}

func (r *SQLiteCohortRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Cohort, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing cohorts: %w", err)
	}
	defer rows.Close()

	var cohorts []*domain.Cohort
	for rows.Next() {
		c, err := scanCohort(rows)
		if err != nil {
			return nil, err
		}
		cohorts = append(cohorts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cohorts: %w", err)
	}
	return cohorts, nil
}

func (r *SQLiteCohortRepo) Update(ctx context.Context, c *domain.Cohort) error {
	members, err := marshalDoc(c.Members)
	if err != nil {
		return fmt.Errorf("encoding members: %w", err)
	}
	query := `UPDATE cohorts SET name = ?, start_date = ?, members_json = ?, status = ?, threshold_override_pct = ?, updated_at = ?
		WHERE tenant_id = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Name,
		formatDate(c.StartDate),
		members,
		string(c.Status),
		nullableFloat(c.ThresholdOverridePct),
		formatTimestamp(c.UpdatedAt),
		c.TenantID, c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating cohort: %w", err)
	}
	return requireAffected(res, "cohort", c.ID)
}

func scanCohort(row scanner) (*domain.Cohort, error) {
	var c domain.Cohort
	var startDate, members, status, createdAt, updatedAt string
	var threshold sql.NullFloat64

	err := row.Scan(&c.ID, &c.TenantID, &c.ProgramID, &c.Name, &startDate, &members, &status, &threshold, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning cohort: %w", err)
	}

	c.Status = domain.CohortStatus(status)
	c.ThresholdOverridePct = floatPtr(threshold)
	if c.StartDate, err = time.Parse(dateLayout, startDate); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if c.Members, err = unmarshalDoc[string](members); err != nil {
		return nil, fmt.Errorf("decoding members of cohort %s: %w", c.ID, err)
	}
	if c.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &c, nil
}
