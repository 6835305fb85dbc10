package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// SQLiteProgramRepo implements ProgramRepo using a SQLite database.
type SQLiteProgramRepo struct {
	db db.DBTX
}

func NewSQLiteProgramRepo(conn db.DBTX) *SQLiteProgramRepo {
	return &SQLiteProgramRepo{db: conn}
}

const programColumns = `id, tenant_id, name, length_days, include_weekends, default_threshold_pct, created_at, updated_at`

func (r *SQLiteProgramRepo) Create(ctx context.Context, p *domain.Program) error {
	query := `INSERT INTO programs (` + programColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.TenantID,
		p.Name,
		p.LengthDays,
		boolToInt(p.IncludeWeekends),
		nullableFloat(p.DefaultThresholdPct),
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting program: %w", err)
	}
	return nil
}

func (r *SQLiteProgramRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE tenant_id = ? AND id = ?`
	p, err := scanProgram(r.db.QueryRowContext(ctx, query, tenantID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("program %s: %w", id, ErrNotFound)
	}
	return p, err
}

func (r *SQLiteProgramRepo) List(ctx context.Context, tenantID string) ([]*domain.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE tenant_id = ? ORDER BY created_at, name`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing programs: %w", err)
	}
	defer rows.Close()

	var programs []*domain.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating programs: %w", err)
	}
	return programs, nil
}

func (r *SQLiteProgramRepo) Update(ctx context.Context, p *domain.Program) error {
	query := `UPDATE programs SET name = ?, length_days = ?, include_weekends = ?, default_threshold_pct = ?, updated_at = ?
		WHERE tenant_id = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.LengthDays,
		boolToInt(p.IncludeWeekends),
		nullableFloat(p.DefaultThresholdPct),
		formatTimestamp(p.UpdatedAt),
		p.TenantID,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating program: %w", err)
	}
	return requireAffected(res, "program", p.ID)
}

func scanProgram(row scanner) (*domain.Program, error) {
	var p domain.Program
	var includeWeekends int
	var threshold sql.NullFloat64
	var createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.LengthDays, &includeWeekends, &threshold, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning program: %w", err)
	}

	p.IncludeWeekends = intToBool(includeWeekends)
	p.DefaultThresholdPct = floatPtr(threshold)
	if p.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &p, nil
}

// requireAffected turns an update that matched no row into ErrNotFound.
func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s update: %w", entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}
