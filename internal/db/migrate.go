package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS programs (
		id                    TEXT PRIMARY KEY,
		tenant_id             TEXT NOT NULL,
		name                  TEXT NOT NULL,
		length_days           INTEGER NOT NULL CHECK(length_days > 0),
		include_weekends      INTEGER NOT NULL DEFAULT 0,
		default_threshold_pct REAL,
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_programs_tenant ON programs(tenant_id)`,

	`CREATE TABLE IF NOT EXISTS week_templates (
		id              TEXT PRIMARY KEY,
		tenant_id       TEXT NOT NULL,
		program_id      TEXT NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
		week_number     INTEGER NOT NULL,
		label           TEXT NOT NULL DEFAULT '',
		description     TEXT NOT NULL DEFAULT '',
		start_day_index INTEGER NOT NULL DEFAULT 0,
		end_day_index   INTEGER NOT NULL DEFAULT 0,
		tasks_json      TEXT NOT NULL DEFAULT '[]',
		habits_json     TEXT NOT NULL DEFAULT '[]',
		resources_json  TEXT NOT NULL DEFAULT '[]',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		UNIQUE (program_id, week_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_week_templates_program ON week_templates(tenant_id, program_id)`,

	`CREATE TABLE IF NOT EXISTS cohorts (
		id                     TEXT PRIMARY KEY,
		tenant_id              TEXT NOT NULL,
		program_id             TEXT NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
		name                   TEXT NOT NULL,
		start_date             TEXT NOT NULL,
		members_json           TEXT NOT NULL DEFAULT '[]',
		status                 TEXT NOT NULL DEFAULT 'upcoming'
		                       CHECK(status IN ('upcoming','active','completed','archived')),
		threshold_override_pct REAL,
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cohorts_program ON cohorts(tenant_id, program_id)`,

	`CREATE TABLE IF NOT EXISTS cohort_day_plans (
		tenant_id        TEXT NOT NULL,
		cohort_id        TEXT NOT NULL REFERENCES cohorts(id) ON DELETE CASCADE,
		program_id       TEXT NOT NULL,
		week_template_id TEXT NOT NULL REFERENCES week_templates(id) ON DELETE CASCADE,
		week_number      INTEGER NOT NULL,
		days_json        TEXT NOT NULL DEFAULT '[]',
		updated_at       TEXT NOT NULL,
		PRIMARY KEY (tenant_id, cohort_id, week_template_id)
	)`,

	`CREATE TABLE IF NOT EXISTS member_tasks (
		id               TEXT PRIMARY KEY,
		tenant_id        TEXT NOT NULL,
		member_id        TEXT NOT NULL,
		date             TEXT NOT NULL,
		day_index        INTEGER NOT NULL DEFAULT 0,
		title            TEXT NOT NULL,
		list             TEXT NOT NULL DEFAULT 'now'
		                 CHECK(list IN ('now','backlog')),
		completed        INTEGER NOT NULL DEFAULT 0,
		completed_at     TEXT,
		template_task_id TEXT NOT NULL DEFAULT '',
		cohort_id        TEXT NOT NULL DEFAULT '',
		program_id       TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_member_tasks_member_date ON member_tasks(tenant_id, member_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_member_tasks_template ON member_tasks(tenant_id, cohort_id, template_task_id, date)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_member_tasks_template_unique
		ON member_tasks(tenant_id, member_id, date, template_task_id) WHERE template_task_id != ''`,

	`CREATE TABLE IF NOT EXISTS cohort_task_states (
		tenant_id        TEXT NOT NULL,
		cohort_id        TEXT NOT NULL REFERENCES cohorts(id) ON DELETE CASCADE,
		template_task_id TEXT NOT NULL,
		label            TEXT NOT NULL DEFAULT '',
		day_index        INTEGER NOT NULL,
		date             TEXT NOT NULL,
		completed_count  INTEGER NOT NULL DEFAULT 0,
		eligible_count   INTEGER NOT NULL DEFAULT 0,
		completion_rate  REAL NOT NULL DEFAULT 0,
		threshold_met    INTEGER NOT NULL DEFAULT 0,
		updated_at       TEXT NOT NULL,
		PRIMARY KEY (tenant_id, cohort_id, template_task_id, day_index)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cohort_task_states_day ON cohort_task_states(tenant_id, cohort_id, day_index)`,

	// Record day plans built from a template's own indices because the
	// cohort calendar had no matching week.
	`ALTER TABLE cohort_day_plans ADD COLUMN degraded INTEGER NOT NULL DEFAULT 0`,
}
