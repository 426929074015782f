package storage

const (
	criteriaTable = "seo_criteria"
	membersTable  = "organization_members"
)

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS seo_criteria (
  id TEXT PRIMARY KEY,
  scope_kind TEXT NOT NULL,
  scope_id TEXT NOT NULL,
  criterion_key TEXT NOT NULL,
  label TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  icon TEXT NOT NULL DEFAULT '',
  max_points INTEGER NOT NULL,
  check_type TEXT NOT NULL,
  min_value REAL,
  max_value REAL,
  target_value REAL,
  enabled BOOLEAN NOT NULL DEFAULT 1,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  UNIQUE (scope_kind, scope_id, criterion_key)
)`,
	`CREATE TABLE IF NOT EXISTS organization_members (
  organization_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'member',
  joined_at INTEGER NOT NULL,
  PRIMARY KEY (organization_id, user_id)
)`,
	`CREATE INDEX IF NOT EXISTS organization_members_user_idx ON organization_members (user_id)`,
}

var schemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS seo_criteria (
  id TEXT PRIMARY KEY,
  scope_kind TEXT NOT NULL,
  scope_id TEXT NOT NULL,
  criterion_key TEXT NOT NULL,
  label TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  icon TEXT NOT NULL DEFAULT '',
  max_points INTEGER NOT NULL,
  check_type TEXT NOT NULL,
  min_value DOUBLE PRECISION,
  max_value DOUBLE PRECISION,
  target_value DOUBLE PRECISION,
  enabled BOOLEAN NOT NULL DEFAULT TRUE,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL,
  UNIQUE (scope_kind, scope_id, criterion_key)
)`,
	`CREATE TABLE IF NOT EXISTS organization_members (
  organization_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'member',
  joined_at BIGINT NOT NULL,
  PRIMARY KEY (organization_id, user_id)
)`,
	`CREATE INDEX IF NOT EXISTS organization_members_user_idx ON organization_members (user_id)`,
}

func schemaFor(driver string) []string {
	if driver == DriverSQLite {
		return schemaSQLite
	}
	return schemaPostgres
}
