package kv

// migration holds a single schema step and the version it brings the
// database to.
type migration struct {
	version int
	sql     string
}

// migrations must stay sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS kv (
	name       TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS kv_quarantine (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	name           TEXT NOT NULL,
	value          BLOB NOT NULL,
	quarantined_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_kv_quarantine_name ON kv_quarantine(name);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
