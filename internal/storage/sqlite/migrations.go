package sqlite

import "database/sql"

// schema sets up the database. It runs on every startup, so every statement
// must be idempotent.
//
// Tabs are stored as JSON documents; created_by and the timestamps are copied
// out of the document so tabs can be listed without decoding every row.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    venmo TEXT NOT NULL DEFAULT '',
    cashapp TEXT NOT NULL DEFAULT '',
    paypal TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tabs (
    id TEXT PRIMARY KEY,
    created_by TEXT NOT NULL DEFAULT '',
    doc TEXT NOT NULL,
    version INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS reward_entries (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    tab_id TEXT NOT NULL UNIQUE,
    tab_name TEXT NOT NULL,
    subtotal REAL NOT NULL,
    points_earned INTEGER NOT NULL,
    earned_at INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_tabs_created_by ON tabs(created_by, created_at);
CREATE INDEX IF NOT EXISTS idx_reward_entries_user_id ON reward_entries(user_id, earned_at);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
