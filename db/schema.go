// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The statements are portable across SQLite and PostgreSQL.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Vote ledger: one row per (item, fingerprint) pair. The composite
-- primary key is the only duplicate-prevention mechanism in the system.
-- Row present = loved; row absent = not loved. Everything after
-- fingerprint_method is telemetry for abuse analysis and never gates
-- the vote.
CREATE TABLE IF NOT EXISTS vote_ledger (
    item_id TEXT NOT NULL,
    item_type TEXT NOT NULL DEFAULT 'app',
    fingerprint TEXT NOT NULL,
    fingerprint_method TEXT,
    user_agent_hash TEXT,
    browser TEXT,
    os TEXT,
    device_type TEXT,
    ip_hash TEXT,
    country TEXT,
    platform TEXT,
    language TEXT,
    timezone TEXT,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (item_id, fingerprint)
);

CREATE INDEX IF NOT EXISTS idx_vote_ledger_fingerprint ON vote_ledger(fingerprint);
CREATE INDEX IF NOT EXISTS idx_vote_ledger_item_type ON vote_ledger(item_type);
`
