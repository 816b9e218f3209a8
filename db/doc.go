// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL is portable across the two supported engines (SQLite via
modernc.org/sqlite and PostgreSQL via lib/pq).

# Tables

The schema includes a single table:

  - vote_ledger: one row per (item, fingerprint) pair

The composite primary key (item_id, fingerprint) is the sole
duplicate-prevention mechanism: inserting a vote that already exists fails
the constraint, and the handler interprets that as "already loved". The
authoritative count for an item is simply the number of its rows.

# Telemetry Columns

browser, os, device_type, ip_hash, country, platform, language, and
timezone record coarse device/geo context for abuse analysis. They are
nullable, best-effort, and never participate in the uniqueness key.

# Indexes

Performance indexes on:

  - vote_ledger.fingerprint (registry hydration reads)
  - vote_ledger.item_type (top-items listing)
*/
package db
