// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the aniheart vote API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - VoteHandler: vote toggling and registry/item reads
  - CatalogHandler: top-liked listings and ledger stats

Handlers are created via constructor functions that accept *sql.DB and Config:

	voteHandler := handlers.NewVoteHandler(db, cfg)

# Vote Flow

Anonymous devices identify themselves by fingerprint; there are no
accounts and no sessions:

	POST /vote            → Toggle (insert or delete the ledger row)
	GET  /vote?fingerprint= → Registry (hydrate the client cache)
	GET  /vote/{itemId}   → ItemState (single-item {count, loved})

A toggle deletes the (item, fingerprint) row if present, otherwise inserts
one. The composite primary key is the only duplicate-prevention mechanism;
a uniqueness violation on insert means a concurrent toggle won the race and
is reported as "already loved", not as an error.

If the count re-read after a successful mutation fails, the handler
responds with the locally-derived post-mutation count instead of failing:
the user-facing toggle favors availability over precision.

# Catalog Reads

	GET /items/top?limit= → TopItems (ranked by like count)
	GET /stats            → Stats (humanized ledger totals)

# Telemetry

Each inserted row records coarse browser/OS/device classification from the
User-Agent (ClassifyUserAgent), a salted IP hash, and edge-provided
country. All of it is best-effort and never gates the vote.
*/
package handlers
