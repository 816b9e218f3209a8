// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the aniheart vote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Voting (public, fingerprint-identified, no accounts):

	POST /vote          - Toggle a like for (itemId, fingerprint)
	GET  /vote          - Registry for a fingerprint (?fingerprint=)
	GET  /vote/{itemId} - Single-item {count, loved}

Catalog reads (public):

	GET /items/top - Items ranked by like count (?limit=)
	GET /stats     - Ledger totals

# Handler Initialization

The router creates handler instances with dependency injection:

	voteHandler := handlers.NewVoteHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
