// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the aniheart vote API server.

aniheart is the like-voting backend for an anime/manga app & extension
catalog. Devices are identified by a pseudo-anonymous fingerprint rather
than accounts; one ledger row per (item, fingerprint) pair is the vote.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=likes.db IP_HASH_SALT=... go run main.go

Or with flags:

	go run main.go -p 4117 -d "postgres://..." -t postgres

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - IP_HASH_SALT (-ip-salt): Secret for salted IP hashing

Optional settings:

  - PORT (-p): Server port (default: 4117)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)

A .env file in the working directory is loaded if present.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (vote toggle, registry, catalog reads)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, client IP/geo
  - models: Request/response types
  - ident: Fingerprint digests, legacy ID minting, IP hashing
  - db: Schema creation
  - cliparse: Configuration parsing

The client side of the voting protocol ships in the same module:

  - fingerprint: stable pseudo-anonymous device identification
  - localstore: durable client-side key/value storage (bbolt)
  - votecache: the device's local vote registry
  - voteclient: HTTP protocol client
  - toggle: optimistic like-button controller with rollback

See package documentation for each component.
*/
package main
