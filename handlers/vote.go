// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/aniheart/cliparse"
	"github.com/danielhkuo/aniheart/middleware"
	"github.com/danielhkuo/aniheart/models"
)

type VoteHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg}
}

// Toggle handles POST /vote
// Flips the (item, fingerprint) ledger row: delete if present, insert if
// absent. Returns the fresh authoritative {count, loved} for the item.
func (h *VoteHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req models.ToggleVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ItemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "itemId is required")
		return
	}
	if !isValidItemType(req.ItemType) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "itemType must be one of: app, extension")
		return
	}
	if req.Fingerprint == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "fingerprint is required")
		return
	}

	// Best-effort pre-read so a failed count re-read after the mutation can
	// still produce a sensible response (availability over telemetry).
	preCount := -1
	if err := h.db.QueryRow(`
		SELECT COUNT(*) FROM vote_ledger WHERE item_id = $1
	`, req.ItemID).Scan(&preCount); err != nil {
		slog.Warn("pre-toggle count read failed", "error", err, "item_id", req.ItemID)
		preCount = -1
	}

	// Un-vote first: if a row goes away, this fingerprint had loved the item.
	res, err := h.db.Exec(`
		DELETE FROM vote_ledger WHERE item_id = $1 AND fingerprint = $2
	`, req.ItemID, req.Fingerprint)
	if err != nil {
		slog.Error("failed to delete vote", "error", err, "item_id", req.ItemID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	removed, _ := res.RowsAffected()

	loved := false
	inserted := false
	if removed == 0 {
		row := newLedgerRow(req, collectTelemetry(r, req, h.cfg.IPHashSalt))

		// Insert = vote. The composite primary key makes this race-safe:
		// a concurrent toggle that wins the insert leaves us with a
		// uniqueness violation, which means the row exists and this
		// fingerprint is already counted.
		_, err = h.db.Exec(`
			INSERT INTO vote_ledger (
				item_id, item_type, fingerprint, fingerprint_method,
				user_agent_hash, browser, os, device_type, ip_hash, country,
				platform, language, timezone, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`, row.ItemID, row.ItemType, row.Fingerprint, nullable(row.FingerprintMethod),
			row.UserAgentHash, row.Browser, row.OS, row.DeviceType, row.IPHash,
			row.Country, row.Platform, row.Language, row.Timezone, row.CreatedAt)

		if err != nil {
			if isUniqueViolation(err) {
				// Already loved; not an error
				loved = true
			} else {
				slog.Error("failed to insert vote", "error", err, "item_id", req.ItemID)
				middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register vote")
				return
			}
		} else {
			loved = true
			inserted = true
		}
	}

	// Fresh authoritative count. If this read fails after a successful
	// mutation, answer with the locally-known post-mutation state instead
	// of failing the toggle.
	var count int
	if err := h.db.QueryRow(`
		SELECT COUNT(*) FROM vote_ledger WHERE item_id = $1
	`, req.ItemID).Scan(&count); err != nil {
		slog.Warn("post-toggle count read failed", "error", err, "item_id", req.ItemID)
		count = derivedCount(preCount, removed > 0, inserted, loved)
	}

	slog.Info("vote toggled",
		"item_id", req.ItemID,
		"item_type", req.ItemType,
		"loved", loved,
		"count", count,
		"method", req.FingerprintMethod,
	)

	middleware.JSONResponse(w, http.StatusOK, models.VoteState{
		Count: count,
		Loved: loved,
	})
}

// Registry handles GET /vote?fingerprint=<fp>
// Returns {count, loved} for every item this fingerprint has loved, so the
// client can hydrate its local cache in one round trip.
func (h *VoteHandler) Registry(w http.ResponseWriter, r *http.Request) {
	fp := r.URL.Query().Get("fingerprint")
	if fp == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "fingerprint is required")
		return
	}

	rows, err := h.db.Query(`
		SELECT v.item_id,
		       (SELECT COUNT(*) FROM vote_ledger c WHERE c.item_id = v.item_id)
		FROM vote_ledger v
		WHERE v.fingerprint = $1
	`, fp)
	if err != nil {
		slog.Error("failed to query registry", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	registry := models.RegistryResponse{}
	for rows.Next() {
		var itemID string
		var count int
		if err := rows.Scan(&itemID, &count); err != nil {
			slog.Error("failed to scan registry row", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		registry[itemID] = models.VoteState{Count: count, Loved: true}
	}
	if err := rows.Err(); err != nil {
		slog.Error("registry iteration failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, registry)
}

// ItemState handles GET /vote/{itemId}?fingerprint=<fp>
// Single-item read used by the client's background hydration. The
// fingerprint is optional: without it, loved is always false.
func (h *VoteHandler) ItemState(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemId")
	if itemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "itemId is required")
		return
	}

	var count int
	if err := h.db.QueryRow(`
		SELECT COUNT(*) FROM vote_ledger WHERE item_id = $1
	`, itemID).Scan(&count); err != nil {
		slog.Error("failed to count votes", "error", err, "item_id", itemID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	loved := false
	if fp := r.URL.Query().Get("fingerprint"); fp != "" {
		if err := h.db.QueryRow(`
			SELECT EXISTS(
				SELECT 1 FROM vote_ledger
				WHERE item_id = $1 AND fingerprint = $2
			)
		`, itemID, fp).Scan(&loved); err != nil {
			slog.Error("failed to check loved state", "error", err, "item_id", itemID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteState{
		Count: count,
		Loved: loved,
	})
}

// derivedCount reconstructs the post-mutation count from the best-effort
// pre-read when the authoritative re-read is unavailable.
func derivedCount(preCount int, removed, inserted, loved bool) int {
	if preCount < 0 {
		// No pre-read either; the only thing known for sure is this
		// fingerprint's own contribution.
		if loved {
			return 1
		}
		return 0
	}
	switch {
	case inserted:
		return preCount + 1
	case removed:
		if preCount <= 0 {
			return 0
		}
		return preCount - 1
	default:
		// Conflict path: the row already existed, no net change.
		return preCount
	}
}

// isUniqueViolation matches the duplicate-key errors of both supported
// engines (SQLite and PostgreSQL)
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// newLedgerRow assembles the row Toggle inserts. Empty telemetry values
// become NULL columns, not empty strings.
func newLedgerRow(req models.ToggleVoteRequest, tel Telemetry) models.LedgerRow {
	return models.LedgerRow{
		ItemID:            req.ItemID,
		ItemType:          req.ItemType,
		Fingerprint:       req.Fingerprint,
		FingerprintMethod: req.FingerprintMethod,
		UserAgentHash:     strPtr(req.UserAgentHash),
		Browser:           strPtr(tel.Browser),
		OS:                strPtr(tel.OS),
		DeviceType:        strPtr(tel.DeviceType),
		IPHash:            strPtr(tel.IPHash),
		Country:           strPtr(tel.Country),
		Platform:          strPtr(req.DeviceInfo.Platform),
		Language:          strPtr(req.DeviceInfo.Language),
		Timezone:          strPtr(req.DeviceInfo.Timezone),
		CreatedAt:         time.Now(),
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isValidItemType(itemType string) bool {
	switch itemType {
	case models.ItemTypeApp, models.ItemTypeExtension:
		return true
	}
	return false
}
