// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/aniheart/cliparse"
	"github.com/danielhkuo/aniheart/middleware"
	"github.com/danielhkuo/aniheart/models"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

type CatalogHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCatalogHandler(db *sql.DB, cfg cliparse.Config) *CatalogHandler {
	return &CatalogHandler{db: db, cfg: cfg}
}

// TopItems handles GET /items/top?limit=<n>
// Returns items ranked by like count, for the catalog's "most loved" rail.
func (h *CatalogHandler) TopItems(w http.ResponseWriter, r *http.Request) {
	limit := defaultTopLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if n > maxTopLimit {
			n = maxTopLimit
		}
		limit = n
	}

	rows, err := h.db.Query(`
		SELECT item_id, item_type, COUNT(*) AS likes
		FROM vote_ledger
		GROUP BY item_id, item_type
		ORDER BY likes DESC, item_id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		slog.Error("failed to query top items", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	items := []models.TopItem{}
	for rows.Next() {
		var item models.TopItem
		if err := rows.Scan(&item.ItemID, &item.ItemType, &item.Count); err != nil {
			slog.Error("failed to scan top item", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		slog.Error("top items iteration failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TopItemsResponse{Items: items})
}

// Stats handles GET /stats
// Ledger-wide totals for the docs/landing page counters.
func (h *CatalogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var resp models.StatsResponse
	err := h.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(DISTINCT item_id),
		       COUNT(DISTINCT fingerprint)
		FROM vote_ledger
	`).Scan(&resp.TotalVotes, &resp.TotalItems, &resp.TotalDevices)
	if err != nil {
		slog.Error("failed to query stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp.TotalDisplay = humanize.Comma(int64(resp.TotalVotes)) + " likes"

	middleware.JSONResponse(w, http.StatusOK, resp)
}
