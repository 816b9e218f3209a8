// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/aniheart/cliparse"
	"github.com/danielhkuo/aniheart/handlers"
	"github.com/danielhkuo/aniheart/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	voteHandler := handlers.NewVoteHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Vote operations (public, fingerprint-identified)
	mux.HandleFunc("POST /vote", middleware.WithLogging(voteHandler.Toggle))
	mux.HandleFunc("GET /vote", middleware.WithLogging(voteHandler.Registry))
	mux.HandleFunc("GET /vote/{itemId}", middleware.WithLogging(voteHandler.ItemState))

	// Catalog reads (public)
	mux.HandleFunc("GET /items/top", middleware.WithLogging(catalogHandler.TopItems))
	mux.HandleFunc("GET /stats", middleware.WithLogging(catalogHandler.Stats))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("aniheart API v1"))
	})

	return mux
}
