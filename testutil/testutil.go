// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/aniheart/cliparse"
	"github.com/danielhkuo/aniheart/db"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each call returns an isolated database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// A single connection keeps the in-memory database alive and serializes
	// concurrent test requests the way SQLite itself would.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         4117,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		IPHashSalt:   "test-ip-salt",
	}
}

// InsertTestVote writes a ledger row directly, bypassing the handler
func InsertTestVote(t *testing.T, conn *sql.DB, itemID, itemType, fingerprint string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote_ledger (item_id, item_type, fingerprint, created_at)
		VALUES ($1, $2, $3, $4)
	`, itemID, itemType, fingerprint, time.Now())
	if err != nil {
		t.Fatalf("Failed to insert test vote: %v", err)
	}
}

// CountVotes returns the ledger row count for an item
func CountVotes(t *testing.T, conn *sql.DB, itemID string) int {
	t.Helper()

	var count int
	if err := conn.QueryRow(`
		SELECT COUNT(*) FROM vote_ledger WHERE item_id = $1
	`, itemID).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return count
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
