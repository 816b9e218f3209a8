// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/danielhkuo/aniheart/db"
	"github.com/danielhkuo/aniheart/models"
	"github.com/danielhkuo/aniheart/testutil"
)

// countFailConnector opens an in-memory SQLite connection that starts
// failing COUNT reads as soon as one ledger insert has gone through,
// simulating a database that degrades mid-request.
type countFailConnector struct {
	inner driver.Driver
	state *countFailState
}

type countFailState struct {
	mu       sync.Mutex
	inserted bool
}

func (s *countFailState) observe(query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.Contains(query, "INSERT INTO vote_ledger") {
		s.inserted = true
	}
	if s.inserted && strings.Contains(query, "SELECT COUNT") {
		return errors.New("simulated count read failure")
	}
	return nil
}

func (c *countFailConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := c.inner.Open(":memory:")
	if err != nil {
		return nil, err
	}
	return &countFailConn{Conn: conn, state: c.state}, nil
}

func (c *countFailConnector) Driver() driver.Driver { return c.inner }

// countFailConn inspects every statement before handing it to the real
// connection.
type countFailConn struct {
	driver.Conn
	state *countFailState
}

func (c *countFailConn) Prepare(query string) (driver.Stmt, error) {
	if err := c.state.observe(query); err != nil {
		return nil, err
	}
	return c.Conn.Prepare(query)
}

func (c *countFailConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if err := c.state.observe(query); err != nil {
		return nil, err
	}
	if e, ok := c.Conn.(driver.ExecerContext); ok {
		return e.ExecContext(ctx, query, args)
	}
	return nil, driver.ErrSkip
}

func (c *countFailConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if err := c.state.observe(query); err != nil {
		return nil, err
	}
	if q, ok := c.Conn.(driver.QueryerContext); ok {
		return q.QueryContext(ctx, query, args)
	}
	return nil, driver.ErrSkip
}

// TestToggleSucceedsWhenCountReadFails pins the availability contract: a
// successful row mutation followed by a failed count re-read still answers
// 200 with the count derived from the pre-read, never a 5xx.
func TestToggleSucceedsWhenCountReadFails(t *testing.T) {
	base, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open base database: %v", err)
	}
	inner := base.Driver()
	base.Close()

	conn := sql.OpenDB(&countFailConnector{inner: inner, state: &countFailState{}})
	conn.SetMaxOpenConns(1)
	defer conn.Close()

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	handler := NewVoteHandler(conn, testutil.GetTestConfig())

	// Love: the pre-read sees 0, the insert lands, then the re-read fails.
	// The handler answers from the derived count instead of erroring.
	req := testutil.MakeRequest("POST", "/vote", toggleReq("ext-1", "extension", "fp-a"), nil)
	w := httptest.NewRecorder()
	handler.Toggle(w, req)

	testutil.AssertStatus(t, w, 200)
	var state models.VoteState
	testutil.AssertJSON(t, w, &state)
	if state.Count != 1 || !state.Loved {
		t.Errorf("Expected {1, true}, got {%d, %v}", state.Count, state.Loved)
	}

	// Un-love: now even the pre-read fails. The delete still resolves the
	// toggle and the response stays 200 with this fingerprint's own
	// contribution gone.
	req = testutil.MakeRequest("POST", "/vote", toggleReq("ext-1", "extension", "fp-a"), nil)
	w = httptest.NewRecorder()
	handler.Toggle(w, req)

	testutil.AssertStatus(t, w, 200)
	testutil.AssertJSON(t, w, &state)
	if state.Count != 0 || state.Loved {
		t.Errorf("Expected {0, false}, got {%d, %v}", state.Count, state.Loved)
	}
}
