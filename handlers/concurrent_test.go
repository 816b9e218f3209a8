// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/aniheart/testutil"
)

// TestConcurrentTogglesSameFingerprint verifies the no-double-count
// property: two simultaneous toggles from the same fingerprint never
// leave two rows. Depending on interleaving the net result is either one
// full toggle cycle (0 rows) or one vote (1 row, the second request
// hitting the conflict-as-already-loved path), never 2.
func TestConcurrentTogglesSameFingerprint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewVoteHandler(db, testutil.GetTestConfig())

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/vote", toggleReq("ext-race", "extension", "fp-same"), nil)
			w := httptest.NewRecorder()
			handler.Toggle(w, req)

			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	// Both requests must succeed: a duplicate-insert race is "already
	// loved", not an error
	if successCount.Load() != 2 {
		t.Errorf("Expected 2 successful toggles, got %d", successCount.Load())
	}

	rows := testutil.CountVotes(t, db, "ext-race")
	if rows > 1 {
		t.Errorf("Double count: expected at most 1 ledger row, got %d", rows)
	}
}

// TestConcurrentTogglesDistinctFingerprints verifies that simultaneous
// votes from different devices don't corrupt each other
func TestConcurrentTogglesDistinctFingerprints(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewVoteHandler(db, testutil.GetTestConfig())

	numDevices := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numDevices; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			fp := "fp-device-" + strconv.Itoa(idx)
			req := testutil.MakeRequest("POST", "/vote", toggleReq("app-popular", "app", fp), nil)
			w := httptest.NewRecorder()
			handler.Toggle(w, req)

			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numDevices {
		t.Errorf("Expected %d successful toggles, got %d", numDevices, successCount.Load())
	}

	if rows := testutil.CountVotes(t, db, "app-popular"); rows != numDevices {
		t.Errorf("Expected %d ledger rows, got %d", numDevices, rows)
	}

	// Verify no duplicate fingerprints slipped in
	var uniqueDevices int
	err := db.QueryRow(`
		SELECT COUNT(DISTINCT fingerprint) FROM vote_ledger WHERE item_id = $1
	`, "app-popular").Scan(&uniqueDevices)
	if err != nil {
		t.Fatalf("Failed to count fingerprints: %v", err)
	}
	if uniqueDevices != numDevices {
		t.Errorf("Expected %d unique fingerprints, got %d", numDevices, uniqueDevices)
	}
}

// TestConcurrentTogglesAcrossItems verifies operations on different items
// don't interfere
func TestConcurrentTogglesAcrossItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewVoteHandler(db, testutil.GetTestConfig())

	numItems := 5
	var wg sync.WaitGroup

	for i := 0; i < numItems; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			itemID := "item-" + strconv.Itoa(idx)
			req := testutil.MakeRequest("POST", "/vote", toggleReq(itemID, "app", "fp-shared"), nil)
			w := httptest.NewRecorder()
			handler.Toggle(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Toggle for %s failed: %d", itemID, w.Code)
			}
		}(i)
	}

	wg.Wait()

	for i := 0; i < numItems; i++ {
		itemID := "item-" + strconv.Itoa(i)
		if rows := testutil.CountVotes(t, db, itemID); rows != 1 {
			t.Errorf("Expected 1 row for %s, got %d", itemID, rows)
		}
	}
}
