// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voteclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/aniheart/models"
)

func TestToggle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/vote", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.ToggleVoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ext-123", req.ItemID)
		assert.Equal(t, "fp-abc", req.Fingerprint)

		json.NewEncoder(w).Encode(models.VoteState{Count: 11, Loved: true})
	}))
	defer srv.Close()

	client := New(srv.URL)
	state, err := client.Toggle(context.Background(), models.ToggleVoteRequest{
		ItemID:      "ext-123",
		ItemType:    models.ItemTypeExtension,
		Fingerprint: "fp-abc",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VoteState{Count: 11, Loved: true}, state)
}

func TestToggleServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Internal Server Error", Message: "Database error"})
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Toggle(context.Background(), models.ToggleVoteRequest{ItemID: "x"})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "Database error", statusErr.Message)
}

func TestRegistry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vote", r.URL.Path)
		require.Equal(t, "fp abc", r.URL.Query().Get("fingerprint"))

		json.NewEncoder(w).Encode(models.RegistryResponse{
			"A": {Count: 3, Loved: true},
			"B": {Count: 1, Loved: true},
		})
	}))
	defer srv.Close()

	client := New(srv.URL)
	reg, err := client.Registry(context.Background(), "fp abc")
	require.NoError(t, err)
	assert.Len(t, reg, 2)
	assert.Equal(t, models.VoteState{Count: 3, Loved: true}, reg["A"])
}

func TestItemState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vote/ext-123", r.URL.Path)
		require.Equal(t, "fp-abc", r.URL.Query().Get("fingerprint"))

		json.NewEncoder(w).Encode(models.VoteState{Count: 10, Loved: false})
	}))
	defer srv.Close()

	client := New(srv.URL)
	state, err := client.ItemState(context.Background(), "ext-123", "fp-abc")
	require.NoError(t, err)
	assert.Equal(t, models.VoteState{Count: 10, Loved: false}, state)
}

func TestContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	client := New(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Toggle(ctx, models.ToggleVoteRequest{ItemID: "x"})
	require.Error(t, err)
}

func TestWithTimeoutLeavesInjectedClientAlone(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	hc := &http.Client{}

	// Either option order: the caller's client is never mutated and the
	// timeout still bounds the request.
	for _, client := range []*Client{
		New(srv.URL, WithHTTPClient(hc), WithTimeout(50*time.Millisecond)),
		New(srv.URL, WithTimeout(50*time.Millisecond), WithHTTPClient(hc)),
	} {
		_, err := client.Toggle(context.Background(), models.ToggleVoteRequest{ItemID: "x"})
		require.Error(t, err)
	}

	assert.Zero(t, hc.Timeout, "injected client's Timeout must not be modified")
}

func TestBaseURLTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vote", r.URL.Path)
		json.NewEncoder(w).Encode(models.RegistryResponse{})
	}))
	defer srv.Close()

	client := New(srv.URL + "/")
	_, err := client.Registry(context.Background(), "fp")
	require.NoError(t, err)
}
