// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package toggle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/aniheart/fingerprint"
	"github.com/danielhkuo/aniheart/models"
	"github.com/danielhkuo/aniheart/votecache"
)

// State is the controller's position in the toggle lifecycle.
type State int

const (
	Idle State = iota
	Pending
	Settled
	RolledBack
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Settled:
		return "settled"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// ErrPending is returned when a click arrives while a toggle is already in
// flight. Only one toggle per controller may be outstanding.
var ErrPending = errors.New("toggle already in flight")

// Service is the slice of the protocol client the controller needs.
// *voteclient.Client satisfies it.
type Service interface {
	Toggle(ctx context.Context, req models.ToggleVoteRequest) (models.VoteState, error)
	ItemState(ctx context.Context, itemID, fp string) (models.VoteState, error)
}

// Snapshot is what a like button renders from. HasFetched distinguishes a
// real zero from "authoritative data still outstanding" so the label can
// be dimmed while loading.
type Snapshot struct {
	Count      int
	Loved      bool
	HasFetched bool
	State      State
}

// Controller drives one item's like button: optimistic flip on click,
// reconcile with the server's answer, roll back on failure. One controller
// per mounted button instance.
type Controller struct {
	itemID     string
	itemType   string
	device     fingerprint.Result
	uaHash     string
	deviceInfo models.DeviceInfo
	cache      *votecache.Cache
	svc        Service
	timeout    time.Duration

	mu         sync.Mutex
	state      State
	count      int
	loved      bool
	hasFetched bool
	hydrated   bool
}

type Option func(*Controller)

// WithTimeout bounds the toggle and hydration requests. The default is
// voteclient's 10s; tests shrink it.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithUserAgentHash attaches the informational user-agent hash to toggle
// requests.
func WithUserAgentHash(h string) Option {
	return func(c *Controller) { c.uaHash = h }
}

// WithDeviceInfo attaches client-reported device context to toggle
// requests (telemetry only).
func WithDeviceInfo(info models.DeviceInfo) Option {
	return func(c *Controller) { c.deviceInfo = info }
}

// New seeds the controller from the local cache. If the cache has no
// entry, the button starts at a dimmed zero until Preload or Hydrate
// supplies authoritative data.
func New(itemID, itemType string, device fingerprint.Result, cache *votecache.Cache, svc Service, opts ...Option) *Controller {
	c := &Controller{
		itemID:   itemID,
		itemType: itemType,
		device:   device,
		cache:    cache,
		svc:      svc,
		timeout:  10 * time.Second,
		state:    Idle,
	}
	for _, opt := range opts {
		opt(c)
	}

	if item, ok := cache.Item(itemID); ok {
		c.count = item.Count
		c.loved = item.Loved
		c.hasFetched = true
	}
	return c
}

// Snapshot returns the current render state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Count:      c.count,
		Loved:      c.loved,
		HasFetched: c.hasFetched,
		State:      c.state,
	}
}

// Preload supplies authoritative state from a parent list render. It
// skips the background hydration fetch and patches the cache with the
// fresher count.
func (c *Controller) Preload(count int, loved bool) {
	c.mu.Lock()
	if c.state == Pending {
		// Never stomp an in-flight optimistic flip
		c.mu.Unlock()
		return
	}
	c.count = count
	c.loved = loved
	c.hasFetched = true
	c.hydrated = true
	c.mu.Unlock()

	if _, err := c.cache.UpdateItem(c.itemID, votecache.Patch{
		Count: votecache.IntP(count),
		Loved: votecache.BoolP(loved),
	}); err != nil {
		slog.Warn("failed to cache preloaded vote state", "error", err, "item_id", c.itemID)
	}
}

// Click flips loved and count optimistically, persists the flip to the
// cache, then performs the toggle request. On success the server's answer
// is adopted wholesale; if the server disagrees with the flip (a lost
// race), its value wins without a second count adjustment. On failure both
// the controller and the cache are restored to the exact pre-click pair.
//
// The optimistic flip is visible through Snapshot before the request
// resolves; callers run Click off the render path. A second click while
// Pending returns ErrPending and changes nothing.
func (c *Controller) Click(ctx context.Context) error {
	c.mu.Lock()
	if c.state == Pending {
		c.mu.Unlock()
		return ErrPending
	}

	prevCount, prevLoved := c.count, c.loved

	c.loved = !prevLoved
	if c.loved {
		c.count = prevCount + 1
	} else if prevCount > 0 {
		c.count = prevCount - 1
	} else {
		c.count = 0
	}
	optCount, optLoved := c.count, c.loved
	c.state = Pending
	c.mu.Unlock()

	if _, err := c.cache.UpdateItem(c.itemID, votecache.Patch{
		Count:     votecache.IntP(optCount),
		Loved:     votecache.BoolP(optLoved),
		Timestamp: votecache.Int64P(time.Now().UnixMilli()),
	}); err != nil {
		slog.Warn("failed to cache optimistic vote state", "error", err, "item_id", c.itemID)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	state, err := c.svc.Toggle(reqCtx, models.ToggleVoteRequest{
		ItemID:            c.itemID,
		ItemType:          c.itemType,
		Fingerprint:       c.device.Fingerprint,
		FingerprintMethod: c.device.Method,
		UserAgentHash:     c.uaHash,
		DeviceInfo:        c.deviceInfo,
	})
	if err != nil {
		// Silent rollback: the heart reverts, no dialog. The cache must
		// never be left holding the optimistic-but-unconfirmed pair.
		c.mu.Lock()
		c.count, c.loved = prevCount, prevLoved
		c.state = RolledBack
		c.mu.Unlock()

		if _, cacheErr := c.cache.UpdateItem(c.itemID, votecache.Patch{
			Count: votecache.IntP(prevCount),
			Loved: votecache.BoolP(prevLoved),
		}); cacheErr != nil {
			slog.Warn("failed to restore cached vote state", "error", cacheErr, "item_id", c.itemID)
		}

		slog.Warn("vote toggle failed, rolled back", "error", err, "item_id", c.itemID)
		return err
	}

	c.mu.Lock()
	c.count, c.loved = state.Count, state.Loved
	c.hasFetched = true
	c.state = Settled
	c.mu.Unlock()

	if _, err := c.cache.UpdateItem(c.itemID, votecache.Patch{
		Count: votecache.IntP(state.Count),
		Loved: votecache.BoolP(state.Loved),
	}); err != nil {
		slog.Warn("failed to cache settled vote state", "error", err, "item_id", c.itemID)
	}
	return nil
}

// Hydrate fetches the authoritative {count, loved} for this item once per
// controller and merges it into both the controller and the cache. It is
// a no-op when Preload already supplied state, and it never blocks or
// reorders the click flow.
func (c *Controller) Hydrate(ctx context.Context) error {
	c.mu.Lock()
	if c.hydrated {
		c.mu.Unlock()
		return nil
	}
	c.hydrated = true
	c.mu.Unlock()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	state, err := c.svc.ItemState(reqCtx, c.itemID, c.device.Fingerprint)
	if err != nil {
		slog.Warn("vote hydration failed", "error", err, "item_id", c.itemID)
		return err
	}

	c.mu.Lock()
	if c.state != Pending {
		c.count = state.Count
		c.loved = state.Loved
	}
	c.hasFetched = true
	c.mu.Unlock()

	if err := c.cache.Merge(votecache.Registry{
		c.itemID: {Count: state.Count, Loved: state.Loved},
	}); err != nil {
		slog.Warn("failed to merge hydrated vote state", "error", err, "item_id", c.itemID)
	}
	return nil
}
