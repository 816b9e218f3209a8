// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package fingerprint

import (
	"encoding/base64"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/aniheart/ident"
	"github.com/danielhkuo/aniheart/models"
)

// LegacyKey is the durable-storage key older clients minted a random
// identifier under. Any value found here wins over hash derivation.
const LegacyKey = "device_fingerprint"

// Fixed probe rendered by the canvas step. The exact bytes don't matter;
// stability across calls on the same device does.
const (
	probeText  = "aniheart likes you <3"
	probeStyle = "14px Arial|#f60|rgba(102,204,0,0.7)"
)

// Storage is the durable client-side KV the generator reads the legacy
// identifier from. localstore.Store and localstore.Mem both satisfy it.
type Storage interface {
	Get(key string) ([]byte, error)
	Put(key string, val []byte) error
}

// Signals are the hardware/locale inputs to the derived fingerprint.
// Zero values are legitimate degraded readings, never an error.
type Signals struct {
	Cores       int
	ScreenW     int
	ScreenH     int
	ColorDepth  int
	TouchPoints int
	Language    string
	Timezone    string
	Platform    string
}

// descriptor pipe-joins the signals in a fixed order.
func (s Signals) descriptor() string {
	return strings.Join([]string{
		strconv.Itoa(s.Cores),
		strconv.Itoa(s.ScreenW),
		strconv.Itoa(s.ScreenH),
		strconv.Itoa(s.ColorDepth),
		strconv.Itoa(s.TouchPoints),
		s.Language,
		s.Timezone,
		s.Platform,
	}, "|")
}

// CanvasFunc serializes the rendered probe to a data URL. A failure is
// absorbed as an empty string by the generator.
type CanvasFunc func() (string, error)

// Result is a resolved device fingerprint and the method that produced it.
type Result struct {
	Fingerprint string
	Method      string
}

// Generator resolves a stable pseudo-anonymous device identifier. The
// result is memoized for the generator's lifetime (one page session).
type Generator struct {
	store   Storage
	canvas  CanvasFunc
	signals func() Signals

	mu     sync.Mutex
	cached *Result
}

type Option func(*Generator)

// WithCanvas overrides the canvas renderer (tests, embedded webviews).
func WithCanvas(fn CanvasFunc) Option {
	return func(g *Generator) { g.canvas = fn }
}

// WithSignals overrides the hardware/locale signal source.
func WithSignals(fn func() Signals) Option {
	return func(g *Generator) { g.signals = fn }
}

func New(store Storage, opts ...Option) *Generator {
	g := &Generator{
		store:   store,
		canvas:  defaultCanvas,
		signals: HostSignals,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Device resolves the fingerprint. It always succeeds: a stored legacy
// identifier is returned verbatim with no derivation work; otherwise every
// failed input degrades to an empty component and the concatenation is
// hashed. Collisions across devices are an accepted trust trade-off.
func (g *Generator) Device() Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cached != nil {
		return *g.cached
	}

	// Legacy identifiers short-circuit derivation entirely. Storage errors
	// are treated as "no legacy ID".
	if v, err := g.store.Get(LegacyKey); err == nil && len(v) > 0 {
		g.cached = &Result{
			Fingerprint: string(v),
			Method:      models.MethodLegacyLocalStorage,
		}
		return *g.cached
	}

	canvasData, err := g.canvas()
	if err != nil {
		canvasData = ""
	}

	digest := canvasData + "|" + g.signals().descriptor()

	g.cached = &Result{
		Fingerprint: ident.SHA256Hex(digest),
		Method:      models.MethodCanvasHardware,
	}
	return *g.cached
}

// MintLegacy mints a fresh legacy identifier, persists it under LegacyKey,
// and makes it the generator's resolved fingerprint. Only used by clients
// that predate hash derivation (kept for backward compatibility).
func (g *Generator) MintLegacy() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := ident.MintLegacyID()
	if err := g.store.Put(LegacyKey, []byte(id)); err != nil {
		return "", err
	}

	g.cached = &Result{
		Fingerprint: id,
		Method:      models.MethodLegacyLocalStorage,
	}
	return id, nil
}

// UserAgentHash hashes the raw user-agent string for optional secondary
// verification server-side. Informational only; not part of the
// uniqueness key.
func UserAgentHash(ua string) string {
	return ident.SHA256Hex(ua)
}

// defaultCanvas deterministically serializes the fixed probe text and
// styling as a data URL. Hosts with a real rendering surface inject their
// own CanvasFunc.
func defaultCanvas() (string, error) {
	payload := probeStyle + "|" + probeText
	return "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte(payload)), nil
}

// HostSignals collects hardware/locale signals from the running host.
// Readings the host cannot provide stay at their zero values.
func HostSignals() Signals {
	lang := os.Getenv("LANG")
	if lang == "" {
		lang = os.Getenv("LC_ALL")
	}
	zone, _ := time.Now().Zone()

	return Signals{
		Cores:    runtime.NumCPU(),
		Language: lang,
		Timezone: zone,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
}
