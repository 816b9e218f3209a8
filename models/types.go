package models

import "time"

// Item type constants
const (
	ItemTypeApp       = "app"
	ItemTypeExtension = "extension"
)

// Fingerprint method constants
const (
	MethodLegacyLocalStorage = "legacy_local_storage"
	MethodCanvasHardware     = "canvas+hardware"
)

// Request types

// DeviceInfo carries client-reported device context. Recorded for abuse
// analysis only; never part of the vote's uniqueness key.
type DeviceInfo struct {
	Platform    string `json:"platform,omitempty"`
	Language    string `json:"language,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Cores       int    `json:"cores,omitempty"`
	ScreenW     int    `json:"screen_w,omitempty"`
	ScreenH     int    `json:"screen_h,omitempty"`
	ColorDepth  int    `json:"color_depth,omitempty"`
	TouchPoints int    `json:"touch_points,omitempty"`
}

type ToggleVoteRequest struct {
	ItemID            string     `json:"itemId"`
	ItemType          string     `json:"itemType"`
	Fingerprint       string     `json:"fingerprint"`
	FingerprintMethod string     `json:"fingerprintMethod"`
	UserAgentHash     string     `json:"userAgentHash"`
	DeviceInfo        DeviceInfo `json:"deviceInfo"`
}

// Response types

// VoteState is the authoritative {count, loved} tuple for one item as seen
// by one fingerprint. Every card and detail view renders from this tuple.
type VoteState struct {
	Count int  `json:"count"`
	Loved bool `json:"loved"`
}

// RegistryResponse maps item ID to vote state for everything a fingerprint
// has loved. Used to hydrate the client cache in one round trip.
type RegistryResponse map[string]VoteState

type TopItem struct {
	ItemID   string `json:"item_id"`
	ItemType string `json:"item_type"`
	Count    int    `json:"count"`
}

type TopItemsResponse struct {
	Items []TopItem `json:"items"`
}

type StatsResponse struct {
	TotalVotes   int    `json:"total_votes"`
	TotalItems   int    `json:"total_items"`
	TotalDevices int    `json:"total_devices"`
	TotalDisplay string `json:"total_display"`
}

// Domain types

// LedgerRow is one (item, fingerprint) pair in the vote ledger. Its
// presence is the vote; everything past FingerprintMethod is telemetry.
// Field order matches the vote_ledger columns in db.CreateSchema.
type LedgerRow struct {
	ItemID            string    `json:"item_id"`
	ItemType          string    `json:"item_type"`
	Fingerprint       string    `json:"-"` // Never expose in JSON
	FingerprintMethod string    `json:"fingerprint_method"`
	UserAgentHash     *string   `json:"-"` // Never expose in JSON
	Browser           *string   `json:"browser,omitempty"`
	OS                *string   `json:"os,omitempty"`
	DeviceType        *string   `json:"device_type,omitempty"`
	IPHash            *string   `json:"-"` // Never expose in JSON
	Country           *string   `json:"country,omitempty"`
	Platform          *string   `json:"platform,omitempty"`
	Language          *string   `json:"language,omitempty"`
	Timezone          *string   `json:"timezone,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
