// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - ToggleVoteRequest: itemId, itemType, fingerprint, fingerprintMethod,
    userAgentHash, deviceInfo
  - DeviceInfo: client-reported platform/locale/hardware context

# Response Types

Types for JSON responses:

  - VoteState: count, loved
  - RegistryResponse: map of item ID to VoteState
  - TopItemsResponse: items ranked by like count
  - StatsResponse: ledger totals with a humanized display string
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - LedgerRow: one (item, fingerprint) vote row plus telemetry

Fingerprint, user-agent hash, and IP hash are never serialized outward.

# Constants

Item types:

	ItemTypeApp       = "app"
	ItemTypeExtension = "extension"

Fingerprint methods:

	MethodLegacyLocalStorage = "legacy_local_storage"
	MethodCanvasHardware     = "canvas+hardware"
*/
package models
