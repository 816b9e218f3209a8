// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strings"

	"github.com/danielhkuo/aniheart/ident"
	"github.com/danielhkuo/aniheart/middleware"
	"github.com/danielhkuo/aniheart/models"
)

// Telemetry is the coarse device/geo context recorded alongside a vote row.
// It exists for abuse analysis only and must never gate the vote itself.
type Telemetry struct {
	Browser    string
	OS         string
	DeviceType string
	IPHash     string
	Country    string
}

// collectTelemetry derives best-effort telemetry from the request. Every
// field degrades to empty on missing input; this function cannot fail.
func collectTelemetry(r *http.Request, req models.ToggleVoteRequest, ipSalt string) Telemetry {
	var tel Telemetry

	tel.Browser, tel.OS, tel.DeviceType = ClassifyUserAgent(r.UserAgent())

	if ip := middleware.GetClientIP(r); ip != "" {
		tel.IPHash = ident.HashIP(ip, ipSalt)
	}
	tel.Country = middleware.GetCountry(r)

	// Client-reported platform beats UA sniffing when the UA gave nothing
	if tel.OS == "" && req.DeviceInfo.Platform != "" {
		tel.OS = req.DeviceInfo.Platform
	}

	return tel
}

// ClassifyUserAgent buckets a raw User-Agent string into coarse browser,
// OS, and device-type labels. Unknown or empty agents yield empty strings.
func ClassifyUserAgent(ua string) (browser, os, device string) {
	if ua == "" {
		return "", "", ""
	}
	lower := strings.ToLower(ua)

	// Order matters: Chrome's UA contains "safari", Edge's contains "chrome"
	switch {
	case strings.Contains(lower, "edg/"), strings.Contains(lower, "edge/"):
		browser = "edge"
	case strings.Contains(lower, "opr/"), strings.Contains(lower, "opera"):
		browser = "opera"
	case strings.Contains(lower, "firefox/"), strings.Contains(lower, "fxios"):
		browser = "firefox"
	case strings.Contains(lower, "chrome/"), strings.Contains(lower, "crios"):
		browser = "chrome"
	case strings.Contains(lower, "safari/"):
		browser = "safari"
	}

	// Android UAs contain "linux"; iPhone/iPad UAs contain "mac os x"
	switch {
	case strings.Contains(lower, "android"):
		os = "android"
	case strings.Contains(lower, "iphone"), strings.Contains(lower, "ipad"), strings.Contains(lower, "ipod"):
		os = "ios"
	case strings.Contains(lower, "windows"):
		os = "windows"
	case strings.Contains(lower, "mac os x"), strings.Contains(lower, "macintosh"):
		os = "macos"
	case strings.Contains(lower, "linux"):
		os = "linux"
	}

	switch {
	case strings.Contains(lower, "ipad"), strings.Contains(lower, "tablet"):
		device = "tablet"
	case strings.Contains(lower, "mobile"), strings.Contains(lower, "iphone"), strings.Contains(lower, "android"):
		device = "mobile"
	default:
		device = "desktop"
	}

	return browser, os, device
}
