// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voteclient is the HTTP client for the vote toggle protocol.

	client := voteclient.New("https://likes.example.app")
	state, err := client.Toggle(ctx, models.ToggleVoteRequest{...})

Three operations map one-to-one onto the server's endpoints: Toggle
(POST /vote), Registry (GET /vote?fingerprint=), and ItemState
(GET /vote/{itemId}). Non-2xx responses come back as *StatusError.

Every request carries a 10-second default timeout so an unresponsive
server can never pin the optimistic toggle in Pending indefinitely.
*/
package voteclient
