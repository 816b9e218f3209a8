// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package toggle is the optimistic controller behind a like button.

Each mounted button owns one Controller. A click flips {count, loved} in
place, persists the flip to the local vote cache, and only then talks to
the server:

	Idle → Pending → Settled      (server confirmed, its answer adopted)
	Idle → Pending → RolledBack   (transport failure, pre-click pair restored)

The optimistic flip is visible through Snapshot synchronously; Click
performs the network round trip in the calling goroutine, so UIs invoke
it off the render path. Clicks while Pending return ErrPending: one
in-flight toggle per button, no interleaved flips.

When the server's loved disagrees with the optimistic flip (a race lost to
another tab), the server's {count, loved} is adopted wholesale rather than
re-adjusting the count a second time.

Hydrate runs once per controller: it fetches the item's authoritative
state and merges it into the controller and cache, unless Preload already
supplied state from a parent list. Failures roll back silently; voting
is low-stakes and never earns a dialog.

Two controllers for the same item in one process race last-writer-wins on
the shared cache blob. Accepted, not guarded; see the package tests.
*/
package toggle
