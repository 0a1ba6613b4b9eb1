// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session manages per-participant survey sessions.

# Lifecycle

	Create -> Data / RecordResponse (repeatable) -> Submit -> grace delay -> eviction

Create enforces name uniqueness two ways: against the ledger of completed
sessions (rebuilt from the result store at startup) and against names held
by live sessions. A completed name is blocked permanently by design — one
person, one submission, no admin override.

After Submit the session lingers for a fixed grace delay so a late client
retry still finds it; the retry re-persists the record (last submit wins).
Eviction is fire-and-forget: if the process exits first nothing is lost,
because durability lives in the result store.
*/
package session
