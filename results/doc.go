// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package results provides durable, append-only persistence for completed
session submissions.

Two backends implement Store:

  - FileStore (default): one session_<id>_<name>.json file per submission
    in a results directory
  - SQLStore: a submission table reachable through database/sql, with the
    same SQL text serving sqlite (modernc) and postgres (lib/pq)

On startup LoadIdentities rebuilds the participant-name ledger from whatever
records exist; corrupt records are skipped with a warning, never fatal.
Persist is synchronous — a completed submission is only acknowledged after
the sink confirms the write.
*/
package results
