// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pool holds the item pool and the balanced sample allocator.

# Balancing

Every session draws a fixed-size sample. SelectSample ranks items by how
often they have already been handed out (ascending, random tie-break), takes
the k least-assigned, bumps their counters, and shuffles the result. Over
many sessions every item accumulates roughly the same number of ratings: at
any point the max-min counter spread stays within one, modulo the running
tail when k does not divide evenly.

# Concurrency

Selection and counter increment are one critical section. The counter map is
never exposed for read-then-write by callers; Stats returns a copy.
*/
package pool
