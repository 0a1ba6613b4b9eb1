// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ident mints identifiers and filename-safe names.

Session ids come from UUIDv7, which combines a millisecond timestamp with
random bits — time-ordered, unpredictable, and collision-safe for a
single-process registry.

SanitizeName turns a participant name into the form embedded in stored
result filenames.
*/
package ident
