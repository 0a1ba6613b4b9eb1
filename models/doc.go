// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response, and domain types shared across
the note-rater API.

# Wire Format

Field names match the original study client exactly (participantName,
sessionId, totalItems, data, message, filename). Conflict responses carry a
machine-readable code:

	{"error": "Conflict", "message": "...", "code": "DUPLICATE_NAME"}

# Items

Items are loaded from a read-only JSON array at startup. Each element is an
arbitrary object with a stable integer "index"; Item keeps the raw bytes so
unknown dataset fields survive the round trip to the client.

# Submissions

Submission is the durable record written when a session completes. It holds
the participant name, session timing, and the full response map — never the
assigned item content.
*/
package models
