// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP route table using Go 1.22+ method patterns
on the standard ServeMux.

Routes mirror the study client exactly:

	POST /api/start-session
	GET  /api/session/{id}/data
	POST /api/session/{id}/response
	POST /api/session/{id}/submit
	GET  /api/stats
	GET  /api/health

All session routes are wrapped with request logging; health stays unwrapped
so probes do not flood the log.
*/
package router
