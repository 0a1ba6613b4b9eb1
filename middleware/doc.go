// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

# Middleware

  - WithLogging: logs request start/completion with method, path, duration
  - CORS: allows cross-origin requests from the static study frontend

# JSON Helpers

  - JSONResponse: writes a JSON response with status code
  - ErrorResponse: writes a standard error body
  - ErrorResponseCode: error body plus a machine-readable conflict code
  - ParseJSONBody: decodes a request body into a struct

Handlers use these instead of touching encoding/json directly so every
response carries the same shape and content type.
*/
package middleware
