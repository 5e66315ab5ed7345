// Package httputil provides JSON request and response helpers for the anchor
// HTTP API.
//
// # Responses
//
// [WriteJSON] encodes a value with the given status. [WriteError] maps an
// error to a status with [StatusOf] and writes an [ErrorBody]:
//
//	{"code": "INVALID_SCENE", "message": "...", "requestId": "..."}
//
// Codes map to statuses as follows:
//
//   - INVALID_*: 400 Bad Request
//   - PIPELINE_DIVERGED: 422 Unprocessable Entity
//   - NOT_FOUND: 404 Not Found
//   - UNSUPPORTED: 415 Unsupported Media Type
//   - everything else: 500 Internal Server Error
//
// Internal errors are reported with a generic message; the cause is only
// logged by the caller.
//
// # Requests
//
// [ReadBody] reads a request body up to a byte limit and reports oversized
// or unreadable bodies as INVALID_INPUT errors.
package httputil
