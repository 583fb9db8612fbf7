// Package api groups transport handlers by protocol.
//
// The httpapi subpackage serves the match service as a JSON HTTP API. The
// MCP surface lives under internal/mcp instead: it is a full server with
// its own lifecycle, not a handler set mounted on a router.
package api
