// Package mcp contains the protocol data types and constants exchanged by the
// servers in this module. It mirrors the Model Context Protocol wire shapes as
// exported structs with json tags and string constants for method names.
//
// The package is free of transport logic: the stdio transport and the request
// engine import these types but own framing and dispatch.
//
// # Resource records
//
// Resource carries its payload inline (Text or Blob, never both) so that the
// same value serves both resources/list entries and resources/read contents.
//
// # Tool results
//
// CallToolResult is a union: exactly one of Result or Error is set. The
// standard Content and IsError members are populated alongside so generic MCP
// clients can still render the outcome.
//
// # Pagination
//
// PaginatedRequest and PaginatedResult are embedded in list envelopes. The
// cursor is opaque to clients; see mcpservice.EncodeCursor.
package mcp
