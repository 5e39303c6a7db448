// Package mcpservice defines the capability interfaces that the MCP servers in
// this module expose to the request engine.
//
// Conventions used throughout this package:
//   - Capability discovery methods return (cap, ok, err). A false ok indicates
//     that the capability is not offered; err is reserved for unexpected
//     failures while determining support.
//   - All methods accept a context.Context which MUST be honored for
//     cancellation.
//   - Pagination uses the Page[T] type in this package; a nil cursor requests
//     the first page. Implementations populate NextCursor when more data is
//     available.
package mcpservice

import (
	"context"

	"github.com/ggoodman/mcp-stdio-examples/mcp"
	"github.com/ggoodman/mcp-stdio-examples/sessions"
)

type ServerCapabilities interface {
	// GetServerInfo returns static implementation information about the server
	// that is surfaced in initialize results.
	GetServerInfo(ctx context.Context, session sessions.Session) (mcp.ImplementationInfo, error)

	// GetPreferredProtocolVersion returns the server's preferred MCP protocol
	// version. If ok is false, the engine falls back to the client's requested
	// version when supported.
	GetPreferredProtocolVersion(ctx context.Context) (version string, ok bool, err error)

	// GetInstructions returns optional human-readable instructions surfaced to
	// the client during initialization.
	GetInstructions(ctx context.Context, session sessions.Session) (instructions string, ok bool, err error)

	// GetResourcesCapability returns the resources capability. If ok is false,
	// resources are neither advertised nor served.
	GetResourcesCapability(ctx context.Context, session sessions.Session) (cap ResourcesCapability, ok bool, err error)

	// GetToolsCapability returns the tools capability. If ok is false, tools
	// are neither advertised nor served.
	GetToolsCapability(ctx context.Context, session sessions.Session) (cap ToolsCapability, ok bool, err error)
}

// ResourcesCapability defines the read-only resource operations. All methods
// MUST be safe for concurrent use.
type ResourcesCapability interface {
	// ListResources returns one page of resources. A nil cursor requests the
	// first page. Listing never fails because of a malformed cursor.
	ListResources(ctx context.Context, session sessions.Session, cursor *string) (Page[mcp.Resource], error)

	// ReadResource returns the contents for a specific resource URI. Unknown
	// URIs result in an *UnknownResourceError.
	ReadResource(ctx context.Context, session sessions.Session, uri string) ([]mcp.Resource, error)
}

// ToolsCapability defines the server's tools surface area. All methods MUST be
// safe for concurrent use.
type ToolsCapability interface {
	// ListTools returns a page of tools available to the session.
	ListTools(ctx context.Context, session sessions.Session, cursor *string) (Page[mcp.Tool], error)

	// CallTool invokes a named tool. Tool failures are reported inside the
	// returned result; a non-nil error is reserved for conditions the engine
	// must surface as a JSON-RPC error.
	CallTool(ctx context.Context, session sessions.Session, req *mcp.CallToolRequestReceived) (*mcp.CallToolResult, error)
}
