package mcp

import (
	"encoding/json"
	"slices"
)

// Method is an MCP method identifier used in JSON-RPC messages.
type Method string

// MCP method names and notifications.
const (
	// Initialization
	InitializeMethod              Method = "initialize"
	InitializedNotificationMethod Method = "notifications/initialized"

	// Tools
	ToolsListMethod Method = "tools/list"
	ToolsCallMethod Method = "tools/call"

	// Resources
	ResourcesListMethod Method = "resources/list"
	ResourcesReadMethod Method = "resources/read"

	// General
	PingMethod                  Method = "ping"
	CancelledNotificationMethod Method = "notifications/cancelled"
)

// LatestProtocolVersion is the latest version of the protocol.
const LatestProtocolVersion = "2025-06-18"

var supportedProtocolVersions = []string{
	"2024-11-05",
	"2025-03-26",
	LatestProtocolVersion,
}

// IsSupportedProtocolVersion reports whether v is a protocol revision these
// servers can speak.
func IsSupportedProtocolVersion(v string) bool {
	return slices.Contains(supportedProtocolVersions, v)
}

// PaginatedRequest carries a cursor for paginated list requests.
type PaginatedRequest struct {
	Cursor string `json:"cursor,omitzero"`
}

// PaginatedResult carries a cursor for continuing pagination.
type PaginatedResult struct {
	NextCursor string `json:"nextCursor,omitzero"`
}

// EmptyResult is the result of requests that return nothing, such as ping.
type EmptyResult struct{}

// CancelledNotification informs the peer that a request was canceled.
type CancelledNotification struct {
	RequestID json.RawMessage `json:"requestId"`
	Reason    string          `json:"reason,omitzero"`
}

// InitializeRequest starts the MCP initialization handshake.
type InitializeRequest struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      ImplementationInfo `json:"clientInfo"`
}

// InitializeResult returns negotiated capabilities and server info.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ImplementationInfo `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitzero"`
}

// Tools
// ListToolsRequest requests the set of available tools.
type ListToolsRequest struct {
	PaginatedRequest
}

// ListToolsResult returns the available tools.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
	PaginatedResult
}

// CallToolRequestReceived is the server-received representation for a tool
// call. Arguments is kept raw so that an absent value can be told apart from
// an empty object.
type CallToolRequestReceived struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// HasArguments reports whether the request carried a non-null arguments value.
func (r *CallToolRequestReceived) HasArguments() bool {
	if r == nil || len(r.Arguments) == 0 {
		return false
	}
	return string(r.Arguments) != "null"
}

// ToolErrorCodeExecution is the code reported for every tool failure.
const ToolErrorCodeExecution = "TOOL_EXECUTION_ERROR"

// ToolErrorDetails identifies the failing tool. Stack is only populated when
// the server runs in development mode.
type ToolErrorDetails struct {
	Tool  string `json:"tool"`
	Stack string `json:"stack,omitzero"`
}

// ToolError is the structured failure payload of a tool call.
type ToolError struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Details ToolErrorDetails `json:"details"`
}

// CallToolResult represents a tool invocation outcome: Result on success,
// Error on failure.
type CallToolResult struct {
	Result *string    `json:"result,omitempty"`
	Error  *ToolError `json:"error,omitempty"`

	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitzero"`
}

// Resources
// ListResourcesRequest requests a paginated list of resources.
type ListResourcesRequest struct {
	PaginatedRequest
}

// ListResourcesResult returns a page of resources.
type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
	PaginatedResult
}

// ReadResourceRequest requests the contents of a resource by URI.
type ReadResourceRequest struct {
	URI string `json:"uri"`
}

// ReadResourceResult returns resource contents.
type ReadResourceResult struct {
	Contents []Resource `json:"contents"`
}
