package mcpservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/ggoodman/mcp-stdio-examples/internal/errstack"
	"github.com/ggoodman/mcp-stdio-examples/internal/logctx"
	"github.com/ggoodman/mcp-stdio-examples/internal/validation"
	"github.com/ggoodman/mcp-stdio-examples/mcp"
	"github.com/ggoodman/mcp-stdio-examples/sessions"
)

// ToolHandler executes a tool with its raw, non-null arguments and returns
// the text result.
type ToolHandler func(ctx context.Context, session sessions.Session, args json.RawMessage) (string, error)

// StaticTool pairs an MCP tool descriptor with its handler.
type StaticTool struct {
	Descriptor mcp.Tool
	Handler    ToolHandler
}

// ToolOption configures NewTool behavior.
type ToolOption func(*toolConfig)

type toolConfig struct {
	description               string
	allowAdditionalProperties bool // default false (strict)
}

// WithToolDescription sets the tool description used in listings.
func WithToolDescription(desc string) ToolOption {
	return func(c *toolConfig) { c.description = desc }
}

// WithToolAllowAdditionalProperties controls whether unknown fields are allowed.
// When false (default), the generated schema sets additionalProperties=false and
// runtime decoding rejects unknown fields.
func WithToolAllowAdditionalProperties(allow bool) ToolOption {
	return func(c *toolConfig) { c.allowAdditionalProperties = allow }
}

// NewTool constructs a StaticTool from a typed args struct A. The input
// schema is reflected from A once, at construction. At call time the raw
// arguments are checked against that schema and decoded into A before fn
// runs; both failures are reported as *InvalidArgumentsError.
func NewTool[A any](name string, fn func(ctx context.Context, session sessions.Session, args A) (string, error), opts ...ToolOption) StaticTool {
	cfg := toolConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	desc := mcp.Tool{
		Name:        name,
		Description: cfg.description,
		InputSchema: reflectToMCPInputSchema[A](cfg.allowAdditionalProperties),
	}

	handler := func(ctx context.Context, session sessions.Session, raw json.RawMessage) (string, error) {
		if err := validation.ToolArguments(desc.InputSchema, raw); err != nil {
			return "", NewInvalidArgumentsError(err)
		}
		var a A
		dec := json.NewDecoder(bytes.NewReader(raw))
		if !cfg.allowAdditionalProperties {
			dec.DisallowUnknownFields()
		}
		if err := dec.Decode(&a); err != nil {
			return "", NewInvalidArgumentsError(err)
		}
		return fn(ctx, session, a)
	}

	return StaticTool{Descriptor: desc, Handler: handler}
}

// ToolsOption configures a ToolsContainer.
type ToolsOption func(*ToolsContainer)

// WithTools registers tool definitions. On duplicate names the last one wins.
func WithTools(defs ...StaticTool) ToolsOption {
	return func(st *ToolsContainer) {
		for _, d := range defs {
			if _, dup := st.handlers[d.Descriptor.Name]; !dup {
				st.tools = append(st.tools, d.Descriptor)
			} else {
				for i := range st.tools {
					if st.tools[i].Name == d.Descriptor.Name {
						st.tools[i] = d.Descriptor
					}
				}
			}
			st.handlers[d.Descriptor.Name] = d.Handler
		}
	}
}

// WithStackTraces includes the failing call stack in tool error details.
// Intended for development builds only.
func WithStackTraces(enabled bool) ToolsOption {
	return func(st *ToolsContainer) { st.stackTraces = enabled }
}

// WithToolsLogger sets the logger used for call diagnostics.
func WithToolsLogger(l *slog.Logger) ToolsOption {
	return func(st *ToolsContainer) {
		if l != nil {
			st.log = l
		}
	}
}

// ToolsContainer is a fixed registry of tools resolved by name. It is built
// once and never mutated, so lookups need no locking.
type ToolsContainer struct {
	tools    []mcp.Tool
	handlers map[string]ToolHandler

	stackTraces bool
	log         *slog.Logger
}

var _ ToolsCapability = (*ToolsContainer)(nil)

// NewToolsContainer constructs a ToolsContainer.
func NewToolsContainer(opts ...ToolsOption) *ToolsContainer {
	st := &ToolsContainer{
		handlers: make(map[string]ToolHandler),
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// ListTools implements ToolsCapability. The registry is small so every tool
// is returned in a single page.
func (st *ToolsContainer) ListTools(ctx context.Context, session sessions.Session, cursor *string) (Page[mcp.Tool], error) {
	items := make([]mcp.Tool, len(st.tools))
	copy(items, st.tools)
	return NewPage(items), nil
}

// CallTool implements ToolsCapability. It runs a fixed sequence of checks:
// arguments present, tool known, arguments valid, then execution. Every
// failure along the way is returned as an error result; the returned error is
// always nil.
func (st *ToolsContainer) CallTool(ctx context.Context, session sessions.Session, req *mcp.CallToolRequestReceived) (*mcp.CallToolResult, error) {
	if req == nil {
		req = &mcp.CallToolRequestReceived{}
	}
	ctx = logctx.WithToolCallData(ctx, &logctx.ToolCallData{ToolName: req.Name})
	start := time.Now()

	if !req.HasArguments() {
		return st.errorResult(ctx, req.Name, start, NewArgumentsRequiredError()), nil
	}
	h, ok := st.handlers[req.Name]
	if !ok || h == nil {
		return st.errorResult(ctx, req.Name, start, NewUnknownToolError(req.Name)), nil
	}

	out, err := h(ctx, session, req.Arguments)
	if err != nil {
		return st.errorResult(ctx, req.Name, start, err), nil
	}

	st.log.InfoContext(ctx, "tools.call.ok", slog.Int64("dur_ms", time.Since(start).Milliseconds()))
	return TextResult(out), nil
}

func (st *ToolsContainer) errorResult(ctx context.Context, name string, start time.Time, err error) *mcp.CallToolResult {
	details := mcp.ToolErrorDetails{Tool: name}
	var tr errstack.Tracer
	if st.stackTraces && errors.As(err, &tr) {
		details.Stack = tr.StackTrace()
	}
	st.log.InfoContext(ctx, "tools.call.fail", slog.String("err", err.Error()), slog.Int64("dur_ms", time.Since(start).Milliseconds()))
	return ErrorResult(err.Error(), details)
}

// TextResult builds a successful CallToolResult.
func TextResult(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Result:  &s,
		Content: []mcp.ContentBlock{{Type: mcp.ContentTypeText, Text: s}},
	}
}

// ErrorResult builds a failed CallToolResult with code TOOL_EXECUTION_ERROR.
func ErrorResult(message string, details mcp.ToolErrorDetails) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Error: &mcp.ToolError{
			Code:    mcp.ToolErrorCodeExecution,
			Message: message,
			Details: details,
		},
		Content: []mcp.ContentBlock{{Type: mcp.ContentTypeText, Text: message}},
		IsError: true,
	}
}
