package mcpservice

import (
	"errors"

	"github.com/ggoodman/mcp-stdio-examples/internal/errstack"
)

// ArgumentsRequiredError is returned when a tool call carries no arguments.
type ArgumentsRequiredError struct {
	errstack.Stack
}

func NewArgumentsRequiredError() *ArgumentsRequiredError {
	return &ArgumentsRequiredError{Stack: errstack.Capture(1)}
}

func (e *ArgumentsRequiredError) Error() string { return "Arguments are required" }

// InvalidArgumentsError is returned when tool arguments do not satisfy the
// tool's input schema or its own validation.
type InvalidArgumentsError struct {
	Err error
	errstack.Stack
}

func NewInvalidArgumentsError(err error) *InvalidArgumentsError {
	return &InvalidArgumentsError{Err: err, Stack: errstack.Capture(1)}
}

func (e *InvalidArgumentsError) Error() string {
	if e.Err == nil {
		return "Invalid arguments"
	}
	return "Invalid arguments: " + e.Err.Error()
}

func (e *InvalidArgumentsError) Unwrap() error { return e.Err }

// UnknownToolError is returned when a tool call names an unregistered tool.
type UnknownToolError struct {
	Name string
	errstack.Stack
}

func NewUnknownToolError(name string) *UnknownToolError {
	return &UnknownToolError{Name: name, Stack: errstack.Capture(1)}
}

func (e *UnknownToolError) Error() string { return "Unknown tool: " + e.Name }

// UnknownResourceError is returned when a URI does not resolve to a catalog
// record.
type UnknownResourceError struct {
	URI string
	errstack.Stack
}

func NewUnknownResourceError(uri string) *UnknownResourceError {
	return &UnknownResourceError{URI: uri, Stack: errstack.Capture(1)}
}

func (e *UnknownResourceError) Error() string { return "Unknown resource: " + e.URI }

// AsUnknownResource reports whether err is or wraps an *UnknownResourceError.
func AsUnknownResource(err error) (*UnknownResourceError, bool) {
	var ure *UnknownResourceError
	if errors.As(err, &ure) {
		return ure, true
	}
	return nil, false
}
