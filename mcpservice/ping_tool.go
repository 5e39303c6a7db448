package mcpservice

import (
	"context"

	"github.com/ggoodman/mcp-stdio-examples/internal/probe"
	"github.com/ggoodman/mcp-stdio-examples/sessions"
)

// PingToolName is the name under which the ping tool is registered.
const PingToolName = "ping_ip"

// PingArgs is the argument payload of the ping tool. Count and Timeout are
// strings because they are passed through to the command line unchanged.
type PingArgs struct {
	IP      string `json:"ip" jsonschema:"description=IP address or hostname to ping"`
	Count   string `json:"count,omitempty" jsonschema:"description=Number of echo requests to send (default 4)"`
	Timeout string `json:"timeout,omitempty" jsonschema:"description=Seconds to wait for each reply (default 1)"`
}

// Pinger runs a single reachability probe and returns its standard output.
type Pinger interface {
	Invoke(ctx context.Context, req probe.Request) (string, error)
}

// NewPingTool builds the ping_ip tool on top of p. Unknown argument members
// are tolerated and ignored.
func NewPingTool(p Pinger) StaticTool {
	return NewTool(PingToolName, func(ctx context.Context, _ sessions.Session, a PingArgs) (string, error) {
		req := probe.Request{Target: a.IP, Count: a.Count, Timeout: a.Timeout}.WithDefaults()
		if err := req.Validate(); err != nil {
			return "", NewInvalidArgumentsError(err)
		}
		return p.Invoke(ctx, req)
	},
		WithToolDescription("Ping an IP address"),
		WithToolAllowAdditionalProperties(true),
	)
}
