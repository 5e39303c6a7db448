package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/ggoodman/mcp-stdio-examples/internal/jsonrpc"
	"github.com/ggoodman/mcp-stdio-examples/internal/probe"
	"github.com/ggoodman/mcp-stdio-examples/mcp"
	"github.com/ggoodman/mcp-stdio-examples/mcpservice"
	"github.com/ggoodman/mcp-stdio-examples/sessions"
)

type stubPinger struct {
	out string
	err error
}

func (s stubPinger) Invoke(context.Context, probe.Request) (string, error) { return s.out, s.err }

func newResourceEngine() *Engine {
	srv := mcpservice.NewServer(
		mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: "example-server", Version: "1.0.0"}),
		mcpservice.WithResourcesCapability(mcpservice.NewCatalogResources(mcpservice.NewStaticCatalog(100))),
	)
	return NewEngine(srv, WithLogger(slog.New(slog.DiscardHandler)))
}

func newToolEngine(p mcpservice.Pinger) *Engine {
	srv := mcpservice.NewServer(
		mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: "ping-server", Version: "1.0.0"}),
		mcpservice.WithToolsCapability(mcpservice.NewToolsContainer(mcpservice.WithTools(mcpservice.NewPingTool(p)))),
	)
	return NewEngine(srv, WithLogger(slog.New(slog.DiscardHandler)))
}

func initSession(t *testing.T, e *Engine) (*SessionHandle, *mcp.InitializeResult) {
	t.Helper()
	sess, res, err := e.InitializeSession(context.Background(), "tester", &mcp.InitializeRequest{
		ProtocolVersion: mcp.LatestProtocolVersion,
		ClientInfo:      mcp.ImplementationInfo{Name: "test-client", Version: "0.0.1"},
	})
	if err != nil {
		t.Fatalf("InitializeSession: %v", err)
	}
	return sess, res
}

var nextID int

func request(t *testing.T, e *Engine, sess *SessionHandle, method string, params string) *jsonrpc.Response {
	t.Helper()
	nextID++
	req := &jsonrpc.Request{JSONRPCVersion: jsonrpc.ProtocolVersion, Method: method, ID: jsonrpc.NewRequestID(nextID)}
	if params != "" {
		req.Params = json.RawMessage(params)
	}
	res, err := e.HandleRequest(context.Background(), sess, req)
	if err != nil {
		t.Fatalf("HandleRequest(%s): %v", method, err)
	}
	if res.ID.String() != req.ID.String() {
		t.Fatalf("response id %q does not echo request id %q", res.ID.String(), req.ID.String())
	}
	return res
}

func decodeResult[T any](t *testing.T, res *jsonrpc.Response) T {
	t.Helper()
	if res.Error != nil {
		t.Fatalf("unexpected error response: %+v", res.Error)
	}
	var out T
	if err := json.Unmarshal(res.Result, &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return out
}

func TestInitializeSession_ResourceServer(t *testing.T) {
	e := newResourceEngine()
	sess, res := initSession(t, e)

	if sess.SessionID() == "" || sess.UserID() != "tester" {
		t.Fatalf("unexpected session identity: %q %q", sess.SessionID(), sess.UserID())
	}
	if ci := sess.ClientInfo(); ci.Name != "test-client" || ci.Version != "0.0.1" {
		t.Fatalf("unexpected client info %+v", ci)
	}
	if sess.State() != sessions.SessionStatePending {
		t.Fatalf("expected pending session before initialized notification")
	}
	if res.ServerInfo.Name != "example-server" || res.ServerInfo.Version != "1.0.0" {
		t.Fatalf("unexpected server info %+v", res.ServerInfo)
	}
	if res.Capabilities.Resources == nil || res.Capabilities.Tools != nil {
		t.Fatalf("expected resources-only capabilities, got %+v", res.Capabilities)
	}
	if res.ProtocolVersion != mcp.LatestProtocolVersion {
		t.Fatalf("unexpected protocol version %q", res.ProtocolVersion)
	}
}

func TestInitializeSession_ToolServer(t *testing.T) {
	_, res := initSession(t, newToolEngine(stubPinger{}))
	if res.Capabilities.Tools == nil || res.Capabilities.Resources != nil {
		t.Fatalf("expected tools-only capabilities, got %+v", res.Capabilities)
	}
	if res.ServerInfo.Name != "ping-server" {
		t.Fatalf("unexpected server info %+v", res.ServerInfo)
	}
}

func TestInitializeSession_VersionNegotiation(t *testing.T) {
	cases := []struct {
		requested string
		want      string
	}{
		{"2024-11-05", "2024-11-05"},
		{"2025-03-26", "2025-03-26"},
		{"1999-01-01", mcp.LatestProtocolVersion},
		{"", mcp.LatestProtocolVersion},
	}
	e := newResourceEngine()
	for _, tc := range cases {
		_, res, err := e.InitializeSession(context.Background(), "u", &mcp.InitializeRequest{ProtocolVersion: tc.requested})
		if err != nil {
			t.Fatalf("InitializeSession: %v", err)
		}
		if res.ProtocolVersion != tc.want {
			t.Fatalf("requested %q: expected %q, got %q", tc.requested, tc.want, res.ProtocolVersion)
		}
	}
}

func TestInitializeSession_ServerPreferences(t *testing.T) {
	srv := mcpservice.NewServer(
		mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: "example-server", Version: "1.0.0"}),
		mcpservice.WithPreferredProtocolVersion("2025-03-26"),
		mcpservice.WithInstructions("Page with nextCursor."),
		mcpservice.WithResourcesCapability(mcpservice.NewCatalogResources(mcpservice.NewStaticCatalog(1))),
	)
	e := NewEngine(srv, WithLogger(slog.New(slog.DiscardHandler)))

	cases := []struct {
		requested string
		want      string
	}{
		{"2024-11-05", "2024-11-05"},
		{"1999-01-01", "2025-03-26"},
	}
	for _, tc := range cases {
		_, res, err := e.InitializeSession(context.Background(), "u", &mcp.InitializeRequest{ProtocolVersion: tc.requested})
		if err != nil {
			t.Fatalf("InitializeSession: %v", err)
		}
		if res.ProtocolVersion != tc.want {
			t.Fatalf("requested %q: expected %q, got %q", tc.requested, tc.want, res.ProtocolVersion)
		}
		if res.Instructions != "Page with nextCursor." {
			t.Fatalf("unexpected instructions %q", res.Instructions)
		}
	}

	_, res := initSession(t, newResourceEngine())
	if res.Instructions != "" {
		t.Fatalf("expected no instructions by default, got %q", res.Instructions)
	}
}

func TestInitializeSession_RequiresUser(t *testing.T) {
	_, _, err := newResourceEngine().InitializeSession(context.Background(), "", &mcp.InitializeRequest{})
	if err != ErrInvalidUserID {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestHandleNotification_Initialized(t *testing.T) {
	e := newResourceEngine()
	sess, _ := initSession(t, e)
	note := &jsonrpc.Request{JSONRPCVersion: "2.0", Method: string(mcp.InitializedNotificationMethod)}
	if err := e.HandleNotification(context.Background(), sess, note); err != nil {
		t.Fatalf("HandleNotification: %v", err)
	}
	if sess.State() != sessions.SessionStateOpen {
		t.Fatalf("expected open session")
	}
	cancel := &jsonrpc.Request{JSONRPCVersion: "2.0", Method: string(mcp.CancelledNotificationMethod), Params: json.RawMessage(`{"requestId":3,"reason":"user"}`)}
	if err := e.HandleNotification(context.Background(), sess, cancel); err != nil {
		t.Fatalf("cancelled notification must be accepted: %v", err)
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	res := request(t, newResourceEngine(), nil, "ping", "")
	if string(res.Result) != "{}" {
		t.Fatalf("expected empty object, got %s", res.Result)
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	e := newResourceEngine()
	sess, _ := initSession(t, e)
	for _, m := range []string{"prompts/list", "bogus", "tools/list"} {
		res := request(t, e, sess, m, "")
		if res.Error == nil || res.Error.Code != jsonrpc.ErrorCodeMethodNotFound {
			t.Fatalf("%s: expected method not found, got %+v", m, res)
		}
	}
}

func TestResourcesList_Pagination(t *testing.T) {
	e := newResourceEngine()
	sess, _ := initSession(t, e)

	first := decodeResult[mcp.ListResourcesResult](t, request(t, e, sess, "resources/list", `{}`))
	if len(first.Resources) != 10 || first.Resources[0].URI != "test://static/resource/1" {
		t.Fatalf("unexpected first page: %+v", first.Resources)
	}
	if mcpservice.DecodeCursor(&first.NextCursor) != 10 {
		t.Fatalf("expected cursor decoding to 10, got %q", first.NextCursor)
	}

	var seen []string
	cursor := ""
	for {
		params := `{}`
		if cursor != "" {
			params = fmt.Sprintf(`{"cursor":%q}`, cursor)
		}
		page := decodeResult[mcp.ListResourcesResult](t, request(t, e, sess, "resources/list", params))
		for _, r := range page.Resources {
			seen = append(seen, r.URI)
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	if len(seen) != 100 || seen[99] != "test://static/resource/100" {
		t.Fatalf("expected the whole catalog once, got %d items", len(seen))
	}

	last := request(t, e, sess, "resources/list", fmt.Sprintf(`{"cursor":%q}`, mcpservice.EncodeCursor(90)))
	if strings.Contains(string(last.Result), "nextCursor") {
		t.Fatalf("last page must omit nextCursor: %s", last.Result)
	}
}

func TestResourcesList_NoParams(t *testing.T) {
	e := newResourceEngine()
	sess, _ := initSession(t, e)
	page := decodeResult[mcp.ListResourcesResult](t, request(t, e, sess, "resources/list", ""))
	if len(page.Resources) != 10 {
		t.Fatalf("expected first page, got %d", len(page.Resources))
	}
}

func TestResourcesRead(t *testing.T) {
	e := newResourceEngine()
	sess, _ := initSession(t, e)

	ok := decodeResult[mcp.ReadResourceResult](t, request(t, e, sess, "resources/read", `{"uri":"test://static/resource/2"}`))
	if len(ok.Contents) != 1 || ok.Contents[0].Text != "Resource 2: This is a plaintext resource" {
		t.Fatalf("unexpected contents %+v", ok.Contents)
	}

	res := request(t, e, sess, "resources/read", `{"uri":"test://static/resource/101"}`)
	if res.Error == nil || res.Error.Code != jsonrpc.ErrorCodeResourceNotFound {
		t.Fatalf("expected resource not found error, got %+v", res)
	}
	if res.Error.Message != "Unknown resource: test://static/resource/101" {
		t.Fatalf("unexpected message %q", res.Error.Message)
	}
	b, _ := json.Marshal(res.Error.Data)
	if string(b) != `{"uri":"test://static/resource/101"}` {
		t.Fatalf("unexpected data %s", b)
	}

	for _, params := range []string{``, `{}`, `[1]`} {
		res := request(t, e, sess, "resources/read", params)
		if res.Error == nil || res.Error.Code != jsonrpc.ErrorCodeInvalidParams {
			t.Fatalf("params %q: expected invalid params, got %+v", params, res)
		}
	}
}

func TestToolsList(t *testing.T) {
	e := newToolEngine(stubPinger{})
	sess, _ := initSession(t, e)
	res := decodeResult[mcp.ListToolsResult](t, request(t, e, sess, "tools/list", ""))
	if len(res.Tools) != 1 || res.Tools[0].Name != "ping_ip" {
		t.Fatalf("unexpected tools %+v", res.Tools)
	}
}

func TestToolsCall_AlwaysResult(t *testing.T) {
	e := newToolEngine(stubPinger{err: &probe.ExecutionError{Kind: probe.ExecutionFailed, Detail: "exit status 2"}})
	sess, _ := initSession(t, e)

	cases := []struct {
		params  string
		message string
	}{
		{`{"name":"ping_ip"}`, "Arguments are required"},
		{`{"name":"ping_ip","arguments":null}`, "Arguments are required"},
		{`{"name":"traceroute","arguments":{}}`, "Unknown tool: traceroute"},
		{`{"name":"ping_ip","arguments":{"ip":"127.0.0.1"}}`, "Ping failed: exit status 2"},
	}
	for _, tc := range cases {
		res := decodeResult[mcp.CallToolResult](t, request(t, e, sess, "tools/call", tc.params))
		if res.Error == nil || res.Error.Message != tc.message || res.Error.Code != "TOOL_EXECUTION_ERROR" {
			t.Fatalf("params %s: unexpected result %+v", tc.params, res)
		}
	}
}

func TestToolsCall_Success(t *testing.T) {
	e := newToolEngine(stubPinger{out: "pong"})
	sess, _ := initSession(t, e)
	res := decodeResult[mcp.CallToolResult](t, request(t, e, sess, "tools/call", `{"name":"ping_ip","arguments":{"ip":"127.0.0.1"}}`))
	if res.Result == nil || *res.Result != "pong" || res.Error != nil {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestToolsCall_MalformedParams(t *testing.T) {
	e := newToolEngine(stubPinger{})
	sess, _ := initSession(t, e)
	res := request(t, e, sess, "tools/call", `"ping_ip"`)
	if res.Error == nil || res.Error.Code != jsonrpc.ErrorCodeInvalidParams {
		t.Fatalf("expected invalid params, got %+v", res)
	}
}
