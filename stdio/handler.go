package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/ggoodman/mcp-stdio-examples/internal/engine"
	"github.com/ggoodman/mcp-stdio-examples/internal/jsonrpc"
	"github.com/ggoodman/mcp-stdio-examples/internal/logctx"
	"github.com/ggoodman/mcp-stdio-examples/mcp"
	"github.com/ggoodman/mcp-stdio-examples/mcpservice"
)

// Handler is a single-connection stdio transport that reads JSON-RPC messages
// from an io.Reader and writes responses to an io.Writer. By default, it uses
// os.Stdin and os.Stdout. It identifies the peer using a UserProvider, which
// defaults to the current OS user.
//
// The handler is transport-only; it delegates all MCP semantics to the
// provided mcpservice.ServerCapabilities through the engine.
type Handler struct {
	srv mcpservice.ServerCapabilities

	r            io.Reader
	w            io.Writer
	l            *slog.Logger
	userProvider UserProvider

	wmu sync.Mutex
}

// NewHandler constructs a stdio Handler with defaults and applies options.
func NewHandler(srv mcpservice.ServerCapabilities, opts ...Option) *Handler {
	h := &Handler{
		srv:          srv,
		r:            os.Stdin,
		w:            os.Stdout,
		l:            slog.Default(),
		userProvider: OSUserProvider{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Serve runs the stdio event loop until EOF on the reader or the context is
// canceled. It is safe to call at most once per Handler.
//
// On EOF Serve waits for in-flight requests to be answered and returns nil.
// On cancellation the context passed to in-flight requests is canceled too,
// which terminates any running probe, and Serve returns ctx.Err().
func (h *Handler) Serve(ctx context.Context) error {
	userID, err := h.userProvider.CurrentUserID()
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eng := engine.NewEngine(h.srv, engine.WithLogger(h.l))
	conn := &connection{h: h, eng: eng, userID: userID}

	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go h.readLines(ctx, lines, readErr)

	h.l.InfoContext(ctx, "stdio.serve.start", slog.String("user_id", userID))

	for {
		select {
		case <-ctx.Done():
			conn.wg.Wait()
			h.l.InfoContext(ctx, "stdio.serve.stop", slog.String("reason", "context"))
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				conn.wg.Wait()
				err := <-readErr
				h.l.InfoContext(ctx, "stdio.serve.stop", slog.String("reason", "eof"))
				return err
			}
			conn.handleLine(ctx, line)
		}
	}
}

// readLines feeds newline-delimited frames to lines. A final frame without a
// trailing newline is still delivered. The terminal read error (nil for EOF)
// is sent on errc before lines is closed.
func (h *Handler) readLines(ctx context.Context, lines chan<- []byte, errc chan<- error) {
	defer close(lines)
	br := bufio.NewReader(h.r)
	for {
		line, err := br.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			select {
			case lines <- line:
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			errc <- err
			return
		}
	}
}

// writeMessage marshals v and writes it as a single line.
func (h *Handler) writeMessage(ctx context.Context, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.l.ErrorContext(ctx, "stdio.write.marshal.fail", slog.String("err", err.Error()))
		return
	}
	b = append(b, '\n')

	h.wmu.Lock()
	defer h.wmu.Unlock()
	if _, err := h.w.Write(b); err != nil {
		h.l.ErrorContext(ctx, "stdio.write.fail", slog.String("err", err.Error()))
	}
}

// connection holds the per-Serve state. Only the read loop touches sess, so
// it needs no lock; request goroutines receive the value current at dispatch.
type connection struct {
	h      *Handler
	eng    *engine.Engine
	userID string

	sess *engine.SessionHandle
	wg   sync.WaitGroup
}

func (c *connection) handleLine(ctx context.Context, line []byte) {
	line = bytes.TrimSpace(line)

	var msg jsonrpc.AnyMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		if !json.Valid(line) {
			c.h.l.InfoContext(ctx, "stdio.message.parse_error", slog.String("err", err.Error()))
			c.h.writeMessage(ctx, jsonrpc.NewErrorResponse(nil, jsonrpc.ErrorCodeParseError, "Parse error", nil))
			return
		}
		c.h.l.InfoContext(ctx, "stdio.message.invalid", slog.String("err", err.Error()))
		c.h.writeMessage(ctx, jsonrpc.NewErrorResponse(peekID(line), jsonrpc.ErrorCodeInvalidRequest, "Invalid request", nil))
		return
	}

	if c.sess != nil {
		ctx = logctx.WithSessionData(ctx, c.sess.LogData())
	}
	kind := msg.Kind()

	switch kind {
	case jsonrpc.KindResponse:
		// These servers never issue requests to the client.
		c.h.l.DebugContext(ctx, "stdio.message.unexpected_response", slog.String("id", msg.ID.String()))
		return
	case jsonrpc.KindNotification:
		req := msg.AsRequest()
		ctx = logctx.WithRPCMessage(ctx, &logctx.RPCMessage{Method: req.Method, Type: string(kind)})
		_ = c.eng.HandleNotification(ctx, c.sess, req)
		return
	}

	req := msg.AsRequest()
	ctx = logctx.WithRPCMessage(ctx, &logctx.RPCMessage{Method: req.Method, ID: req.ID.String(), Type: string(kind)})

	if req.Method == string(mcp.InitializeMethod) {
		c.handleInitialize(ctx, req)
		return
	}
	if c.sess == nil && req.Method != string(mcp.PingMethod) {
		c.h.l.InfoContext(ctx, "stdio.request.uninitialized")
		c.h.writeMessage(ctx, jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInvalidRequest, "session not initialized", nil))
		return
	}

	sess := c.sess
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		res, err := c.eng.HandleRequest(ctx, sess, req)
		if err != nil {
			c.h.l.ErrorContext(ctx, "stdio.request.fail", slog.String("err", err.Error()))
			res = jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil)
		}
		c.h.writeMessage(ctx, res)
	}()
}

func (c *connection) handleInitialize(ctx context.Context, req *jsonrpc.Request) {
	if c.sess != nil {
		c.h.writeMessage(ctx, jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInvalidRequest, "session already initialized", nil))
		return
	}

	var params mcp.InitializeRequest
	if err := json.Unmarshal(req.Params, &params); err != nil {
		c.h.l.InfoContext(ctx, "stdio.initialize.invalid", slog.String("err", err.Error()))
		c.h.writeMessage(ctx, jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInvalidParams, "invalid params", nil))
		return
	}

	sess, initRes, err := c.eng.InitializeSession(ctx, c.userID, &params)
	if err != nil {
		c.h.l.ErrorContext(ctx, "stdio.initialize.fail", slog.String("err", err.Error()))
		c.h.writeMessage(ctx, jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil))
		return
	}

	res, err := jsonrpc.NewResultResponse(req.ID, initRes)
	if err != nil {
		c.h.l.ErrorContext(ctx, "stdio.initialize.fail", slog.String("err", err.Error()))
		c.h.writeMessage(ctx, jsonrpc.NewErrorResponse(req.ID, jsonrpc.ErrorCodeInternalError, "internal error", nil))
		return
	}
	c.sess = sess
	c.h.writeMessage(ctx, res)
}

// peekID recovers the id member of a message that failed validation so the
// error response can still be correlated. It returns nil when there is none.
func peekID(line []byte) *jsonrpc.RequestID {
	var probe struct {
		ID *jsonrpc.RequestID `json:"id"`
	}
	if err := json.Unmarshal(line, &probe); err != nil {
		return nil
	}
	return probe.ID
}
