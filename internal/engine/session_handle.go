package engine

import (
	"sync/atomic"

	"github.com/ggoodman/mcp-stdio-examples/internal/logctx"
	"github.com/ggoodman/mcp-stdio-examples/sessions"
)

var _ sessions.Session = (*SessionHandle)(nil)

// SessionHandle is the engine's view of an initialized session. Identity and
// negotiated version are fixed at creation; only the handshake state changes.
type SessionHandle struct {
	sessionID       string
	userID          string
	protocolVersion string
	clientInfo      sessions.ClientInfo

	open atomic.Bool
}

func newSessionHandle(sessionID, userID, protocolVersion string, client sessions.ClientInfo) *SessionHandle {
	return &SessionHandle{
		sessionID:       sessionID,
		userID:          userID,
		protocolVersion: protocolVersion,
		clientInfo:      client,
	}
}

func (s *SessionHandle) SessionID() string {
	return s.sessionID
}

func (s *SessionHandle) UserID() string {
	return s.userID
}

func (s *SessionHandle) ProtocolVersion() string {
	return s.protocolVersion
}

// ClientInfo returns the client identity reported during initialize.
func (s *SessionHandle) ClientInfo() sessions.ClientInfo {
	return s.clientInfo
}

// State reports whether the client has acknowledged initialization.
func (s *SessionHandle) State() sessions.SessionState {
	if s.open.Load() {
		return sessions.SessionStateOpen
	}
	return sessions.SessionStatePending
}

// LogData returns the logging attributes describing this session.
func (s *SessionHandle) LogData() *logctx.SessionData {
	return &logctx.SessionData{
		SessionID:       s.sessionID,
		UserID:          s.userID,
		ProtocolVersion: s.protocolVersion,
		State:           s.State(),
	}
}
