package sessions

// SessionState tracks the initialize handshake.
type SessionState string

const (
	SessionStatePending SessionState = "pending"
	SessionStateOpen    SessionState = "open"
)

// Session is the per-connection view handed to capability code.
type Session interface {
	SessionID() string
	UserID() string
	ProtocolVersion() string
}

// ClientInfo identifies the connected client as reported during initialize.
type ClientInfo struct {
	Name    string
	Version string
}
