// Package sessions defines the session abstraction shared by the transport and
// server capability code. A session represents the negotiated protocol version
// and the local principal for a connected client.
//
// The stdio transport owns exactly one session for the lifetime of the process.
// It is created when the client sends initialize and is discarded when the
// process exits; nothing is persisted.
package sessions
