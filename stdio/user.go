package stdio

import (
	"os/user"
)

// UserProvider provides a string user ID to associate with the stdio peer.
// Stdio has no credentials to validate; the identity is only used to scope
// the session and for logs.
type UserProvider interface {
	CurrentUserID() (string, error)
}

// UserProviderFunc adapts a function to UserProvider.
type UserProviderFunc func() (string, error)

func (f UserProviderFunc) CurrentUserID() (string, error) { return f() }

// OSUserProvider resolves the user ID using the operating system's current user.
// The returned ID is user.Username when available; falling back to user.Uid.
type OSUserProvider struct{}

func (OSUserProvider) CurrentUserID() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	if u.Username != "" {
		return u.Username, nil
	}
	return u.Uid, nil
}
