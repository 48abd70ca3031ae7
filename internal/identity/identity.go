// Package identity carries the session identity that drives the real-time
// connection lifecycle.
package identity

// Identity is the current session's user and role.
type Identity struct {
	ID   string
	Role string
}

// Provider supplies the current session identity, when one is available.
// The connection is opened only while an identity is available and torn
// down when it goes away (logout).
type Provider interface {
	Current() (Identity, bool)
}

// Static is a Provider backed by a fixed identity. Used by the CLI and in
// tests.
type Static struct {
	Identity Identity
}

// Current returns the fixed identity; it is unavailable when the ID is empty.
func (s Static) Current() (Identity, bool) {
	return s.Identity, s.Identity.ID != ""
}
