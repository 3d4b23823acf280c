package core

import "errors"

// Identity is a read-only snapshot of the authenticated caller. It is
// resolved once per request by the token verifier and carried in the
// request context; the user store owns the record.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Provider string `json:"provider"`
}

// ErrIdentityNotFound is returned by an IdentityStore when no user record
// exists for the requested id. A valid token referring to a deleted
// account must not grant access.
var ErrIdentityNotFound = errors.New("identity not found")

// ErrKeyNotFound is returned by a CounterStore when a key does not exist.
var ErrKeyNotFound = errors.New("key not found")
