package core

import "time"

// Identity is the authenticated user record returned by the remote store's
// account subsystem. It is owned by the Session; every other component treats
// it as read-only.
type Identity struct {
	ID    string
	Email string
}

// Status represents the authentication state of the running process.
type Status string

const (
	// StatusPending is the initial state, before the first Restore resolves.
	StatusPending Status = "PENDING"
	// StatusAuthenticated means a valid identity is held.
	StatusAuthenticated Status = "AUTHENTICATED"
	// StatusAnonymous means no session exists.
	StatusAnonymous Status = "ANONYMOUS"
)

// Note is a single user-owned text record persisted in the remote document
// store. The ID is server-assigned and immutable once assigned; OwnerID always
// matches the identity the note was fetched or created under.
type Note struct {
	ID        string
	OwnerID   string
	Text      string
	CreatedAt time.Time
}
