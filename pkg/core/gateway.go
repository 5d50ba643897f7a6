package core

import "context"

// AccountGateway is the port to the remote store's account subsystem. It is
// the only component permitted to perform identity-related network I/O.
//
// Implementations never panic on failure: every error condition (transport
// failure, rejected credentials, malformed payload) is returned as an error,
// normally a *RemoteError, so callers handle all failures uniformly.
type AccountGateway interface {
	// CurrentIdentity returns the identity bound to the current remote
	// session, or an error when no session exists.
	CurrentIdentity(ctx context.Context) (Identity, error)

	// CreateSession authenticates with the given credentials and installs the
	// resulting session on the gateway.
	CreateSession(ctx context.Context, email, password string) error

	// DeleteSession invalidates the current remote session.
	DeleteSession(ctx context.Context) error

	// CreateAccount registers a new account. It does not log the account in.
	CreateAccount(ctx context.Context, email, password string) (Identity, error)
}

// NoteGateway is the port to the remote store's document collection holding
// notes. Same error contract as AccountGateway.
type NoteGateway interface {
	// ListByOwner returns all notes owned by ownerID, in server-defined
	// order. Callers must not assume chronological order beyond what the
	// store guarantees.
	ListByOwner(ctx context.Context, ownerID string) ([]Note, error)

	// Create persists a new note and returns the stored record, carrying the
	// server-assigned id and timestamp.
	Create(ctx context.Context, n Note) (Note, error)

	// Update replaces the text of the note with the given id and returns the
	// stored record.
	Update(ctx context.Context, id, text string) (Note, error)

	// Delete removes the note with the given id. Deleting an unknown id is
	// not an error.
	Delete(ctx context.Context, id string) error
}
