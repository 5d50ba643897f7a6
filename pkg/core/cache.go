package core

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Cache holds the in-memory ordered collection of notes for the currently
// authenticated identity. It is the single local view of the remote
// collection: every mutation goes to the gateway first and the local
// collection only changes on a confirmed response. There are no optimistic
// writes anywhere, so there is nothing to roll back on failure.
//
// Mutating operations are serialized against each other; reads may overlap
// freely. The collection preserves server-defined order on Load and appends
// confirmed creates in response-arrival order.
type Cache struct {
	gateway NoteGateway
	logger  *slog.Logger

	// opMu serializes mutating operations. mu guards owner and items for
	// readers and is never held across a gateway call.
	opMu sync.Mutex
	mu   sync.RWMutex

	owner string
	items []Note
}

// NewCache creates an empty cache bound to no owner. Operations fail with
// ErrUnauthorized until Reset installs one.
func NewCache(gateway NoteGateway, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = discardLogger()
	}
	return &Cache{gateway: gateway, logger: logger}
}

// Reset binds the cache to a new owner and empties the collection. Called on
// every transition into an authenticated session; the previous identity's
// notes are never merged, only discarded.
func (c *Cache) Reset(ownerID string) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.mu.Lock()
	c.owner = ownerID
	c.items = nil
	c.mu.Unlock()
}

// Clear unbinds the owner and empties the collection. Called when the
// identity is lost. A mutation already in flight completes first and its
// result is discarded by this clear.
func (c *Cache) Clear() {
	c.Reset("")
}

// Load fetches all notes owned by the current identity and replaces the
// collection wholesale, keeping the server-defined order.
func (c *Cache) Load(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	owner, err := c.boundOwner()
	if err != nil {
		return err
	}
	notes, err := c.gateway.ListByOwner(ctx, owner)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items = notes
	c.mu.Unlock()
	c.logger.Debug("collection loaded", "owner", owner, "count", len(notes))
	return nil
}

// Create sends a new note to the gateway and, on success, appends the
// server-returned record (carrying the assigned id and timestamp) to the end
// of the collection. A failed create leaves the collection untouched: no
// speculative insert is ever made, so a rejected note is never visible.
func (c *Cache) Create(ctx context.Context, text string) (Note, error) {
	if strings.TrimSpace(text) == "" {
		return Note{}, &ValidationError{Reason: "note text cannot be empty"}
	}
	c.opMu.Lock()
	defer c.opMu.Unlock()

	owner, err := c.boundOwner()
	if err != nil {
		return Note{}, err
	}
	stored, err := c.gateway.Create(ctx, Note{
		OwnerID:   owner,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return Note{}, err
	}
	c.mu.Lock()
	c.items = append(c.items, stored)
	c.mu.Unlock()
	return stored, nil
}

// Update sends the new text to the gateway and, on success, swaps the
// server-confirmed record into the local collection. An id absent from the
// local view is still dispatched, since the cache does not assume its view
// is complete, and succeeds with no local mutation. On failure the prior
// text is untouched.
func (c *Cache) Update(ctx context.Context, id, text string) (Note, error) {
	if strings.TrimSpace(text) == "" {
		return Note{}, &ValidationError{Reason: "note text cannot be empty"}
	}
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if _, err := c.boundOwner(); err != nil {
		return Note{}, err
	}
	stored, err := c.gateway.Update(ctx, id, text)
	if err != nil {
		return Note{}, err
	}
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			if stored.OwnerID == "" {
				// The store confirmed the text without returning a full
				// record (the id was already gone remotely). Keep the local
				// record's owner and timestamp; a partial record must never
				// enter the collection.
				c.items[i].Text = stored.Text
				stored = c.items[i]
			} else {
				c.items[i] = stored
			}
			break
		}
	}
	c.mu.Unlock()
	return stored, nil
}

// Delete asks the gateway to remove the note first and drops it from the
// local collection only on confirmed success, so a failed delete never
// exposes a transiently missing note. Deleting an id absent from the local
// view is a local no-op.
func (c *Cache) Delete(ctx context.Context, id string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if _, err := c.boundOwner(); err != nil {
		return err
	}
	if err := c.gateway.Delete(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// Notes returns a copy of the current collection in order.
func (c *Cache) Notes() []Note {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Note, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of cached notes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// boundOwner returns the owner the cache is scoped to, or ErrUnauthorized
// when no identity is bound. Assumes opMu is held.
func (c *Cache) boundOwner() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.owner == "" {
		return "", ErrUnauthorized
	}
	return c.owner, nil
}
