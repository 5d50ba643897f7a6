package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aretw0/silt/pkg/core"
	"github.com/google/uuid"
)

// documentPayload is the wire shape of a note document.
type documentPayload struct {
	ID        string `json:"$id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
	OwnerID   string `json:"user_id"`
}

// documentFields is the mutable fields envelope sent on create and update.
type documentFields struct {
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt,omitempty"`
	OwnerID   string `json:"user_id,omitempty"`
}

type listPayload struct {
	Total     int               `json:"total"`
	Documents []documentPayload `json:"documents"`
}

func (c *Client) documentsPath() string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents",
		url.PathEscape(c.cfg.Database), url.PathEscape(c.cfg.NotesCollection))
}

// ListByOwner implements core.NoteGateway. The server defines the order;
// no client-side sort is applied.
func (c *Client) ListByOwner(ctx context.Context, ownerID string) ([]core.Note, error) {
	q := url.Values{}
	q.Set("user_id", ownerID)

	var list listPayload
	if _, err := c.do(ctx, "list documents", http.MethodGet, c.documentsPath()+"?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	notes := make([]core.Note, 0, len(list.Documents))
	for _, doc := range list.Documents {
		n, err := doc.toNote()
		if err != nil {
			return nil, &core.RemoteError{Op: "list documents", Message: err.Error()}
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// Create implements core.NoteGateway. A unique document id is requested
// client-side, but the server-returned record is authoritative.
func (c *Client) Create(ctx context.Context, n core.Note) (core.Note, error) {
	body := struct {
		DocumentID string         `json:"documentId"`
		Data       documentFields `json:"data"`
	}{
		DocumentID: uuid.NewString(),
		Data: documentFields{
			Text:      n.Text,
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
			OwnerID:   n.OwnerID,
		},
	}
	var doc documentPayload
	if _, err := c.do(ctx, "create document", http.MethodPost, c.documentsPath(), body, &doc); err != nil {
		return core.Note{}, err
	}
	stored, err := doc.toNote()
	if err != nil {
		return core.Note{}, &core.RemoteError{Op: "create document", Message: err.Error()}
	}
	return stored, nil
}

// Update implements core.NoteGateway. An id the store no longer has is
// treated as success: there is no record left to conflict with the caller's
// intent, so nothing is surfaced as an error.
func (c *Client) Update(ctx context.Context, id, text string) (core.Note, error) {
	body := struct {
		Data documentFields `json:"data"`
	}{
		Data: documentFields{Text: text},
	}
	var doc documentPayload
	status, err := c.do(ctx, "update document", http.MethodPatch, c.documentsPath()+"/"+url.PathEscape(id), body, &doc)
	if err != nil {
		if status == http.StatusNotFound {
			return core.Note{ID: id, Text: text}, nil
		}
		return core.Note{}, err
	}
	stored, err := doc.toNote()
	if err != nil {
		return core.Note{}, &core.RemoteError{Op: "update document", Message: err.Error()}
	}
	return stored, nil
}

// Delete implements core.NoteGateway. Deleting an id the store no longer has
// is treated as success.
func (c *Client) Delete(ctx context.Context, id string) error {
	status, err := c.do(ctx, "delete document", http.MethodDelete, c.documentsPath()+"/"+url.PathEscape(id), nil, nil)
	if err != nil && status != http.StatusNotFound {
		return err
	}
	return nil
}

func (d documentPayload) toNote() (core.Note, error) {
	createdAt, err := time.Parse(time.RFC3339, d.CreatedAt)
	if err != nil {
		return core.Note{}, fmt.Errorf("document %s: bad createdAt %q", d.ID, d.CreatedAt)
	}
	return core.Note{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Text:      d.Text,
		CreatedAt: createdAt,
	}, nil
}
