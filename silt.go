package silt

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/silt/internal/platform"
	"github.com/aretw0/silt/pkg/adapters/rest"
	"github.com/aretw0/silt/pkg/core"
)

// --- Types ---

// Note is a public alias for the note record.
type Note = core.Note

// Identity is a public alias for the authenticated user record.
type Identity = core.Identity

// Status is a public alias for the session state.
type Status = core.Status

// Service is a public alias for the session-gated service.
type Service = core.Service

// Config is a public alias for the remote store configuration.
type Config = rest.Config

// Session states.
const (
	StatusPending       = core.StatusPending
	StatusAuthenticated = core.StatusAuthenticated
	StatusAnonymous     = core.StatusAnonymous
)

// ErrUnauthorized is returned by note operations without a valid session.
var ErrUnauthorized = core.ErrUnauthorized

// --- Configuration ---

// Option defines a functional option for configuring silt.
type Option = platform.Option

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAccountGateway injects a custom account gateway.
func WithAccountGateway(gw core.AccountGateway) Option {
	return platform.WithAccountGateway(gw)
}

// WithNoteGateway injects a custom note gateway.
func WithNoteGateway(gw core.NoteGateway) Option {
	return platform.WithNoteGateway(gw)
}

// WithHTTPClient replaces the HTTP client used by the REST adapter.
func WithHTTPClient(h *http.Client) Option {
	return platform.WithHTTPClient(h)
}

// WithTokenStore enables session persistence across process runs.
func WithTokenStore(ts rest.TokenStore) Option {
	return platform.WithTokenStore(ts)
}

// --- Factory ---

// New creates the session-gated note service for the given remote store.
func New(cfg Config, opts ...Option) (*Service, error) {
	return platform.New(cfg, opts...)
}
