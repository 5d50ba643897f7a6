package platform

import (
	"log/slog"
	"net/http"

	"github.com/aretw0/silt/pkg/adapters/rest"
	"github.com/aretw0/silt/pkg/core"
)

// options holds the internal configuration for the silt service.
type options struct {
	logger     *slog.Logger
	account    core.AccountGateway
	notes      core.NoteGateway
	httpClient *http.Client
	tokens     rest.TokenStore
}

// Option defines a functional option for configuring silt.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAccountGateway injects a custom account gateway (e.g. a mock, or a
// different transport). If provided, the REST adapter is skipped for
// identity operations.
func WithAccountGateway(gw core.AccountGateway) Option {
	return func(o *options) {
		o.account = gw
	}
}

// WithNoteGateway injects a custom note gateway. If provided, the REST
// adapter is skipped for document operations.
func WithNoteGateway(gw core.NoteGateway) Option {
	return func(o *options) {
		o.notes = gw
	}
}

// WithHTTPClient replaces the HTTP client used by the REST adapter.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) {
		o.httpClient = h
	}
}

// WithTokenStore enables session persistence across process runs.
func WithTokenStore(ts rest.TokenStore) Option {
	return func(o *options) {
		o.tokens = ts
	}
}
