// Package rest implements the remote store gateways over an Appwrite-style
// HTTP API. It is the only package in the module that performs network I/O.
//
// Every failure mode of the remote store (transport error, non-2xx status,
// malformed payload) is translated into *core.RemoteError so the callers can
// treat error handling uniformly. No method panics on remote misbehavior.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/silt/pkg/core"
)

// Config holds the connection parameters for the remote document store. All
// values are supplied at process start and immutable thereafter.
type Config struct {
	Endpoint        string `yaml:"endpoint"`         // base URL, e.g. "https://store.example.com/v1"
	Project         string `yaml:"project"`          // project identifier
	Database        string `yaml:"database"`         // database identifier
	NotesCollection string `yaml:"notes_collection"` // collection identifier for notes
	Platform        string `yaml:"platform"`         // platform bundle identifier, optional
}

// Validate reports the first missing required field.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Endpoint) == "":
		return fmt.Errorf("config: endpoint is required")
	case strings.TrimSpace(c.Project) == "":
		return fmt.Errorf("config: project is required")
	case strings.TrimSpace(c.Database) == "":
		return fmt.Errorf("config: database is required")
	case strings.TrimSpace(c.NotesCollection) == "":
		return fmt.Errorf("config: notes_collection is required")
	}
	return nil
}

// TokenStore persists the session secret between process runs, so a restored
// process can resume its session. The note collection itself is never
// persisted; only the opaque session credential is.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// Client implements core.AccountGateway and core.NoteGateway against the
// remote store's HTTP API. It is safe for concurrent use.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
	tokens TokenStore

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (custom transport,
// timeout, test doubles).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTokenStore enables session persistence across process runs.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

// NewClient validates the configuration and builds a gateway client. If a
// token store is configured, a previously saved session secret is adopted.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.tokens != nil {
		token, err := c.tokens.Load()
		if err != nil {
			c.logger.Debug("no stored session token", "error", err)
		} else if token != "" {
			c.token = token
		}
	}
	return c, nil
}

// errorBody is the error envelope the store returns on non-2xx responses.
type errorBody struct {
	Message string `json:"message"`
}

// do executes one request against the store. A nil out discards the response
// body. op names the operation for error reporting. The returned status is
// the HTTP status code when a response was received, 0 otherwise; every
// returned error is a *core.RemoteError.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (int, error) {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, &core.RemoteError{Op: op, Message: "encode request: " + err.Error()}
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.Endpoint+path, payload)
	if err != nil {
		return 0, &core.RemoteError{Op: op, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Silt-Project", c.cfg.Project)
	if c.cfg.Platform != "" {
		req.Header.Set("X-Silt-Platform", c.cfg.Platform)
	}
	if token := c.sessionToken(); token != "" {
		req.Header.Set("X-Silt-Session", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "op", op, "error", err)
		return 0, &core.RemoteError{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &core.RemoteError{Op: op, Message: readErrorMessage(resp)}
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, &core.RemoteError{Op: op, Message: "malformed response: " + err.Error()}
	}
	return resp.StatusCode, nil
}

// readErrorMessage extracts the store's human-readable failure reason,
// falling back to the HTTP status when the body is not the error envelope.
func readErrorMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Message != "" {
			return eb.Message
		}
	}
	return resp.Status
}

func (c *Client) sessionToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// setToken installs the session secret and persists it when a store is
// configured. Persistence failure is not fatal; the in-memory session works
// for the life of the process.
func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if c.tokens == nil {
		return
	}
	if token == "" {
		if err := c.tokens.Clear(); err != nil {
			c.logger.Debug("failed to clear stored token", "error", err)
		}
		return
	}
	if err := c.tokens.Save(token); err != nil {
		c.logger.Debug("failed to persist session token", "error", err)
	}
}
