package core

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Session owns the authentication state of the running process. Exactly one
// Session exists per process; every identity transition flows through it.
//
// The state machine is Pending -> {Authenticated, Anonymous}, with
// Authenticated -> Anonymous on logout or on any operation discovering the
// remote session is no longer valid. Identity-mutating operations (Restore,
// Login, Register, Logout) are serialized: a concurrent second call observes
// the completed state of the in-flight operation, never an intermediate.
type Session struct {
	account AccountGateway
	logger  *slog.Logger

	// opMu serializes identity-mutating operations. mu guards the state
	// fields for readers and is never held across a gateway call.
	opMu sync.Mutex
	mu   sync.RWMutex

	status   Status
	identity Identity

	restores  singleflight.Group
	observers []func(to Status, id Identity)
}

// NewSession creates a Session in the Pending state.
func NewSession(account AccountGateway, logger *slog.Logger) *Session {
	if logger == nil {
		logger = discardLogger()
	}
	return &Session{
		account: account,
		logger:  logger,
		status:  StatusPending,
	}
}

// Status returns the current authentication state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Identity returns the current identity. The boolean is false unless the
// session is Authenticated.
func (s *Session) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.status == StatusAuthenticated
}

// OnTransition registers an observer invoked synchronously after every state
// transition, inside the operation that caused it. Observers must not call
// back into identity-mutating operations.
func (s *Session) OnTransition(fn func(to Status, id Identity)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Restore resolves the startup session state by asking the remote store who
// the current identity is. Any failure, including the expected "no session",
// lands in Anonymous; Restore never returns an error because the absence of a
// session is not exceptional.
//
// Concurrent calls share a single flight: the second caller observes the
// first call's outcome.
func (s *Session) Restore(ctx context.Context) Status {
	v, _, _ := s.restores.Do("restore", func() (any, error) {
		s.opMu.Lock()
		defer s.opMu.Unlock()
		st, _ := s.resolve(ctx)
		return st, nil
	})
	return v.(Status)
}

// Login authenticates with the given credentials. On success the identity is
// re-fetched from the server so it reflects server truth rather than the
// client-echoed input. On failure the session is Anonymous and the error
// carries the reason.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.login(ctx, email, password)
}

// Register creates a new account and then logs it in with the same
// credentials, so a successful registration always yields an authenticated
// session. Failure of either step leaves no partial identity behind.
func (s *Session) Register(ctx context.Context, email, password string) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if _, err := s.account.CreateAccount(ctx, email, password); err != nil {
		s.settleAnonymousFromPending()
		return err
	}
	return s.login(ctx, email, password)
}

// Logout invalidates the remote session best-effort and unconditionally
// transitions to Anonymous. A remote failure is swallowed: the local session
// must die regardless, and the server-side session expires on its own.
func (s *Session) Logout(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.account.DeleteSession(ctx); err != nil {
		s.logger.Debug("remote session invalidation failed", "error", err)
	}
	s.transition(StatusAnonymous, Identity{})
}

// login assumes opMu is held.
func (s *Session) login(ctx context.Context, email, password string) error {
	if err := s.account.CreateSession(ctx, email, password); err != nil {
		s.settleAnonymousFromPending()
		return err
	}
	// Session established; resolve the identity from the server.
	if _, err := s.resolve(ctx); err != nil {
		return err
	}
	return nil
}

// resolve fetches the current identity and transitions accordingly. Assumes
// opMu is held.
func (s *Session) resolve(ctx context.Context) (Status, error) {
	id, err := s.account.CurrentIdentity(ctx)
	if err != nil {
		s.logger.Debug("no current identity", "error", err)
		s.transition(StatusAnonymous, Identity{})
		return StatusAnonymous, err
	}
	s.transition(StatusAuthenticated, id)
	return StatusAuthenticated, nil
}

// settleAnonymousFromPending collapses a failed first operation out of
// Pending, so a failed login attempted before any Restore still leaves the
// session in a terminal state. Assumes opMu is held.
func (s *Session) settleAnonymousFromPending() {
	s.mu.RLock()
	pending := s.status == StatusPending
	s.mu.RUnlock()
	if pending {
		s.transition(StatusAnonymous, Identity{})
	}
}

// transition updates the state and notifies observers synchronously, still
// inside the owning operation. Assumes opMu is held.
func (s *Session) transition(to Status, id Identity) {
	s.mu.Lock()
	s.status = to
	s.identity = id
	observers := s.observers
	s.mu.Unlock()

	for _, fn := range observers {
		fn(to, id)
	}
}

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Reason: "email cannot be empty"}
	}
	if strings.TrimSpace(password) == "" {
		return &ValidationError{Reason: "password cannot be empty"}
	}
	return nil
}
