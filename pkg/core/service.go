package core

import (
	"context"
	"log/slog"
)

// Service is the session-gated surface the application talks to. It composes
// the Session and the Cache so that no note operation ever executes without a
// valid identity, and so that losing the identity clears the local collection
// before control returns to the caller. A note from a previous identity is
// never observable, even transiently.
//
// The UI (or any other caller) goes through Service exclusively; it never
// touches the gateways directly.
type Service struct {
	session *Session
	cache   *Cache
	logger  *slog.Logger
}

// NewService wires a Session and a Cache together. It subscribes to session
// transitions: entering Authenticated rebinds the cache to the new identity,
// entering Anonymous clears it.
func NewService(session *Session, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = discardLogger()
	}
	s := &Service{session: session, cache: cache, logger: logger}
	session.OnTransition(func(to Status, id Identity) {
		switch to {
		case StatusAuthenticated:
			cache.Reset(id.ID)
		case StatusAnonymous:
			cache.Clear()
		}
	})
	return s
}

// Restore resolves the startup session and, when a session exists, performs
// the initial collection load. Restore itself never fails; a load failure is
// logged and the next Refresh retries it.
func (s *Service) Restore(ctx context.Context) Status {
	st := s.session.Restore(ctx)
	if st == StatusAuthenticated {
		if err := s.cache.Load(ctx); err != nil {
			s.logger.Warn("initial note load failed", "error", err)
		}
	}
	return st
}

// Login authenticates and loads the new identity's notes. A load failure
// after a successful login is returned as the error; the session itself
// remains authenticated and Refresh can retry the load.
func (s *Service) Login(ctx context.Context, email, password string) error {
	if err := s.session.Login(ctx, email, password); err != nil {
		return err
	}
	return s.cache.Load(ctx)
}

// Register creates an account and logs it in. The confirmation check lives
// here, at the caller-facing boundary, not in the Session.
func (s *Service) Register(ctx context.Context, email, password, confirm string) error {
	if password != confirm {
		return &ValidationError{Reason: "passwords do not match"}
	}
	if err := s.session.Register(ctx, email, password); err != nil {
		return err
	}
	return s.cache.Load(ctx)
}

// Logout invalidates the session. The cache is cleared synchronously via the
// transition observer before Logout returns.
func (s *Service) Logout(ctx context.Context) {
	s.session.Logout(ctx)
}

// Status returns the current session state.
func (s *Service) Status() Status {
	return s.session.Status()
}

// CurrentIdentity returns the authenticated identity or ErrUnauthorized.
func (s *Service) CurrentIdentity() (Identity, error) {
	id, ok := s.session.Identity()
	if !ok {
		return Identity{}, ErrUnauthorized
	}
	return id, nil
}

// ListNotes returns the local collection snapshot in order.
func (s *Service) ListNotes() ([]Note, error) {
	if err := s.gate(); err != nil {
		return nil, err
	}
	return s.cache.Notes(), nil
}

// Refresh re-fetches the collection from the remote store.
func (s *Service) Refresh(ctx context.Context) error {
	if err := s.gate(); err != nil {
		return err
	}
	return s.cache.Load(ctx)
}

// AddNote creates a note and returns the stored record.
func (s *Service) AddNote(ctx context.Context, text string) (Note, error) {
	if err := s.gate(); err != nil {
		return Note{}, err
	}
	return s.cache.Create(ctx, text)
}

// EditNote replaces a note's text and returns the stored record.
func (s *Service) EditNote(ctx context.Context, id, text string) (Note, error) {
	if err := s.gate(); err != nil {
		return Note{}, err
	}
	return s.cache.Update(ctx, id, text)
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if err := s.gate(); err != nil {
		return err
	}
	return s.cache.Delete(ctx, id)
}

func (s *Service) gate() error {
	if s.session.Status() != StatusAuthenticated {
		return ErrUnauthorized
	}
	return nil
}
