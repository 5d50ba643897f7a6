package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/silt/pkg/core"
)

// fakeAccountGateway implements core.AccountGateway in memory. A nil identity
// error means a session exists.
type fakeAccountGateway struct {
	mu sync.Mutex

	identity     core.Identity
	identityErr  error
	sessionErr   error
	accountErr   error
	deleteErr    error
	identityGate chan struct{} // when set, CurrentIdentity blocks until closed

	identityCalls int
	sessionCalls  int
	accountCalls  int
	deleteCalls   int
}

func (f *fakeAccountGateway) CurrentIdentity(ctx context.Context) (core.Identity, error) {
	f.mu.Lock()
	f.identityCalls++
	gate := f.identityGate
	id, err := f.identity, f.identityErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return core.Identity{}, err
	}
	return id, nil
}

func (f *fakeAccountGateway) CreateSession(ctx context.Context, email, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionCalls++
	if f.sessionErr != nil {
		return f.sessionErr
	}
	// A valid session makes the identity resolvable.
	f.identityErr = nil
	return nil
}

func (f *fakeAccountGateway) DeleteSession(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.identityErr = errors.New("no session")
	return nil
}

func (f *fakeAccountGateway) CreateAccount(ctx context.Context, email, password string) (core.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountCalls++
	if f.accountErr != nil {
		return core.Identity{}, f.accountErr
	}
	f.identity = core.Identity{ID: "u1", Email: email}
	return f.identity, nil
}

func TestSession_InitialStateIsPending(t *testing.T) {
	s := core.NewSession(&fakeAccountGateway{}, nil)
	if got := s.Status(); got != core.StatusPending {
		t.Errorf("initial status = %v, want Pending", got)
	}
	if _, ok := s.Identity(); ok {
		t.Error("no identity expected before first operation")
	}
}

func TestSession_RestoreSuccess(t *testing.T) {
	gw := &fakeAccountGateway{identity: core.Identity{ID: "u1", Email: "a@x.com"}}
	s := core.NewSession(gw, nil)

	if got := s.Restore(context.Background()); got != core.StatusAuthenticated {
		t.Fatalf("Restore() = %v, want Authenticated", got)
	}
	id, ok := s.Identity()
	if !ok || id.ID != "u1" || id.Email != "a@x.com" {
		t.Errorf("identity = %+v ok=%v, want u1/a@x.com", id, ok)
	}
}

// Restore never propagates an error; any failure lands in Anonymous.
func TestSession_RestoreFailureIsAnonymous(t *testing.T) {
	gw := &fakeAccountGateway{identityErr: errors.New("no session")}
	s := core.NewSession(gw, nil)

	if got := s.Restore(context.Background()); got != core.StatusAnonymous {
		t.Fatalf("Restore() = %v, want Anonymous", got)
	}
	if _, ok := s.Identity(); ok {
		t.Error("no identity expected after failed restore")
	}
}

func TestSession_LoginValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "Empty Email", email: "", password: "pw1234"},
		{name: "Blank Email", email: "   ", password: "pw1234"},
		{name: "Empty Password", email: "a@x.com", password: ""},
		{name: "Blank Password", email: "a@x.com", password: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeAccountGateway{}
			s := core.NewSession(gw, nil)

			err := s.Login(context.Background(), tt.email, tt.password)
			if !core.IsValidation(err) {
				t.Fatalf("Login error = %v, want ValidationError", err)
			}
			if gw.sessionCalls != 0 {
				t.Error("validation failure must not reach the gateway")
			}
		})
	}
}

// A rejected login leaves the session Anonymous, never Pending, and the
// reason is returned.
func TestSession_LoginFailure(t *testing.T) {
	gw := &fakeAccountGateway{
		identityErr: errors.New("no session"),
		sessionErr:  &core.RemoteError{Op: "create session", Message: "invalid credentials"},
	}
	s := core.NewSession(gw, nil)
	s.Restore(context.Background())

	err := s.Login(context.Background(), "a@x.com", "wrongpw")
	if err == nil {
		t.Fatal("expected login failure")
	}
	if !core.IsRemote(err) {
		t.Errorf("error = %v, want RemoteError", err)
	}
	if got := s.Status(); got != core.StatusAnonymous {
		t.Errorf("status after failed login = %v, want Anonymous", got)
	}
}

func TestSession_LoginFailureBeforeRestoreSettlesAnonymous(t *testing.T) {
	gw := &fakeAccountGateway{
		sessionErr: &core.RemoteError{Op: "create session", Message: "invalid credentials"},
	}
	s := core.NewSession(gw, nil)

	if err := s.Login(context.Background(), "a@x.com", "wrongpw"); err == nil {
		t.Fatal("expected login failure")
	}
	if got := s.Status(); got != core.StatusAnonymous {
		t.Errorf("status = %v, want Anonymous (not Pending)", got)
	}
}

// The identity after login comes from the server, not from the client input.
func TestSession_LoginUsesServerIdentity(t *testing.T) {
	gw := &fakeAccountGateway{
		identity:    core.Identity{ID: "u1", Email: "canonical@x.com"},
		identityErr: errors.New("no session"),
	}
	s := core.NewSession(gw, nil)

	if err := s.Login(context.Background(), "A@X.COM", "pw1234"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	id, _ := s.Identity()
	if id.Email != "canonical@x.com" {
		t.Errorf("identity email = %q, want the server-side record", id.Email)
	}
	if gw.identityCalls == 0 {
		t.Error("login must re-fetch the identity from the server")
	}
}

// A session created but an unresolvable identity is a login failure, not a
// half-authenticated state.
func TestSession_LoginIdentityFetchFailure(t *testing.T) {
	s := core.NewSession(&stubAccount{
		createSession: func() error { return nil },
		current:       func() (core.Identity, error) { return core.Identity{}, errors.New("store unavailable") },
	}, nil)

	err := s.Login(context.Background(), "a@x.com", "pw1234")
	if err == nil {
		t.Fatal("expected error when identity fetch fails after session creation")
	}
	if got := s.Status(); got != core.StatusAnonymous {
		t.Errorf("status = %v, want Anonymous (no partial identity)", got)
	}
}

func TestSession_RegisterChainsLogin(t *testing.T) {
	gw := &fakeAccountGateway{identityErr: errors.New("no session")}
	s := core.NewSession(gw, nil)

	if err := s.Register(context.Background(), "a@x.com", "pw1234"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if got := s.Status(); got != core.StatusAuthenticated {
		t.Fatalf("status = %v, want Authenticated", got)
	}
	if gw.accountCalls != 1 || gw.sessionCalls != 1 {
		t.Errorf("calls = account:%d session:%d, want 1 and 1", gw.accountCalls, gw.sessionCalls)
	}
	id, _ := s.Identity()
	if id.Email != "a@x.com" {
		t.Errorf("identity email = %q, want a@x.com", id.Email)
	}
}

func TestSession_RegisterAccountFailure(t *testing.T) {
	gw := &fakeAccountGateway{
		identityErr: errors.New("no session"),
		accountErr:  &core.RemoteError{Op: "create account", Message: "email already taken"},
	}
	s := core.NewSession(gw, nil)
	s.Restore(context.Background())

	err := s.Register(context.Background(), "a@x.com", "pw1234")
	if err == nil {
		t.Fatal("expected registration failure")
	}
	if got := s.Status(); got != core.StatusAnonymous {
		t.Errorf("status = %v, want Anonymous (no partial identity)", got)
	}
	if gw.sessionCalls != 0 {
		t.Error("no login attempt expected after failed account creation")
	}
}

// Logout transitions to Anonymous even when the remote invalidation fails.
func TestSession_LogoutSwallowsRemoteFailure(t *testing.T) {
	gw := &fakeAccountGateway{identity: core.Identity{ID: "u1", Email: "a@x.com"}}
	s := core.NewSession(gw, nil)
	s.Restore(context.Background())

	gw.mu.Lock()
	gw.deleteErr = errors.New("network down")
	gw.mu.Unlock()

	s.Logout(context.Background())
	if got := s.Status(); got != core.StatusAnonymous {
		t.Errorf("status after logout = %v, want Anonymous", got)
	}
	if _, ok := s.Identity(); ok {
		t.Error("identity must be cleared by logout")
	}
}

// Concurrent Restore calls share one flight: the gateway sees one request and
// every caller observes its outcome.
func TestSession_ConcurrentRestoreSingleFlight(t *testing.T) {
	gate := make(chan struct{})
	gw := &fakeAccountGateway{
		identity:     core.Identity{ID: "u1", Email: "a@x.com"},
		identityGate: gate,
	}
	s := core.NewSession(gw, nil)

	const callers = 8
	results := make(chan core.Status, callers)
	first := make(chan struct{}, 1)
	go func() {
		first <- struct{}{}
		results <- s.Restore(context.Background())
	}()
	<-first
	for i := 1; i < callers; i++ {
		go func() {
			results <- s.Restore(context.Background())
		}()
	}
	// Let the remaining callers join the in-flight restore before it
	// completes.
	time.Sleep(50 * time.Millisecond)
	close(gate)

	for i := 0; i < callers; i++ {
		if got := <-results; got != core.StatusAuthenticated {
			t.Errorf("caller %d observed %v, want Authenticated", i, got)
		}
	}

	gw.mu.Lock()
	calls := gw.identityCalls
	gw.mu.Unlock()
	if calls != 1 {
		t.Errorf("identity endpoint hit %d times, want 1", calls)
	}
}

func TestSession_TransitionObserverOrder(t *testing.T) {
	gw := &fakeAccountGateway{identityErr: errors.New("no session")}
	s := core.NewSession(gw, nil)

	var transitions []core.Status
	s.OnTransition(func(to core.Status, id core.Identity) {
		transitions = append(transitions, to)
	})

	ctx := context.Background()
	s.Restore(ctx) // -> Anonymous
	if err := s.Login(ctx, "a@x.com", "pw1234"); err != nil {
		t.Fatalf("Login failed: %v", err)
	} // -> Authenticated
	s.Logout(ctx) // -> Anonymous

	want := []core.Status{core.StatusAnonymous, core.StatusAuthenticated, core.StatusAnonymous}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition %d = %v, want %v", i, transitions[i], want[i])
		}
	}
}

// stubAccount is a function-backed AccountGateway for one-off shapes.
type stubAccount struct {
	current       func() (core.Identity, error)
	createSession func() error
	deleteSession func() error
	createAccount func() (core.Identity, error)
}

func (s *stubAccount) CurrentIdentity(ctx context.Context) (core.Identity, error) {
	if s.current == nil {
		return core.Identity{}, errors.New("no session")
	}
	return s.current()
}

func (s *stubAccount) CreateSession(ctx context.Context, email, password string) error {
	if s.createSession == nil {
		return errors.New("unexpected call")
	}
	return s.createSession()
}

func (s *stubAccount) DeleteSession(ctx context.Context) error {
	if s.deleteSession == nil {
		return nil
	}
	return s.deleteSession()
}

func (s *stubAccount) CreateAccount(ctx context.Context, email, password string) (core.Identity, error) {
	if s.createAccount == nil {
		return core.Identity{}, errors.New("unexpected call")
	}
	return s.createAccount()
}
