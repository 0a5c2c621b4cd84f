package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/sync/semaphore"
)

// SessionService orchestrates the auth exchanges against the backend. It is
// the only writer to the credential store and the only publisher into the
// session stream; on success the store write and the publish happen as one
// unit, and on failure prior state is left untouched. Mutating operations
// are serialized, so two near-simultaneous logins resolve one after the
// other and the last publish wins.
type SessionService struct {
	api    Exchanger
	store  CredentialStore
	stream *SessionStream
	logger Logger
	now    func() time.Time
	ops    *semaphore.Weighted
}

type ServiceOption func(*SessionService)

// WithServiceLogger sets the service logger.
func WithServiceLogger(logger Logger) ServiceOption {
	return func(s *SessionService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithServiceClock injects a custom clock (useful for tests).
func WithServiceClock(clock func() time.Time) ServiceOption {
	return func(s *SessionService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewSessionService wires the backend client, the credential store, and the
// session stream. All three are required.
func NewSessionService(api Exchanger, store CredentialStore, stream *SessionStream, opts ...ServiceOption) *SessionService {
	if api == nil {
		panic("Missing Exchanger in session service...")
	}
	if store == nil {
		panic("Missing CredentialStore in session service...")
	}
	if stream == nil {
		panic("Missing SessionStream in session service...")
	}

	s := &SessionService{
		api:    api,
		store:  store,
		stream: stream,
		logger: defLogger{},
		now:    time.Now,
		ops:    semaphore.NewWeighted(1),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Stream exposes the session stream for read-only consumers.
func (s *SessionService) Stream() *SessionStream {
	return s.stream
}

// Register creates an account and signs the new identity in.
func (s *SessionService) Register(ctx context.Context, req RegisterRequest) (*Identity, error) {
	if err := req.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	return s.runExchange(ctx, "register", func(ctx context.Context) (*AuthResponse, error) {
		return s.api.Register(ctx, req)
	})
}

// Login signs an existing identity in with email and password.
func (s *SessionService) Login(ctx context.Context, req LoginRequest) (*Identity, error) {
	if err := req.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload")
	}

	return s.runExchange(ctx, "login", func(ctx context.Context) (*AuthResponse, error) {
		return s.api.Login(ctx, req)
	})
}

// ExchangeProviderCredential trades an opaque identity-provider token for a
// backend credential. role is required the first time an identity registers
// through the provider and optional afterwards; the backend decides which
// case applies.
func (s *SessionService) ExchangeProviderCredential(ctx context.Context, providerToken string, role Role) (*Identity, error) {
	req := GoogleExchangeRequest{IDToken: providerToken, Role: role}
	if err := req.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid provider exchange payload")
	}

	return s.runExchange(ctx, "provider exchange", func(ctx context.Context) (*AuthResponse, error) {
		return s.api.ExchangeGoogleCredential(ctx, req)
	})
}

// SignOut clears the store and publishes the unauthenticated session. It
// always succeeds locally; a store failure is logged, never surfaced, and
// never blocks the publish.
func (s *SessionService) SignOut(ctx context.Context) {
	if err := s.ops.Acquire(ctx, 1); err == nil {
		defer s.ops.Release(1)
	}

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("sign-out: store clear failed: %v", err)
	}

	s.stream.Publish(Session{})
}

// HasValidToken is the cheap synchronous pre-check: the store holds a
// credential and its claims are unexpired. It never consults the stream.
func (s *SessionService) HasValidToken(ctx context.Context) bool {
	return freshCredential(ctx, s.store, s.now()) != nil
}

// CurrentIdentity returns the identity of the last published session
// without waiting, or nil when unauthenticated.
func (s *SessionService) CurrentIdentity() *Identity {
	session := s.stream.Current()
	if session.Identity == nil {
		return nil
	}

	identity := *session.Identity
	return &identity
}

// runExchange serializes a mutating operation, performs the backend call,
// and commits store plus stream together. Nothing is written before the
// call resolves, so caller cancellation leaves no partial state.
func (s *SessionService) runExchange(ctx context.Context, op string, call func(context.Context) (*AuthResponse, error)) (*Identity, error) {
	if err := s.ops.Acquire(ctx, 1); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "session operation cancelled")
	}
	defer s.ops.Release(1)

	res, err := call(ctx)
	if err != nil {
		s.logger.Error("%s exchange failed: %v", op, err)
		return nil, err
	}

	identity := res.User
	if err := ValidateCredentialRecord(res.Token, identity); err != nil {
		s.logger.Error("%s exchange returned an incomplete identity: %v", op, err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "auth response is missing identity fields")
	}

	if err := s.store.Save(ctx, res.Token, identity); err != nil {
		// prior session state stays untouched: nothing was published
		s.logger.Error("%s: credential save failed: %v", op, err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist credential")
	}

	s.stream.Publish(AuthenticatedSession(identity))
	s.logger.Debug("%s succeeded for user=%s role=%s", op, identity.UserID, identity.Role)

	return &identity, nil
}
