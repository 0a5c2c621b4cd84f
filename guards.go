package auth

import (
	"context"
	"net/url"
	"time"
)

// DefaultGuardTimeout bounds how long a predicate waits on the session
// stream before falling back to the synchronous store check.
const DefaultGuardTimeout = 1000 * time.Millisecond

// LoginRoute is where denied navigation is sent, with the originally
// requested path attached as a returnUrl query parameter.
const LoginRoute = "/login"

// Decision is the outcome of an authorization predicate: allow, or deny
// with a redirect target.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// Allow grants entry.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny refuses entry and redirects to target.
func Deny(target string) Decision {
	return Decision{RedirectTo: target}
}

// Guard evaluates the route authorization predicates. It is a read-only
// consumer of the session stream and the credential store; both predicates
// resolve within the configured bound and never hang on a slow or silent
// upstream.
type Guard struct {
	stream  SessionSource
	store   CredentialStore
	timeout time.Duration
	logger  Logger
	now     func() time.Time
}

type GuardOption func(*Guard)

// WithGuardTimeout overrides the bounded wait.
func WithGuardTimeout(timeout time.Duration) GuardOption {
	return func(g *Guard) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

// WithGuardLogger sets the guard logger.
func WithGuardLogger(logger Logger) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithGuardClock injects a custom clock (useful for tests).
func WithGuardClock(clock func() time.Time) GuardOption {
	return func(g *Guard) {
		if clock != nil {
			g.now = clock
		}
	}
}

// NewGuard wires the predicates to their two sources. Both are required.
func NewGuard(stream SessionSource, store CredentialStore, opts ...GuardOption) *Guard {
	if stream == nil {
		panic("Missing SessionSource in guard...")
	}
	if store == nil {
		panic("Missing CredentialStore in guard...")
	}

	g := &Guard{
		stream:  stream,
		store:   store,
		timeout: DefaultGuardTimeout,
		logger:  defLogger{},
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// IsAuthenticated decides whether the current actor may enter a protected
// area that accepts any authenticated role. The synchronous store check is
// remembered up front and acts as a second, independent vote: right after a
// reload the stream's first value can report unauthenticated before the
// backend confirms the session, and the durable credential must win that
// race instead of bouncing the user to login.
func (g *Guard) IsAuthenticated(ctx context.Context, requestedPath string) Decision {
	fallbackOK := freshCredential(ctx, g.store, g.now()) != nil

	session, ok := g.awaitSession(ctx)
	if !ok {
		if fallbackOK {
			return Allow()
		}
		return Deny(loginRedirect(requestedPath))
	}

	if session.Authenticated() {
		if freshCredential(ctx, g.store, g.now()) != nil {
			return Allow()
		}
		// the stream has not caught up with a cleared or expired credential
		return Deny(loginRedirect(requestedPath))
	}

	if fallbackOK {
		return Allow()
	}

	return Deny(loginRedirect(requestedPath))
}

// HasRole decides whether the current actor may enter an area restricted to
// required. The role is read preferentially from the live authenticated
// identity, falling back to the store's mirrored role when the stream has
// not resolved in time or reports unauthenticated while a fresh credential
// exists. A mismatched role redirects to that role's own landing area, not
// to login.
func (g *Guard) HasRole(ctx context.Context, required Role, requestedPath string) Decision {
	fallback := freshCredential(ctx, g.store, g.now())

	session, ok := g.awaitSession(ctx)

	var role Role
	haveIdentity := false

	switch {
	case ok && session.Authenticated():
		haveIdentity = true
		role = session.Identity.Role
	case fallback != nil:
		haveIdentity = true
		role = fallback.Identity.Role
	}

	if !haveIdentity {
		return Deny(loginRedirect(requestedPath))
	}

	if role == required {
		return Allow()
	}

	if role.IsValid() {
		return Deny(role.DefaultLanding())
	}

	// an identity without a recognized role falls back to the first
	// registered role's landing area
	return Deny(Roles()[0].DefaultLanding())
}

// awaitSession takes exactly one value from the stream, bounded by the
// guard timeout and the caller's context.
func (g *Guard) awaitSession(ctx context.Context) (Session, bool) {
	unsub, ch := g.stream.Subscribe()
	defer unsub()

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case session, open := <-ch:
		if !open {
			return Session{}, false
		}
		return session, true
	case <-timer.C:
		g.logger.Debug("guard: session stream silent for %s, using store fallback", g.timeout)
		return Session{}, false
	case <-ctx.Done():
		return Session{}, false
	}
}

func loginRedirect(requestedPath string) string {
	if requestedPath == "" {
		return LoginRoute
	}
	return LoginRoute + "?returnUrl=" + url.QueryEscape(requestedPath)
}
