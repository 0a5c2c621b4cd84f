package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated actor, derived from a
// credential's claims or from a backend auth response.
type Identity struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// StoredCredential is the credential store record: the bearer token plus the
// identity fields mirrored from its claims. The record is always written and
// cleared as one unit.
type StoredCredential struct {
	Token    string
	Identity Identity
}

// CredentialStore is durable, synchronous key/value persistence for the
// current credential. Implementations guarantee the record is either fully
// populated or fully absent; Load returns (nil, nil) when any required field
// is missing.
type CredentialStore interface {
	Save(ctx context.Context, token string, identity Identity) error
	Load(ctx context.Context) (*StoredCredential, error)
	Clear(ctx context.Context) error
}

// SessionSource is the read side of the session state stream. Subscribe
// replays the latest value immediately, then delivers subsequent values in
// publish order; the returned func cancels the subscription.
type SessionSource interface {
	Subscribe() (func(), <-chan Session)
	Current() Session
}

// CredentialProvider is the third-party sign-in capability. SignIn yields an
// opaque provider token suitable for the /auth/google exchange; the token is
// never inspected client-side.
type CredentialProvider interface {
	SignIn(ctx context.Context) (string, error)
}

// Exchanger performs the backend auth exchanges. Implementations report any
// transport or backend failure as an error and perform no retries.
type Exchanger interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	ExchangeGoogleCredential(ctx context.Context, req GoogleExchangeRequest) (*AuthResponse, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
