// Package google implements the third-party sign-in capability on top of
// Google's OIDC endpoints. SignIn yields the raw ID token as an opaque
// string; establishing trust in it is the backend's job.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	auth "github.com/tasinahammed01/RoznaComarker-Client"
)

const (
	providerName  = "google"
	defaultIssuer = "https://accounts.google.com"

	// initTimeout bounds provider discovery so a broken network fails the
	// sign-in instead of hanging it.
	initTimeout = 5 * time.Second
)

// CodeReceiver obtains the authorization code for a given consent URL and
// state nonce — a local callback listener in production, a canned value in
// tests.
type CodeReceiver interface {
	ReceiveCode(ctx context.Context, authURL, state string) (string, error)
}

// CodeReceiverFunc adapts a function to the CodeReceiver interface.
type CodeReceiverFunc func(ctx context.Context, authURL, state string) (string, error)

func (f CodeReceiverFunc) ReceiveCode(ctx context.Context, authURL, state string) (string, error) {
	return f(ctx, authURL, state)
}

// Config holds Google sign-in configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// IssuerURL overrides the Google issuer, e.g. for a test fixture.
	IssuerURL string

	// Receiver drives the user through the consent flow. Required.
	Receiver CodeReceiver

	HTTPClient *http.Client
}

var _ auth.CredentialProvider = (*Provider)(nil)

// Provider performs the authorization-code exchange and hands back the raw
// ID token. Endpoint discovery is lazy and bounded by initTimeout.
type Provider struct {
	cfg Config

	initOnce sync.Once
	initErr  error
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// New validates the configuration; discovery happens on first use.
func New(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("google sign-in config missing required fields")
	}
	if cfg.Receiver == nil {
		return nil, errors.New("google sign-in config requires a CodeReceiver")
	}
	if cfg.IssuerURL == "" {
		cfg.IssuerURL = defaultIssuer
	}

	return &Provider{cfg: cfg}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return providerName
}

// SignIn implements auth.CredentialProvider: run the consent flow, exchange
// the code, and return the raw ID token.
func (p *Provider) SignIn(ctx context.Context) (string, error) {
	if err := p.init(ctx); err != nil {
		return "", err
	}

	state := uuid.NewString()
	authURL := p.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)

	code, err := p.cfg.Receiver.ReceiveCode(ctx, authURL, state)
	if err != nil {
		return "", fmt.Errorf("google sign-in did not produce a code: %w", err)
	}

	token, err := p.oauth.Exchange(p.clientContext(ctx), code)
	if err != nil {
		return "", fmt.Errorf("google token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", errors.New("google did not return id_token")
	}

	// sanity check only: the backend re-verifies before issuing a session
	if _, err := p.verifier.Verify(ctx, rawIDToken); err != nil {
		return "", fmt.Errorf("google id_token verification failed: %w", err)
	}

	return rawIDToken, nil
}

func (p *Provider) init(ctx context.Context) error {
	p.initOnce.Do(func() {
		initCtx, cancel := context.WithTimeout(p.clientContext(ctx), initTimeout)
		defer cancel()

		oidcProvider, err := oidc.NewProvider(initCtx, p.cfg.IssuerURL)
		if err != nil {
			p.initErr = fmt.Errorf("failed to init google oidc provider: %w", err)
			return
		}

		p.verifier = oidcProvider.Verifier(&oidc.Config{
			ClientID: p.cfg.ClientID,
		})

		p.oauth = &oauth2.Config{
			ClientID:     p.cfg.ClientID,
			ClientSecret: p.cfg.ClientSecret,
			RedirectURL:  p.cfg.RedirectURL,
			Endpoint:     oidcProvider.Endpoint(),
			Scopes: []string{
				oidc.ScopeOpenID,
				"profile",
				"email",
			},
		}
	})

	return p.initErr
}

func (p *Provider) clientContext(ctx context.Context) context.Context {
	if p.cfg.HTTPClient != nil {
		return oidc.ClientContext(ctx, p.cfg.HTTPClient)
	}
	return ctx
}
