package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// RegisterRequest payload
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        Role   `json:"role"`
	DisplayName string `json:"displayName,omitempty"`
}

// Validate will run validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(6, 100),
		),
		validation.Field(
			&r.Role,
			validation.Required,
			validation.In(RoleStudent, RoleTeacher),
		),
		validation.Field(&r.DisplayName, validation.Length(0, 200)),
	)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// GoogleExchangeRequest payload. Role is required for first-time
// registration through the provider and optional on subsequent logins.
type GoogleExchangeRequest struct {
	IDToken string `json:"idToken"`
	Role    Role   `json:"role,omitempty"`
}

// Validate will run validation rules
func (r GoogleExchangeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDToken, validation.Required),
		validation.Field(&r.Role, validation.In(RoleStudent, RoleTeacher)),
	)
}

// AuthResponse is the shared response shape of the three auth exchanges.
type AuthResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

var _ Exchanger = (*APIClient)(nil)

// APIClient talks to the Comarker backend's auth endpoints. It attaches the
// stored bearer credential to outgoing requests when a store is configured,
// and maps every failure to a displayable error.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	store      CredentialStore
	logger     Logger
}

type APIClientOption func(*APIClient)

// WithHTTPClient overrides the default client and its 10s timeout.
func WithHTTPClient(client *http.Client) APIClientOption {
	return func(c *APIClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBearerSource attaches the credential store used for the
// Authorization header on outgoing requests.
func WithBearerSource(store CredentialStore) APIClientOption {
	return func(c *APIClient) {
		c.store = store
	}
}

// WithAPILogger sets the client logger.
func WithAPILogger(logger Logger) APIClientOption {
	return func(c *APIClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewAPIClient creates a backend client rooted at baseURL, e.g.
// "http://localhost:5000/api".
func NewAPIClient(baseURL string, opts ...APIClientOption) *APIClient {
	c := &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     defLogger{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Register implements Exchanger.
func (c *APIClient) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return c.exchange(ctx, "/auth/register", req)
}

// Login implements Exchanger.
func (c *APIClient) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	return c.exchange(ctx, "/auth/login", req)
}

// ExchangeGoogleCredential implements Exchanger.
func (c *APIClient) ExchangeGoogleCredential(ctx context.Context, req GoogleExchangeRequest) (*AuthResponse, error) {
	return c.exchange(ctx, "/auth/google", req)
}

func (c *APIClient) exchange(ctx context.Context, path string, payload any) (*AuthResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode auth payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build auth request")
	}
	req.Header.Set("Content-Type", "application/json")

	if c.store != nil {
		if rec, err := c.store.Load(ctx); err == nil && rec != nil {
			req.Header.Set("Authorization", "Bearer "+rec.Token)
		}
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("auth exchange %s transport error: %v", path, err)
		return nil, goerrors.Wrap(err, ErrBackendUnreachable.Category, ErrBackendUnreachable.Message).
			WithTextCode(TextCodeBackendUnreachable)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, c.errorFromResponse(path, res)
	}

	var out AuthResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "invalid auth response body")
	}

	if out.Token == "" {
		return nil, NewAuthError("auth response is missing a credential")
	}

	return &out, nil
}

// errorFromResponse surfaces the backend's {message} body when present, with
// a generic status-based message otherwise.
func (c *APIClient) errorFromResponse(path string, res *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}

	data, readErr := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if readErr == nil {
		_ = json.Unmarshal(data, &payload)
	}

	message := payload.Message
	if message == "" {
		message = fmt.Sprintf("authentication failed (status %d)", res.StatusCode)
	}

	c.logger.Debug("auth exchange %s rejected: status=%d message=%q", path, res.StatusCode, message)

	return NewAuthError(message)
}
