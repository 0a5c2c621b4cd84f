package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/tasinahammed01/RoznaComarker-Client"
)

func TestAPIClient_AttachesStoredBearer(t *testing.T) {
	ctx := context.Background()
	token := studentToken(t, time.Now().Add(time.Hour))

	store := auth.NewMemoryStore()
	seedStore(t, store, token, studentIdentity())

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(auth.AuthResponse{Token: token, User: studentIdentity()})
	}))
	defer server.Close()

	client := auth.NewAPIClient(server.URL, auth.WithBearerSource(store))

	_, err := client.Login(ctx, auth.LoginRequest{Email: "a@b.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, gotAuth)
}

func TestAPIClient_NoBearerWithoutStore(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(auth.AuthResponse{
			Token: studentToken(t, time.Now().Add(time.Hour)),
			User:  studentIdentity(),
		})
	}))
	defer server.Close()

	client := auth.NewAPIClient(server.URL)

	_, err := client.Login(context.Background(), auth.LoginRequest{Email: "a@b.com", Password: "secret"})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestAPIClient_SurfacesBackendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Email already registered"})
	}))
	defer server.Close()

	client := auth.NewAPIClient(server.URL)

	_, err := client.Register(context.Background(), auth.RegisterRequest{
		Email:    "a@b.com",
		Password: "supersecret",
		Role:     auth.RoleStudent,
	})
	require.Error(t, err)
	assert.True(t, auth.IsAuthError(err))
	assert.Equal(t, "Email already registered", auth.ErrorMessage(err))
}

func TestAPIClient_GenericMessageWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := auth.NewAPIClient(server.URL)

	_, err := client.Login(context.Background(), auth.LoginRequest{Email: "a@b.com", Password: "secret"})
	require.Error(t, err)
	assert.Equal(t, "authentication failed (status 500)", auth.ErrorMessage(err))
}

func TestAPIClient_RejectsResponseWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"user": studentIdentity()})
	}))
	defer server.Close()

	client := auth.NewAPIClient(server.URL)

	_, err := client.Login(context.Background(), auth.LoginRequest{Email: "a@b.com", Password: "secret"})
	require.Error(t, err)
	assert.True(t, auth.IsAuthError(err))
}

func TestAPIClient_TransportError(t *testing.T) {
	client := auth.NewAPIClient("http://127.0.0.1:1")

	_, err := client.Login(context.Background(), auth.LoginRequest{Email: "a@b.com", Password: "secret"})
	require.Error(t, err)
	assert.Equal(t,
		"Cannot connect to server. Please make sure the backend is running.",
		auth.ErrorMessage(err))
}
