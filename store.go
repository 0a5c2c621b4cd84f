package auth

import (
	"context"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// ValidateCredentialRecord rejects writes that would leave a credential
// store partially populated. Every backend calls this before persisting.
func ValidateCredentialRecord(token string, identity Identity) error {
	switch {
	case token == "":
		return goerrors.New("credential token is required", goerrors.CategoryBadInput)
	case identity.UserID == "":
		return goerrors.New("credential userId is required", goerrors.CategoryBadInput)
	case identity.Email == "":
		return goerrors.New("credential email is required", goerrors.CategoryBadInput)
	case identity.Role == "":
		return goerrors.New("credential role is required", goerrors.CategoryBadInput)
	}
	return nil
}

var _ CredentialStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory CredentialStore for tests and non-durable
// setups. The zero value is ready to use.
type MemoryStore struct {
	mu  sync.Mutex
	rec *StoredCredential
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, token string, identity Identity) error {
	if err := ValidateCredentialRecord(token, identity); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = &StoredCredential{Token: token, Identity: identity}
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (*StoredCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rec == nil {
		return nil, nil
	}

	rec := *m.rec
	return &rec, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}
