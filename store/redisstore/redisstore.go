// Package redisstore is a CredentialStore backed by a Redis hash, for
// deployments that keep the client session in a shared cache.
package redisstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	auth "github.com/tasinahammed01/RoznaComarker-Client"
)

const (
	fieldToken       = "jwt"
	fieldUserID      = "userId"
	fieldEmail       = "email"
	fieldRole        = "role"
	fieldDisplayName = "displayName"
	fieldPhotoURL    = "photoURL"
)

var _ auth.CredentialStore = (*Store)(nil)

// Store keeps the credential record in a single hash key. HSET writes every
// field in one command and DEL removes them in one command, which preserves
// the all-or-nothing record invariant without client-side locking.
type Store struct {
	client *redis.Client
	key    string
}

// New creates a Redis-backed credential store.
func New(client *redis.Client) *Store {
	return &Store{
		client: client,
		key:    "comarker:credential",
	}
}

// WithKey overrides the hash key, e.g. to namespace per profile.
func (s *Store) WithKey(key string) *Store {
	if key != "" {
		s.key = key
	}
	return s
}

func (s *Store) Save(ctx context.Context, token string, identity auth.Identity) error {
	if err := auth.ValidateCredentialRecord(token, identity); err != nil {
		return err
	}

	fields := map[string]any{
		fieldToken:       token,
		fieldUserID:      identity.UserID,
		fieldEmail:       identity.Email,
		fieldRole:        string(identity.Role),
		fieldDisplayName: identity.DisplayName,
		fieldPhotoURL:    identity.PhotoURL,
	}

	if err := s.client.HSet(ctx, s.key, fields).Err(); err != nil {
		return fmt.Errorf("redisstore: save credential: %w", err)
	}

	return nil
}

func (s *Store) Load(ctx context.Context) (*auth.StoredCredential, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: load credential: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	identity := auth.Identity{
		UserID:      fields[fieldUserID],
		Email:       fields[fieldEmail],
		Role:        auth.Role(fields[fieldRole]),
		DisplayName: fields[fieldDisplayName],
		PhotoURL:    fields[fieldPhotoURL],
	}

	if auth.ValidateCredentialRecord(fields[fieldToken], identity) != nil {
		return nil, nil
	}

	return &auth.StoredCredential{Token: fields[fieldToken], Identity: identity}, nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redisstore: clear credential: %w", err)
	}
	return nil
}
