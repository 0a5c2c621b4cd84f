// Package bunstore is the durable local CredentialStore, backed by a
// single-row SQLite table managed through Bun.
package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/tasinahammed01/RoznaComarker-Client"
)

// recordID pins the store to one logical credential: the table holds either
// exactly one fully populated row or none.
const recordID = 1

type credentialRecord struct {
	bun.BaseModel `bun:"table:credentials,alias:c"`

	ID          int64  `bun:"id,pk"`
	Token       string `bun:"jwt,notnull"`
	UserID      string `bun:"user_id,notnull"`
	Email       string `bun:"email,notnull"`
	Role        string `bun:"role,notnull"`
	DisplayName string `bun:"display_name,nullzero"`
	PhotoURL    string `bun:"photo_url,nullzero"`
}

var _ auth.CredentialStore = (*Store)(nil)

// Store persists the credential record in a SQLite database file, so the
// session survives process restarts.
type Store struct {
	db *bun.DB
}

// New opens (and creates when absent) the database at path. Use ":memory:"
// for a throwaway store.
func New(ctx context.Context, path string) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, fmt.Sprintf("file:%s?cache=shared", path))
	if err != nil {
		return nil, fmt.Errorf("bunstore: open %q: %w", path, err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*credentialRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bunstore: create credentials table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the token and all identity fields as one transaction.
func (s *Store) Save(ctx context.Context, token string, identity auth.Identity) error {
	if err := auth.ValidateCredentialRecord(token, identity); err != nil {
		return err
	}

	rec := &credentialRecord{
		ID:          recordID,
		Token:       token,
		UserID:      identity.UserID,
		Email:       identity.Email,
		Role:        string(identity.Role),
		DisplayName: identity.DisplayName,
		PhotoURL:    identity.PhotoURL,
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*credentialRecord)(nil)).
			Where("id = ?", recordID).
			Exec(ctx); err != nil {
			return fmt.Errorf("bunstore: replace credential: %w", err)
		}

		if _, err := tx.NewInsert().Model(rec).Exec(ctx); err != nil {
			return fmt.Errorf("bunstore: insert credential: %w", err)
		}

		return nil
	})
}

// Load returns the stored credential, or (nil, nil) when the table is empty
// or the row is missing a required field.
func (s *Store) Load(ctx context.Context) (*auth.StoredCredential, error) {
	rec := new(credentialRecord)

	err := s.db.NewSelect().
		Model(rec).
		Where("id = ?", recordID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("bunstore: load credential: %w", err)
	}

	identity := auth.Identity{
		UserID:      rec.UserID,
		Email:       rec.Email,
		Role:        auth.Role(rec.Role),
		DisplayName: rec.DisplayName,
		PhotoURL:    rec.PhotoURL,
	}

	if auth.ValidateCredentialRecord(rec.Token, identity) != nil {
		// partial rows are a bug state upstream; report them as absent
		return nil, nil
	}

	return &auth.StoredCredential{Token: rec.Token, Identity: identity}, nil
}

// Clear removes the credential row. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.NewDelete().
		Model((*credentialRecord)(nil)).
		Where("id = ?", recordID).
		Exec(ctx); err != nil {
		return fmt.Errorf("bunstore: clear credential: %w", err)
	}
	return nil
}
