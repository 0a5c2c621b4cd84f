package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// Claims are the fields extracted from a bearer credential's payload
// segment. Extraction only: the backend owns signature verification, so a
// decoded Claims value establishes no trust by itself.
type Claims struct {
	UserID string
	Email  string
	Role   string

	// exp is kept as decoded; a missing or non-numeric value makes the
	// credential stale rather than undecodable.
	exp any
}

// DecodeToken splits the credential on ".", requires exactly three
// base64url segments, and parses the middle segment as JSON. Any failure is
// a malformed-credential error; there is no partially valid state.
func DecodeToken(raw string) (*Claims, error) {
	mapClaims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, mapClaims); err != nil {
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(TextCodeTokenMalformed)
	}

	claims := &Claims{exp: mapClaims["exp"]}

	if v, ok := mapClaims["userId"].(string); ok {
		claims.UserID = v
	} else if v, ok := mapClaims["sub"].(string); ok {
		claims.UserID = v
	}

	if v, ok := mapClaims["email"].(string); ok {
		claims.Email = v
	}

	if v, ok := mapClaims["role"].(string); ok {
		claims.Role = v
	}

	return claims, nil
}

// ExpiresAt returns the expiry claim. ok is false when the claim is missing
// or not numeric.
func (c *Claims) ExpiresAt() (time.Time, bool) {
	switch v := c.exp.(type) {
	case float64:
		return time.UnixMilli(int64(v * 1000)), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(f * 1000)), true
	}
	return time.Time{}, false
}

// IsFresh reports whether the credential is unexpired at now. The exp claim
// is in seconds and compared in milliseconds; credentials without a numeric
// exp are never fresh.
func (c *Claims) IsFresh(now time.Time) bool {
	exp, ok := c.ExpiresAt()
	if !ok {
		return false
	}
	return now.UnixMilli() < exp.UnixMilli()
}

// Identity converts the claims into an Identity value.
func (c *Claims) Identity() Identity {
	return Identity{
		UserID: c.UserID,
		Email:  c.Email,
		Role:   Role(c.Role),
	}
}

// freshCredential is the synchronous fallback check shared by the session
// service and the guards: the store record, but only while its credential
// decodes and is unexpired.
func freshCredential(ctx context.Context, store CredentialStore, now time.Time) *StoredCredential {
	if store == nil {
		return nil
	}

	rec, err := store.Load(ctx)
	if err != nil || rec == nil {
		return nil
	}

	claims, err := DecodeToken(rec.Token)
	if err != nil || !claims.IsFresh(now) {
		return nil
	}

	return rec
}
