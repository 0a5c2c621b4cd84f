package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	auth "github.com/tasinahammed01/RoznaComarker-Client"
)

// By default we set an expiration time 1 hour from now
func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	if claims["exp"] == nil {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func studentToken(t *testing.T, exp time.Time) string {
	t.Helper()
	return signTestToken(t, jwt.MapClaims{
		"userId": "user-1",
		"email":  "student@example.com",
		"role":   "student",
		"exp":    exp.Unix(),
	})
}

func teacherToken(t *testing.T, exp time.Time) string {
	t.Helper()
	return signTestToken(t, jwt.MapClaims{
		"userId": "user-2",
		"email":  "teacher@example.com",
		"role":   "teacher",
		"exp":    exp.Unix(),
	})
}

func studentIdentity() auth.Identity {
	return auth.Identity{
		UserID: "user-1",
		Email:  "student@example.com",
		Role:   auth.RoleStudent,
	}
}

func teacherIdentity() auth.Identity {
	return auth.Identity{
		UserID: "user-2",
		Email:  "teacher@example.com",
		Role:   auth.RoleTeacher,
	}
}

func seedStore(t *testing.T, store auth.CredentialStore, token string, identity auth.Identity) {
	t.Helper()
	if err := store.Save(context.Background(), token, identity); err != nil {
		t.Fatalf("failed to seed credential store: %v", err)
	}
}

// silentStream never emits, which forces the guards onto their timeout
// fallback path.
type silentStream struct{}

func (silentStream) Subscribe() (func(), <-chan auth.Session) {
	return func() {}, make(chan auth.Session)
}

func (silentStream) Current() auth.Session {
	return auth.Session{}
}
