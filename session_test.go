package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	auth "github.com/tasinahammed01/RoznaComarker-Client"
)

func TestSession_ZeroValueIsUnauthenticated(t *testing.T) {
	var session auth.Session

	assert.False(t, session.Authenticated())
	assert.Nil(t, session.Identity)

	_, ok := session.Role()
	assert.False(t, ok)
}

func TestSession_Authenticated(t *testing.T) {
	session := auth.AuthenticatedSession(studentIdentity())

	assert.True(t, session.Authenticated())

	role, ok := session.Role()
	assert.True(t, ok)
	assert.Equal(t, auth.RoleStudent, role)
}

func TestSession_UnrecognizedRole(t *testing.T) {
	identity := studentIdentity()
	identity.Role = "admin"
	session := auth.AuthenticatedSession(identity)

	assert.True(t, session.Authenticated())

	role, ok := session.Role()
	assert.False(t, ok)
	assert.Equal(t, auth.Role("admin"), role)
}

func TestSession_String(t *testing.T) {
	assert.Equal(t, "session=unauthenticated", auth.Session{}.String())

	str := auth.AuthenticatedSession(teacherIdentity()).String()
	assert.Contains(t, str, "user-2")
	assert.Contains(t, str, "teacher@example.com")
	assert.Contains(t, str, "teacher")
}
