package auth

import "fmt"

// Session is the logical current-user state: unauthenticated, or
// authenticated with an identity. The zero value is the unauthenticated
// session. A Session is never mutated in place; every change replaces the
// whole value.
type Session struct {
	Identity *Identity
}

// AuthenticatedSession returns a session for the given identity.
func AuthenticatedSession(identity Identity) Session {
	return Session{Identity: &identity}
}

// Authenticated reports whether the session carries an identity.
func (s Session) Authenticated() bool {
	return s.Identity != nil
}

// Role returns the session's role and whether it is one of the registered
// roles. Unauthenticated sessions and unrecognized roles report false.
func (s Session) Role() (Role, bool) {
	if s.Identity == nil {
		return "", false
	}
	return s.Identity.Role, s.Identity.Role.IsValid()
}

func (s Session) String() string {
	if s.Identity == nil {
		return "session=unauthenticated"
	}
	return fmt.Sprintf(
		"session=authenticated user=%s email=%s role=%s",
		s.Identity.UserID,
		s.Identity.Email,
		s.Identity.Role,
	)
}
