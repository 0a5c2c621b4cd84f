package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeTokenMalformed marks credentials that failed to decode.
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
	// TextCodeTokenExpired marks credentials past their expiry claim.
	TextCodeTokenExpired = "TOKEN_EXPIRED"
	// TextCodeAuthRejected marks exchanges the backend refused.
	TextCodeAuthRejected = "AUTH_REJECTED"
	// TextCodeRoleRequired marks provider exchanges that need a role for
	// first-time registration.
	TextCodeRoleRequired = "ROLE_REQUIRED"
	// TextCodeBackendUnreachable marks transport-level exchange failures.
	TextCodeBackendUnreachable = "BACKEND_UNREACHABLE"
)

// ErrTokenMalformed is returned when a credential cannot be decoded. A
// malformed credential is treated as absent, never as a fatal condition.
var ErrTokenMalformed = goerrors.New("credential is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when a credential's expiry claim has elapsed.
var ErrTokenExpired = goerrors.New("credential is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrRoleRequired is returned when a provider exchange omits the role and the
// backend has no existing account for that identity.
var ErrRoleRequired = goerrors.New("a role is required to register a new account", goerrors.CategoryValidation).
	WithTextCode(TextCodeRoleRequired).
	WithCode(goerrors.CodeBadRequest)

// ErrBackendUnreachable is returned when the exchange never reached the
// backend. The message matches what the UI surfaces to the user.
var ErrBackendUnreachable = goerrors.New("Cannot connect to server. Please make sure the backend is running.", goerrors.CategoryInternal).
	WithTextCode(TextCodeBackendUnreachable)

// NewAuthError wraps a backend rejection into a displayable error carrying a
// human-readable message and a machine code.
func NewAuthError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryAuth).
		WithTextCode(TextCodeAuthRejected).
		WithCode(goerrors.CodeUnauthorized)
}

// IsDecodeError will check for malformed credential errors
func IsDecodeError(err error) bool {
	return hasTextCode(err, TextCodeTokenMalformed)
}

// IsAuthError will check for backend auth rejections
func IsAuthError(err error) bool {
	return hasTextCode(err, TextCodeAuthRejected) || hasTextCode(err, TextCodeRoleRequired)
}

// ErrorMessage extracts the user-facing message from an error, falling back
// to Error() for plain errors.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Message != "" {
		return richErr.Message
	}
	return err.Error()
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}
