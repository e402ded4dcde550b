package client

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by every error the client produces. Callers map these to
// user-facing copy; anything tagged TextCodeUnexpected indicates a contract
// break with the backend and should surface loudly.
const (
	TextCodeUnauthenticated = "UNAUTHENTICATED"
	TextCodeBadCredentials  = "BAD_CREDENTIALS"
	TextCodeForbidden       = "FORBIDDEN"
	TextCodeConflict        = "CONFLICT"
	TextCodeInvalidInput    = "INVALID_INPUT"
	TextCodeNotFound        = "NOT_FOUND"
	TextCodeUnexpected      = "UNEXPECTED_STATUS"
)

// errUnauthenticated is returned whenever the backend rejects the session
// credential. Pages treat this identically to a missing cookie pair.
func errUnauthenticated(op string) error {
	return goerrors.New("backend rejected session credential", goerrors.CategoryAuth).
		WithTextCode(TextCodeUnauthenticated).
		WithCode(goerrors.CodeUnauthorized).
		WithMetadata(map[string]any{"operation": op})
}

func errBadCredentials(op string) error {
	return goerrors.New("credentials did not match", goerrors.CategoryAuth).
		WithTextCode(TextCodeBadCredentials).
		WithCode(goerrors.CodeUnauthorized).
		WithMetadata(map[string]any{"operation": op})
}

func errForbidden(op string) error {
	return errForbiddenWithDetail(op, "not authorized to perform this action")
}

func errForbiddenWithDetail(op, detail string) error {
	return goerrors.New(detail, goerrors.CategoryAuthz).
		WithTextCode(TextCodeForbidden).
		WithMetadata(map[string]any{"operation": op})
}

func errConflict(op, detail string) error {
	return goerrors.New(detail, goerrors.CategoryConflict).
		WithTextCode(TextCodeConflict).
		WithCode(goerrors.CodeConflict).
		WithMetadata(map[string]any{"operation": op})
}

func errInvalidInput(op, detail string) error {
	return goerrors.New(detail, goerrors.CategoryValidation).
		WithTextCode(TextCodeInvalidInput).
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{"operation": op})
}

func errNotFound(op string) error {
	return goerrors.New("resource not found", goerrors.CategoryNotFound).
		WithTextCode(TextCodeNotFound).
		WithCode(goerrors.CodeNotFound).
		WithMetadata(map[string]any{"operation": op})
}

// errUnexpected marks a status the contract does not anticipate. These are
// never silently swallowed: the caller reports them as faults.
func errUnexpected(op string, status int, body string) error {
	return goerrors.New("unexpected backend status", goerrors.CategoryInternal).
		WithTextCode(TextCodeUnexpected).
		WithMetadata(map[string]any{
			"operation": op,
			"status":    status,
			"body":      body,
		})
}

func textCode(err error) string {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return ""
	}
	return richErr.TextCode
}

// TextCode extracts the taxonomy code from an error produced by this package.
// Errors from elsewhere yield the empty string.
func TextCode(err error) string {
	return textCode(err)
}

// IsUnauthenticated reports whether the session credential was missing or
// rejected. This is the only failure that redirects instead of rendering.
func IsUnauthenticated(err error) bool {
	return textCode(err) == TextCodeUnauthenticated
}

// IsBadCredentials reports a password mismatch on login or password change.
func IsBadCredentials(err error) bool {
	return textCode(err) == TextCodeBadCredentials
}

// IsForbidden reports an authenticated caller lacking privilege.
func IsForbidden(err error) bool {
	return textCode(err) == TextCodeForbidden
}

// IsConflict reports a uniqueness violation (username, SSH key, invite code).
func IsConflict(err error) bool {
	return textCode(err) == TextCodeConflict
}

// IsInvalidInput reports input the backend refused as malformed.
func IsInvalidInput(err error) bool {
	return textCode(err) == TextCodeInvalidInput
}

// IsNotFound reports a missing resource.
func IsNotFound(err error) bool {
	return textCode(err) == TextCodeNotFound
}

// IsUnexpected reports a status outside the endpoint's documented contract.
func IsUnexpected(err error) bool {
	return textCode(err) == TextCodeUnexpected
}
