package panel

import (
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	"github.com/beacon-sh/panel/client"
)

// ErrNoSession marks a request whose cookie pair was missing or malformed.
// It carries the same code as a backend rejection so both paths converge.
var ErrNoSession = goerrors.New("no session credential pair present", goerrors.CategoryAuth).
	WithTextCode(client.TextCodeUnauthenticated).
	WithCode(goerrors.CodeUnauthorized)

// User-facing copy for recoverable form failures. Each form maps the failure
// codes its endpoint can produce to exactly one of these.
const (
	MsgUnknownUsernameOrPassword = "Unknown username or password."
	MsgUsernameUnavailable       = "That username is unavailable."
	MsgInviteCodeExists          = "That invite code already exists."
	MsgCredentialsMismatch       = "Credentials did not match."
	MsgNotAuthorized             = "You are not authorized to perform this action."
	MsgInvalidSSHKey             = "Please enter a valid SSH key."
	MsgSSHKeyExists              = "You have already added this key."
)

// LoginMessages maps login failures. A 401 never hints at which half of the
// credential pair was wrong.
func LoginMessages() map[string]string {
	return map[string]string{
		client.TextCodeBadCredentials: MsgUnknownUsernameOrPassword,
	}
}

// UsernameChangeMessages maps username change failures.
func UsernameChangeMessages() map[string]string {
	return map[string]string{
		client.TextCodeForbidden: MsgNotAuthorized,
		client.TextCodeConflict:  MsgUsernameUnavailable,
	}
}

// PasswordChangeMessages maps password change failures.
func PasswordChangeMessages() map[string]string {
	return map[string]string{
		client.TextCodeForbidden:      MsgNotAuthorized,
		client.TextCodeBadCredentials: MsgCredentialsMismatch,
	}
}

// SSHKeyMessages maps key registration failures.
func SSHKeyMessages() map[string]string {
	return map[string]string{
		client.TextCodeInvalidInput: MsgInvalidSSHKey,
		client.TextCodeConflict:     MsgSSHKeyExists,
	}
}

// InviteMessages maps invite creation failures.
func InviteMessages() map[string]string {
	return map[string]string{
		client.TextCodeForbidden: MsgNotAuthorized,
		client.TextCodeConflict:  MsgInviteCodeExists,
	}
}

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field -> message map for rendering next to inputs.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	if errs, isMap := err.(validation.Errors); isMap {
		for field, fieldErr := range errs {
			if fieldErr != nil {
				out[field] = fieldErr.Error()
			}
		}
		return out
	}

	out["form"] = err.Error()
	return out
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}
