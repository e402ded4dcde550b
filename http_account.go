package panel

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

// flashOutcome records a mutation's outcome so the handler can attach it to
// the flash chain on the closing redirect.
type flashOutcome struct {
	success string
	failure string
}

func (f *flashOutcome) Success(message string) { f.success = message }
func (f *flashOutcome) Failure(message string) { f.failure = message }

// redirect completes the request, carrying the recorded outcome as a flash
// message when there is one.
func (f *flashOutcome) redirect(ctx router.Context, target string) error {
	switch {
	case f.success != "":
		return flash.WithSuccess(ctx, router.ViewContext{
			"system_message": f.success,
		}).Redirect(target, fiber.StatusSeeOther)
	case f.failure != "":
		return flash.WithError(ctx, router.ViewContext{
			"error_message": f.failure,
		}).Redirect(target, fiber.StatusSeeOther)
	}
	return ctx.Redirect(target, router.StatusSeeOther)
}

func (a *PanelController) ProfileShow(ctx router.Context) error {
	return Guarded(ctx, func(session Session) error {
		isAdmin, err := a.Roles.Resolve(ctx.Context(), session)
		if handled, redirect := HandleAuthFailure(ctx, err); handled {
			return redirect
		} else if err != nil {
			return a.ErrorHandler(ctx, err)
		}

		username, err := a.API.Username(ctx.Context(), session.Credentials(), session.UserID)
		if handled, redirect := HandleAuthFailure(ctx, err); handled {
			return redirect
		} else if err != nil {
			return a.ErrorHandler(ctx, err)
		}

		return ctx.Render(a.Views.Profile, router.ViewContext{
			"form":       Idle(),
			"username":   username,
			"nav_groups": Navigation(isAdmin),
		})
	})
}

// UsernameChangePayload is the form payload
type UsernameChangePayload struct {
	Username string `form:"username" json:"username"`
}

// Validate will validate the payload
func (r UsernameChangePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required,
			validation.Length(3, 20).Error("Username must be at least 3 characters.")),
	)
}

func (a *PanelController) UsernameChange(ctx router.Context) error {
	return Guarded(ctx, func(session Session) error {
		payload := new(UsernameChangePayload)

		if err := ctx.Bind(payload); err != nil {
			a.Logger.Error("username change parse payload: %v", err)
			return a.renderProfileForm(ctx, session, ErrorState(UnknownErrorMessage), nil)
		}

		if err := payload.Validate(); err != nil {
			return a.renderProfileForm(ctx, session, Idle(), FormatValidationErrorToMap(err))
		}

		form := NewForm(
			WithErrorMessages(UsernameChangeMessages()),
			WithFormLogger(a.Logger),
		)

		state, err := form.Submit(ctx.Context(), func(c context.Context) error {
			return a.API.SetUsername(c, session.Credentials(), session.UserID, payload.Username)
		})
		if handled, redirect := HandleAuthFailure(ctx, err); handled {
			return redirect
		} else if err != nil {
			return a.ErrorHandler(ctx, err)
		}

		if state.IsError() {
			return a.renderProfileForm(ctx, session, state, nil)
		}

		return flash.WithSuccess(ctx, router.ViewContext{
			"system_message": "Username has been changed successfully.",
		}).Redirect(a.Routes.Profile, fiber.StatusSeeOther)
	})
}

func (a *PanelController) renderProfileForm(ctx router.Context, session Session, state FormState, validationErrors map[string]string) error {
	isAdmin, err := a.Roles.Resolve(ctx.Context(), session)
	if handled, redirect := HandleAuthFailure(ctx, err); handled {
		return redirect
	} else if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	username, err := a.API.Username(ctx.Context(), session.Credentials(), session.UserID)
	if handled, redirect := HandleAuthFailure(ctx, err); handled {
		return redirect
	} else if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Render(a.Views.Profile, router.ViewContext{
		"form":       state,
		"username":   username,
		"validation": validationErrors,
		"nav_groups": Navigation(isAdmin),
	})
}

func (a *PanelController) SecurityShow(ctx router.Context) error {
	return Guarded(ctx, func(session Session) error {
		return a.renderSecurity(ctx, session, Idle(), nil)
	})
}

func (a *PanelController) renderSecurity(ctx router.Context, session Session, state FormState, validationErrors map[string]string) error {
	isAdmin, err := a.Roles.Resolve(ctx.Context(), session)
	if handled, redirect := HandleAuthFailure(ctx, err); handled {
		return redirect
	} else if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	keys, err := a.API.ListSSHKeys(ctx.Context(), session.Credentials(), session.UserID)
	if handled, redirect := HandleAuthFailure(ctx, err); handled {
		return redirect
	} else if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Render(a.Views.Security, router.ViewContext{
		"form":       state,
		"ssh_keys":   keys,
		"validation": validationErrors,
		"nav_groups": Navigation(isAdmin),
	})
}

// PasswordChangePayload is the form payload
type PasswordChangePayload struct {
	CurrentPassword string `form:"current_password" json:"current_password"`
	NewPassword     string `form:"new_password" json:"new_password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r PasswordChangePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required,
			validation.Length(8, 80).Error("Password must be at least 8 characters")),
		validation.Field(&r.NewPassword, validation.Required,
			validation.Length(8, 80).Error("Password must be at least 8 characters")),
		validation.Field(&r.ConfirmPassword, validation.Required,
			validation.By(ValidateStringEquals(r.NewPassword, "Passwords did not match"))),
	)
}

// PasswordChange replaces the caller's password. On success the backend
// drops every session for the user, this one included, so the handler clears
// the cookie pair and sends the browser back to login.
func (a *PanelController) PasswordChange(ctx router.Context) error {
	return Guarded(ctx, func(session Session) error {
		payload := new(PasswordChangePayload)

		if err := ctx.Bind(payload); err != nil {
			a.Logger.Error("password change parse payload: %v", err)
			return a.renderSecurity(ctx, session, ErrorState(UnknownErrorMessage), nil)
		}

		if err := payload.Validate(); err != nil {
			return a.renderSecurity(ctx, session, Idle(), FormatValidationErrorToMap(err))
		}

		form := NewForm(
			WithErrorMessages(PasswordChangeMessages()),
			WithFormLogger(a.Logger),
		)

		state, err := form.Submit(ctx.Context(), func(c context.Context) error {
			return a.API.ChangePassword(c, session.Credentials(), session.UserID,
				payload.CurrentPassword, payload.NewPassword)
		})
		if handled, redirect := HandleAuthFailure(ctx, err); handled {
			return redirect
		} else if err != nil {
			return a.ErrorHandler(ctx, err)
		}

		if state.IsError() {
			return a.renderSecurity(ctx, session, state, nil)
		}

		clearSessionCookies(ctx)

		return flash.WithSuccess(ctx, router.ViewContext{
			"system_message": "User password has been changed successfully.",
		}).Redirect(a.Routes.Login, fiber.StatusSeeOther)
	})
}

// SSHKeyAddPayload is the form payload
type SSHKeyAddPayload struct {
	Name      string `form:"name" json:"name"`
	PublicKey string `form:"public_key" json:"public_key"`
}

// Validate will validate the payload
func (r SSHKeyAddPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&r.PublicKey, validation.Required),
	)
}

func (a *PanelController) SSHKeyAdd(ctx router.Context) error {
	return Guarded(ctx, func(session Session) error {
		payload := new(SSHKeyAddPayload)

		if err := ctx.Bind(payload); err != nil {
			a.Logger.Error("ssh key parse payload: %v", err)
			return a.renderSecurity(ctx, session, ErrorState(UnknownErrorMessage), nil)
		}

		if err := payload.Validate(); err != nil {
			return a.renderSecurity(ctx, session, Idle(), FormatValidationErrorToMap(err))
		}

		// Parse locally before the round trip; the backend revalidates.
		canonical, err := CheckPublicKey(payload.PublicKey)
		if err != nil {
			return a.renderSecurity(ctx, session, ErrorState(MsgInvalidSSHKey), nil)
		}

		form := NewForm(
			WithErrorMessages(SSHKeyMessages()),
			WithFormLogger(a.Logger),
		)

		state, err := form.Submit(ctx.Context(), func(c context.Context) error {
			return a.API.AddSSHKey(c, session.Credentials(), session.UserID, payload.Name, canonical)
		})
		if handled, redirect := HandleAuthFailure(ctx, err); handled {
			return redirect
		} else if err != nil {
			return a.ErrorHandler(ctx, err)
		}

		if state.IsError() {
			return a.renderSecurity(ctx, session, state, nil)
		}

		return flash.WithSuccess(ctx, router.ViewContext{
			"system_message": "You have added an SSH key to your account.",
		}).Redirect(a.Routes.Security, fiber.StatusSeeOther)
	})
}

// SSHKeyDeletePayload is the form payload
type SSHKeyDeletePayload struct {
	Fingerprint string `form:"fingerprint" json:"fingerprint"`
	Confirmed   bool   `form:"confirmed" json:"confirmed"`
}

// Validate will validate the payload
func (r SSHKeyDeletePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Fingerprint, validation.Required),
	)
}

func (a *PanelController) SSHKeyDelete(ctx router.Context) error {
	return Guarded(ctx, func(session Session) error {
		payload := new(SSHKeyDeletePayload)

		if err := ctx.Bind(payload); err != nil {
			a.Logger.Error("ssh key delete parse payload: %v", err)
			return a.renderSecurity(ctx, session, ErrorState(UnknownErrorMessage), nil)
		}

		if err := payload.Validate(); err != nil {
			return a.renderSecurity(ctx, session, Idle(), FormatValidationErrorToMap(err))
		}

		outcome := &flashOutcome{}
		mutator := NewMutator(outcome, WithMutatorLogger(a.Logger))

		err := mutator.Run(ctx.Context(), payload.Confirmed, Mutation{
			SuccessMessage: "SSH key has been deleted.",
			FailureMessage: "Could not delete SSH key.",
			Mutate: func(c context.Context) error {
				return a.API.DeleteSSHKey(c, session.Credentials(), session.UserID, payload.Fingerprint)
			},
		})
		if handled, redirect := HandleAuthFailure(ctx, err); handled {
			return redirect
		} else if err != nil {
			return a.ErrorHandler(ctx, err)
		}

		return outcome.redirect(ctx, a.Routes.Security)
	})
}
