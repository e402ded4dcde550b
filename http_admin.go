package panel

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
	"github.com/google/uuid"

	"github.com/beacon-sh/panel/client"
)

// InviteDurationPresets are the expiry windows offered by the invite form,
// shortest first. Zero would mean an invite that expires immediately, so the
// smallest preset is half an hour.
var InviteDurationPresets = []InviteDuration{
	{Label: "30 minutes", Seconds: int64((30 * time.Minute).Seconds())},
	{Label: "1 hour", Seconds: int64(time.Hour.Seconds())},
	{Label: "6 hours", Seconds: int64((6 * time.Hour).Seconds())},
	{Label: "12 hours", Seconds: int64((12 * time.Hour).Seconds())},
	{Label: "1 day", Seconds: int64((24 * time.Hour).Seconds())},
	{Label: "3 days", Seconds: int64((3 * 24 * time.Hour).Seconds())},
	{Label: "7 days", Seconds: int64((7 * 24 * time.Hour).Seconds())},
}

type InviteDuration struct {
	Label   string
	Seconds int64
}

const maxInviteValidFor = 7 * 24 * time.Hour

// requireAdmin resolves the session's admin flag and renders the authz error
// page for non-admins. Rendering on the requested page, not redirecting, is
// deliberate: the admin URL is not a secret, only its data is.
func (a *PanelController) requireAdmin(ctx router.Context, session Session) (bool, error) {
	isAdmin, err := a.Roles.Resolve(ctx.Context(), session)
	if handled, redirect := HandleAuthFailure(ctx, err); handled {
		return false, redirect
	} else if err != nil {
		return false, a.ErrorHandler(ctx, err)
	}

	if !isAdmin {
		return false, ctx.Status(fiber.StatusForbidden).Render("errors/403", router.ViewContext{
			"message":    MsgNotAuthorized,
			"nav_groups": Navigation(false),
		})
	}

	return true, nil
}

func (a *PanelController) AdminUsersShow(ctx router.Context) error {
	return Guarded(ctx, func(session Session) error {
		isAdmin, doneErr := a.requireAdmin(ctx, session)
		if !isAdmin {
			return doneErr
		}

		users, err := a.API.ListUsers(ctx.Context(), session.Credentials())
		if handled, redirect := HandleAuthFailure(ctx, err); handled {
			return redirect
		} else if err != nil {
			return a.ErrorHandler(ctx, err)
		}

		return ctx.Render(a.Views.AdminUsers, router.ViewContext{
			"users":      users,
			"nav_groups": Navigation(true),
		})
	})
}

// AdminUserDeletePayload is the form payload
type AdminUserDeletePayload struct {
	UserID    string `form:"user_id" json:"user_id"`
	Confirmed bool   `form:"confirmed" json:"confirmed"`
}

// Validate will validate the payload
func (r AdminUserDeletePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
	)
}

// AdminUserDelete removes an account and everything it owns. The
// confirmation gate exists because there is no undo.
func (a *PanelController) AdminUserDelete(ctx router.Context) error {
	return Guarded(ctx, func(session Session) error {
		isAdmin, doneErr := a.requireAdmin(ctx, session)
		if !isAdmin {
			return doneErr
		}

		payload := new(AdminUserDeletePayload)

		if err := ctx.Bind(payload); err != nil {
			a.Logger.Error("user delete parse payload: %v", err)
			return ctx.Redirect(a.Routes.AdminUsers, router.StatusSeeOther)
		}

		if err := payload.Validate(); err != nil {
			return ctx.Redirect(a.Routes.AdminUsers, router.StatusSeeOther)
		}

		outcome := &flashOutcome{}

		targetID, err := uuid.Parse(payload.UserID)
		if err != nil {
			outcome.Failure("An error occurred trying to delete a user.")
			return outcome.redirect(ctx, a.Routes.AdminUsers)
		}

		mutator := NewMutator(outcome, WithMutatorLogger(a.Logger))

		err = mutator.Run(ctx.Context(), payload.Confirmed, Mutation{
			SuccessMessage: "The user has been deleted successfully.",
			FailureMessage: "An error occurred trying to delete a user.",
			Mutate: func(c context.Context) error {
				return a.API.DeleteUser(c, session.Credentials(), targetID)
			},
		})
		if handled, redirect := HandleAuthFailure(ctx, err); handled {
			return redirect
		} else if err != nil {
			return a.ErrorHandler(ctx, err)
		}

		return outcome.redirect(ctx, a.Routes.AdminUsers)
	})
}

func (a *PanelController) AdminInvitesShow(ctx router.Context) error {
	return Guarded(ctx, func(session Session) error {
		isAdmin, doneErr := a.requireAdmin(ctx, session)
		if !isAdmin {
			return doneErr
		}

		return a.renderInvites(ctx, Idle(), nil, nil)
	})
}

func (a *PanelController) renderInvites(ctx router.Context, state FormState, record *InviteCreatePayload, validationErrors map[string]string) error {
	return ctx.Render(a.Views.AdminInvites, router.ViewContext{
		"form":       state,
		"record":     record,
		"validation": validationErrors,
		"durations":  InviteDurationPresets,
		"nav_groups": Navigation(true),
	})
}

// InviteCreatePayload is the form payload
type InviteCreatePayload struct {
	InviteCode string `form:"invite_code" json:"invite_code"`
	ValidFor   int64  `form:"valid_for" json:"valid_for"`
	MaxUses    int    `form:"max_uses" json:"max_uses"`
}

// Validate will validate the payload
func (r InviteCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.InviteCode, validation.Required, validation.Length(8, 64)),
		validation.Field(&r.ValidFor, validation.Required,
			validation.Min(int64(1)), validation.Max(int64(maxInviteValidFor.Seconds()))),
		validation.Field(&r.MaxUses, validation.Required,
			validation.Min(1), validation.Max(100)),
	)
}

func (a *PanelController) AdminInviteCreate(ctx router.Context) error {
	return Guarded(ctx, func(session Session) error {
		isAdmin, doneErr := a.requireAdmin(ctx, session)
		if !isAdmin {
			return doneErr
		}

		payload := new(InviteCreatePayload)

		if err := ctx.Bind(payload); err != nil {
			a.Logger.Error("invite create parse payload: %v", err)
			return a.renderInvites(ctx, ErrorState(UnknownErrorMessage), payload, nil)
		}

		if err := payload.Validate(); err != nil {
			return a.renderInvites(ctx, Idle(), payload, FormatValidationErrorToMap(err))
		}

		form := NewForm(
			WithErrorMessages(InviteMessages()),
			WithPassthroughCodes(client.TextCodeInvalidInput),
			WithFormLogger(a.Logger),
		)

		state, err := form.Submit(ctx.Context(), func(c context.Context) error {
			return a.API.CreateInvite(c, session.Credentials(), payload.InviteCode, payload.ValidFor, payload.MaxUses)
		})
		if handled, redirect := HandleAuthFailure(ctx, err); handled {
			return redirect
		} else if err != nil {
			return a.ErrorHandler(ctx, err)
		}

		if state.IsError() {
			return a.renderInvites(ctx, state, payload, nil)
		}

		return flash.WithSuccess(ctx, router.ViewContext{
			"system_message": "Invite code has been created and copied to clipboard",
		}).Redirect(a.Routes.AdminInvites, fiber.StatusSeeOther)
	})
}
