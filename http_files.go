package panel

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-router"
)

// Overview renders the dashboard landing page with usage totals derived from
// the file listing.
func (a *PanelController) Overview(ctx router.Context) error {
	return Guarded(ctx, func(session Session) error {
		isAdmin, err := a.Roles.Resolve(ctx.Context(), session)
		if handled, redirect := HandleAuthFailure(ctx, err); handled {
			return redirect
		} else if err != nil {
			return a.ErrorHandler(ctx, err)
		}

		files, err := a.API.ListFiles(ctx.Context(), session.Credentials(), session.UserID)
		if handled, redirect := HandleAuthFailure(ctx, err); handled {
			return redirect
		} else if err != nil {
			return a.ErrorHandler(ctx, err)
		}

		var used int64
		for _, file := range files {
			used += file.FileSize
		}

		return ctx.Render(a.Views.Overview, router.ViewContext{
			"file_count": len(files),
			"used_space": used,
			"nav_groups": Navigation(isAdmin),
		})
	})
}

func (a *PanelController) FilesShow(ctx router.Context) error {
	return Guarded(ctx, func(session Session) error {
		return a.renderFiles(ctx, session)
	})
}

func (a *PanelController) renderFiles(ctx router.Context, session Session) error {
	isAdmin, err := a.Roles.Resolve(ctx.Context(), session)
	if handled, redirect := HandleAuthFailure(ctx, err); handled {
		return redirect
	} else if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	files, err := a.API.ListFiles(ctx.Context(), session.Credentials(), session.UserID)
	if handled, redirect := HandleAuthFailure(ctx, err); handled {
		return redirect
	} else if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Render(a.Views.Files, router.ViewContext{
		"files":      files,
		"nav_groups": Navigation(isAdmin),
	})
}

// FileDeletePayload is the form payload
type FileDeletePayload struct {
	FileID    string `form:"file_id" json:"file_id"`
	FileName  string `form:"file_name" json:"file_name"`
	Confirmed bool   `form:"confirmed" json:"confirmed"`
}

// Validate will validate the payload
func (r FileDeletePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FileID, validation.Required),
		validation.Field(&r.FileName, validation.Required),
	)
}

// FileDelete removes one file after confirmation. A rejected delete, a file
// already gone included, flashes the failure copy; the listing refreshes
// either way.
func (a *PanelController) FileDelete(ctx router.Context) error {
	return Guarded(ctx, func(session Session) error {
		payload := new(FileDeletePayload)

		if err := ctx.Bind(payload); err != nil {
			a.Logger.Error("file delete parse payload: %v", err)
			return ctx.Redirect(a.Routes.Files, router.StatusSeeOther)
		}

		if err := payload.Validate(); err != nil {
			return ctx.Redirect(a.Routes.Files, router.StatusSeeOther)
		}

		outcome := &flashOutcome{}
		mutator := NewMutator(outcome, WithMutatorLogger(a.Logger))

		err := mutator.Run(ctx.Context(), payload.Confirmed, Mutation{
			SuccessMessage: "File has been deleted.",
			FailureMessage: "Could not delete file.",
			Mutate: func(c context.Context) error {
				return a.API.DeleteFile(c, session.Credentials(), payload.FileID, payload.FileName)
			},
		})
		if handled, redirect := HandleAuthFailure(ctx, err); handled {
			return redirect
		} else if err != nil {
			return a.ErrorHandler(ctx, err)
		}

		return outcome.redirect(ctx, a.Routes.Files)
	})
}
