package panel

import (
	"github.com/beacon-sh/panel/client"
	"github.com/goliatone/go-router"
)

// LoginPath is where every unauthenticated request converges, whether the
// cookie pair was missing locally or the backend rejected it remotely.
const LoginPath = "/login"

// GuardResult is the outcome of a session guard check: either an authorized
// session or a redirect target. Exactly one variant is set, and callers must
// act on the redirect variant rather than falling through.
type GuardResult struct {
	session  Session
	redirect string
}

// Authorized returns the session when the guard admitted the request.
func (g GuardResult) Authorized() (Session, bool) {
	return g.session, g.redirect == ""
}

// Redirect returns the target when the guard rejected the request.
func (g GuardResult) Redirect() (string, bool) {
	return g.redirect, g.redirect != ""
}

// RequireSession checks the cookie pair and produces a GuardResult. No
// backend call is made; remote rejection is handled by HandleAuthFailure when
// a downstream call returns unauthenticated.
func RequireSession(c CookieSource) GuardResult {
	session, found := GetSession(c)
	if !found {
		return GuardResult{redirect: LoginPath}
	}
	return GuardResult{session: session}
}

// Guarded runs fn with the request's session, or redirects to the login
// entry point. The redirect uses See Other so a guarded POST lands on the
// login page as a GET.
func Guarded(ctx router.Context, fn func(Session) error) error {
	guard := RequireSession(ctx)
	if target, redirect := guard.Redirect(); redirect {
		return ctx.Redirect(target, router.StatusSeeOther)
	}
	session, _ := guard.Authorized()
	return fn(session)
}

// HandleAuthFailure redirects to login when err means the backend rejected
// the session credential, converging remote expiry with the missing-cookie
// path. It reports whether it consumed the error.
func HandleAuthFailure(ctx router.Context, err error) (bool, error) {
	if !client.IsUnauthenticated(err) {
		return false, nil
	}
	return true, ctx.Redirect(LoginPath, router.StatusSeeOther)
}
