package sessionguard

import (
	"github.com/goliatone/go-router"

	panel "github.com/beacon-sh/panel"
)

// DefaultContextKey is where the middleware stores the request's session.
const DefaultContextKey = "session"

type Config struct {
	// Filter skips the guard for matching requests.
	Filter func(router.Context) bool
	// RedirectPath receives requests without a usable cookie pair.
	RedirectPath string
	// ContextKey is the locals key the session is stored under.
	ContextKey string
	// ErrorHandler overrides the redirect behavior entirely.
	ErrorHandler router.ErrorHandler
}

func GetDefaultConfig(config ...Config) Config {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.RedirectPath == "" {
		cfg.RedirectPath = panel.LoginPath
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	if cfg.ErrorHandler == nil {
		redirect := cfg.RedirectPath
		cfg.ErrorHandler = func(ctx router.Context, _ error) error {
			return ctx.Redirect(redirect, router.StatusSeeOther)
		}
	}

	return cfg
}

// New builds a middleware that admits only requests carrying the correlated
// session cookie pair. It is a purely local check; backend rejection of a
// stale token surfaces later and converges on the same redirect.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			session, found := panel.GetSession(ctx)
			if !found {
				return cfg.ErrorHandler(ctx, panel.ErrNoSession)
			}

			ctx.Locals(cfg.ContextKey, session)
			return ctx.Next()
		}
	}
}

// SessionFromContext retrieves the session stored by the middleware.
func SessionFromContext(ctx router.Context, key ...string) (panel.Session, bool) {
	contextKey := DefaultContextKey
	if len(key) > 0 && key[0] != "" {
		contextKey = key[0]
	}

	session, found := ctx.Locals(contextKey).(panel.Session)
	return session, found
}
