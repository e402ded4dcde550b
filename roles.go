package panel

import (
	"context"

	"github.com/beacon-sh/panel/client"
	"github.com/google/uuid"
)

// AdminAPI is the slice of the backend client the role resolver needs.
type AdminAPI interface {
	IsAdmin(ctx context.Context, creds client.Credentials, userID uuid.UUID) (bool, error)
}

// RoleResolver answers whether a session's principal holds administrator
// privileges. The answer drives admin navigation and nothing else; privileged
// operations are still authorized by the backend.
type RoleResolver struct {
	api    AdminAPI
	logger Logger
}

func NewRoleResolver(api AdminAPI, logger Logger) *RoleResolver {
	if logger == nil {
		logger = defLogger{}
	}
	return &RoleResolver{api: api, logger: logger}
}

// Resolve returns the admin flag for the session's own subject. An
// unauthenticated error propagates for the guard boundary to redirect; any
// other failure propagates as fatal. It never defaults to non-admin on an
// unknown answer, since showing or hiding admin affordances on a guess is
// worse than failing the page.
func (r *RoleResolver) Resolve(ctx context.Context, session Session) (bool, error) {
	isAdmin, err := r.api.IsAdmin(ctx, session.Credentials(), session.UserID)
	if err != nil {
		if !client.IsUnauthenticated(err) {
			r.logger.Error("role resolution failed for user %s: %v", session.UserID, err)
		}
		return false, err
	}
	return isAdmin, nil
}
