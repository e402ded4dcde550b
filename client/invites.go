package client

import (
	"context"
	"net/http"
	"strings"
)

type createInviteRequest struct {
	InviteCode string `json:"invite_code"`
	ValidFor   int64  `json:"valid_for"`
	MaxUses    int    `json:"max_uses"`
}

// CreateInvite registers a new invite code. Admin only. 409 means the exact
// code already exists; 400 means the expiry window was out of range.
func (c *Client) CreateInvite(ctx context.Context, creds Credentials, code string, validForSeconds int64, maxUses int) error {
	resp, err := c.post(ctx, "/api/invites", &creds, createInviteRequest{
		InviteCode: code,
		ValidFor:   validForSeconds,
		MaxUses:    maxUses,
	})
	if err != nil {
		return err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return errUnauthenticated("create-invite")
	case resp.Status == http.StatusForbidden:
		return errForbidden("create-invite")
	case resp.Status == http.StatusConflict:
		return errConflict("create-invite", "invite code already exists")
	case resp.Status == http.StatusBadRequest:
		return errInvalidInput("create-invite", strings.TrimSpace(string(resp.Body)))
	case !ok(resp.Status):
		return errUnexpected("create-invite", resp.Status, string(resp.Body))
	}
	return nil
}
