package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

type registerRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	InviteCode string `json:"invite_code,omitempty"`
}

// Register creates a new account and returns the session the backend opened
// for it. A 403 carries the policy rejection reason in the body (registration
// disabled, invite missing or spent).
func (c *Client) Register(ctx context.Context, username, password, inviteCode string) (*SessionInfo, error) {
	resp, err := c.post(ctx, "/api/users", nil, registerRequest{
		Username:   username,
		Password:   password,
		InviteCode: inviteCode,
	})
	if err != nil {
		return nil, err
	}

	switch {
	case resp.Status == http.StatusForbidden:
		detail := strings.TrimSpace(string(resp.Body))
		if detail == "" {
			detail = "Registration is not allowed."
		}
		return nil, errForbiddenWithDetail("register", detail)
	case resp.Status == http.StatusBadRequest:
		// The backend answers a taken username with a 400 and a prose body.
		return nil, errConflict("register", "username is taken")
	case !ok(resp.Status):
		return nil, errUnexpected("register", resp.Status, string(resp.Body))
	}

	session := &SessionInfo{}
	if err := resp.decode(session); err != nil {
		return nil, err
	}
	session.SetCookies = resp.Cookies
	return session, nil
}

// UsernameAvailable looks up a candidate username. A 404 means the name is
// free; any 2xx means an account already holds it. Every other status is a
// contract fault.
func (c *Client) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	resp, err := c.get(ctx, "/api/usernames/"+url.PathEscape(username), nil)
	if err != nil {
		return false, err
	}

	switch {
	case resp.Status == http.StatusNotFound:
		return true, nil
	case ok(resp.Status):
		return false, nil
	default:
		return false, errUnexpected("username-available", resp.Status, string(resp.Body))
	}
}

// Username fetches the display username for a user id.
func (c *Client) Username(ctx context.Context, creds Credentials, userID uuid.UUID) (string, error) {
	resp, err := c.get(ctx, "/api/users/"+userID.String()+"/username", &creds)
	if err != nil {
		return "", err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return "", errUnauthenticated("get-username")
	case resp.Status == http.StatusForbidden:
		return "", errForbidden("get-username")
	case resp.Status == http.StatusNotFound:
		return "", errNotFound("get-username")
	case !ok(resp.Status):
		return "", errUnexpected("get-username", resp.Status, string(resp.Body))
	}

	var username string
	if err := resp.decode(&username); err != nil {
		return "", err
	}
	return username, nil
}

// SetUsername replaces the username for a user id. A 409 means the name was
// taken between validation and submission; the two are not atomic.
func (c *Client) SetUsername(ctx context.Context, creds Credentials, userID uuid.UUID, username string) error {
	resp, err := c.put(ctx, "/api/users/"+userID.String()+"/username", &creds, username)
	if err != nil {
		return err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return errUnauthenticated("set-username")
	case resp.Status == http.StatusForbidden:
		return errForbidden("set-username")
	case resp.Status == http.StatusConflict:
		return errConflict("set-username", "username already taken")
	case resp.Status == http.StatusNotFound:
		return errNotFound("set-username")
	case !ok(resp.Status):
		return errUnexpected("set-username", resp.Status, string(resp.Body))
	}
	return nil
}

type changePasswordRequest struct {
	SenderCurrentPassword string `json:"sender_current_password"`
	TargetNewPassword     string `json:"target_new_password"`
}

// ChangePassword replaces the target user's password. On success the backend
// invalidates every other session for that user. A 401 here means the current
// password did not match, not that the session expired; the backend checks
// the session before the password.
func (c *Client) ChangePassword(ctx context.Context, creds Credentials, userID uuid.UUID, currentPassword, newPassword string) error {
	resp, err := c.put(ctx, "/api/users/"+userID.String()+"/password", &creds, changePasswordRequest{
		SenderCurrentPassword: currentPassword,
		TargetNewPassword:     newPassword,
	})
	if err != nil {
		return err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return errBadCredentials("change-password")
	case resp.Status == http.StatusForbidden:
		return errForbidden("change-password")
	case resp.Status == http.StatusNotFound:
		return errNotFound("change-password")
	case !ok(resp.Status):
		return errUnexpected("change-password", resp.Status, string(resp.Body))
	}
	return nil
}

// IsAdmin asks the backend whether the subject holds administrator
// privileges. Only a definitive answer is returned; any status outside the
// contract is an error, never a silent false.
func (c *Client) IsAdmin(ctx context.Context, creds Credentials, userID uuid.UUID) (bool, error) {
	resp, err := c.get(ctx, "/api/users/"+userID.String()+"/admin", &creds)
	if err != nil {
		return false, err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return false, errUnauthenticated("admin-flag")
	case resp.Status == http.StatusForbidden:
		return false, errForbidden("admin-flag")
	case !ok(resp.Status):
		return false, errUnexpected("admin-flag", resp.Status, string(resp.Body))
	}

	var isAdmin bool
	if err := resp.decode(&isAdmin); err != nil {
		return false, err
	}
	return isAdmin, nil
}

// ListUsers returns every account. Admin only.
func (c *Client) ListUsers(ctx context.Context, creds Credentials) ([]User, error) {
	resp, err := c.get(ctx, "/api/users", &creds)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return nil, errUnauthenticated("list-users")
	case !ok(resp.Status):
		return nil, errUnexpected("list-users", resp.Status, string(resp.Body))
	}

	var users []User
	if err := resp.decode(&users); err != nil {
		return nil, err
	}
	return users, nil
}

// DeleteUser permanently removes an account and its files. Admin only.
func (c *Client) DeleteUser(ctx context.Context, creds Credentials, userID uuid.UUID) error {
	resp, err := c.delete(ctx, "/api/users/"+userID.String(), &creds)
	if err != nil {
		return err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return errUnauthenticated("delete-user")
	case !ok(resp.Status):
		return errUnexpected("delete-user", resp.Status, string(resp.Body))
	}
	return nil
}
