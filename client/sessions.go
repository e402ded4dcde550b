package client

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges a username and password for a new session.
// A 401 means the username or password was not recognized.
func (c *Client) Login(ctx context.Context, username, password string) (*SessionInfo, error) {
	resp, err := c.post(ctx, "/api/sessions", nil, loginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return nil, errBadCredentials("login")
	case !ok(resp.Status):
		return nil, errUnexpected("login", resp.Status, string(resp.Body))
	}

	session := &SessionInfo{}
	if err := resp.decode(session); err != nil {
		return nil, err
	}
	session.SetCookies = resp.Cookies
	return session, nil
}

// Logout deletes the presented session server-side. The caller is responsible
// for clearing the browser's cookie pair afterwards.
func (c *Client) Logout(ctx context.Context, creds Credentials) error {
	resp, err := c.post(ctx, "/api/logout", &creds, nil)
	if err != nil {
		return err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return errUnauthenticated("logout")
	case !ok(resp.Status):
		return errUnexpected("logout", resp.Status, string(resp.Body))
	}
	return nil
}
