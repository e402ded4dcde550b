package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// ListSSHKeys returns the SSH keys attached to the user's account.
func (c *Client) ListSSHKeys(ctx context.Context, creds Credentials, userID uuid.UUID) ([]PublicKeyInfo, error) {
	resp, err := c.get(ctx, "/api/users/"+userID.String()+"/ssh-keys", &creds)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return nil, errUnauthenticated("list-ssh-keys")
	case !ok(resp.Status):
		return nil, errUnexpected("list-ssh-keys", resp.Status, string(resp.Body))
	}

	var keys []PublicKeyInfo
	if err := resp.decode(&keys); err != nil {
		return nil, err
	}
	return keys, nil
}

type addSSHKeyRequest struct {
	Name      string `json:"name"`
	PublicKey string `json:"public_key"`
}

// AddSSHKey attaches a public key to the account. 422 means the key material
// did not parse, 409 means the same key (by fingerprint) is already attached.
func (c *Client) AddSSHKey(ctx context.Context, creds Credentials, userID uuid.UUID, name, publicKey string) error {
	resp, err := c.post(ctx, "/api/users/"+userID.String()+"/ssh-keys", &creds, addSSHKeyRequest{
		Name:      name,
		PublicKey: publicKey,
	})
	if err != nil {
		return err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return errUnauthenticated("add-ssh-key")
	case resp.Status == http.StatusUnprocessableEntity:
		return errInvalidInput("add-ssh-key", "invalid SSH key")
	case resp.Status == http.StatusConflict:
		return errConflict("add-ssh-key", "key already added")
	case !ok(resp.Status):
		return errUnexpected("add-ssh-key", resp.Status, string(resp.Body))
	}
	return nil
}

// DeleteSSHKey removes the key with the given fingerprint. The fingerprint is
// percent-encoded because SHA-512 fingerprints contain path-hostile
// characters such as '/'.
func (c *Client) DeleteSSHKey(ctx context.Context, creds Credentials, userID uuid.UUID, fingerprint string) error {
	resp, err := c.delete(ctx, "/api/users/"+userID.String()+"/ssh-keys/"+url.PathEscape(fingerprint), &creds)
	if err != nil {
		return err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return errUnauthenticated("delete-ssh-key")
	case resp.Status == http.StatusNotFound:
		return errNotFound("delete-ssh-key")
	case !ok(resp.Status):
		return errUnexpected("delete-ssh-key", resp.Status, string(resp.Body))
	}
	return nil
}
