package client

import (
	"context"
)

// GetConfig fetches the instance configuration. Any non-2xx is an error:
// pages that depend on the config must fail rather than guess, since a wrong
// invite-requirement or registration flag is security relevant.
func (c *Client) GetConfig(ctx context.Context) (*Config, error) {
	resp, err := c.get(ctx, "/api/config", nil)
	if err != nil {
		return nil, err
	}

	if !ok(resp.Status) {
		return nil, errUnexpected("get-config", resp.Status, string(resp.Body))
	}

	cfg := &Config{}
	if err := resp.decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
