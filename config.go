package panel

import (
	"context"
	"sync"

	"github.com/beacon-sh/panel/client"
)

// ConfigAPI is the slice of the backend client the provider needs.
type ConfigAPI interface {
	GetConfig(ctx context.Context) (*client.Config, error)
}

// ConfigProvider fetches the instance configuration and caches a successful
// answer for the life of the process. Failures are never cached and never
// replaced with a default: a page rendered with a guessed invite requirement
// would be a security bug, so dependents fail instead.
type ConfigProvider struct {
	api ConfigAPI

	mu     sync.Mutex
	cached *client.Config
}

func NewConfigProvider(api ConfigAPI) *ConfigProvider {
	return &ConfigProvider{api: api}
}

// Get returns the instance configuration, fetching it on first use.
func (p *ConfigProvider) Get(ctx context.Context) (*client.Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return p.cached, nil
	}

	cfg, err := p.api.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	p.cached = cfg
	return cfg, nil
}

// RegistrationOpen reports whether the registration entry point is reachable
// at all. Enforced by the navigation layer, not the form.
func RegistrationOpen(cfg *client.Config) bool {
	return cfg.AllowRegistering
}

// InviteRequired reports whether the registration form must collect an
// invite code.
func InviteRequired(cfg *client.Config) bool {
	return !cfg.DisableInviteCodes
}
