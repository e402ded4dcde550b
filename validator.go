package panel

import (
	"context"
	"strings"
	"sync"
)

// UsernameUnavailableMessage is the fixed copy shown when a probed username
// is already taken.
const UsernameUnavailableMessage = "Username not available"

// AvailabilityAPI is the slice of the backend client the validator needs.
type AvailabilityAPI interface {
	UsernameAvailable(ctx context.Context, username string) (bool, error)
}

// ValidationResult is the outcome of the latest settled availability probe.
type ValidationResult struct {
	// Value is the username the result refers to.
	Value string
	// Available is set when the probe settled cleanly.
	Available bool
	// Message is UsernameUnavailableMessage when taken, empty otherwise.
	Message string
}

// UsernameValidator runs availability probes for a username field and keeps
// only the result that matches the field's current value. Results for stale
// values are discarded, so a slow response for an old input can never
// overwrite the verdict for the current one. Probe failures leave the last
// verdict untouched; availability is advisory and the submit path rechecks.
type UsernameValidator struct {
	api    AvailabilityAPI
	logger Logger

	mu      sync.Mutex
	current string
	result  *ValidationResult
}

type ValidatorOption func(*UsernameValidator)

func WithValidatorLogger(logger Logger) ValidatorOption {
	return func(v *UsernameValidator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

func NewUsernameValidator(api AvailabilityAPI, opts ...ValidatorOption) *UsernameValidator {
	v := &UsernameValidator{
		api:    api,
		logger: defLogger{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Submit records value as the field's current input and returns a probe to
// run. Submitting a new value invalidates every probe still in flight for
// older values. Blank input clears the verdict and returns no probe.
func (v *UsernameValidator) Submit(value string) *AvailabilityProbe {
	value = strings.TrimSpace(value)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.current = value
	if value == "" {
		v.result = nil
		return nil
	}
	return &AvailabilityProbe{validator: v, value: value}
}

// Result returns the settled verdict for the current input, or false when no
// probe for it has settled yet.
func (v *UsernameValidator) Result() (ValidationResult, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.result == nil || v.result.Value != v.current {
		return ValidationResult{}, false
	}
	return *v.result, true
}

func (v *UsernameValidator) settle(value string, available bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	// A probe for anything but the current input is stale; drop it.
	if value != v.current {
		return
	}

	result := &ValidationResult{Value: value, Available: available}
	if !available {
		result.Message = UsernameUnavailableMessage
	}
	v.result = result
}

// AvailabilityProbe is one in-flight availability check, pinned to the value
// it was submitted for.
type AvailabilityProbe struct {
	validator *UsernameValidator
	value     string
}

// Run executes the probe and reports the verdict back to the validator. The
// verdict is kept only if the probed value is still the current input.
func (p *AvailabilityProbe) Run(ctx context.Context) error {
	available, err := p.validator.api.UsernameAvailable(ctx, p.value)
	if err != nil {
		p.validator.logger.Debug("username availability probe failed for %q: %v", p.value, err)
		return err
	}
	p.validator.settle(p.value, available)
	return nil
}
