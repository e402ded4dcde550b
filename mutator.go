package panel

import (
	"context"

	"github.com/beacon-sh/panel/client"
)

// MutateFunc performs the destructive backend call.
type MutateFunc func(ctx context.Context) error

// RefreshFunc reloads the listing the mutation changed.
type RefreshFunc func(ctx context.Context) error

// Mutation is one confirmation-gated destructive action: delete a file,
// remove an SSH key, delete a user. The backend call never runs unless the
// confirmation was accepted, and on success the listing is refetched so the
// page reflects the backend rather than a local guess.
type Mutation struct {
	// Prompt is the question put to the user before anything runs.
	Prompt string
	// SuccessMessage is handed to the notifier after a clean run.
	SuccessMessage string
	// FailureMessage overrides the derived copy on failure. Leave empty to
	// map the failure through the standard taxonomy.
	FailureMessage string

	Mutate  MutateFunc
	Refresh RefreshFunc
}

// Mutator executes confirmation-gated mutations and reports their outcome
// through a Notifier.
type Mutator struct {
	notifier Notifier
	logger   Logger
}

type MutatorOption func(*Mutator)

func WithMutatorLogger(logger Logger) MutatorOption {
	return func(m *Mutator) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func NewMutator(notifier Notifier, opts ...MutatorOption) *Mutator {
	m := &Mutator{
		notifier: notifier,
		logger:   defLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes mut when confirmed is true and does nothing otherwise. A
// declined confirmation leaves backend state untouched and produces no
// notification. Any backend rejection, a not-found included, surfaces as a
// failure notification: deleting something already gone still failed as an
// operation. The refresh runs either way so the page reflects the backend.
func (m *Mutator) Run(ctx context.Context, confirmed bool, mut Mutation) error {
	if !confirmed {
		return nil
	}

	mutateErr := mut.Mutate(ctx)
	if client.IsUnauthenticated(mutateErr) {
		return mutateErr
	}

	if mut.Refresh != nil {
		if err := mut.Refresh(ctx); err != nil {
			if client.IsUnauthenticated(err) {
				return err
			}
			m.logger.Error("refresh after mutation failed: %v", err)
		}
	}

	if mutateErr != nil {
		m.notifier.Failure(m.failureMessage(mut, mutateErr))
		return nil
	}

	if mut.SuccessMessage != "" {
		m.notifier.Success(mut.SuccessMessage)
	}
	return nil
}

func (m *Mutator) failureMessage(mut Mutation, err error) string {
	if mut.FailureMessage != "" {
		return mut.FailureMessage
	}
	if client.IsForbidden(err) {
		return MsgNotAuthorized
	}
	m.logger.Error("mutation hit unexpected backend failure: %v", err)
	return UnknownErrorMessage
}

// BestEffort runs fn and logs a failure instead of propagating it. It covers
// side effects that must not block the main outcome, like clearing session
// cookies after the backend already invalidated the session.
func BestEffort(logger Logger, what string, fn func() error) {
	if logger == nil {
		logger = defLogger{}
	}
	if err := fn(); err != nil {
		logger.Error("%s failed: %v", what, err)
	}
}
