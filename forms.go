package panel

import (
	"context"

	"github.com/beacon-sh/panel/client"
	goerrors "github.com/goliatone/go-errors"
)

// UnknownErrorMessage is shown when the backend answers outside the
// endpoint's contract. The underlying fault is reported separately; the user
// cannot correct it.
const UnknownErrorMessage = "An unknown error occurred."

// FormPhase identifies the state a form is in.
type FormPhase string

const (
	PhaseIdle       FormPhase = "idle"
	PhaseSubmitting FormPhase = "submitting"
	PhaseError      FormPhase = "error"
)

// FormState is the tagged union Idle | Submitting | Error(message). The zero
// value is Idle.
type FormState struct {
	phase   FormPhase
	message string
}

func Idle() FormState {
	return FormState{phase: PhaseIdle}
}

func Submitting() FormState {
	return FormState{phase: PhaseSubmitting}
}

func ErrorState(message string) FormState {
	return FormState{phase: PhaseError, message: message}
}

func (s FormState) Phase() FormPhase {
	if s.phase == "" {
		return PhaseIdle
	}
	return s.phase
}

func (s FormState) IsIdle() bool       { return s.Phase() == PhaseIdle }
func (s FormState) IsSubmitting() bool { return s.Phase() == PhaseSubmitting }
func (s FormState) IsError() bool      { return s.Phase() == PhaseError }

// Message returns the error copy when the state is Error.
func (s FormState) Message() string {
	return s.message
}

// SubmitFunc performs the backend call for one submission attempt.
type SubmitFunc func(ctx context.Context) error

// TransitionListener observes every state change, in order.
type TransitionListener func(from, to FormState)

// ErrSubmissionInFlight is returned when a submission is attempted while one
// is already running; the submit affordance is disabled during Submitting, so
// hitting this means the caller bypassed the form.
var ErrSubmissionInFlight = goerrors.New("a submission is already in flight", goerrors.CategoryOperation).
	WithTextCode("SUBMISSION_IN_FLIGHT")

// Form is the idle -> submitting -> idle|error state machine wrapped around
// one mutating form instance. It is not safe for concurrent use; each form
// instance belongs to a single page interaction.
type Form struct {
	state FormState

	// messages maps client text codes to user-facing copy. A recognized
	// code always wins over the generic unknown message.
	messages map[string]string

	// passthrough codes surface the backend's own reason text instead of
	// fixed copy, like the registration endpoint's rejection reason.
	passthrough map[string]bool

	logger    Logger
	listeners []TransitionListener
}

type FormOption func(*Form)

// WithErrorMessages installs the per-endpoint mapping from failure codes to
// user-facing copy.
func WithErrorMessages(messages map[string]string) FormOption {
	return func(f *Form) {
		f.messages = messages
	}
}

// WithPassthroughCodes marks failure codes whose backend reason text is
// shown to the user verbatim.
func WithPassthroughCodes(codes ...string) FormOption {
	return func(f *Form) {
		if f.passthrough == nil {
			f.passthrough = map[string]bool{}
		}
		for _, code := range codes {
			f.passthrough[code] = true
		}
	}
}

// WithFormLogger overrides the logger used to report contract faults.
func WithFormLogger(logger Logger) FormOption {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithTransitionListener registers an observer for state transitions.
func WithTransitionListener(listener TransitionListener) FormOption {
	return func(f *Form) {
		if listener != nil {
			f.listeners = append(f.listeners, listener)
		}
	}
}

func NewForm(opts ...FormOption) *Form {
	f := &Form{
		state:  Idle(),
		logger: defLogger{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current form state.
func (f *Form) State() FormState {
	return f.state
}

func (f *Form) transition(to FormState) {
	from := f.state
	f.state = to
	for _, listener := range f.listeners {
		listener(from, to)
	}
}

// Submit runs one submission attempt. From Idle or Error it transitions to
// Submitting, runs fn, and settles on Idle (success) or Error (failure);
// no path skips Submitting. Only one submission may be in flight: calling
// Submit during Submitting returns ErrSubmissionInFlight without touching
// the state. Re-submission from Error is allowed and does not clear
// previously entered values, which the form never owns.
func (f *Form) Submit(ctx context.Context, fn SubmitFunc) (FormState, error) {
	if f.state.IsSubmitting() {
		return f.state, ErrSubmissionInFlight
	}

	f.transition(Submitting())

	err := fn(ctx)
	if err == nil {
		f.transition(Idle())
		return f.state, nil
	}

	if client.IsUnauthenticated(err) {
		// Unauthenticated failures belong to the guard boundary, not the
		// form. Reset and propagate so the caller redirects.
		f.transition(Idle())
		return f.state, err
	}

	f.transition(ErrorState(f.messageFor(err)))
	return f.state, nil
}

// messageFor maps a failure to its user-facing copy. A recognized code must
// never fall through to the generic message; an unrecognized one is a
// contract break and is reported as a fault.
func (f *Form) messageFor(err error) string {
	if code := client.TextCode(err); code != "" && code != client.TextCodeUnexpected {
		if f.passthrough[code] {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) && richErr.Message != "" {
				return richErr.Message
			}
		}
		if msg, found := f.messages[code]; found {
			return msg
		}
	}

	f.logger.Error("form submission hit unexpected backend failure: %v", err)
	return UnknownErrorMessage
}
