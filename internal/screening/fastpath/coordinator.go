package fastpath

import (
	"context"
	"sync"
	"time"
)

// State is the coordinator's position in the fast-path flow for one
// question attempt.
type State string

const (
	StateOffered               State = "offered"
	StateConnecting            State = "connecting"
	StateAwaitingAuthorization State = "awaiting_authorization"
	StateResolving             State = "resolving"
	StateConfirming            State = "confirming"
	StateAccepted              State = "accepted"
	StateRejected              State = "rejected"
	StateFailed                State = "failed"
)

// Terminal reports whether a state admits no further transitions.
func (s State) Terminal() bool {
	switch s {
	case StateAccepted, StateRejected, StateFailed:
		return true
	}
	return false
}

// Payload is the untyped key/value bag extracted by the external
// health-record source.
type Payload map[string]any

// ResultKind identifies which wake source won the race.
type ResultKind string

const (
	ResultAuthorized   ResultKind = "authorized"
	ResultWindowClosed ResultKind = "window_closed"
	ResultTimedOut     ResultKind = "timed_out"
)

// Result is the single resolution of one authorization attempt.
type Result struct {
	Kind    ResultKind
	Payload Payload
}

// DefaultTimeout bounds how long an authorization attempt may stay
// pending.
const DefaultTimeout = 5 * time.Minute

// Coordinator runs the authorization race for a single question attempt.
// Exactly one of three wake sources resolves it: an authorized payload
// delivery, a window-closed signal, or the timeout. Whichever fires first
// wins; later firings are no-ops, and the timer is always torn down.
//
// Each attempt owns its own Coordinator; Await must be called once.
type Coordinator struct {
	clock   Clock
	timeout time.Duration

	authorized chan Payload
	closed     chan struct{}

	mu       sync.Mutex
	state    State
	resolved bool

	onTransition func(State)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock injects a clock; tests use a fake to drive the timeout.
func WithClock(c Clock) Option {
	return func(co *Coordinator) { co.clock = c }
}

// WithTimeout overrides the default 5 minute upper bound.
func WithTimeout(d time.Duration) Option {
	return func(co *Coordinator) { co.timeout = d }
}

// WithTransitionHook registers a callback invoked on every state change,
// used to push progress events to the consumer.
func WithTransitionHook(fn func(State)) Option {
	return func(co *Coordinator) { co.onTransition = fn }
}

// NewCoordinator creates a coordinator in the Offered state.
func NewCoordinator(opts ...Option) *Coordinator {
	co := &Coordinator{
		clock:      SystemClock(),
		timeout:    DefaultTimeout,
		authorized: make(chan Payload, 1),
		closed:     make(chan struct{}),
		state:      StateOffered,
	}
	for _, opt := range opts {
		opt(co)
	}
	return co
}

// State returns the current coordinator state.
func (co *Coordinator) State() State {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.state
}

// Transition moves the coordinator to a new state and fires the hook.
func (co *Coordinator) Transition(s State) {
	co.mu.Lock()
	co.state = s
	hook := co.onTransition
	co.mu.Unlock()
	if hook != nil {
		hook(s)
	}
}

// Deliver hands the authorized payload to the coordinator. Returns false
// if the attempt was already resolved or a payload is already pending; in
// either case the call is a no-op.
func (co *Coordinator) Deliver(p Payload) bool {
	co.mu.Lock()
	if co.resolved {
		co.mu.Unlock()
		return false
	}
	co.mu.Unlock()

	select {
	case co.authorized <- p:
		return true
	default:
		return false
	}
}

// WindowClosed signals that the external flow's window went away without
// completing. Safe to call more than once; only the first has effect.
func (co *Coordinator) WindowClosed() bool {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.resolved {
		return false
	}
	select {
	case <-co.closed:
		return false
	default:
		close(co.closed)
		return true
	}
}

// Await blocks until exactly one wake source fires, marks the attempt
// resolved, and stops the timer on every exit path. Context cancellation
// also resolves the attempt (as a teardown, returning the context error).
func (co *Coordinator) Await(ctx context.Context) (Result, error) {
	co.Transition(StateAwaitingAuthorization)

	timer := co.clock.NewTimer(co.timeout)
	defer timer.Stop()

	var res Result
	var err error
	select {
	case p := <-co.authorized:
		res = Result{Kind: ResultAuthorized, Payload: p}
	case <-co.closed:
		res = Result{Kind: ResultWindowClosed}
	case <-timer.C():
		res = Result{Kind: ResultTimedOut}
	case <-ctx.Done():
		err = ctx.Err()
	}

	co.mu.Lock()
	co.resolved = true
	co.mu.Unlock()

	if err != nil {
		return Result{}, err
	}
	return res, nil
}
