package router

import "time"

// State is the router's navigation state.
type State int

const (
	// StateIdle means no navigation is in flight and no page is mounted, or
	// the last navigation was aborted, redirected or superseded.
	StateIdle State = iota

	// StateResolving means before-hooks are running.
	StateResolving

	// StateLoading means the target page is being loaded and mounted.
	StateLoading

	// StateMounted means a page is mounted and no navigation is in flight.
	StateMounted
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateLoading:
		return "loading"
	case StateMounted:
		return "mounted"
	default:
		return "idle"
	}
}

// Outcome is how a single navigation ended.
type Outcome int

const (
	// OutcomeMounted means the target page mounted and after-hooks ran.
	OutcomeMounted Outcome = iota

	// OutcomeAborted means a before-hook aborted the navigation.
	OutcomeAborted

	// OutcomeRedirected means a before-hook sent the router elsewhere.
	OutcomeRedirected

	// OutcomeSuperseded means a newer navigation started first.
	OutcomeSuperseded

	// OutcomeFailed means a hook or the page failed.
	OutcomeFailed
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeMounted:
		return "mounted"
	case OutcomeAborted:
		return "aborted"
	case OutcomeRedirected:
		return "redirected"
	case OutcomeSuperseded:
		return "superseded"
	default:
		return "failed"
	}
}

// Event reports one finished navigation.
type Event struct {
	Seq      uint64
	Path     string
	Query    string
	Route    string
	Outcome  Outcome
	Err      error
	Start    time.Time
	Duration time.Duration
}

// Observer is notified of every finished navigation, whatever its outcome.
type Observer interface {
	ObserveNavigation(ev Event)
}

// ObserverFunc is a function adapter for Observer.
type ObserverFunc func(ev Event)

// ObserveNavigation implements Observer.
func (f ObserverFunc) ObserveNavigation(ev Event) {
	f(ev)
}
