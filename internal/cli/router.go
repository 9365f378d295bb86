package cli

import (
	"github.com/josselin06/Borobo-stage-2025/internal/services"
	"github.com/josselin06/Borobo-stage-2025/internal/session"
)

// State is the top-level view currently presented.
type State int

const (
	StateLoggedOut State = iota
	StateUser
	StateMaintenance
	StateSuperuser
	StateChangingPassword
)

func (s State) String() string {
	switch s {
	case StateUser:
		return "robots"
	case StateMaintenance:
		return "maintenance"
	case StateSuperuser:
		return "combined"
	case StateChangingPassword:
		return "password"
	default:
		return "logged out"
	}
}

// Router selects the view for the decoded role and gates the password-change
// flow. The decoded role is a routing hint only; the backend still enforces
// the real permissions on every call.
//
// Transitions: loggedOut -> {user|maintenance|superuser} on login (anything
// unrecognized lands on the plain user view); any authenticated state <->
// changingPassword; any state -> loggedOut on logout or session expiry.
type Router struct {
	state    State
	returnTo State
}

func NewRouter() *Router {
	return &Router{state: StateLoggedOut}
}

func (r *Router) State() State {
	return r.state
}

func (r *Router) LoggedIn() bool {
	return r.state != StateLoggedOut
}

// LoginAs enters the view for the role. No-op unless logged out.
func (r *Router) LoginAs(role session.Role) State {
	if r.state != StateLoggedOut {
		return r.state
	}
	switch role {
	case session.RoleSuperuser:
		r.state = StateSuperuser
	case session.RoleMaintenance:
		r.state = StateMaintenance
	default:
		r.state = StateUser
	}
	return r.state
}

// OpenPasswordForm moves to changingPassword, remembering where to return.
// Refused when logged out or already on the form.
func (r *Router) OpenPasswordForm() bool {
	if r.state == StateLoggedOut || r.state == StateChangingPassword {
		return false
	}
	r.returnTo = r.state
	r.state = StateChangingPassword
	return true
}

// Back leaves the password form for its originating view.
func (r *Router) Back() {
	if r.state == StateChangingPassword {
		r.state = r.returnTo
	}
}

// Logout returns to loggedOut from any state.
func (r *Router) Logout() {
	r.state = StateLoggedOut
	r.returnTo = StateLoggedOut
}

// Scope returns the fetch scope of the current view. The password form keeps
// the scope of the view it was opened from.
func (r *Router) Scope() services.Scope {
	state := r.state
	if state == StateChangingPassword {
		state = r.returnTo
	}
	switch state {
	case StateMaintenance:
		return services.ScopeMaintenance
	case StateSuperuser:
		return services.ScopeCombined
	default:
		return services.ScopeOperational
	}
}
