// Package guard decides who may see which page.
//
// Private and Guest are pure functions of the session state; PrivateRoute and
// GuestRoute adapt them to chi middleware. While the state is Loading both
// guards Wait: nothing is rendered and nobody is redirected.
package guard

import (
	"net/http"
	"slices"

	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/sakif/pullquest-dashboard/internal/session"
)

// Outcome is what a guard decided for a request.
type Outcome int

const (
	Wait Outcome = iota
	Redirect
	Render
)

func (o Outcome) String() string {
	switch o {
	case Wait:
		return "wait"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Decision is a guard verdict. Location is set only for Redirect.
type Decision struct {
	Outcome  Outcome
	Location string
}

func wait() Decision                 { return Decision{Outcome: Wait} }
func render() Decision               { return Decision{Outcome: Render} }
func redirect(path string) Decision { return Decision{Outcome: Redirect, Location: path} }

// Private admits authenticated sessions whose role is in allowed. An empty
// allow-list admits every role. Anonymous visitors go to the login page;
// sessions with another role go to their own dashboard.
func Private(state session.State, allowed ...model.Role) Decision {
	switch state.Status() {
	case session.StatusAnonymous:
		return redirect(model.LoginPath)
	case session.StatusAuthenticated:
		sess, _ := state.Session()
		if len(allowed) > 0 && !slices.Contains(allowed, sess.Role) {
			return redirect(sess.Role.DashboardPath())
		}
		return render()
	default:
		return wait()
	}
}

// Guest admits anonymous visitors only; signed-in users go to their
// dashboard whatever guest page they asked for.
func Guest(state session.State) Decision {
	switch state.Status() {
	case session.StatusAnonymous:
		return render()
	case session.StatusAuthenticated:
		sess, _ := state.Session()
		return redirect(sess.Role.DashboardPath())
	default:
		return wait()
	}
}

// Resolver yields the session state of a request. *session.Provider
// implements it.
type Resolver interface {
	Resolve(r *http.Request) session.State
}

// PrivateRoute wraps handlers that need a session with one of the allowed
// roles. Admitted requests carry the session in their context.
func PrivateRoute(res Resolver, allowed ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := res.Resolve(r)
			d := Private(state, allowed...)
			if d.Outcome == Render {
				sess, _ := state.Session()
				r = r.WithContext(session.NewContext(r.Context(), sess))
			}
			apply(w, r, d, next)
		})
	}
}

// GuestRoute wraps login and signup pages.
func GuestRoute(res Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apply(w, r, Guest(res.Resolve(r)), next)
		})
	}
}

// apply writes a decision. Wait is an empty 503 the browser may retry
// shortly.
func apply(w http.ResponseWriter, r *http.Request, d Decision, next http.Handler) {
	switch d.Outcome {
	case Render:
		next.ServeHTTP(w, r)
	case Redirect:
		http.Redirect(w, r, d.Location, http.StatusFound)
	default:
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}
