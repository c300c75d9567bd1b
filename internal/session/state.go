// Package session resolves, creates and clears dashboard sessions.
//
// A request's session is one of three states. Loading means the provider
// could not decide yet (the store did not answer); guards must neither
// redirect nor render in that state.
package session

import (
	"context"

	"github.com/sakif/pullquest-dashboard/internal/model"
)

// Status enumerates the three session states.
type Status int

const (
	StatusLoading Status = iota
	StatusAnonymous
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is the resolved session of one request. The zero value is Loading.
type State struct {
	status  Status
	session model.Session
}

func Loading() State   { return State{status: StatusLoading} }
func Anonymous() State { return State{status: StatusAnonymous} }

// Authenticated wraps a live session.
func Authenticated(s model.Session) State {
	return State{status: StatusAuthenticated, session: s}
}

func (s State) Status() Status { return s.status }

// Session returns the session and true only in the Authenticated state.
func (s State) Session() (model.Session, bool) {
	if s.status != StatusAuthenticated {
		return model.Session{}, false
	}
	return s.session, true
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying the session.
func NewContext(ctx context.Context, s model.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by NewContext.
func FromContext(ctx context.Context) (model.Session, bool) {
	s, ok := ctx.Value(contextKey{}).(model.Session)
	return s, ok
}
