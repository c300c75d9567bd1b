// Package limiter throttles outbound HTTP calls.
package limiter

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/sakif/pullquest-dashboard/internal/apperror"
)

// HTTPDoer can execute http request.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// limitedHTTPDoer wraps HTTPDoer and allows Dos with maximum rate limit.
type limitedHTTPDoer struct {
	doer    HTTPDoer
	limiter *rate.Limiter
}

// NewHTTPDoer wraps doer with a token bucket of maxRate calls per second
// and a burst of one.
func NewHTTPDoer(doer HTTPDoer, maxRate float64) HTTPDoer {
	return &limitedHTTPDoer{
		doer:    doer,
		limiter: rate.NewLimiter(rate.Limit(maxRate), 1),
	}
}

// Do blocks until the limiter admits the call or the request context ends;
// in the latter case the error matches apperror.ErrRateLimited.
func (d *limitedHTTPDoer) Do(r *http.Request) (*http.Response, error) {
	if err := d.limiter.Wait(r.Context()); err != nil {
		return nil, apperror.RateLimited(fmt.Sprintf("waiting for outbound limiter: %v", err))
	}

	return d.doer.Do(r)
}
