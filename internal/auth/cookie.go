package auth

import (
	"net/http"
	"time"
)

// TokenCookie is the name of the HttpOnly cookie carrying the session JWT.
const TokenCookie = "token"

// SetTokenCookie stores the session JWT in the browser.
//
// HttpOnly keeps the token away from page scripts; SameSite=Lax stops it
// from riding along on cross-site POSTs such as a forged /logout.
func SetTokenCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie tells the browser to delete the session cookie.
func ClearTokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionIDFromRequest reads the session cookie and validates it.
// http.ErrNoCookie is returned unchanged for anonymous requests.
func SessionIDFromRequest(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(TokenCookie)
	if err != nil {
		return "", err
	}

	return tokens.Validate(cookie.Value)
}
