package tokengate

import (
	"net/http"
	"time"
)

// CookieTransport carries the primary token in an HTTP cookie. The
// cookie lifetime follows the token TTL, so the client stops sending
// expired tokens on its own.
type CookieTransport struct {
	config CookieConfig
	ttl    time.Duration
}

// NewCookieTransport creates a cookie transport with the given
// attributes. ttl controls the cookie MaxAge; zero means a session
// cookie.
func NewCookieTransport(cfg CookieConfig, ttl time.Duration) *CookieTransport {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &CookieTransport{config: cfg, ttl: ttl}
}

// Token returns the cookie value, or "" when the cookie is absent.
func (t *CookieTransport) Token(r *http.Request) string {
	cookie, err := r.Cookie(t.config.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Set persists the token on the response. The claims are not inspected;
// the payload never influences cookie attributes.
func (t *CookieTransport) Set(w http.ResponseWriter, token string, _ Claims) {
	maxAge := 0
	if t.ttl > 0 {
		maxAge = int(t.ttl.Seconds())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     t.config.Name,
		Value:    token,
		Path:     t.config.Path,
		Domain:   t.config.Domain,
		MaxAge:   maxAge,
		Secure:   t.config.Secure,
		HttpOnly: t.config.HTTPOnly,
		SameSite: t.config.SameSite,
	})
}

// Remove expires the cookie on the response and strips it from the
// request so the rest of this request observes no token.
func (t *CookieTransport) Remove(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.config.Name,
		Value:    "",
		Path:     t.config.Path,
		Domain:   t.config.Domain,
		MaxAge:   -1,
		Secure:   t.config.Secure,
		HttpOnly: t.config.HTTPOnly,
		SameSite: t.config.SameSite,
	})
	if r != nil {
		stripRequestCookie(r, t.config.Name)
	}
}
