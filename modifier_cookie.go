package tokengate

import (
	"net/http"
	"time"
)

// CookieModifier stores the modifier token in a second cookie. The
// cookie is deliberately script-readable (no HttpOnly) so clients can
// echo it where needed; validation reads it straight from the request
// cookie. Weaker than the header variant, but still binds the pair to
// one issued primary token.
type CookieModifier struct {
	config CookieConfig
	ttl    time.Duration
	key    []byte
}

// NewCookieModifier creates a cookie-based modifier engine. The key
// binds modifier tokens to their primary token and must match across
// Issue and Validate.
func NewCookieModifier(cfg CookieConfig, ttl time.Duration, key []byte) *CookieModifier {
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &CookieModifier{config: cfg, ttl: ttl, key: key}
}

// Issue mints a modifier bound to primaryToken and persists it on the
// response.
func (m *CookieModifier) Issue(w http.ResponseWriter, primaryToken string) (string, error) {
	token, err := encodeModifier(m.key, primaryToken)
	if err != nil {
		return "", err
	}

	maxAge := 0
	if m.ttl > 0 {
		maxAge = int(m.ttl.Seconds())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.Name,
		Value:    token,
		Path:     m.config.Path,
		Domain:   m.config.Domain,
		MaxAge:   maxAge,
		Secure:   m.config.Secure,
		SameSite: m.config.SameSite,
	})

	return token, nil
}

// Validate reports whether the request carries a modifier cookie bound
// to primaryToken.
func (m *CookieModifier) Validate(r *http.Request, primaryToken string) bool {
	cookie, err := r.Cookie(m.config.Name)
	if err != nil {
		return false
	}
	return verifyModifier(m.key, cookie.Value, primaryToken)
}

// Remove expires the modifier cookie on the response and strips it from
// the request.
func (m *CookieModifier) Remove(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.Name,
		Value:    "",
		Path:     m.config.Path,
		Domain:   m.config.Domain,
		MaxAge:   -1,
		Secure:   m.config.Secure,
		SameSite: m.config.SameSite,
	})
	if r != nil {
		stripRequestCookie(r, m.config.Name)
	}
}
