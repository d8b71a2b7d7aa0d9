package tokengate

import "net/http"

// HeaderModifier requires the client to echo the modifier token in a
// custom header. This is the strong variant: a cross-origin form
// submission carries cookies silently but cannot set a custom header,
// so a stolen primary cookie alone never authenticates.
type HeaderModifier struct {
	name string
	key  []byte
}

// NewHeaderModifier creates a header-based modifier engine using the
// given header name.
func NewHeaderModifier(name string, key []byte) *HeaderModifier {
	return &HeaderModifier{name: name, key: key}
}

// Issue mints a modifier bound to primaryToken and exposes it on the
// response header for the client to read and echo back.
func (m *HeaderModifier) Issue(w http.ResponseWriter, primaryToken string) (string, error) {
	token, err := encodeModifier(m.key, primaryToken)
	if err != nil {
		return "", err
	}
	w.Header().Set(m.name, token)
	return token, nil
}

// Validate reports whether the request header carries a modifier bound
// to primaryToken. A missing header is simply invalid.
func (m *HeaderModifier) Validate(r *http.Request, primaryToken string) bool {
	value := r.Header.Get(m.name)
	if value == "" {
		return false
	}
	return verifyModifier(m.key, value, primaryToken)
}

// Remove strips the request-side header; headers cannot be expired on
// the response.
func (m *HeaderModifier) Remove(_ http.ResponseWriter, r *http.Request) {
	if r != nil {
		r.Header.Del(m.name)
	}
}
