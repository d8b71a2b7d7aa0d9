package tokengate

import (
	"net/http"
	"strings"
)

// HeaderTransport carries the primary token in an Authorization-style
// header. Headers cannot be expired server-side, so response-side
// removal is a no-op; removal only strips the request-side header.
type HeaderTransport struct {
	name   string
	scheme string
}

// NewHeaderTransport creates a header transport. scheme is the prefix
// before the token ("Bearer" by convention); pass "" for a bare value.
func NewHeaderTransport(cfg HeaderConfig) *HeaderTransport {
	return &HeaderTransport{name: cfg.Name, scheme: cfg.Scheme}
}

// Token extracts the token from the configured header. A missing
// header, wrong scheme, or empty value all yield "".
func (t *HeaderTransport) Token(r *http.Request) string {
	value := r.Header.Get(t.name)
	if value == "" {
		return ""
	}
	if t.scheme == "" {
		return value
	}
	prefix := t.scheme + " "
	if !strings.HasPrefix(value, prefix) {
		return ""
	}
	return value[len(prefix):]
}

// Set writes the token to the response header for the client to read
// and return on subsequent requests.
func (t *HeaderTransport) Set(w http.ResponseWriter, token string, _ Claims) {
	if t.scheme != "" {
		w.Header().Set(t.name, t.scheme+" "+token)
		return
	}
	w.Header().Set(t.name, token)
}

// Remove strips the request-side header. There is nothing to expire on
// the response.
func (t *HeaderTransport) Remove(_ http.ResponseWriter, r *http.Request) {
	if r != nil {
		r.Header.Del(t.name)
	}
}
