package tokengate

import "net/http"

// TokenTransport abstracts where the primary signed token lives on the
// wire. Exactly one transport is active per engine; no other component
// knows which variant is in use.
//
// Token must not fail on absence: a missing or malformed token source
// yields the empty string. Remove clears both the response-side
// persistence and the request-side copy, so later code in the same
// request observes no token.
type TokenTransport interface {
	Token(r *http.Request) string
	Set(w http.ResponseWriter, token string, claims Claims)
	Remove(w http.ResponseWriter, r *http.Request)
}

// stripRequestCookie deletes one cookie from the request's Cookie
// header, keeping the rest intact.
func stripRequestCookie(r *http.Request, name string) {
	cookies := r.Cookies()
	r.Header.Del("Cookie")
	for _, c := range cookies {
		if c.Name == name {
			continue
		}
		r.AddCookie(c)
	}
}
