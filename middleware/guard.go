package middleware

import (
	"context"
	"net/http"

	"github.com/tokengate-dev/tokengate"
)

// IdentityFromContext returns the identity resolved for the current
// request, or false when no Verify stage has run.
func IdentityFromContext(ctx context.Context) (tokengate.Identity, bool) {
	return tokengate.IdentityFromContext(ctx)
}

// Verify resolves the request's identity before the next handler runs.
// It never blocks a request on its own; pair it with the Require
// predicates to deny access.
func Verify(engine *tokengate.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, _ = resolve(engine, w, r)
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated passes only requests resolved to
// StateAuthenticated; unauthenticated and invalid requests are both
// answered with 401 and downstream processing halts.
func RequireAuthenticated(engine *tokengate.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, identity := resolve(engine, w, r)
			if identity.State != tokengate.StateAuthenticated {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireNotAuthenticated passes only unauthenticated or invalid
// requests. Used for login and signup endpoints that must reject
// already-authenticated callers.
func RequireNotAuthenticated(engine *tokengate.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, identity := resolve(engine, w, r)
			if identity.State == tokengate.StateAuthenticated {
				http.Error(w, "already authenticated", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireClaims passes only authenticated requests whose payload
// satisfies pred. The composition point for coarse-grained
// authorization on top of authentication: authentication failures get
// 401, predicate failures get 403.
func RequireClaims(engine *tokengate.Engine, pred func(tokengate.Claims) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, identity := resolve(engine, w, r)
			if identity.State != tokengate.StateAuthenticated {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if pred == nil || !pred(identity.Claims) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolve returns the identity already attached to the request, or runs
// the engine's verification when none is present. A nil engine resolves
// to the zero identity, which every Require predicate denies.
func resolve(engine *tokengate.Engine, w http.ResponseWriter, r *http.Request) (*http.Request, tokengate.Identity) {
	if identity, ok := tokengate.IdentityFromContext(r.Context()); ok {
		return r, identity
	}
	if engine == nil {
		return r, tokengate.Identity{State: tokengate.StateInvalid}
	}
	return engine.Verify(w, r)
}
