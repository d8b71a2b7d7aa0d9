package tokengate

import (
	"context"
	"net"
	"net/http"
	"sync"
)

type identityContextKey struct{}
type clientIPContextKey struct{}

// identityHolder carries the mutable per-request resolved identity.
// Verify installs it once; Authenticate and Deauthenticate replace its
// value so later code in the same request observes the change.
type identityHolder struct {
	mu       sync.RWMutex
	identity Identity
}

func (h *identityHolder) get() Identity {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.identity
}

func (h *identityHolder) set(identity Identity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.identity = identity
}

func withIdentityHolder(ctx context.Context, holder *identityHolder) context.Context {
	return context.WithValue(ctx, identityContextKey{}, holder)
}

func identityHolderFromContext(ctx context.Context) (*identityHolder, bool) {
	if ctx == nil {
		return nil, false
	}
	holder, ok := ctx.Value(identityContextKey{}).(*identityHolder)
	return holder, ok
}

// IdentityFromContext returns the resolved identity of the current
// request. The second result is false when Verify has not run on this
// request's context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	holder, ok := identityHolderFromContext(ctx)
	if !ok {
		return Identity{}, false
	}
	return holder.get(), true
}

// WithClientIP attaches the caller's IP address to ctx. The engine uses
// it as the throttle key and on audit events; when absent it falls back
// to the request's RemoteAddr host.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}

func clientIP(r *http.Request) string {
	if ip := clientIPFromContext(r.Context()); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
