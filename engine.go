package tokengate

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tokengate-dev/tokengate/internal/rate"
	"github.com/tokengate-dev/tokengate/jwt"
)

// Engine orchestrates the sign/verify lifecycle of primary identity
// tokens. It owns a signer and a token transport, and optionally a
// modifier-token engine, an invalid-token throttle, an audit
// dispatcher, and metrics. All engine state is immutable after Build;
// concurrent requests share it without locking.
type Engine struct {
	config    Config
	signer    *jwt.Manager
	transport TokenTransport
	modifier  ModifierEngine
	hook      InvalidTokenHook
	throttle  *rate.Limiter
	audit     *auditDispatcher
	metrics   *Metrics
}

// Verify resolves the request's identity state exactly once: absent
// token resolves to StateUnauthenticated, a verified token (and, when
// configured, a valid modifier token) to StateAuthenticated, and any
// rejection to StateInvalid. A rejected token is actively removed from
// the transport and the invalid-token hook fires exactly once.
// Rejection is never fatal to the request.
//
// The returned request carries the resolved identity in its context;
// pass it downstream so handlers and guards observe it.
func (e *Engine) Verify(w http.ResponseWriter, r *http.Request) (*http.Request, Identity) {
	if e == nil {
		return r, Identity{State: StateUnauthenticated}
	}

	holder, ok := identityHolderFromContext(r.Context())
	if !ok {
		holder = &identityHolder{}
		r = r.WithContext(withIdentityHolder(r.Context(), holder))
	}

	identity := e.resolve(w, r)
	holder.set(identity)

	return r, identity
}

func (e *Engine) resolve(w http.ResponseWriter, r *http.Request) Identity {
	raw := e.transport.Token(r)
	if raw == "" {
		e.metrics.Inc(MetricVerifyAnonymous)
		return Identity{State: StateUnauthenticated}
	}

	source := clientIP(r)

	if e.throttle != nil {
		if err := e.throttle.Check(r.Context(), source); err != nil {
			if errors.Is(err, rate.ErrThrottled) {
				return e.reject(w, r, raw, source, ReasonThrottled)
			}
			// Throttle backend outage degrades open; verification still runs.
		}
	}

	start := time.Now()
	claims, err := e.signer.Verify(raw)
	e.metrics.Observe(MetricVerifyLatency, time.Since(start))
	if err != nil {
		return e.reject(w, r, raw, source, ReasonVerification)
	}

	if e.modifier != nil && !e.modifier.Validate(r, raw) {
		return e.reject(w, r, raw, source, ReasonModifier)
	}

	e.metrics.Inc(MetricVerifyAuthenticated)

	return Identity{State: StateAuthenticated, Claims: claims, Token: raw}
}

func (e *Engine) reject(w http.ResponseWriter, r *http.Request, raw, source string, reason Reason) Identity {
	e.transport.Remove(w, r)
	if e.modifier != nil {
		e.modifier.Remove(w, r)
	}

	if e.hook != nil {
		e.hook(raw, w, r)
	}

	switch reason {
	case ReasonModifier:
		e.metrics.Inc(MetricModifierRejected)
	case ReasonThrottled:
		e.metrics.Inc(MetricVerifyThrottled)
	default:
		e.metrics.Inc(MetricVerifyRejected)
	}

	if e.throttle != nil && reason != ReasonThrottled {
		_ = e.throttle.Increment(r.Context(), source)
	}

	eventType := "token_rejected"
	if reason == ReasonThrottled {
		eventType = "token_throttled"
	}
	e.audit.Emit(r.Context(), AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		IP:        source,
		Reason:    string(reason),
	})

	return Identity{State: StateInvalid, Reason: reason}
}

// Authenticate signs claims into a primary token, persists it via the
// transport, issues the paired modifier token when one is configured,
// and replaces the request's resolved identity. The previous payload is
// never merged into the new one.
//
// Signing failures wrap [ErrSigning] and are propagated; they indicate
// misconfiguration the caller must react to.
func (e *Engine) Authenticate(claims Claims, w http.ResponseWriter, r *http.Request) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	token, err := e.signer.Sign(claims)
	if err != nil {
		e.metrics.Inc(MetricAuthenticateFailure)
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}

	e.transport.Set(w, token, claims)

	if e.modifier != nil {
		if _, err := e.modifier.Issue(w, token); err != nil {
			e.metrics.Inc(MetricAuthenticateFailure)
			return "", fmt.Errorf("%w: %v", ErrModifierIssue, err)
		}
	}

	if holder, ok := identityHolderFromContext(r.Context()); ok {
		holder.set(Identity{State: StateAuthenticated, Claims: claims, Token: token})
	}

	source := clientIP(r)
	if e.throttle != nil {
		_ = e.throttle.Reset(r.Context(), source)
	}

	e.metrics.Inc(MetricAuthenticateSuccess)
	e.audit.Emit(r.Context(), AuditEvent{
		Timestamp: time.Now(),
		EventType: "authenticated",
		Subject:   subjectClaim(claims),
		IP:        source,
		Success:   true,
	})

	return token, nil
}

// Deauthenticate removes the primary and modifier tokens from both the
// response and the request, so later code in the same request observes
// no token, and resets the resolved identity to StateUnauthenticated.
func (e *Engine) Deauthenticate(w http.ResponseWriter, r *http.Request) {
	if e == nil {
		return
	}

	e.transport.Remove(w, r)
	if e.modifier != nil {
		e.modifier.Remove(w, r)
	}

	if holder, ok := identityHolderFromContext(r.Context()); ok {
		holder.set(Identity{State: StateUnauthenticated})
	}

	e.metrics.Inc(MetricDeauthenticate)
	e.audit.Emit(r.Context(), AuditEvent{
		Timestamp: time.Now(),
		EventType: "deauthenticated",
		IP:        clientIP(r),
		Success:   true,
	})
}

// MetricsSnapshot returns a point-in-time copy of engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports audit events dropped by dispatcher backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// Close drains and stops the audit dispatcher. Safe to call multiple
// times and on engines built without auditing.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

func subjectClaim(claims Claims) string {
	if claims == nil {
		return ""
	}
	subject, _ := claims["sub"].(string)
	return subject
}
