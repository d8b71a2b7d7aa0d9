package tokengate

import (
	"io"
	"net/http"

	"github.com/tokengate-dev/tokengate/internal/audit"
	"github.com/tokengate-dev/tokengate/jwt"
)

// Claims is the open identity payload signed into the primary token.
// A fresh Authenticate call replaces the payload wholesale; it is never
// merged with the claims of a previously issued token.
type Claims = jwt.Claims

// State is the per-request outcome of token resolution. Exactly one
// state is resolved per request, before any downstream handler runs.
type State uint8

const (
	// StateUnauthenticated means no transport-level token was present.
	StateUnauthenticated State = iota
	// StateAuthenticated means a token was present and verified; the
	// decoded claims are available on the Identity.
	StateAuthenticated
	// StateInvalid means a token was present but rejected. The token has
	// been actively removed from the transport so the client stops
	// sending it.
	StateInvalid
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateInvalid:
		return "invalid"
	default:
		return "unauthenticated"
	}
}

// Reason qualifies a StateInvalid resolution. Guards treat every
// invalid request the same; the reason exists for hooks, audit events,
// and metrics.
type Reason string

const (
	// ReasonVerification: the primary token failed signature, expiry,
	// or not-before checks.
	ReasonVerification Reason = "verification"
	// ReasonModifier: the primary token verified but the paired
	// modifier token was missing or invalid.
	ReasonModifier Reason = "modifier"
	// ReasonThrottled: the source exceeded the invalid-token budget and
	// the token was rejected without reaching the signer.
	ReasonThrottled Reason = "throttled"
)

// Identity is the resolved authentication state of one request.
// Claims and Token are set only when State is StateAuthenticated.
type Identity struct {
	State  State
	Claims Claims
	Token  string
	Reason Reason
}

// InvalidTokenHook is invoked exactly once whenever Verify rejects a
// presented token. It runs after the token has been removed from the
// transport. Rejection is never fatal to the request, so the hook is
// the place for custom responses or logging.
type InvalidTokenHook func(rawToken string, w http.ResponseWriter, r *http.Request)

// AuditEvent is a structured record emitted by the engine for
// authenticate, deauthenticate, and rejection outcomes.
type AuditEvent = audit.Event

// AuditSink receives [AuditEvent] values from the engine's dispatcher.
type AuditSink = audit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = audit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = audit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes one JSON event per line.
type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
