package tokengate

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// Config aggregates all engine settings. Configure before Build; the
// engine clones it and never reads it again.
type Config struct {
	JWT       JWTConfig
	Transport TransportConfig
	Modifier  ModifierConfig
	Throttle  ThrottleConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig holds signer settings for the primary token.
//
// When SigningMethod is "hs256" and Key is empty, a random key is
// generated once per engine; every outstanding token becomes invalid
// when the process restarts. Supply persistent key material to keep
// tokens valid across restarts.
type JWTConfig struct {
	TTL           time.Duration
	NotBefore     time.Duration
	Leeway        time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	Key           []byte
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
}

/*
====================================
TRANSPORT CONFIG
====================================
*/

// TransportMode selects how the primary token travels between client
// and server.
type TransportMode int

const (
	// TransportCookie carries the token in an HTTP cookie. Default.
	TransportCookie TransportMode = iota
	// TransportHeader carries the token in an Authorization-style header.
	TransportHeader
)

// CookieConfig controls the attributes of an issued cookie.
type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

// HeaderConfig controls the header name and optional scheme prefix used
// by the header transport.
type HeaderConfig struct {
	Name   string
	Scheme string // prefix before the token, e.g. "Bearer"; may be empty
}

// TransportConfig selects and tunes the primary-token transport.
type TransportConfig struct {
	Mode   TransportMode
	Cookie CookieConfig
	Header HeaderConfig
}

/*
====================================
MODIFIER CONFIG
====================================
*/

// ModifierMode selects the secondary-token scheme paired with the
// primary token.
type ModifierMode int

const (
	// ModifierOff disables the modifier token. Default.
	ModifierOff ModifierMode = iota
	// ModifierCookie stores the modifier in a second, script-readable
	// cookie.
	ModifierCookie
	// ModifierHeader requires the client to echo the modifier in a
	// custom header. The strong variant: a cross-origin form submission
	// cannot attach it.
	ModifierHeader
)

// ModifierConfig tunes the modifier-token engine. Key is the MAC key
// binding modifier tokens to their primary token; a random key is
// generated per engine when empty.
type ModifierConfig struct {
	Mode       ModifierMode
	Key        []byte
	HeaderName string
	Cookie     CookieConfig
}

/*
====================================
THROTTLE CONFIG
====================================
*/

// ThrottleConfig tunes the optional Redis-backed invalid-token
// throttle. When a source presents more than MaxInvalidAttempts
// rejected tokens within Cooldown, further presentations are rejected
// without reaching the signer. Requires a Redis client on the builder.
type ThrottleConfig struct {
	Enabled            bool
	MaxInvalidAttempts int
	Cooldown           time.Duration
	RedisPrefix        string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the secure defaults: HS256 with a 24h TTL,
// cookie transport (HttpOnly, Secure, SameSite=Lax), modifier off,
// throttle off, audit and metrics off.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			TTL:           24 * time.Hour,
			SigningMethod: "hs256",
		},
		Transport: TransportConfig{
			Mode: TransportCookie,
			Cookie: CookieConfig{
				Name:     "auth_token",
				Path:     "/",
				Secure:   true,
				HTTPOnly: true,
				SameSite: http.SameSiteLaxMode,
			},
			Header: HeaderConfig{
				Name:   "Authorization",
				Scheme: "Bearer",
			},
		},
		Modifier: ModifierConfig{
			Mode:       ModifierOff,
			HeaderName: "X-Modifier-Token",
			Cookie: CookieConfig{
				Name:     "modifier_token",
				Path:     "/",
				Secure:   true,
				SameSite: http.SameSiteLaxMode,
			},
		},
		Throttle: ThrottleConfig{
			MaxInvalidAttempts: 20,
			Cooldown:           5 * time.Minute,
			RedisPrefix:        "tg",
		},
		Audit: AuditConfig{
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

// Validate reports the first configuration error, or nil.
func (c *Config) Validate() error {
	if c.JWT.TTL <= 0 {
		return errors.New("JWT TTL must be positive")
	}
	if c.JWT.NotBefore < 0 {
		return errors.New("JWT NotBefore must not be negative")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("JWT Leeway out of range")
	}
	switch c.JWT.SigningMethod {
	case "hs256", "ed25519":
	default:
		return errors.New("unsupported JWT signing method")
	}

	switch c.Transport.Mode {
	case TransportCookie:
		if strings.TrimSpace(c.Transport.Cookie.Name) == "" {
			return errors.New("cookie transport requires a cookie name")
		}
	case TransportHeader:
		if strings.TrimSpace(c.Transport.Header.Name) == "" {
			return errors.New("header transport requires a header name")
		}
	default:
		return errors.New("invalid transport mode")
	}

	switch c.Modifier.Mode {
	case ModifierOff:
	case ModifierCookie:
		if strings.TrimSpace(c.Modifier.Cookie.Name) == "" {
			return errors.New("cookie modifier requires a cookie name")
		}
	case ModifierHeader:
		if strings.TrimSpace(c.Modifier.HeaderName) == "" {
			return errors.New("header modifier requires a header name")
		}
	default:
		return errors.New("invalid modifier mode")
	}

	if c.Throttle.Enabled {
		if c.Throttle.MaxInvalidAttempts <= 0 {
			return errors.New("throttle MaxInvalidAttempts must be positive")
		}
		if c.Throttle.Cooldown <= 0 {
			return errors.New("throttle Cooldown must be positive")
		}
	}

	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("audit BufferSize must not be negative")
	}

	return nil
}

func cloneConfig(c Config) Config {
	out := c
	out.JWT.Key = cloneBytes(c.JWT.Key)
	out.JWT.PrivateKey = cloneBytes(c.JWT.PrivateKey)
	out.JWT.PublicKey = cloneBytes(c.JWT.PublicKey)
	out.Modifier.Key = cloneBytes(c.Modifier.Key)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
