package tokengate

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/tokengate-dev/tokengate/internal/rate"
	"github.com/tokengate-dev/tokengate/jwt"
)

// Builder assembles an [Engine]. A Builder is single-use: Build
// succeeds at most once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	transport TokenTransport
	modifier  ModifierEngine
	hook      InvalidTokenHook
	auditSink AuditSink

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder configuration. The config is cloned;
// later caller mutations do not reach the engine.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the Redis client backing the invalid-token
// throttle. Required when Throttle.Enabled is set.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithTransport injects a custom [TokenTransport], overriding the
// configured transport mode.
func (b *Builder) WithTransport(t TokenTransport) *Builder {
	b.transport = t
	return b
}

// WithModifier injects a custom [ModifierEngine], overriding the
// configured modifier mode.
func (b *Builder) WithModifier(m ModifierEngine) *Builder {
	b.modifier = m
	return b
}

// WithInvalidTokenHook installs the hook fired once per rejected token.
func (b *Builder) WithInvalidTokenHook(hook InvalidTokenHook) *Builder {
	b.hook = hook
	return b
}

// WithAuditSink supplies the sink receiving audit events. Enables
// nothing on its own; set Audit.Enabled in the config.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the verify-latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and assembles the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Throttle.Enabled && b.redis == nil {
		return nil, errors.New("throttle requires redis client")
	}

	signer, err := jwt.NewManager(jwt.Config{
		TTL:           cfg.JWT.TTL,
		NotBefore:     cfg.JWT.NotBefore,
		Leeway:        cfg.JWT.Leeway,
		SigningMethod: jwt.SigningMethod(cfg.JWT.SigningMethod),
		Key:           cloneBytes(cfg.JWT.Key),
		PrivateKey:    cloneBytes(cfg.JWT.PrivateKey),
		PublicKey:     cloneBytes(cfg.JWT.PublicKey),
		Issuer:        cfg.JWT.Issuer,
		Audience:      cfg.JWT.Audience,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config: cfg,
		signer: signer,
		hook:   b.hook,
	}

	engine.transport = b.transport
	if engine.transport == nil {
		switch cfg.Transport.Mode {
		case TransportHeader:
			engine.transport = NewHeaderTransport(cfg.Transport.Header)
		default:
			engine.transport = NewCookieTransport(cfg.Transport.Cookie, cfg.JWT.TTL)
		}
	}

	engine.modifier = b.modifier
	if engine.modifier == nil && cfg.Modifier.Mode != ModifierOff {
		key := cfg.Modifier.Key
		if len(key) == 0 {
			key, err = newModifierKey()
			if err != nil {
				return nil, err
			}
		}
		switch cfg.Modifier.Mode {
		case ModifierCookie:
			engine.modifier = NewCookieModifier(cfg.Modifier.Cookie, cfg.JWT.TTL, key)
		case ModifierHeader:
			engine.modifier = NewHeaderModifier(cfg.Modifier.HeaderName, key)
		}
	}

	if cfg.Throttle.Enabled {
		engine.throttle = rate.New(b.redis, rate.Config{
			MaxInvalidAttempts: cfg.Throttle.MaxInvalidAttempts,
			Cooldown:           cfg.Throttle.Cooldown,
			Prefix:             cfg.Throttle.RedisPrefix,
		})
	}

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}
