package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the algorithm used for token signatures.
type SigningMethod string

const (
	// MethodHS256 signs with a shared symmetric secret. Default.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with an Ed25519 key pair.
	MethodEd25519 SigningMethod = "ed25519"
)

const generatedKeySize = 32

// Claims is the open identity payload carried inside a signed token.
// It is opaque to the Manager beyond being JSON-serializable; callers
// may not use registered JWT claim names as keys.
type Claims map[string]any

// Config holds the signing parameters for a [Manager]. Key material is
// read once at construction and never mutated afterward.
type Config struct {
	TTL           time.Duration
	NotBefore     time.Duration
	Leeway        time.Duration
	SigningMethod SigningMethod
	Key           []byte // hs256 shared secret
	PrivateKey    []byte // ed25519
	PublicKey     []byte // ed25519
	Issuer        string
	Audience      string
}

// Manager signs and verifies primary identity tokens. A Manager is
// immutable after construction and safe for concurrent use.
type Manager struct {
	config Config
	method jwt.SigningMethod
}

// NewManager validates cfg and returns a ready Manager.
//
// When the method is hs256 and no key is supplied, a random key is
// generated for the lifetime of this Manager. Tokens signed with a
// generated key cannot be verified after a process restart; supply
// persistent key material when that matters.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.NotBefore < 0 {
		return nil, errors.New("invalid NotBefore configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	if cfg.SigningMethod == "" {
		cfg.SigningMethod = MethodHS256
	}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.Key) == 0 {
			key := make([]byte, generatedKeySize)
			if _, err := rand.Read(key); err != nil {
				return nil, fmt.Errorf("generate signing key: %w", err)
			}
			cfg.Key = key
		}
	case MethodEd25519:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("ed25519 requires private key")
		}
		if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
			return nil, err
		}
		if len(cfg.PublicKey) == 0 {
			return nil, errors.New("ed25519 requires public key")
		}
		if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	m := &Manager{config: cfg}
	switch cfg.SigningMethod {
	case MethodHS256:
		m.method = jwt.SigningMethodHS256
	default:
		m.method = jwt.SigningMethodEdDSA
	}

	return m, nil
}

// TTL reports the lifetime applied to signed tokens.
func (m *Manager) TTL() time.Duration {
	return m.config.TTL
}

// Sign produces a signed token carrying claims plus the expiry,
// issued-at, and optional not-before enforced on verification. The
// caller payload is embedded as-is; it is never merged with claims
// from a previously issued token.
func (m *Manager) Sign(claims Claims) (string, error) {
	now := time.Now()

	mc := jwt.MapClaims{}
	for name, value := range claims {
		if isRegisteredClaim(name) {
			return "", fmt.Errorf("claim name %q is reserved", name)
		}
		mc[name] = value
	}

	mc["exp"] = jwt.NewNumericDate(now.Add(m.config.TTL))
	mc["iat"] = jwt.NewNumericDate(now)
	if m.config.NotBefore > 0 {
		mc["nbf"] = jwt.NewNumericDate(now.Add(m.config.NotBefore))
	}
	if m.config.Issuer != "" {
		mc["iss"] = m.config.Issuer
	}
	if m.config.Audience != "" {
		mc["aud"] = m.config.Audience
	}

	token := jwt.NewWithClaims(m.method, mc)

	key, err := m.signKey()
	if err != nil {
		return "", err
	}

	return token.SignedString(key)
}

// Verify checks the signature, algorithm, expiry, and not-before of a
// token and returns its caller payload with registered claims stripped,
// so a Sign/Verify round trip yields the original claims.
func (m *Manager) Verify(tokenStr string) (Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}
	if m.config.Audience != "" {
		options = append(options, jwt.WithAudience(m.config.Audience))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.method.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.verifyKey()
	})
	if err != nil {
		return nil, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	claims := Claims{}
	for name, value := range mc {
		if isRegisteredClaim(name) {
			continue
		}
		claims[name] = value
	}

	return claims, nil
}

func (m *Manager) signKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodHS256:
		return m.config.Key, nil
	default:
		return parseEdPrivateKey(m.config.PrivateKey)
	}
}

func (m *Manager) verifyKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodHS256:
		return m.config.Key, nil
	default:
		return parseEdPublicKey(m.config.PublicKey)
	}
}

func isRegisteredClaim(name string) bool {
	switch name {
	case "exp", "iat", "nbf", "iss", "aud", "jti":
		return true
	}
	return false
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
