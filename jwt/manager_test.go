package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
	"time"
)

func newTestManager(t *testing.T, mutate func(*Config)) *Manager {
	t.Helper()

	cfg := Config{
		TTL: time.Hour,
	}
	if mutate != nil {
		mutate(&cfg)
	}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestSignVerifyRoundTrip(t *testing.T) {
	m := newTestManager(t, nil)

	claims := Claims{"sub": "user-1", "plan": "pro"}

	token, err := m.Sign(claims)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	got, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if got["sub"] != "user-1" || got["plan"] != "pro" {
		t.Fatalf("round trip mismatch: %v", got)
	}
	if len(got) != len(claims) {
		t.Fatalf("expected registered claims stripped, got %v", got)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := newTestManager(t, func(c *Config) {
		c.TTL = time.Second
	})

	token, err := m.Sign(Claims{"sub": "a"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := m.Verify(token); err != nil {
		t.Fatalf("fresh token should verify: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)

	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyRejectsNotYetValidToken(t *testing.T) {
	m := newTestManager(t, func(c *Config) {
		c.NotBefore = time.Hour
	})

	token, err := m.Sign(Claims{"sub": "a"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected not-yet-valid token to be rejected")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := newTestManager(t, nil)

	token, err := m.Sign(Claims{"sub": "a"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	// Flip one byte of the signature segment.
	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	if _, err := m.Verify(string(tampered)); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	m := newTestManager(t, nil)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := m.Verify(token); err == nil {
			t.Fatalf("expected malformed token %q to be rejected", token)
		}
	}
}

func TestGeneratedKeysAreManagerScoped(t *testing.T) {
	first := newTestManager(t, nil)
	second := newTestManager(t, nil)

	token, err := first.Sign(Claims{"sub": "a"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := second.Verify(token); err == nil {
		t.Fatal("token signed with one generated key must not verify under another")
	}
}

func TestSharedKeyVerifiesAcrossManagers(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")

	first := newTestManager(t, func(c *Config) { c.Key = key })
	second := newTestManager(t, func(c *Config) { c.Key = key })

	token, err := first.Sign(Claims{"sub": "a"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := second.Verify(token); err != nil {
		t.Fatalf("shared key should verify: %v", err)
	}
}

func TestSignRejectsReservedClaimNames(t *testing.T) {
	m := newTestManager(t, nil)

	for _, name := range []string{"exp", "iat", "nbf", "iss", "aud", "jti"} {
		if _, err := m.Sign(Claims{name: "x"}); err == nil {
			t.Fatalf("expected reserved claim %q to be rejected", name)
		}
	}
}

func TestIssuerAndAudienceEnforced(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")

	issuing := newTestManager(t, func(c *Config) {
		c.Key = key
		c.Issuer = "tokengate-test"
		c.Audience = "api"
	})
	strict := newTestManager(t, func(c *Config) {
		c.Key = key
		c.Issuer = "someone-else"
	})

	token, err := issuing.Sign(Claims{"sub": "a"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if _, err := issuing.Verify(token); err != nil {
		t.Fatalf("issuing manager should verify its own token: %v", err)
	}
	if _, err := strict.Verify(token); err == nil {
		t.Fatal("expected issuer mismatch to be rejected")
	}
}

func TestEd25519RoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	m := newTestManager(t, func(c *Config) {
		c.SigningMethod = MethodEd25519
		c.PrivateKey = priv
		c.PublicKey = pub
	})

	token, err := m.Sign(Claims{"sub": "alice"})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	got, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if got["sub"] != "alice" {
		t.Fatalf("round trip mismatch: %v", got)
	}

	// HS256 manager must refuse the EdDSA token outright.
	hs := newTestManager(t, nil)
	if _, err := hs.Verify(token); err == nil {
		t.Fatal("expected algorithm mismatch to be rejected")
	}
}

func TestNewManagerValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero ttl",
			mutate:  func(c *Config) { c.TTL = 0 },
			wantErr: "TTL",
		},
		{
			name:    "negative not before",
			mutate:  func(c *Config) { c.NotBefore = -time.Second },
			wantErr: "NotBefore",
		},
		{
			name:    "excessive leeway",
			mutate:  func(c *Config) { c.Leeway = 3 * time.Minute },
			wantErr: "leeway",
		},
		{
			name:    "unknown method",
			mutate:  func(c *Config) { c.SigningMethod = "rs256" },
			wantErr: "unsupported",
		},
		{
			name:    "ed25519 without keys",
			mutate:  func(c *Config) { c.SigningMethod = MethodEd25519 },
			wantErr: "ed25519",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{TTL: time.Hour}
			tt.mutate(&cfg)

			_, err := NewManager(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}
