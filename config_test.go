package tokengate

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero ttl",
			mutate:  func(c *Config) { c.JWT.TTL = 0 },
			wantErr: "TTL",
		},
		{
			name:    "negative not before",
			mutate:  func(c *Config) { c.JWT.NotBefore = -time.Second },
			wantErr: "NotBefore",
		},
		{
			name:    "excessive leeway",
			mutate:  func(c *Config) { c.JWT.Leeway = 5 * time.Minute },
			wantErr: "Leeway",
		},
		{
			name:    "unknown signing method",
			mutate:  func(c *Config) { c.JWT.SigningMethod = "none" },
			wantErr: "signing method",
		},
		{
			name:    "cookie transport without name",
			mutate:  func(c *Config) { c.Transport.Cookie.Name = "  " },
			wantErr: "cookie name",
		},
		{
			name: "header transport without name",
			mutate: func(c *Config) {
				c.Transport.Mode = TransportHeader
				c.Transport.Header.Name = ""
			},
			wantErr: "header name",
		},
		{
			name:    "invalid transport mode",
			mutate:  func(c *Config) { c.Transport.Mode = TransportMode(99) },
			wantErr: "transport mode",
		},
		{
			name: "cookie modifier without name",
			mutate: func(c *Config) {
				c.Modifier.Mode = ModifierCookie
				c.Modifier.Cookie.Name = ""
			},
			wantErr: "cookie name",
		},
		{
			name: "header modifier without name",
			mutate: func(c *Config) {
				c.Modifier.Mode = ModifierHeader
				c.Modifier.HeaderName = ""
			},
			wantErr: "header name",
		},
		{
			name:    "invalid modifier mode",
			mutate:  func(c *Config) { c.Modifier.Mode = ModifierMode(99) },
			wantErr: "modifier mode",
		},
		{
			name: "throttle without budget",
			mutate: func(c *Config) {
				c.Throttle.Enabled = true
				c.Throttle.MaxInvalidAttempts = 0
			},
			wantErr: "MaxInvalidAttempts",
		},
		{
			name: "throttle without cooldown",
			mutate: func(c *Config) {
				c.Throttle.Enabled = true
				c.Throttle.Cooldown = 0
			},
			wantErr: "Cooldown",
		},
		{
			name: "negative audit buffer",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = -1
			},
			wantErr: "BufferSize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCloneConfigIsolatesKeyMaterial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JWT.Key = []byte("0123456789abcdef0123456789abcdef")
	cfg.Modifier.Key = []byte("fedcba9876543210fedcba9876543210")

	clone := cloneConfig(cfg)
	cfg.JWT.Key[0] = 'X'
	cfg.Modifier.Key[0] = 'X'

	if clone.JWT.Key[0] == 'X' || clone.Modifier.Key[0] == 'X' {
		t.Fatal("clone must not share key backing arrays")
	}
}
