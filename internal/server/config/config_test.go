package config

import (
	"errors"
	"testing"
	"time"
)

func validConfig() *Config {
	c := &Config{}
	c.LoadDefaults()
	c.SecretKey = "a-real-secret"
	return c
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestValidate_SecretKey(t *testing.T) {
	cases := []struct {
		name   string
		secret string
	}{
		{"empty", ""},
		{"sample config value", "secretKey"},
		{"shipped placeholder", "your-secret-key-change-in-production"},
		{"changeme", "changeme"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			c.SecretKey = tc.secret
			if err := c.Validate(); !errors.Is(err, ErrSecretKeyUnset) {
				t.Fatalf("expected ErrSecretKeyUnset for %q, got %v", tc.secret, err)
			}
		})
	}
}

func TestValidate_BadPolicyValues(t *testing.T) {
	c := validConfig()
	c.PasswordMinLength = 0
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for zero password min length")
	}

	c = validConfig()
	c.TokenValidityDuration = 0
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for zero token validity")
	}
}

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	if c.TokenValidityDuration != 7*24*time.Hour {
		t.Fatalf("unexpected default token validity: %s", c.TokenValidityDuration)
	}
	if c.PasswordMinLength != 6 {
		t.Fatalf("unexpected default password min length: %d", c.PasswordMinLength)
	}
	if c.SecretKey != "" {
		t.Fatalf("secret key must not have a default, got %q", c.SecretKey)
	}
}
