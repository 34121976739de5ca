package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("STORE_DRIVER", "buntdb")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, time.Hour, cfg.Window.Early)
	assert.Equal(t, 30*time.Minute, cfg.Window.Grace)
	assert.Equal(t, 2*time.Hour, cfg.Window.Late)
	assert.Equal(t, 30*time.Minute, cfg.Window.LateRetryInterval)
	assert.Equal(t, "buntdb", cfg.StoreOptions().Driver)
	assert.Empty(t, cfg.Identity.EmailDomains)
}

func TestLoad_IdentityEmailDomains(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("IDENTITY_EMAIL_DOMAINS", "campus.edu, staff.campus.edu")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"campus.edu", "staff.campus.edu"}, cfg.Identity.EmailDomains)
}

func TestLoad_WindowOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("CHECKIN_GRACE_WINDOW", "15m")
	t.Setenv("CHECKIN_LATE_WINDOW", "90m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.Window.Grace)
	assert.Equal(t, 90*time.Minute, cfg.Window.Late)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("CHECKIN_EARLY_WINDOW", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "CHECKIN_EARLY_WINDOW")
}

func validConfig() Config {
	return Config{
		App:       AppConfig{Timezone: "UTC"},
		JWT:       JWTConfig{Secret: "s", AccessExpiration: "1h"},
		Store:     StoreConfig{Driver: "buntdb"},
		Window:    WindowConfig{Early: time.Hour, Grace: 30 * time.Minute, Late: 2 * time.Hour, LateRetryInterval: 30 * time.Minute},
		RateLimit: RateLimitConfig{CheckInPerMinute: 10},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, "JWT_SECRET_KEY"},
		{"late shorter than grace", func(c *Config) { c.Window.Late = 10 * time.Minute }, "CHECKIN_LATE_WINDOW"},
		{"negative window", func(c *Config) { c.Window.Early = -time.Minute }, "negative"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "etcd" }, "STORE_DRIVER"},
		{"postgres without url", func(c *Config) { c.Store.Driver = "postgres" }, "DATABASE_URL"},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Olympus" }, "APP_TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
