package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "5000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 5, cfg.RateLimitMax)
	assert.Equal(t, 30*time.Second, cfg.MailTimeout)
	assert.Equal(t, SMTPSecurityTLS, cfg.SMTPSecurity)
}

func TestLoadConfigProductionHidesErrors(t *testing.T) {
	t.Setenv("APP_ENV", "Production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.VerboseErrors)
}

func TestLoadConfigVerboseOverride(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("VERBOSE_ERRORS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.VerboseErrors)
}

func TestLoadConfigRecipientFallsBackToOwner(t *testing.T) {
	t.Setenv("OWNER_EMAIL", "me@example.com")
	t.Setenv("RECIPIENT_EMAIL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	// explicitly set but empty is respected
	assert.Equal(t, "", cfg.RecipientEmail)
	assert.Equal(t, "me@example.com", cfg.Owner.Email)
}

func TestWarnings(t *testing.T) {
	cfg := &Config{
		SMTPSecurity:    "ssl",
		RateLimitMax:    5,
		RateLimitWindow: time.Minute,
	}
	warnings := cfg.Warnings()
	assert.Len(t, warnings, 3)

	cfg = &Config{
		MailUser:        "me@example.com",
		MailCredential:  "secret",
		SMTPSecurity:    SMTPSecurityStartTLS,
		UpstashRedisURL: "rediss://cache.example.com:6379",
		RateLimitMax:    5,
		RateLimitWindow: time.Minute,
	}
	assert.Empty(t, cfg.Warnings())
}

func TestGetEnvIntInvalidFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "five")
	assert.Equal(t, 5, getEnvInt("RATE_LIMIT_MAX", 5))
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.1, ,192.168.0.0/16 ")
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, getEnvList("TRUSTED_PROXIES"))

	t.Setenv("TRUSTED_PROXIES", "")
	assert.Nil(t, getEnvList("TRUSTED_PROXIES"))
}
