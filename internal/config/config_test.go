package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("DB_ENGINE", "sqlite3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://agcbo.org,https://www.agcbo.org")

	cfg, err := ParseConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "/media", cfg.StoragePublicBaseURL)
	assert.Equal(t, []string{"https://agcbo.org", "https://www.agcbo.org"}, cfg.CORSOrigins)
	assert.Equal(t, 60, cfg.JWTAccessMinutes)
}

func TestCapabilities(t *testing.T) {
	cfg := Config{
		StorageType:         "s3",
		RedisURL:            "redis://localhost:6379/0",
		MpesaConsumerKey:    "key",
		MpesaConsumerSecret: "secret",
		EmailBackend:        "smtp",
	}

	caps := cfg.Capabilities()
	assert.True(t, caps.RemoteStorage)
	assert.True(t, caps.Redis)
	assert.False(t, caps.Mpesa, "shortcode missing")
	assert.False(t, caps.Email, "smtp host missing")
	assert.False(t, caps.Stripe)

	cfg.MpesaShortcode = "174379"
	cfg.EmailHost = "smtp.example.com"
	cfg.StorageType = "local"
	caps = cfg.Capabilities()
	assert.True(t, caps.Mpesa)
	assert.True(t, caps.Email)
	assert.False(t, caps.RemoteStorage)
}
