package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "MONGO_URI", "DB_NAME", "TOKEN_EXPIRY_HOURS", "FAMILY_NAME", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "familygrove", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 720*time.Hour, cfg.TokenExpiry)
	assert.Equal(t, "Family Grove Connect", cfg.FamilyName)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "grove_test")
	t.Setenv("TOKEN_EXPIRY_HOURS", "24")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "grove_test", cfg.DBName)
	assert.Equal(t, 24*time.Hour, cfg.TokenExpiry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoadConfigRejectsBadExpiry(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TOKEN_EXPIRY_HOURS", "soon")

	cfg := LoadConfig()
	assert.Equal(t, 720*time.Hour, cfg.TokenExpiry)

	t.Setenv("TOKEN_EXPIRY_HOURS", "-5")
	cfg = LoadConfig()
	assert.Equal(t, 720*time.Hour, cfg.TokenExpiry)
}
