package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, int64(24), cfg.JWTExpirationHours)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 5*time.Minute, cfg.OTPGraceTTL)
	assert.Equal(t, 10*time.Minute, cfg.ResetProofTTL)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_DevJWTSecretFlagged(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	cfg := Load()
	assert.True(t, cfg.JWTSecretIsDefault)
	assert.Equal(t, InsecureDevJWTSecret, cfg.JWTSecret)

	t.Setenv("JWT_SECRET_KEY", "real-secret")
	cfg = Load()
	assert.False(t, cfg.JWTSecretIsDefault)
	assert.Equal(t, "real-secret", cfg.JWTSecret)
}

func TestLoad_CORSAllowList(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://gpc-itarsi.example, https://admin.gpc-itarsi.example")

	cfg := Load()
	assert.Equal(t,
		[]string{"https://gpc-itarsi.example", "https://admin.gpc-itarsi.example"},
		cfg.CORS.AllowedOrigins)
}

func TestLoad_InvalidNumberFallsBack(t *testing.T) {
	t.Setenv("JWT_EXPIRATION_HOURS", "not-a-number")
	t.Setenv("OTP_TTL_MIN", "15")

	cfg := Load()
	assert.Equal(t, int64(24), cfg.JWTExpirationHours)
	assert.Equal(t, 15*time.Minute, cfg.OTPTTL)
}
