package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// InsecureDevJWTSecret is used when JWT_SECRET_KEY is not set. It exists so
// the service can start in development, and main logs a loud warning when it
// is in effect. Never deploy with it.
const InsecureDevJWTSecret = "dev-insecure-jwt-secret-key"

// Config holds all runtime configuration, loaded once at startup.
type Config struct {
	ServerPort string

	JWTSecret          string
	JWTSecretIsDefault bool
	JWTExpirationHours int64

	BcryptCost int

	OTPTTL        time.Duration // validity of a freshly issued reset OTP
	OTPGraceTTL   time.Duration // OTP validity extension after verify-otp
	ResetProofTTL time.Duration // validity of the reset-proof token

	CORS CORSConfig
	SMTP SMTPConfig

	// Optional admin bootstrap account created at startup if absent.
	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

// CORSConfig is the single allow-list for the CORS middleware.
type CORSConfig struct {
	AllowedOrigins []string // "*" allows any origin
	AllowedMethods string
	AllowedHeaders string
}

// SMTPConfig configures the outgoing mail transport. When Host is empty the
// service falls back to a log-only mailer (development mode).
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load reads configuration from environment variables, applying defaults
// where values are absent.
func Load() *Config {
	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		JWTExpirationHours: getEnvInt64("JWT_EXPIRATION_HOURS", 24),
		BcryptCost:         int(getEnvInt64("BCRYPT_COST", 10)),
		OTPTTL:             getEnvMinutes("OTP_TTL_MIN", 10),
		OTPGraceTTL:        getEnvMinutes("OTP_GRACE_TTL_MIN", 5),
		ResetProofTTL:      getEnvMinutes("RESET_PROOF_TTL_MIN", 10),
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET_KEY")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = InsecureDevJWTSecret
		cfg.JWTSecretIsDefault = true
	}

	origins := getEnv("CORS_ALLOWED_ORIGINS", "*")
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitAndTrim(origins),
		AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET, POST, PUT, DELETE, OPTIONS"),
		AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type, Content-Length, Accept, Origin, Authorization, X-Requested-With"),
	}

	cfg.SMTP = SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     int(getEnvInt64("SMTP_PORT", 587)),
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASS"),
		From:     getEnv("SMTP_FROM", "noreply@gpcitarsi.edu.in"),
	}

	cfg.AdminUsername = os.Getenv("ADMIN_USERNAME")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, defaulting to %d: %v", key, v, fallback, err)
		return fallback
	}
	return n
}

func getEnvMinutes(key string, fallbackMinutes int64) time.Duration {
	return time.Duration(getEnvInt64(key, fallbackMinutes)) * time.Minute
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
