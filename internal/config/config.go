// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	customValidation "github.com/rahats/school/internal/validation"
)

const (
	// minSigningSecretLength mirrors the HS256 key size.
	minSigningSecretLength = 32
	// encryptionKeySize is the AES-256 key size of a plaintext ENCRYPTION_KEY.
	encryptionKeySize = 32
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// DBDriver is the database driver to use ("mysql" or "postgres").
	DBDriver string
	// DBConnectionString is the connection string for the database.
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// EncryptionKey is the base64 encoded 32-byte key for PII field encryption.
	// When KMSKeyURI is set it holds the KMS ciphertext of that key instead.
	EncryptionKey string
	// KMSProvider is the KMS provider used to unwrap EncryptionKey (e.g., "gcpkms", "localsecrets").
	KMSProvider string
	// KMSKeyURI is the URI of the KMS key used to unwrap EncryptionKey.
	KMSKeyURI string
	// IdentifierHashKey switches the identifier hasher to HMAC-SHA256 when not empty.
	IdentifierHashKey string

	// SessionSigningSecret is the HMAC secret used to sign session tokens.
	SessionSigningSecret string
	// SessionTTL is the lifetime of an issued session token.
	SessionTTL time.Duration
	// SessionRevocationEnabled enables the logout denylist lookup on every verification.
	SessionRevocationEnabled bool

	// LoginMaxAttempts is the number of login attempts allowed per identifier within LoginAttemptWindow.
	LoginMaxAttempts int
	// LoginAttemptWindow is the period over which LoginMaxAttempts are replenished.
	LoginAttemptWindow time.Duration

	// RateLimitLoginEnabled indicates whether per-IP rate limiting of the login endpoint is enabled.
	RateLimitLoginEnabled bool
	// RateLimitLoginRequestsPerSec is the number of login requests allowed per second per IP.
	RateLimitLoginRequestsPerSec float64
	// RateLimitLoginBurst is the burst size for login rate limiting.
	RateLimitLoginBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 3000),

		// Database configuration
		DBDriver: env.GetString("DB_DRIVER", "mysql"),
		DBConnectionString: env.GetString(
			"DB_CONNECTION_STRING",
			"user:password@tcp(localhost:3306)/school?parseTime=true",
		),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Field encryption and identifier hashing
		EncryptionKey:     env.GetString("ENCRYPTION_KEY", ""),
		KMSProvider:       env.GetString("KMS_PROVIDER", ""),
		KMSKeyURI:         env.GetString("KMS_KEY_URI", ""),
		IdentifierHashKey: env.GetString("IDENTIFIER_HASH_KEY", ""),

		// Sessions
		SessionSigningSecret:     env.GetString("SESSION_SIGNING_SECRET", ""),
		SessionTTL:               env.GetDuration("SESSION_TTL_HOURS", 720, time.Hour),
		SessionRevocationEnabled: env.GetBool("SESSION_REVOCATION_ENABLED", true),

		// Per-identifier login throttling
		LoginMaxAttempts:   env.GetInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginAttemptWindow: env.GetDuration("LOGIN_ATTEMPT_WINDOW_MINUTES", 15, time.Minute),

		// Rate limiting for the login endpoint (IP-based, unauthenticated)
		RateLimitLoginEnabled:        env.GetBool("RATE_LIMIT_LOGIN_ENABLED", true),
		RateLimitLoginRequestsPerSec: env.GetFloat64("RATE_LIMIT_LOGIN_REQUESTS_PER_SEC", 1.0),
		RateLimitLoginBurst:          env.GetInt("RATE_LIMIT_LOGIN_BURST", 5),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "school"),
		MetricsPort:      env.GetInt("METRICS_PORT", 3001),
	}
}

// Validate checks the settings the server refuses to start without. Secret values are
// never echoed in the returned error.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.ServerPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.DBDriver, validation.Required, validation.In("mysql", "postgres")),
		validation.Field(&c.DBConnectionString, validation.Required),
		validation.Field(&c.EncryptionKey,
			validation.Required,
			validation.When(c.KMSKeyURI == "", customValidation.Base64Key(encryptionKeySize)).
				Else(customValidation.Base64),
		),
		validation.Field(&c.KMSProvider, validation.When(c.KMSKeyURI != "", validation.Required)),
		validation.Field(&c.SessionSigningSecret,
			validation.Required,
			validation.Length(minSigningSecretLength, 0),
		),
		validation.Field(&c.SessionTTL, validation.Required, validation.Min(time.Minute)),
		validation.Field(&c.LoginMaxAttempts, validation.Min(0)),
	)
	return customValidation.WrapValidationError(err)
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
